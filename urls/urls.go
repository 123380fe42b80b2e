// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package urls

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

var (
	ErrNotFound         = errors.New("no route matches path")
	ErrNoReverseMatch   = errors.New("no reverse match")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

type segment struct {
	literal string
	param   string
	isInt   bool
}

func (s segment) matches(part string) bool {
	if s.param == "" {
		return s.literal == part
	}
	if part == "" {
		return false
	}
	if s.isInt {
		for i := 0; i < len(part); i++ {
			if part[i] < '0' || part[i] > '9' {
				return false
			}
		}
	}
	return true
}

// Route binds a pattern relative to the resolver prefix to a handler.
type Route struct {
	Name    string
	Pattern string
	Methods []string
	handler http.HandlerFunc
	segs    []segment
}

func (rt *Route) allows(method string) bool {
	if len(rt.Methods) == 0 {
		return true
	}
	for _, m := range rt.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// match returns the captures of rel, or false if the route does not match
func (rt *Route) match(rel string) (map[string]string, bool) {
	parts := strings.Split(rel, "/")
	if len(parts) != len(rt.segs) {
		return nil, false
	}

	var params map[string]string
	for i, seg := range rt.segs {
		if !seg.matches(parts[i]) {
			return nil, false
		}
		if seg.param != "" {
			if params == nil {
				params = make(map[string]string)
			}
			params[seg.param] = parts[i]
		}
	}
	return params, true
}

func compile(pattern string) ([]segment, error) {
	parts := strings.Split(strings.TrimPrefix(pattern, "/"), "/")
	segs := make([]segment, 0, len(parts))
	seen := make(map[string]bool)

	for _, part := range parts {
		if !strings.HasPrefix(part, "{") {
			if strings.ContainsAny(part, "{}") {
				return nil, fmt.Errorf("malformed segment %q in %q", part, pattern)
			}
			segs = append(segs, segment{literal: part})
			continue
		}
		if !strings.HasSuffix(part, "}") {
			return nil, fmt.Errorf("unterminated capture %q in %q", part, pattern)
		}

		name, conv, _ := strings.Cut(part[1:len(part)-1], ":")
		if name == "" {
			return nil, fmt.Errorf("empty capture name in %q", pattern)
		}
		if conv != "" && conv != "int" && conv != "str" {
			return nil, fmt.Errorf("unknown converter %q in %q", conv, pattern)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate capture %q in %q", name, pattern)
		}
		seen[name] = true
		segs = append(segs, segment{param: name, isInt: conv == "int"})
	}
	return segs, nil
}

// Resolver maps paths under a prefix to handlers. Routes are tried in
// registration order and the first whose pattern matches wins.
type Resolver struct {
	prefix    string
	namespace string
	routes    []*Route
	names     map[string]*Route

	// AppendSlash redirects GET and HEAD requests for a path missing its
	// trailing slash when the slashed path would match.
	AppendSlash bool
}

func New(prefix, namespace string) *Resolver {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Resolver{
		prefix:      prefix,
		namespace:   namespace,
		names:       make(map[string]*Route),
		AppendSlash: true,
	}
}

func (rs *Resolver) Prefix() string {
	return rs.prefix
}

// Handle registers a route. Pattern syntax is literal segments and
// {name} or {name:int} captures, e.g. "{question_id:int}/results/".
// An empty method list accepts any method. It panics on a malformed
// pattern or a duplicate name, both of which are programming errors.
func (rs *Resolver) Handle(pattern, name string, handler http.HandlerFunc, methods ...string) {
	segs, err := compile(pattern)
	if err != nil {
		panic("urls: " + err.Error())
	}
	if name != "" {
		if _, dup := rs.names[name]; dup {
			panic(fmt.Sprintf("urls: duplicate route name %q", name))
		}
	}

	rt := &Route{
		Name:    name,
		Pattern: pattern,
		Methods: methods,
		handler: handler,
		segs:    segs,
	}
	rs.routes = append(rs.routes, rt)
	if name != "" {
		rs.names[name] = rt
	}
}

// Resolve finds the first route matching path and its captures.
func (rs *Resolver) Resolve(path string) (*Route, map[string]string, error) {
	rel, ok := strings.CutPrefix(path, rs.prefix)
	if !ok {
		return nil, nil, ErrNotFound
	}

	for _, rt := range rs.routes {
		if params, ok := rt.match(rel); ok {
			return rt, params, nil
		}
	}
	return nil, nil, ErrNotFound
}

// Reverse builds the path of a named route. The name may be qualified with
// the namespace ("polls:detail"). Arguments fill captures in order.
func (rs *Resolver) Reverse(name string, args ...any) (string, error) {
	if ns, local, ok := strings.Cut(name, ":"); ok {
		if ns != rs.namespace {
			return "", fmt.Errorf("%w: unknown namespace %q", ErrNoReverseMatch, ns)
		}
		name = local
	}

	rt, ok := rs.names[name]
	if !ok {
		return "", fmt.Errorf("%w: unknown route %q", ErrNoReverseMatch, name)
	}

	parts := make([]string, len(rt.segs))
	next := 0
	for i, seg := range rt.segs {
		if seg.param == "" {
			parts[i] = seg.literal
			continue
		}
		if next >= len(args) {
			return "", fmt.Errorf("%w: %q needs argument %q", ErrNoReverseMatch, name, seg.param)
		}
		value := fmt.Sprint(args[next])
		next++
		if !seg.matches(value) || strings.Contains(value, "/") {
			return "", fmt.Errorf("%w: %q is not a valid %q", ErrNoReverseMatch, value, seg.param)
		}
		parts[i] = value
	}
	if next != len(args) {
		return "", fmt.Errorf("%w: %q takes %d arguments, got %d", ErrNoReverseMatch, name, next, len(args))
	}

	return rs.prefix + strings.Join(parts, "/"), nil
}

// MustReverse is Reverse for names and arguments known to be valid
func (rs *Resolver) MustReverse(name string, args ...any) string {
	path, err := rs.Reverse(name, args...)
	if err != nil {
		panic(err)
	}
	return path
}

func (rs *Resolver) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt, params, err := rs.Resolve(r.URL.Path)
	if errors.Is(err, ErrNotFound) {
		if rs.redirectSlash(w, r) {
			return
		}
		slog.Debug("no route", "path", r.URL.Path)
		http.NotFound(w, r)
		return
	}

	if !rt.allows(r.Method) {
		w.Header().Set("Allow", strings.Join(rt.Methods, ", "))
		http.Error(w, ErrMethodNotAllowed.Error(), http.StatusMethodNotAllowed)
		return
	}

	for k, v := range params {
		r.SetPathValue(k, v)
	}
	rt.handler(w, r)
}

func (rs *Resolver) redirectSlash(w http.ResponseWriter, r *http.Request) bool {
	if !rs.AppendSlash || strings.HasSuffix(r.URL.Path, "/") {
		return false
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	if _, _, err := rs.Resolve(r.URL.Path + "/"); err != nil {
		return false
	}

	target := r.URL.Path + "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
	return true
}

// PathInt parses an int capture set by the resolver
func PathInt(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}
