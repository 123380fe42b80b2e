// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: "sqlite" (default) or "postgres"
  - DatabaseURL: Connection string (default polls.db for sqlite, required for postgres)
  - Prefix: Mount point of the polls app (default: /polls/)
  - CSRFSecret: Secret for CSRF token HMAC (required)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-prefix       Mount point
	-csrf-secret  CSRF secret

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	POLLS_PREFIX  → -prefix
	CSRF_SECRET   → -csrf-secret

CLI flags take precedence over environment variables. LoadDotEnv can seed
the environment from a .env file before parsing; it never overrides
variables that are already set.

# Example

	// In main.go
	_ = cliparse.LoadDotEnv(".env")
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
*/
package cliparse
