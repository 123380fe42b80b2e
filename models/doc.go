// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the data records shared by the store, handlers and
templates.

# Domain Types

  - Question: question text and publication date
  - Choice: an answer to one question with its vote counter

A question is published once its PubDate is at or before the current time.
Unpublished questions never show up on the index or detail pages.

# Page Types

  - IndexPage: latest published questions
  - QuestionPage: one question with its choices, used by the detail and
    results pages; ErrorMessage is set when a vote is rejected

These are plain records. Persistence lives in package store.
*/
package models
