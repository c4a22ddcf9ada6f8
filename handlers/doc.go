// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Prompt Battle backend.

# Handler Types

Each handler is a struct with database and config dependencies:

  - SubmissionHandler: participant submissions for both rounds
  - ReviewHandler: judge listing and scoring

	submissions := handlers.NewSubmissionHandler(db, cfg, imageGen, textGen)
	review := handlers.NewReviewHandler(db)

# Submission Flow

	POST /submit-image → SubmitImage (generates and stores an image)
	POST /submit-text  → SubmitText  (generates and stores a text response)

Names need at least 2 characters and prompts at least 10 (after trimming);
violations answer 400 with a detail message. Generator failures answer 500
with "Image API Error: ..." or "Text API Error: ...".

A request carrying X-Device-Key is accepted at most once per key across
both rounds. Later requests from the same key, including concurrent ones
that lose the insert race, receive the already accepted submission with
status 200 instead of 201.

# Review Flow

	GET /image-submissions     → ListImage
	GET /text-submissions      → ListText
	PUT /score-image/{id}      → ScoreImage
	PUT /score-text/{id}       → ScoreText

Listings are newest first. Scores must be in 1..25.
*/
package handlers
