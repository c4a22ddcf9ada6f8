// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the JSON wire types shared by the backend and the
participant/judge client.

# Request Types

  - SubmitRequest: name, prompt
  - ScoreRequest: score

# Response Types

  - SubmitResponse: id, round, name, prompt, image_path | response
  - ScoreResponse: status
  - RootResponse: message
  - ErrorResponse: error, detail

# Domain Types

  - Submission: one stored entry of either round, with optional score

Image submissions carry image_path, text submissions carry response.
IDs are strings on the wire; ID also decodes numeric values.

# Constants

Rounds:

	RoundImage = "image"
	RoundText  = "text"

Score range (enforced by the backend only):

	MinScore = 1
	MaxScore = 25

The participant's device key travels in the X-Device-Key header.
*/
package models
