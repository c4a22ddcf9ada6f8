// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Prompt Battle backend.

# Route Registration

NewRouter returns the mux wrapped in the Recover and CORS middleware:

	handler := router.NewRouter(db, cfg, router.Generators{Image: img, Text: txt})

# Endpoints

Health and root:

	GET /health  - "OK"
	GET /        - {"message": "Prompt Battle API is running"}

Participant submissions (optional X-Device-Key header):

	POST /submit-image
	POST /submit-text

Judge review:

	GET /image-submissions
	GET /text-submissions
	PUT /score-image/{id}
	PUT /score-text/{id}

Static files:

	GET /images/{file} - generated images from cfg.ImagesDir
*/
package router
