// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package gateway is the HTTP client for the Prompt Battle backend.

	client := gateway.New(gateway.BaseURL("192.168.1.20"), nil, logger)

BaseURL always targets port 8000. Client satisfies contest.Submitter and
contest.Reviewer:

	POST /submit-image, /submit-text   (X-Device-Key header)
	GET  /image-submissions, /text-submissions
	PUT  /score-image/{id}, /score-text/{id}

# Errors

  - transport failure or an unreadable 2xx body: *contest.NetworkError
  - non-2xx status: *contest.BackendRejectedError with the body's detail
  - 2xx carrying a detail field: *contest.BackendRejectedError
*/
package gateway
