// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package contest is the client core of Prompt Battle: the participant's
submission lock and the judge's review state.

# Session

A Session owns everything persisted on a participant device:

  - identity (promptbattle_user_name)
  - the global lock (promptbattle_locked_global = "true")
  - one cached result per round (promptbattle_result_image, promptbattle_result_text)
  - the device key sent as X-Device-Key (promptbattle_device_key)

	session := contest.OpenSession(ctx, store, logger)

The lock covers the whole contest, not a round: one accepted submission
in either round makes every round read-only. It is never reset.

# Submission Controller

	c := contest.NewSubmissionController(session, gateway, logger)
	c.EnterIdentity(ctx, "Ada")
	c.SelectRound(ctx, contest.RoundImage)
	res, err := c.Submit(ctx, contest.RoundImage, "a red fox")
	view := c.CurrentView() // AwaitingName, AwaitingSubmission, ShowingResult

At most one submission per device is accepted. Submit refuses without
touching the network when the device is locked (ErrLocked) or another
call is outstanding (ErrSubmitInFlight). Every request carries the device
key, so the backend answers a replay (for example after a reload while a
call was in flight) with the already accepted submission.

Results are a tagged union keyed by round: ImageResult or TextResult.

# Judge Review Controller

	j := contest.NewJudgeController(gateway, "0000", logger)
	j.Authorize(code)
	j.LoadSubmissions(ctx, contest.RoundText)
	j.SaveScore(ctx, id, "18")

Authorize is a fixed shared code compared on the client. It is not a
security boundary and must be replaced by real authorization before any
use outside a trusted event network.

# Errors

  - *ValidationError: empty name or prompt, unknown round, non-numeric score
  - *BackendRejectedError: the backend said no; Error() is its detail
  - *NetworkError: the backend could not be reached
  - ErrLocked, ErrSubmitInFlight, ErrIdentityLocked, ErrUnauthorized

Store failures are logged and treated as "no prior state".
*/
package contest
