package submission

import "errors"

// ErrSubmissionInFlight is returned when the draft is changed or sent again
// while a send is still in progress.
var ErrSubmissionInFlight = errors.New("submission already in flight")
