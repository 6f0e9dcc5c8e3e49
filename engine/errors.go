package engine

import "errors"

// Domain errors raised by the tournament engine. The HTTP layer maps these to
// user-facing responses; none of them is retryable.
var (
	ErrEmptyInput             = errors.New("cannot pick from an empty set")
	ErrInvalidStage           = errors.New("operation not allowed in the current tournament stage")
	ErrNoCandidates           = errors.New("no available participants to draw from")
	ErrNoPendingSelection     = errors.New("no pending participant to confirm")
	ErrPendingSelectionExists = errors.New("a pending participant must be confirmed first")
	ErrParticipantUnavailable = errors.New("participant is not available for selection")
	ErrUnsupportedGroupCount  = errors.New("unsupported group count")
	ErrNotEnoughTeams         = errors.New("not enough complete teams")
	ErrInvalidAssignments     = errors.New("invalid group assignments")
	ErrIncompleteFixtures     = errors.New("all group matches must be scored first")
	ErrInvalidScore           = errors.New("both scores must be non-negative numbers")
	ErrTiedScore              = errors.New("tied scores are not allowed")
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchNotReady          = errors.New("match does not have both teams assigned yet")
	ErrMatchAlreadyDecided    = errors.New("match already has a recorded winner")
)
