package services

import "errors"

// Shared errors surfaced by the engine services and mapped to HTTP by handlers.
// "Not yet decided" conditions are expected states, not faults: they are
// surfaced as explicit errors to the caller and never retried.
var (
	// Resource lookups
	ErrMatchNotFound = errors.New("match not found")
	ErrGameNotFound  = errors.New("game not found")
	ErrRoundNotFound = errors.New("round not found")
	ErrStopNotFound  = errors.New("stop not found")

	// Resolution states
	ErrNoGamesRecorded = errors.New("match has no games recorded")
	ErrGamesIncomplete = errors.New("not all required games are finished")
	ErrAmbiguousWinner = errors.New("match is tied and no tiebreaker resolution exists")

	// Completion contract
	ErrMatchAlreadyCompleted = errors.New("match already has a winner")

	// Admin tiebreaker decisions
	ErrTiebreakerDecisionInvalid = errors.New("tiebreaker decision is not applicable in the match's current state")

	// Games that already concluded a match must not change
	ErrGameLocked = errors.New("game belongs to a completed match")

	// Bracket generation
	ErrBracketKindUnsupported = errors.New("unsupported bracket kind")
	ErrBracketAlreadyExists   = errors.New("stop already has a bracket")
)
