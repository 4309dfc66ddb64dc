package codenames

import (
	"errors"
	"fmt"
)

// ErrGameNotFound is returned by a DB that has no game with the given ID.
var ErrGameNotFound = errors.New("codenames: game not found")

// ErrorKind is the machine-readable reason an operation on a game was
// rejected. Every kind is recoverable, the game is left untouched.
type ErrorKind string

const (
	InsufficientWords   = ErrorKind("INSUFFICIENT_WORDS")
	InsufficientPlayers = ErrorKind("INSUFFICIENT_PLAYERS")
	GameAlreadyStarted  = ErrorKind("GAME_ALREADY_STARTED")
	WrongPhase          = ErrorKind("WRONG_PHASE")
	NotOnTeam           = ErrorKind("NOT_ON_TEAM")
	UnknownTeam         = ErrorKind("UNKNOWN_TEAM")
	AlreadyPicked       = ErrorKind("ALREADY_PICKED")
	InvalidNumber       = ErrorKind("INVALID_NUMBER")
	InvalidClue         = ErrorKind("INVALID_CLUE")
	UnknownWord         = ErrorKind("UNKNOWN_WORD")
	AlreadyRevealed     = ErrorKind("ALREADY_REVEALED")
	MustGuessOnce       = ErrorKind("MUST_GUESS_ONCE")
	NotYourTurn         = ErrorKind("NOT_YOUR_TURN")
	WrongRole           = ErrorKind("WRONG_ROLE")
)

// Error is a rejected game operation.
type Error struct {
	Kind ErrorKind
	// Message is meant for humans, it can be shown to players as-is.
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Kind, so errors.Is(err, codenames.ErrWrongPhase) works
// regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewError returns an *Error of the given kind with a formatted message.
func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError is like NewError, but records an underlying cause.
func WrapError(kind ErrorKind, cause error, format string, args ...interface{}) *Error {
	e := NewError(kind, format, args...)
	e.Cause = cause
	return e
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there
// isn't one.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Sentinels to compare against with errors.Is.
var (
	ErrInsufficientWords   = &Error{Kind: InsufficientWords}
	ErrInsufficientPlayers = &Error{Kind: InsufficientPlayers}
	ErrGameAlreadyStarted  = &Error{Kind: GameAlreadyStarted}
	ErrWrongPhase          = &Error{Kind: WrongPhase}
	ErrNotOnTeam           = &Error{Kind: NotOnTeam}
	ErrUnknownTeam         = &Error{Kind: UnknownTeam}
	ErrAlreadyPicked       = &Error{Kind: AlreadyPicked}
	ErrInvalidNumber       = &Error{Kind: InvalidNumber}
	ErrInvalidClue         = &Error{Kind: InvalidClue}
	ErrUnknownWord         = &Error{Kind: UnknownWord}
	ErrAlreadyRevealed     = &Error{Kind: AlreadyRevealed}
	ErrMustGuessOnce       = &Error{Kind: MustGuessOnce}
	ErrNotYourTurn         = &Error{Kind: NotYourTurn}
	ErrWrongRole           = &Error{Kind: WrongRole}
)
