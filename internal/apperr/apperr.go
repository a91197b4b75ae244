// Package apperr defines CLEO's typed error kinds and the fixed
// exit-code taxonomy the gateway (component J) maps them to
// (spec.md §4.J, §7). The teacher has no centralized error-kind
// package of its own — each cmd/bd command calls os.Exit with a
// literal code inline — but the gateway's uniform envelope is an
// explicit, non-negotiable contract here, so this package exists to
// give every layer below the gateway a single typed error to return
// instead of ad hoc exit codes scattered across commands.
package apperr

import "fmt"

// Code is one of CLEO's SCREAMING_SNAKE error names.
type Code string

const (
	CodeInvalidInput          Code = "INVALID_INPUT"
	CodeValidationError       Code = "VALIDATION_ERROR"
	CodeNotFound              Code = "NOT_FOUND"
	CodeAlreadyExists         Code = "ALREADY_EXISTS"
	CodeFileError             Code = "FILE_ERROR"
	CodeLockFailed            Code = "LOCK_FAILED"
	CodeCLIRequired           Code = "CLI_REQUIRED"
	CodeInvalidOperation      Code = "INVALID_OPERATION"
	CodeRollbackRequiresForce Code = "PHASE_ROLLBACK_REQUIRES_FORCE"
	CodeContextOK             Code = "CONTEXT_OK"
	CodeContextWarning        Code = "CONTEXT_WARNING"
	CodeContextCaution        Code = "CONTEXT_CAUTION"
	CodeContextCritical       Code = "CONTEXT_CRITICAL"
	CodeContextEmergency      Code = "CONTEXT_EMERGENCY"
	CodeContextStale          Code = "CONTEXT_STALE"
)

// exitCodes is the stable (code -> process exit code) mapping
// (spec.md §4.J: "1-99 = errors, partitioned ... 50-54 = context
// thresholds"). This map is the single source of truth; Error.ExitCode
// reads it so the contract can't drift between two copies.
var exitCodes = map[Code]int{
	CodeInvalidInput:          1,
	CodeInvalidOperation:      2,
	CodeNotFound:              4,
	CodeAlreadyExists:         5,
	CodeValidationError:       6,
	CodeFileError:             7,
	CodeLockFailed:            8,
	CodeCLIRequired:           9,
	CodeRollbackRequiresForce: 10,
	CodeContextOK:             0,
	CodeContextWarning:        50,
	CodeContextCaution:        51,
	CodeContextCritical:       52,
	CodeContextEmergency:      53,
	CodeContextStale:          54,
}

// Success exit-code variants (spec.md §4.J "100+ = non-error success
// variants").
const (
	ExitNoChange           = 100
	ExitNoData             = 101
	ExitAlreadyAsRequested = 102
)

// Alternative is one suggested remedy command in an error envelope.
type Alternative struct {
	Action  string `json:"action"`
	Command string `json:"command"`
}

// Error is CLEO's typed error: a stable code/name pair, a message, and
// an optional remedy. Every mutation-core and gateway failure is one
// of these; plain errors from lower layers (os, encoding/json) are
// wrapped into one before crossing the gateway boundary.
type Error struct {
	Code         Code
	Message      string
	Fix          string
	Alternatives []Alternative
	Cause        error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// ExitCode returns the process exit code this error maps to.
func (e *Error) ExitCode() int {
	return ExitCodeFor(e.Code)
}

// ExitCodeFor looks up a bare Code's process exit code, for callers
// (like the context-threshold evaluator) that need the mapping without
// constructing an Error.
func ExitCodeFor(code Code) int {
	if n, ok := exitCodes[code]; ok {
		return n
	}
	return 1
}

// New builds an *Error with no cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap builds an *Error carrying cause as its wrapped error.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// WithFix returns a copy of e with Fix set, for fluent construction.
func (e *Error) WithFix(fix string) *Error {
	cp := *e
	cp.Fix = fix
	return &cp
}

// WithAlternatives returns a copy of e with Alternatives set.
func (e *Error) WithAlternatives(alts ...Alternative) *Error {
	cp := *e
	cp.Alternatives = alts
	return &cp
}

// As reports whether err (or something it wraps) is an *Error, and
// returns it. Thin wrapper so callers don't need to import errors
// just to type-assert through a wrap chain.
func As(err error) (*Error, bool) {
	for err != nil {
		if ae, ok := err.(*Error); ok {
			return ae, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}
