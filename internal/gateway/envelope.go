// Package gateway implements spec.md §4.J: the uniform (kind, domain,
// operation) dispatch matrix, the success/error response envelope, the
// exit-code taxonomy, and the native/cli/hybrid execution-mode
// capability matrix.
//
// Grounded on the deleted cmd/bd/close.go and its sibling command
// files for the JSON-vs-human dual output shape every teacher command
// already produces ad hoc (FatalErrorRespectJSON, per-command success
// payloads); the gateway formalizes that ad hoc pattern into one typed
// envelope every domain operation returns through, rather than each
// command hand-rolling its own.
package gateway

import (
	"errors"
	"time"

	"github.com/cleohq/cleo/internal/apperr"
	"github.com/cleohq/cleo/internal/atomicio"
)

// Kind distinguishes read-only dispatch from mutating dispatch
// (spec.md §4.J: "(kind in {query, mutate}, domain, operation)").
type Kind string

const (
	KindQuery  Kind = "query"
	KindMutate Kind = "mutate"
)

// Domain groups related operations (spec.md §4.J domain list).
type Domain string

const (
	DomainTasks       Domain = "tasks"
	DomainSessions    Domain = "sessions"
	DomainPhases      Domain = "phases"
	DomainSystem      Domain = "system"
	DomainValidate    Domain = "validate"
	DomainOrchestrate Domain = "orchestrate"
	DomainResearch    Domain = "research"
	DomainLifecycle   Domain = "lifecycle"
	DomainRelease     Domain = "release"
	DomainNexus       Domain = "nexus"
	DomainIssues      Domain = "issues"
)

// Mode is an operation's declared execution mode (spec.md §4.J:
// "execution mode in {native, cli, hybrid}").
type Mode string

const (
	ModeNative Mode = "native"
	ModeCLI    Mode = "cli"
	ModeHybrid Mode = "hybrid"
)

// Meta is the envelope's bookkeeping block (spec.md §4.J "_meta").
type Meta struct {
	Gateway    string `json:"gateway"`
	Domain     Domain `json:"domain"`
	Operation  string `json:"operation"`
	Version    string `json:"version"`
	Timestamp  string `json:"timestamp"`
	DurationMS int64  `json:"duration_ms"`
}

// EnvelopeError is the error half of the envelope (spec.md §4.J).
type EnvelopeError struct {
	Code         int                  `json:"code"`
	Name         string               `json:"name"`
	Message      string               `json:"message"`
	Fix          string               `json:"fix,omitempty"`
	Alternatives []apperr.Alternative `json:"alternatives,omitempty"`
}

// Envelope is the single response shape every gateway call returns
// (spec.md §4.J): exactly one of Data (on success) or Error is
// populated.
type Envelope struct {
	Success  bool           `json:"success"`
	Data     interface{}    `json:"data,omitempty"`
	Message  string         `json:"message,omitempty"`
	NoChange bool           `json:"noChange,omitempty"`
	Error    *EnvelopeError `json:"error,omitempty"`
	Meta     Meta           `json:"_meta"`
}

// GatewayVersion is the envelope's stable version tag.
const GatewayVersion = "1"

// Success builds a success envelope.
func Success(domain Domain, operation string, data interface{}, message string, noChange bool, started time.Time) Envelope {
	return Envelope{
		Success:  true,
		Data:     data,
		Message:  message,
		NoChange: noChange,
		Meta:     newMeta(domain, operation, started),
	}
}

// FromError builds an error envelope from any error, translating it
// through apperr.As when possible so the envelope carries the typed
// code/fix/alternatives; an *atomicio.LockFailedError surfaces as
// LOCK_FAILED (code 8), and any other error that isn't an
// *apperr.Error surfaces as a generic INVALID_OPERATION with code 2
// rather than dropping the message.
func FromError(domain Domain, operation string, err error, started time.Time) Envelope {
	appErr, ok := apperr.As(err)
	if !ok {
		var lockErr *atomicio.LockFailedError
		if errors.As(err, &lockErr) {
			appErr = apperr.Wrap(apperr.CodeLockFailed, err.Error(), err)
		} else {
			appErr = apperr.Wrap(apperr.CodeInvalidOperation, err.Error(), err)
		}
	}
	return Envelope{
		Success: false,
		Error: &EnvelopeError{
			Code:         appErr.ExitCode(),
			Name:         string(appErr.Code),
			Message:      appErr.Message,
			Fix:          appErr.Fix,
			Alternatives: appErr.Alternatives,
		},
		Meta: newMeta(domain, operation, started),
	}
}

// ExitCode reports the process exit code for this envelope: the
// error's mapped code on failure, apperr.ExitNoChange (100) when the
// call succeeded with NoChange set, else 0. Empty data alone does not
// change the code; ExitNoData and ExitAlreadyAsRequested are never
// returned here.
func (e Envelope) ExitCode() int {
	if !e.Success {
		if e.Error != nil {
			return e.Error.Code
		}
		return 1
	}
	if e.NoChange {
		return apperr.ExitNoChange
	}
	return 0
}

func newMeta(domain Domain, operation string, started time.Time) Meta {
	return Meta{
		Gateway:    "cleo",
		Domain:     domain,
		Operation:  operation,
		Version:    GatewayVersion,
		Timestamp:  started.UTC().Format("2006-01-02T15:04:05Z"),
		DurationMS: time.Since(started).Milliseconds(),
	}
}
