package model

// GateName identifies one of the six fixed verification gates
// (spec.md §4.H). Order is significant: it is the downstream-invalidation
// order (setting gate G nulls every gate after it in GateOrder).
type GateName string

const (
	GateImplemented    GateName = "implemented"
	GateTestsPassed    GateName = "testsPassed"
	GateQAPassed       GateName = "qaPassed"
	GateSecurityPassed GateName = "securityPassed"
	GateDocumented     GateName = "documented"
	GateReserved       GateName = "reserved"
)

// GateOrder is the fixed gate sequence (spec.md §4.H: "Gate order is
// fixed").
var GateOrder = []GateName{
	GateImplemented,
	GateTestsPassed,
	GateQAPassed,
	GateSecurityPassed,
	GateDocumented,
	GateReserved,
}

// RequiredGates is the default required-gate list: every gate except
// the reserved one (spec.md §4.H: "A required-gate list (default: all
// except the reserved) determines overall passed").
func RequiredGates() []GateName {
	out := make([]GateName, 0, len(GateOrder)-1)
	for _, g := range GateOrder {
		if g != GateReserved {
			out = append(out, g)
		}
	}
	return out
}

// MaxRounds bounds the retry counter before verification fails
// outright (spec.md §4.H: "capped at MAX (default 5)").
const MaxRounds = 5

// SystemAgent is exempt from circular-approval prevention (spec.md
// §4.H: "System agents (user) are exempt").
const SystemAgent = "user"

// FailureLogEntry records one exceeded-round failure.
type FailureLogEntry struct {
	Timestamp string   `json:"timestamp"`
	Gate      GateName `json:"gate"`
	Reason    string   `json:"reason"`
}

// Verification is a task's six-gate verification record (spec.md §3, §4.H).
type Verification struct {
	Passed bool               `json:"passed"`
	Round  int                `json:"round"`
	Gates  map[GateName]*bool `json:"gates"`
	// GateAgents records which agent most recently set each gate, used
	// by circular-approval prevention to check a gate's setter against
	// downstream gates' setters (spec.md §4.H).
	GateAgents  map[GateName]*string `json:"gateAgents,omitempty"`
	LastAgent   *string              `json:"lastAgent,omitempty"`
	LastUpdated string               `json:"lastUpdated,omitempty"`
	FailureLog  []FailureLogEntry    `json:"failureLog,omitempty"`
}

// NewVerification returns a zero-value verification record with every
// gate unset.
func NewVerification() Verification {
	gates := make(map[GateName]*bool, len(GateOrder))
	agents := make(map[GateName]*string, len(GateOrder))
	for _, g := range GateOrder {
		gates[g] = nil
		agents[g] = nil
	}
	return Verification{Gates: gates, GateAgents: agents}
}

// IndexOf returns g's position in GateOrder, or -1 if g is unknown.
func IndexOf(g GateName) int {
	for i, candidate := range GateOrder {
		if candidate == g {
			return i
		}
	}
	return -1
}

// Recompute sets Passed from the current gate state against
// RequiredGates: passed iff every required gate is exactly true.
func (v *Verification) Recompute() {
	for _, g := range RequiredGates() {
		val := v.Gates[g]
		if val == nil || !*val {
			v.Passed = false
			return
		}
	}
	v.Passed = true
}
