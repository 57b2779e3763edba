package aura

import "errors"

// Op names a facade operation. Its text forms the user-facing failure message.
type Op string

const (
	OpFetchDashboard Op = "fetch dashboard data"
	OpFetchLogs      Op = "fetch logs"
	OpFetchStatus    Op = "fetch system status"
	OpTriggerUpdate  Op = "trigger manual update"
	OpClearLogs      Op = "clear logs"
	OpSetAPIKey      Op = "set API key"
	OpHealth         Op = "check backend health"
	OpStartCycle     Op = "start cycle"
	OpStopCycle      Op = "stop cycle"
	OpFetchThreshold Op = "fetch threshold"
	OpSetThreshold   Op = "update threshold"
	OpSimulate       Op = "simulate decision"
)

var (
	// ErrRejected matches errors where the backend refused the request with
	// its own reason rather than failing in transport.
	ErrRejected = errors.New("rejected by backend")

	// ErrEmptyKey is returned by SetAPIKey for blank keys without contacting
	// the backend.
	ErrEmptyKey = errors.New("api key is empty")
)

// Error is the single failure shape returned by every Client operation.
// Error() never exposes transport detail; Unwrap keeps it for diagnostics.
type Error struct {
	Op        Op
	RequestID string
	// Reason is the backend's own rejection text, set only for structured
	// rejections.
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Reason != "" {
		return "failed to " + string(e.Op) + ": " + e.Reason
	}
	return "failed to " + string(e.Op)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is ErrRejected for errors that carry a reason.
func (e *Error) Is(target error) bool {
	return target == ErrRejected && e != nil && e.Reason != ""
}

// Reason returns the backend rejection reason carried by err, if any.
func Reason(err error) (string, bool) {
	var ae *Error
	if errors.As(err, &ae) && ae.Reason != "" {
		return ae.Reason, true
	}
	return "", false
}
