package pubsub

// State tracks where an endpoint is in its CREATED -> OPEN -> CLOSED
// progression. Transitions are one-way; a closed endpoint never reopens.
type State int

const (
	// StateCreated means the endpoint exists but holds no transport
	// resources yet.
	StateCreated State = iota

	// StateOpen means the transport connection is live.
	StateOpen

	// StateClosed means the endpoint released its resources. Terminal.
	StateClosed
)

// String returns a human-readable state name for logs and errors.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
