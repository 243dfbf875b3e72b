package submission

import (
	"fmt"

	"github.com/blacktop/xsend/internal/message"
)

// State is the lifecycle position of a submission. It is exactly one of
// Invalid, Ready, Sending, Sent or ConnectionFailed.
type State interface {
	fmt.Stringer
	isState()
}

// Invalid means the current draft was rejected by the validator.
type Invalid struct {
	Reason error
}

// Ready means the current draft is valid and nothing is in flight.
type Ready struct{}

// Sending means a transport call is in flight.
type Sending struct{}

// Sent means the transport delivered the message.
type Sent struct {
	Response message.Message
}

// ConnectionFailed means the transport gave up on the last attempt.
type ConnectionFailed struct {
	Err error
}

func (Invalid) isState()          {}
func (Ready) isState()            {}
func (Sending) isState()          {}
func (Sent) isState()             {}
func (ConnectionFailed) isState() {}

func (s Invalid) String() string { return "invalid: " + s.Reason.Error() }
func (Ready) String() string     { return "ready" }
func (Sending) String() string   { return "sending" }

func (s Sent) String() string {
	if s.Response == nil {
		return "sent"
	}
	return "sent " + s.Response.Kind().String() + " message"
}

func (s ConnectionFailed) String() string {
	if s.Err == nil {
		return "connection failed"
	}
	return "connection failed: " + s.Err.Error()
}

// Terminal reports whether s ends a send attempt.
func Terminal(s State) bool {
	switch s.(type) {
	case Sent, ConnectionFailed:
		return true
	default:
		return false
	}
}
