//go:generate go run go.uber.org/mock/mockgen -source=strategy.go -destination=../../mocks/mock_transport.go -package=mocks
package submission

import (
	"context"

	"github.com/blacktop/xsend/internal/message"
)

// Transport delivers a validated payload. Implementations call done exactly
// once, from another goroutine, with either a response or a non-nil error.
type Transport[P any, R message.Message] interface {
	Send(ctx context.Context, payload P, done func(R, error))
}

// Strategy binds a message kind to its validator and transport. Only
// TextStrategy and ImageStrategy produce usable values, so there is no way
// to build a sender for official messages.
type Strategy[P any, R message.Message] struct {
	kind      message.Kind
	validate  func(message.Draft) (P, error)
	transport Transport[P, R]
}

// Kind returns the message kind the strategy sends.
func (s Strategy[P, R]) Kind() message.Kind { return s.kind }

// TextStrategy sends text messages through t.
func TextStrategy(t Transport[message.TextPayload, message.TextMessage]) Strategy[message.TextPayload, message.TextMessage] {
	return Strategy[message.TextPayload, message.TextMessage]{
		kind:      message.Text,
		validate:  message.ValidateText,
		transport: t,
	}
}

// ImageStrategy sends image messages through t.
func ImageStrategy(t Transport[message.ImagePayload, message.ImageMessage]) Strategy[message.ImagePayload, message.ImageMessage] {
	return Strategy[message.ImagePayload, message.ImageMessage]{
		kind:      message.Image,
		validate:  message.ValidateImage,
		transport: t,
	}
}
