//go:generate go run go.uber.org/mock/mockgen -source=publisher.go -destination=../../mocks/mock_publisher.go -package=mocks

package transport

import (
	"context"
	"time"

	"github.com/blacktop/xsend/internal/message"
)

// Post is what a Publisher puts on its network.
type Post struct {
	Text  string
	Image *message.ImageRef
}

// Receipt identifies a published post.
type Receipt struct {
	ID  string
	URL string
	At  time.Time
}

// Publisher abstracts a network that can publish a single post.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, post Post) (Receipt, error)
}
