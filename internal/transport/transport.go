package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/blacktop/xsend/internal/logutil"
	"github.com/blacktop/xsend/internal/message"
	"github.com/blacktop/xsend/internal/submission"
)

var (
	_ submission.Transport[message.TextPayload, message.TextMessage]   = (*Text)(nil)
	_ submission.Transport[message.ImagePayload, message.ImageMessage] = (*Image)(nil)
)

// Text sends text messages through a Publisher.
type Text struct {
	pub Publisher
}

func NewText(pub Publisher) *Text { return &Text{pub: pub} }

// Send publishes payload in the background and reports the outcome to done.
func (t *Text) Send(ctx context.Context, payload message.TextPayload, done func(message.TextMessage, error)) {
	go func() {
		receipt, err := publish(ctx, t.pub, Post{Text: payload.Text()})
		if err != nil {
			done(message.TextMessage{}, err)
			return
		}
		done(message.TextMessage{
			ID:      receipt.ID,
			Network: t.pub.Name(),
			URL:     receipt.URL,
			Text:    payload.Text(),
			SentAt:  receipt.At,
		}, nil)
	}()
}

// Image sends image messages through a Publisher.
type Image struct {
	pub Publisher
}

func NewImage(pub Publisher) *Image { return &Image{pub: pub} }

// Send publishes payload in the background and reports the outcome to done.
func (t *Image) Send(ctx context.Context, payload message.ImagePayload, done func(message.ImageMessage, error)) {
	go func() {
		img := payload.Image()
		receipt, err := publish(ctx, t.pub, Post{Text: payload.Text(), Image: &img})
		if err != nil {
			done(message.ImageMessage{}, err)
			return
		}
		done(message.ImageMessage{
			ID:      receipt.ID,
			Network: t.pub.Name(),
			URL:     receipt.URL,
			Text:    payload.Text(),
			Image:   img,
			SentAt:  receipt.At,
		}, nil)
	}()
}

func publish(ctx context.Context, pub Publisher, post Post) (Receipt, error) {
	log := logutil.With("network", pub.Name())
	log.Debug("publishing", "chars", message.Length(post.Text), "image", post.Image != nil)

	receipt, err := pub.Publish(ctx, post)
	if err != nil {
		log.Debug("publish failed", "err", err)
		return Receipt{}, fmt.Errorf("%s: %w", pub.Name(), err)
	}
	if receipt.At.IsZero() {
		receipt.At = time.Now().UTC()
	}

	log.Debug("published", "id", receipt.ID, "url", receipt.URL)
	return receipt, nil
}
