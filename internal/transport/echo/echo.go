// Package echo is a loopback network: posts are acknowledged locally and
// never leave the process.
package echo

import (
	"context"
	"time"

	"github.com/blacktop/xsend/internal/transport"
	"github.com/google/uuid"
)

const providerName = "echo"

// Config tunes the loopback behaviour.
type Config struct {
	// Delay simulates network latency before the post is acknowledged.
	Delay time.Duration
	// Fail, when set, is returned instead of a receipt.
	Fail error
}

// Publisher acknowledges posts without sending them anywhere.
type Publisher struct {
	cfg Config
}

func New(cfg Config) *Publisher { return &Publisher{cfg: cfg} }

// Name identifies the provider.
func (p *Publisher) Name() string { return providerName }

// Publish waits for the configured delay and returns a fresh receipt.
func (p *Publisher) Publish(ctx context.Context, post transport.Post) (transport.Receipt, error) {
	if p.cfg.Delay > 0 {
		timer := time.NewTimer(p.cfg.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return transport.Receipt{}, ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return transport.Receipt{}, err
	}
	if p.cfg.Fail != nil {
		return transport.Receipt{}, p.cfg.Fail
	}

	id := uuid.NewString()
	return transport.Receipt{
		ID:  id,
		URL: "echo://" + id,
		At:  time.Now().UTC(),
	}, nil
}
