package mastodon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/blacktop/xsend/internal/logutil"
	"github.com/blacktop/xsend/internal/message"
	"github.com/blacktop/xsend/internal/transport"
	mastodonapi "github.com/mattn/go-mastodon"
)

const (
	providerName   = "mastodon"
	requestTimeout = 30 * time.Second
)

// Config contains the settings needed to reach a Mastodon server.
type Config struct {
	Server       string `envconfig:"SERVER" validate:"required,url"`
	AccessToken  string `envconfig:"ACCESS_TOKEN" validate:"required"`
	ClientID     string `envconfig:"CLIENT_ID"`
	ClientSecret string `envconfig:"CLIENT_SECRET"`
}

// LoadConfig reads XSEND_MASTODON_* variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := transport.LoadEnv(providerName, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Client publishes statuses to a Mastodon server.
type Client struct {
	client *mastodonapi.Client
}

// New constructs a Mastodon publisher.
func New(cfg Config) *Client {
	mastodonClient := mastodonapi.NewClient(&mastodonapi.Config{
		Server:       cfg.Server,
		AccessToken:  cfg.AccessToken,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
	})
	mastodonClient.Timeout = requestTimeout

	return &Client{client: mastodonClient}
}

// Name identifies the provider.
func (c *Client) Name() string { return providerName }

// Publish posts a new status, uploading the image first when there is one.
func (c *Client) Publish(ctx context.Context, post transport.Post) (transport.Receipt, error) {
	var mediaIDs []mastodonapi.ID
	if post.Image != nil {
		attachment, err := c.uploadMedia(ctx, *post.Image)
		if err != nil {
			return transport.Receipt{}, err
		}
		mediaIDs = append(mediaIDs, attachment.ID)
	}

	status, err := c.client.PostStatus(ctx, &mastodonapi.Toot{
		Status:   post.Text,
		MediaIDs: mediaIDs,
	})
	if err != nil {
		return transport.Receipt{}, fmt.Errorf("post status: %w", err)
	}

	return transport.Receipt{
		ID:  string(status.ID),
		URL: status.URL,
		At:  status.CreatedAt,
	}, nil
}

func (c *Client) uploadMedia(ctx context.Context, img message.ImageRef) (*mastodonapi.Attachment, error) {
	file, err := os.Open(img.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, transport.ValidationError{Provider: providerName, Reason: fmt.Sprintf("image %q not found", img.Path)}
		}
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	logutil.Debugf("mastodon: uploading media path=%s type=%s", img.Path, img.MIME)
	attachment, err := c.client.UploadMediaFromMedia(ctx, &mastodonapi.Media{
		File:        file,
		Description: img.Alt,
	})
	if err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}

	return attachment, nil
}
