package bluesky

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/blacktop/xsend/internal/logutil"
	"github.com/blacktop/xsend/internal/message"
	"github.com/blacktop/xsend/internal/transport"
	"github.com/bluesky-social/indigo/api/atproto"
	"github.com/bluesky-social/indigo/api/bsky"
	"github.com/bluesky-social/indigo/atproto/syntax"
	"github.com/bluesky-social/indigo/lex/util"
	"github.com/bluesky-social/indigo/xrpc"
)

const (
	providerName   = "bluesky"
	requestTimeout = 30 * time.Second
	userAgent      = "xsend/1"

	DefaultPDSURL = "https://bsky.social"
	webURL        = "https://bsky.app"
)

// Config holds the account used to post.
type Config struct {
	Handle      string `envconfig:"HANDLE" validate:"required"`
	AppPassword string `envconfig:"APP_PASSWORD" validate:"required"`
	PDSURL      string `envconfig:"PDS_URL" default:"https://bsky.social" validate:"required,url"`
}

// LoadConfig reads XSEND_BLUESKY_* variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := transport.LoadEnv(providerName, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Client publishes posts to a Bluesky PDS.
type Client struct {
	client *xrpc.Client
}

// New logs in and returns a Bluesky publisher.
func New(ctx context.Context, cfg Config) (*Client, error) {
	host := cfg.PDSURL
	if host == "" {
		host = DefaultPDSURL
	}

	ua := userAgent
	xrpcClient := &xrpc.Client{
		Client:    &http.Client{Timeout: requestTimeout},
		Host:      host,
		UserAgent: &ua,
	}

	session, err := atproto.ServerCreateSession(ctx, xrpcClient, &atproto.ServerCreateSession_Input{
		Identifier: cfg.Handle,
		Password:   cfg.AppPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	xrpcClient.Auth = &xrpc.AuthInfo{
		AccessJwt:  session.AccessJwt,
		RefreshJwt: session.RefreshJwt,
		Handle:     session.Handle,
		Did:        session.Did,
	}
	logutil.Debugf("bluesky: logged in as %s (%s)", session.Handle, session.Did)

	return &Client{client: xrpcClient}, nil
}

// Name identifies the provider.
func (c *Client) Name() string { return providerName }

// Publish creates a feed post with an optional image embed.
func (c *Client) Publish(ctx context.Context, post transport.Post) (transport.Receipt, error) {
	now := time.Now().UTC()
	record := &bsky.FeedPost{
		CreatedAt: now.Format(time.RFC3339),
		Text:      post.Text,
	}

	if post.Image != nil {
		blob, err := c.uploadImage(ctx, *post.Image)
		if err != nil {
			return transport.Receipt{}, err
		}
		record.Embed = &bsky.FeedPost_Embed{
			EmbedImages: &bsky.EmbedImages{
				Images: []*bsky.EmbedImages_Image{
					{
						Alt:   post.Image.Alt,
						Image: blob,
					},
				},
			},
		}
	}

	out, err := atproto.RepoCreateRecord(ctx, c.client, &atproto.RepoCreateRecord_Input{
		Collection: "app.bsky.feed.post",
		Repo:       c.client.Auth.Did,
		Record: &util.LexiconTypeDecoder{
			Val: record,
		},
	})
	if err != nil {
		return transport.Receipt{}, fmt.Errorf("create record: %w", err)
	}

	return transport.Receipt{ID: out.Cid, URL: postURL(out.Uri), At: now}, nil
}

// postURL turns an at:// record URI into its bsky.app link, falling back to
// the URI itself when it does not name a post.
func postURL(uri string) string {
	aturi, err := syntax.ParseATURI(uri)
	if err != nil {
		return uri
	}
	rkey := aturi.RecordKey().String()
	if aturi.Collection().String() != "app.bsky.feed.post" || rkey == "" {
		return uri
	}
	return webURL + "/profile/" + aturi.Authority().String() + "/post/" + rkey
}

func (c *Client) uploadImage(ctx context.Context, img message.ImageRef) (*util.LexBlob, error) {
	file, err := os.Open(img.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, transport.ValidationError{Provider: providerName, Reason: fmt.Sprintf("image %q not found", img.Path)}
		}
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, file); err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	resp, err := atproto.RepoUploadBlob(ctx, c.client, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("upload blob: %w", err)
	}

	if resp.Blob == nil {
		return nil, fmt.Errorf("upload blob: empty response")
	}

	return resp.Blob, nil
}
