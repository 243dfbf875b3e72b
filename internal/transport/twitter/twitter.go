package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blacktop/xsend/internal/logutil"
	"github.com/blacktop/xsend/internal/message"
	"github.com/blacktop/xsend/internal/transport"
	"github.com/michimani/gotwi"
	"github.com/michimani/gotwi/media/upload"
	uploadtypes "github.com/michimani/gotwi/media/upload/types"
	"github.com/michimani/gotwi/resources"
	"github.com/michimani/gotwi/tweet/managetweet"
	managetweettypes "github.com/michimani/gotwi/tweet/managetweet/types"
)

const (
	providerName = "twitter"

	metadataEndpoint = "https://upload.twitter.com/1.1/media/metadata/create.json"
	statusURLPrefix  = "https://x.com/i/web/status/"
)

var httpTimeout = 30 * time.Second

// Config captures the credentials required for OAuth 1.0a user-context requests.
type Config struct {
	APIKey       string `envconfig:"CONSUMER_KEY" validate:"required"`
	APISecret    string `envconfig:"CONSUMER_SECRET" validate:"required"`
	AccessToken  string `envconfig:"ACCESS_TOKEN" validate:"required"`
	AccessSecret string `envconfig:"ACCESS_TOKEN_SECRET" validate:"required"`
	Debug        bool   `envconfig:"DEBUG"`
}

// LoadConfig reads XSEND_TWITTER_* variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := transport.LoadEnv(providerName, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Client publishes posts to X (Twitter).
type Client struct {
	api *gotwi.Client
}

// New constructs an X publisher using gotwi and OAuth 1.0a credentials.
func New(cfg Config) (*Client, error) {
	client, err := gotwi.NewClient(&gotwi.NewClientInput{
		HTTPClient:           &http.Client{Timeout: httpTimeout},
		AuthenticationMethod: gotwi.AuthenMethodOAuth1UserContext,
		OAuthToken:           cfg.AccessToken,
		OAuthTokenSecret:     cfg.AccessSecret,
		APIKey:               cfg.APIKey,
		APIKeySecret:         cfg.APISecret,
		Debug:                cfg.Debug || logutil.Verbose(),
	})
	if err != nil {
		return nil, fmt.Errorf("create X client: %w", err)
	}

	if !client.IsReady() {
		return nil, fmt.Errorf("twitter client not ready")
	}

	return &Client{api: client}, nil
}

// Name returns the provider identifier.
func (c *Client) Name() string { return providerName }

// Publish posts the text, with the image attached when there is one.
func (c *Client) Publish(ctx context.Context, post transport.Post) (transport.Receipt, error) {
	var mediaIDs []string
	if post.Image != nil {
		logutil.Debugf("uploading media: path=%s", post.Image.Path)
		mediaID, err := c.uploadMedia(ctx, *post.Image)
		if err != nil {
			return transport.Receipt{}, err
		}
		mediaIDs = append(mediaIDs, mediaID)
		logutil.Debugf("media uploaded: media_id=%s", mediaID)
	}

	input := &managetweettypes.CreateInput{}
	if post.Text != "" {
		input.Text = gotwi.String(post.Text)
	}
	if len(mediaIDs) > 0 {
		input.Media = &managetweettypes.CreateInputMedia{MediaIDs: mediaIDs}
	}

	logutil.Debugf("posting tweet: media_count=%d", len(mediaIDs))
	out, err := managetweet.Create(ctx, c.api, input)
	if err != nil {
		return transport.Receipt{}, fmt.Errorf("post tweet: %w", unwrapGotwiError(err))
	}

	id := gotwi.StringValue(out.Data.ID)
	logutil.Debugf("tweet posted: id=%s", id)

	return transport.Receipt{ID: id, URL: statusURLPrefix + id}, nil
}

func (c *Client) uploadMedia(ctx context.Context, img message.ImageRef) (string, error) {
	data, err := os.ReadFile(img.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", transport.ValidationError{Provider: providerName, Reason: fmt.Sprintf("image %q not found", img.Path)}
		}
		return "", fmt.Errorf("read image: %w", err)
	}

	mediaType, category, err := resolveMediaType(img)
	if err != nil {
		return "", err
	}

	logutil.Debugf("initialize upload: media_type=%s bytes=%d", mediaType, len(data))
	initRes, err := upload.Initialize(ctx, c.api, &uploadtypes.InitializeInput{
		MediaType:     mediaType,
		TotalBytes:    len(data),
		MediaCategory: category,
	})
	if err != nil {
		return "", fmt.Errorf("initialize upload: %w", err)
	}
	if err := partialError(initRes.Errors); err != nil {
		return "", fmt.Errorf("initialize upload: %w", err)
	}

	mediaID := initRes.Data.MediaID

	appendIn := &uploadtypes.AppendInput{
		MediaID:      mediaID,
		Media:        bytes.NewReader(data),
		SegmentIndex: 0,
	}
	appendIn.GenerateBoundary()

	appendRes, err := upload.Append(ctx, c.api, appendIn)
	if err != nil {
		return "", fmt.Errorf("append upload: %w", err)
	}
	if err := partialError(appendRes.Errors); err != nil {
		return "", fmt.Errorf("append upload: %w", err)
	}

	finalizeRes, err := upload.Finalize(ctx, c.api, &uploadtypes.FinalizeInput{MediaID: mediaID})
	if err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}
	if err := partialError(finalizeRes.Errors); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}

	state := finalizeRes.Data.ProcessingInfo.State
	logutil.Debugf("finalize state=%s media_id=%s", state, mediaID)
	switch state {
	case "", resources.ProcessingInfoStateSucceeded:
	case resources.ProcessingInfoStateInProgress, resources.ProcessingInfoStatePending:
		wait := time.Duration(finalizeRes.Data.ProcessingInfo.CheckAfterSecs) * time.Second
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	default:
		return "", fmt.Errorf("media processing failed: state=%s", state)
	}

	if alt := strings.TrimSpace(img.Alt); alt != "" {
		if err := c.setAltText(ctx, mediaID, alt); err != nil {
			return "", err
		}
	}

	return mediaID, nil
}

func (c *Client) setAltText(ctx context.Context, mediaID, altText string) error {
	params := &metadataParameters{
		mediaID: mediaID,
		altText: altText,
	}

	ctx = context.WithValue(ctx, "Content-Type", "application/json;charset=UTF-8")

	if err := c.api.CallAPI(ctx, metadataEndpoint, http.MethodPost, params, &metadataResponse{}); err != nil {
		return fmt.Errorf("set alt text: %w", unwrapGotwiError(err))
	}
	logutil.Debugf("alt text set: media_id=%s", mediaID)

	return nil
}

// resolveMediaType prefers the sniffed MIME type and falls back to the
// file extension.
func resolveMediaType(img message.ImageRef) (uploadtypes.MediaType, uploadtypes.MediaCategory, error) {
	switch img.MIME {
	case "image/jpeg":
		return uploadtypes.MediaTypeJPEG, uploadtypes.MediaCategoryTweetImage, nil
	case "image/png":
		return uploadtypes.MediaTypePNG, uploadtypes.MediaCategoryTweetImage, nil
	case "image/gif":
		return uploadtypes.MediaTypeGIF, uploadtypes.MediaCategoryTweetGIF, nil
	case "image/webp":
		return uploadtypes.MediaTypeWebP, uploadtypes.MediaCategoryTweetImage, nil
	}

	switch strings.ToLower(filepath.Ext(img.Path)) {
	case ".jpg", ".jpeg":
		return uploadtypes.MediaTypeJPEG, uploadtypes.MediaCategoryTweetImage, nil
	case ".png":
		return uploadtypes.MediaTypePNG, uploadtypes.MediaCategoryTweetImage, nil
	case ".gif":
		return uploadtypes.MediaTypeGIF, uploadtypes.MediaCategoryTweetGIF, nil
	case ".webp":
		return uploadtypes.MediaTypeWebP, uploadtypes.MediaCategoryTweetImage, nil
	}

	return "", "", transport.ValidationError{Provider: providerName, Reason: fmt.Sprintf("unsupported image type for %q", img.Path)}
}

func partialError(partials []resources.PartialError) error {
	if len(partials) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(partials))
	for _, pe := range partials {
		switch {
		case pe.Detail != nil && *pe.Detail != "":
			msgs = append(msgs, *pe.Detail)
		case pe.Title != nil && *pe.Title != "":
			msgs = append(msgs, *pe.Title)
		case pe.ResourceType != nil:
			msgs = append(msgs, fmt.Sprintf("%s", *pe.ResourceType))
		}
	}
	if len(msgs) == 0 {
		msgs = append(msgs, "unknown error")
	}
	return errors.New(strings.Join(msgs, "; "))
}

func unwrapGotwiError(err error) error {
	var gwErr *gotwi.GotwiError
	if errors.As(err, &gwErr) && gwErr != nil {
		return errors.New(summarizeGotwiError(gwErr))
	}
	return err
}

func summarizeGotwiError(err *gotwi.GotwiError) string {
	if err == nil {
		return "unknown X API error"
	}

	parts := make([]string, 0, 4)
	if err.Title != "" {
		parts = append(parts, err.Title)
	}
	if err.Detail != "" {
		parts = append(parts, err.Detail)
	}
	for _, apiErr := range err.APIErrors {
		if apiErr.Message != "" {
			parts = append(parts, apiErr.Message)
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "X API request failed")
	}

	return strings.Join(parts, "; ")
}

type metadataParameters struct {
	mediaID     string
	altText     string
	accessToken string
}

func (p *metadataParameters) SetAccessToken(token string) { p.accessToken = token }

func (p *metadataParameters) AccessToken() string { return p.accessToken }

func (p *metadataParameters) ResolveEndpoint(endpointBase string) string { return endpointBase }

func (p *metadataParameters) Body() (io.Reader, error) {
	body := struct {
		MediaID string `json:"media_id"`
		AltText struct {
			Text string `json:"text"`
		} `json:"alt_text"`
	}{}
	body.MediaID = p.mediaID
	body.AltText.Text = p.altText

	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(buf), nil
}

func (p *metadataParameters) ParameterMap() map[string]string { return map[string]string{} }

type metadataResponse struct{}

func (metadataResponse) HasPartialError() bool { return false }
