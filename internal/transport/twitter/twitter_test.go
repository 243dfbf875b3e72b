package twitter

import (
	"testing"

	"github.com/blacktop/xsend/internal/message"
	"github.com/blacktop/xsend/internal/transport"
	"github.com/michimani/gotwi"
	uploadtypes "github.com/michimani/gotwi/media/upload/types"
	"github.com/michimani/gotwi/resources"
	"github.com/stretchr/testify/require"
)

func TestResolveMediaType(t *testing.T) {
	tests := []struct {
		img      message.ImageRef
		wantType uploadtypes.MediaType
		wantCat  uploadtypes.MediaCategory
	}{
		{message.ImageRef{Path: "a.bin", MIME: "image/png"}, uploadtypes.MediaTypePNG, uploadtypes.MediaCategoryTweetImage},
		{message.ImageRef{Path: "a.bin", MIME: "image/gif"}, uploadtypes.MediaTypeGIF, uploadtypes.MediaCategoryTweetGIF},
		{message.ImageRef{Path: "photo.JPG"}, uploadtypes.MediaTypeJPEG, uploadtypes.MediaCategoryTweetImage},
		{message.ImageRef{Path: "sticker.webp"}, uploadtypes.MediaTypeWebP, uploadtypes.MediaCategoryTweetImage},
	}

	for _, tt := range tests {
		mediaType, category, err := resolveMediaType(tt.img)
		require.NoError(t, err)
		require.Equal(t, tt.wantType, mediaType)
		require.Equal(t, tt.wantCat, category)
	}

	_, _, err := resolveMediaType(message.ImageRef{Path: "vector.svg", MIME: "image/svg+xml"})
	var verr transport.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestPartialError(t *testing.T) {
	require.NoError(t, partialError(nil))

	err := partialError([]resources.PartialError{
		{Detail: gotwi.String("media too large")},
		{Title: gotwi.String("Invalid Request")},
	})
	require.EqualError(t, err, "media too large; Invalid Request")

	require.EqualError(t, partialError([]resources.PartialError{{}}), "unknown error")
}

func TestSummarizeGotwiError(t *testing.T) {
	require.Equal(t, "unknown X API error", summarizeGotwiError(nil))
	require.Equal(t, "Forbidden; not allowed", summarizeGotwiError(&gotwi.GotwiError{Non2XXError: resources.Non2XXError{Title: "Forbidden", Detail: "not allowed"}}))
	require.Equal(t, "X API request failed", summarizeGotwiError(&gotwi.GotwiError{}))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("XSEND_TWITTER_CONSUMER_KEY", "key")
	t.Setenv("XSEND_TWITTER_CONSUMER_SECRET", "")
	t.Setenv("XSEND_TWITTER_ACCESS_TOKEN", "token")
	t.Setenv("XSEND_TWITTER_ACCESS_TOKEN_SECRET", "")

	_, err := LoadConfig()
	var missing transport.MissingEnvError
	require.ErrorAs(t, err, &missing)
	require.ElementsMatch(t, []string{"XSEND_TWITTER_CONSUMER_SECRET", "XSEND_TWITTER_ACCESS_TOKEN_SECRET"}, missing.Variables)
	require.Equal(t, "twitter", missing.Provider)
}
