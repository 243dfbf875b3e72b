package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blacktop/xsend/internal/message"
	"github.com/blacktop/xsend/internal/transport"
	"github.com/blacktop/xsend/internal/transport/echo"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNormalizeTargets(t *testing.T) {
	got, err := normalizeTargets([]string{" Mastodon", "echo", "mastodon", ""})
	require.NoError(t, err)
	require.Equal(t, []string{"echo", "mastodon"}, got)

	got, err = normalizeTargets([]string{"echo", "ALL"})
	require.NoError(t, err)
	require.Equal(t, []string{"bluesky", "mastodon", "twitter"}, got)

	got, err = normalizeTargets(nil)
	require.NoError(t, err)
	require.Equal(t, []string{"bluesky", "mastodon", "twitter"}, got)

	_, err = normalizeTargets([]string{"myspace"})
	require.EqualError(t, err, `unsupported target "myspace"`)

	_, err = normalizeTargets([]string{" ", ""})
	require.EqualError(t, err, "no targets selected")
}

func TestRootSendsToEcho(t *testing.T) {
	out, err := run(t, "--target", "echo", "hello", "world")
	require.NoError(t, err)
	require.Contains(t, out, "sending to echo...")
	require.Contains(t, out, "sent to echo: echo://")
}

func TestRootRejectsLongText(t *testing.T) {
	out, err := run(t, "--target", "echo", "--message", strings.Repeat("a", 301))
	require.Error(t, err)

	var tooLong message.TextTooLongError
	require.ErrorAs(t, err, &tooLong)
	require.Equal(t, 301, tooLong.Count)
	require.NotContains(t, out, "sending to")
}

func TestRootMessageSources(t *testing.T) {
	_, err := run(t, "--target", "echo", "--message", "one", "two")
	require.ErrorContains(t, err, "not both")

	_, err = run(t, "--target", "echo")
	require.EqualError(t, err, "message is required")
}

func TestRootDryRunWithImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.gif")
	require.NoError(t, os.WriteFile(path, []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"), 0o600))

	out, err := run(t, "--dry-run", "--target", "echo", "--target", "mastodon", "--image", path)
	require.NoError(t, err)
	require.Contains(t, out, "[dry-run] would send image message to echo")
	require.Contains(t, out, "[dry-run] would send image message to mastodon")
	require.Contains(t, out, "image/gif")
	require.Contains(t, out, defaultAltText)

	_, err = run(t, "--dry-run", "--target", "echo", "--image", path, strings.Repeat("c", 80))
	require.ErrorAs(t, err, new(message.TextTooLongError))
}

func TestRootImageSend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.gif")
	require.NoError(t, os.WriteFile(path, []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"), 0o600))

	out, err := run(t, "--target", "echo", "--image", path, "--alt-text", "tiny", "caption")
	require.NoError(t, err)
	require.Contains(t, out, "sent to echo")
}

func TestRootMissingCredentials(t *testing.T) {
	t.Setenv("XSEND_MASTODON_SERVER", "")
	t.Setenv("XSEND_MASTODON_ACCESS_TOKEN", "")

	_, err := run(t, "--target", "mastodon", "hello")
	var missing transport.MissingEnvError
	require.ErrorAs(t, err, &missing)
}

func TestDispatchReportsConnectionFailure(t *testing.T) {
	offline := errors.New("offline")
	publishers := []transport.Publisher{
		echo.New(echo.Config{}),
		echo.New(echo.Config{Fail: offline}),
	}

	var out bytes.Buffer
	err := dispatch(context.Background(), publishers, message.NewTextDraft("hello"), &out)
	require.ErrorIs(t, err, offline)
	require.Equal(t, 1, strings.Count(out.String(), "sent to echo"))
}

func TestRootPositionalWordsAreTheMessage(t *testing.T) {
	out, err := run(t, "--dry-run", "--target", "echo", "ship", "it")
	require.NoError(t, err)
	require.Contains(t, out, `[dry-run] would send text message to echo: "ship it"`)

	out, err = run(t, "completion", "bash")
	require.NoError(t, err)
	require.Contains(t, out, "bash completion")
}
