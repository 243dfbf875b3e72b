package bluesky

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blacktop/xsend/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakePDS(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/xrpc/com.atproto.server.createSession", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "me.example.com", in["identifier"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"accessJwt":  "access",
			"refreshJwt": "refresh",
			"handle":     "me.example.com",
			"did":        "did:plc:abc123",
		})
	})
	mux.HandleFunc("/xrpc/com.atproto.repo.createRecord", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))

		var in map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "did:plc:abc123", in["repo"])
		assert.Equal(t, "app.bsky.feed.post", in["collection"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"uri": "at://did:plc:abc123/app.bsky.feed.post/3k",
			"cid": "bafyrei",
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestPublish(t *testing.T) {
	srv := fakePDS(t)
	ctx := context.Background()

	client, err := New(ctx, Config{Handle: "me.example.com", AppPassword: "app-pass", PDSURL: srv.URL})
	require.NoError(t, err)
	require.Equal(t, "bluesky", client.Name())

	receipt, err := client.Publish(ctx, transport.Post{Text: "hello sky"})
	require.NoError(t, err)
	require.Equal(t, "bafyrei", receipt.ID)
	require.Equal(t, "https://bsky.app/profile/did:plc:abc123/post/3k", receipt.URL)
	require.False(t, receipt.At.IsZero())
}

func TestNewLoginFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"AuthenticationRequired","message":"Invalid identifier or password"}`))
	}))
	defer srv.Close()

	_, err := New(context.Background(), Config{Handle: "me", AppPassword: "wrong", PDSURL: srv.URL})
	require.ErrorContains(t, err, "login")
}

func TestLoadConfigDefaultsPDS(t *testing.T) {
	t.Setenv("XSEND_BLUESKY_HANDLE", "me.example.com")
	t.Setenv("XSEND_BLUESKY_APP_PASSWORD", "app-pass")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, DefaultPDSURL, cfg.PDSURL)
}

func TestPostURL(t *testing.T) {
	require.Equal(t, "https://bsky.app/profile/did:plc:abc123/post/3kabc", postURL("at://did:plc:abc123/app.bsky.feed.post/3kabc"))
	require.Equal(t, "at://did:plc:abc123/app.bsky.feed.like/3kabc", postURL("at://did:plc:abc123/app.bsky.feed.like/3kabc"))
	require.Equal(t, "not-a-uri", postURL("not-a-uri"))
}
