package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient("  ")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))

		var req request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, "prompt", req.Messages[0].Content)

		w.Write([]byte(`{"content":[{"type":"text","text":"  창문 사이로 해가 보인다  "}]}`))
	}))
	defer srv.Close()

	c, err := NewClient("secret", WithModel("test-model"), WithBaseURL(srv.URL))
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "창문 사이로 해가 보인다", out)
}

func TestCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	c, err := NewClient("bad", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "prompt")
	assert.ErrorContains(t, err, "invalid x-api-key")
}

func TestCompleteEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	c, err := NewClient("k", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "prompt")
	assert.Error(t, err)
}
