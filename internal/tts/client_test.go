package tts

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := New(Config{
		APIKey:    "test-key",
		BaseURL:   baseURL,
		OutputDir: t.TempDir(),
	}, nil)
	require.NoError(t, err)
	return client
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{}, nil)
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNew_RejectsUnknownVoice(t *testing.T) {
	_, err := New(Config{APIKey: "k", Voice: "HAL9000"}, nil)
	require.ErrorIs(t, err, ErrUnknownVoice)
}

func TestSetVoice(t *testing.T) {
	client := newTestClient(t, "http://unused")

	assert.Equal(t, "Rachel", client.Voice())

	require.NoError(t, client.SetVoice("Josh"))
	assert.Equal(t, "Josh", client.Voice())

	err := client.SetVoice("HAL9000")
	require.ErrorIs(t, err, ErrUnknownVoice)
	// Selection is untouched after a rejected change.
	assert.Equal(t, "Josh", client.Voice())
}

func TestVoices(t *testing.T) {
	voices := Voices()
	assert.Len(t, voices, 24)
	assert.Equal(t, "Rachel", voices[0])
	for _, name := range voices {
		assert.True(t, IsKnownVoice(name))
	}
}

func TestSpeak_WritesAudioFile(t *testing.T) {
	var gotPath, gotKey string
	var gotBody string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = w.Write([]byte("mp3-bytes"))
	})

	client := newTestClient(t, srv.URL)
	path, err := client.Speak(context.Background(), "Hello! I'm your voice assistant.")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mp3-bytes", string(data))
	assert.True(t, strings.HasSuffix(path, ".mp3"))

	// Request shape: voice ID in path, key in header, model in body.
	assert.Equal(t, "/v1/text-to-speech/"+voiceIDs["Rachel"], gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Contains(t, gotBody, "eleven_multilingual_v2")
	assert.Contains(t, gotBody, "voice assistant")
}

func TestSpeakTo_ExplicitPath(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("audio"))
	})
	client := newTestClient(t, srv.URL)

	want := filepath.Join(t.TempDir(), "nested", "reply.mp3")
	got, err := client.SpeakTo(context.Background(), "hi", want)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	info, err := os.Stat(want)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestSpeak_EmptyText(t *testing.T) {
	client := newTestClient(t, "http://unused")

	_, err := client.Speak(context.Background(), "")
	require.ErrorIs(t, err, ErrEmptyText)
}

func TestSpeak_RemoteErrorPropagates(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":{"status":"invalid_api_key","message":"Invalid API key"}}`))
	})
	client := newTestClient(t, srv.URL)

	_, err := client.Speak(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestSpeak_UsesSelectedVoice(t *testing.T) {
	var gotPath string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("audio"))
	})
	client := newTestClient(t, srv.URL)

	require.NoError(t, client.SetVoice("Matilda"))
	_, err := client.Speak(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, "/v1/text-to-speech/"+voiceIDs["Matilda"], gotPath)
}
