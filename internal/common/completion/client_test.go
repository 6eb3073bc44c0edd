package completion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"conversation-starters/internal/common/config"
	"conversation-starters/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGemini struct {
	mu      sync.Mutex
	prompts []string
	reply   func(w http.ResponseWriter)
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.URL.Path, ":generateContent") {
		http.NotFound(w, r)
		return
	}

	body, _ := io.ReadAll(r.Body)
	var req struct {
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}
	_ = json.Unmarshal(body, &req)
	f.mu.Lock()
	if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
		f.prompts = append(f.prompts, req.Contents[0].Parts[0].Text)
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	f.reply(w)
}

func textReply(parts ...string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		ps := make([]map[string]string, 0, len(parts))
		for _, p := range parts {
			ps = append(ps, map[string]string{"text": p})
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []interface{}{
				map[string]interface{}{
					"content": map[string]interface{}{"role": "model", "parts": ps},
				},
			},
		})
	}
}

func newTestClient(t *testing.T, srv *httptest.Server, timeout int) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), config.GenAIConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "gemini-test",
		Timeout: timeout,
	}, logger.NewTestLogger(t))
	require.NoError(t, err)
	return c
}

func TestComplete_ConcatenatesParts(t *testing.T) {
	fake := &fakeGemini{reply: textReply(`{"based_on_their_interests":`, `["a"],"based_on_common_interests":[]}`)}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	c := newTestClient(t, srv, 5000)
	text, err := c.Complete(context.Background(), "hello prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"based_on_their_interests":["a"],"based_on_common_interests":[]}`, text)
	assert.Equal(t, []string{"hello prompt"}, fake.prompts)
}

func TestComplete_EmptyCandidates(t *testing.T) {
	fake := &fakeGemini{reply: func(w http.ResponseWriter) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	_, err := newTestClient(t, srv, 5000).Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestComplete_ServerError(t *testing.T) {
	fake := &fakeGemini{reply: func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`))
	}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	_, err := newTestClient(t, srv, 5000).Complete(context.Background(), "p")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestComplete_Timeout(t *testing.T) {
	fake := &fakeGemini{reply: func(w http.ResponseWriter) {
		time.Sleep(300 * time.Millisecond)
		textReply("late")(w)
	}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	_, err := newTestClient(t, srv, 50).Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), config.GenAIConfig{Model: "m", Timeout: 1}, logger.NewNoOpLogger())
	assert.Error(t, err)
}
