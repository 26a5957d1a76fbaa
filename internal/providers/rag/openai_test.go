package rag

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telmii/telmii/pkg/log"
	"github.com/telmii/telmii/pkg/retry"
)

func fastRetrier() *retry.Retrier {
	return retry.NewRetrier(&retry.Config{
		MaxRetries:    2,
		BackoffFactor: 1,
		InitialDelay:  time.Millisecond,
		MaxDelay:      time.Millisecond,
	})
}

func TestOpenAIEmbedder_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text-embedding-3-small", req.Model)
		assert.Equal(t, "hello", req.Input)
		assert.Equal(t, 3, req.Dimensions)

		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer srv.Close()

	e := NewOpenAIEmbedder(srv.URL+"/v1/", "sk-test", "text-embedding-3-small", 3).WithRetrier(fastRetrier())
	vec, err := e.Embed(log.TestContext(t), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestOpenAIEmbedder_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCalls int32
	}{
		{name: "client error is not retried", status: http.StatusBadRequest, body: `{"error":"bad"}`, wantCalls: 1},
		{name: "server error is retried", status: http.StatusInternalServerError, body: `oops`, wantCalls: 3},
		{name: "throttling is retried", status: http.StatusTooManyRequests, body: `slow down`, wantCalls: 3},
		{name: "empty data", status: http.StatusOK, body: `{"data":[]}`, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			e := NewOpenAIEmbedder(srv.URL, "", "m", 0).WithRetrier(fastRetrier())
			_, err := e.Embed(log.TestContext(t), "hello")
			assert.Error(t, err)
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestOpenAIEmbedder_RejectsEmptyInput(t *testing.T) {
	e := NewOpenAIEmbedder("http://127.0.0.1:0", "", "m", 0)
	_, err := e.Embed(log.TestContext(t), "   ")
	assert.Error(t, err)
}
