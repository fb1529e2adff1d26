package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": body["query"]})
	}))
	defer server.Close()

	client := NewClient(time.Second).WithHeader("Authorization", "Bearer token")

	var out map[string]string
	err := client.PostJSON(context.Background(), server.URL, map[string]string{"query": "iphone"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "iphone", out["echo"])
}

func TestPostJSON_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewClient(time.Second).PostJSON(context.Background(), server.URL, map[string]string{}, nil)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.True(t, statusErr.Retryable())
	assert.Contains(t, statusErr.Body, "upstream down")
}

func TestPostJSON_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	var out map[string]interface{}
	err := NewClient(time.Second).PostJSON(context.Background(), server.URL, nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestStatusError_Retryable(t *testing.T) {
	assert.False(t, (&StatusError{StatusCode: 400}).Retryable())
	assert.True(t, (&StatusError{StatusCode: 429}).Retryable())
	assert.True(t, (&StatusError{StatusCode: 503}).Retryable())
}
