// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "ping", in["msg"])

		w.Write([]byte(`{"reply":"pong"}`))
	}))
	defer ts.Close()

	var out struct {
		Reply string `json:"reply"`
	}
	err := PostJSON(context.Background(), ts.Client(), ts.URL, map[string]string{"x-api-key": "secret"},
		map[string]string{"msg": "ping"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "pong", out.Reply)
}

func TestPostJSON_StatusErrorIsNotRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"quota exceeded"}` + strings.Repeat(" ", 10)))
	}))
	defer ts.Close()

	var out map[string]any
	err := PostJSON(context.Background(), ts.Client(), ts.URL, nil, map[string]string{}, &out)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Equal(t, `{"error":"quota exceeded"}`, se.Body)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestPostJSON_BoundsErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(strings.Repeat("x", 10*maxErrorBody)))
	}))
	defer ts.Close()

	err := PostJSON(context.Background(), ts.Client(), ts.URL, nil, struct{}{}, &struct{}{})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Len(t, se.Body, maxErrorBody)
}

func TestPostJSON_BadResponseJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer ts.Close()

	err := PostJSON(context.Background(), ts.Client(), ts.URL, nil, struct{}{}, &map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestPostJSON_ContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := PostJSON(ctx, ts.Client(), ts.URL, nil, struct{}{}, &struct{}{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
