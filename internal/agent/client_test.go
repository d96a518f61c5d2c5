package agent

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

func TestClient_Send_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/message", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req MessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Hello", req.Content)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response": "Hi there!"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	reply, err := client.Send(context.Background(), "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there!", reply)
}

func TestClient_Send_PassesContentThrough(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req MessageRequest
		json.NewDecoder(r.Body).Decode(&req)
		got = req.Content
		w.Write([]byte(`{"response": "ok"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", 0)
	_, err := client.Send(context.Background(), "  spaced  ")
	require.NoError(t, err)
	assert.Equal(t, "  spaced  ", got)
}

func TestClient_Send_StatusFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail": "An unexpected error occurred: boom"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Send(context.Background(), "Hello")
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrRequestFailed))
	assert.False(t, IsTransport(err))

	code, ok := StatusCode(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, code)

	var agentErr *Error
	require.True(t, errors.As(err, &agentErr))
	assert.Equal(t, "send", agentErr.Op)
	assert.Equal(t, "An unexpected error occurred: boom", agentErr.Detail)
}

func TestClient_Send_StatusFailureWithoutDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail": [{"loc": ["body", "content"], "msg": "field required"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Send(context.Background(), "Hello")

	code, ok := StatusCode(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "send: backend returned status 422", err.Error())
}

func TestClient_Send_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, 2*time.Second)
	_, err := client.Send(context.Background(), "Hello")
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Equal(t, KindTransport, KindOf(err))

	_, ok := StatusCode(err)
	assert.False(t, ok)
}

func TestClient_Send_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL, 50*time.Millisecond)
	_, err := client.Send(context.Background(), "Hello")
	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

func TestClient_Send_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": "late"}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, 0)
	_, err := client.Send(ctx, "Hello")
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_Send_InvalidBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Send(context.Background(), "Hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidResponse))
	assert.Equal(t, KindInvalidResponse, KindOf(err))
}

func TestClient_NullBodyIsInvalid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(" null\n"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	reply, err := client.Send(context.Background(), "Hello")
	require.Error(t, err)
	assert.Equal(t, "", reply)
	assert.Equal(t, KindInvalidResponse, KindOf(err))

	profile, err := client.FetchProfile(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidResponse))
	assert.Equal(t, Profile{}, profile)
}

func TestClient_EmptyBodyIsInvalid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.FetchProfile(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindInvalidResponse, KindOf(err))
}

func TestClient_FetchProfile_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/being", r.URL.Path)
		assert.Empty(t, r.Header.Get("Content-Type"))

		w.Write([]byte(`{
			"name": "Light",
			"bio": "A helpful being",
			"personality": "curious",
			"modelProvider": "openRouter",
			"contextId": "ctx-1",
			"system": "You are Light.",
			"knowledge": ["doc1", "doc2"],
			"exampleResponses": ["Hello!"]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	profile, err := client.FetchProfile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Light", profile.Name)
	assert.Equal(t, "openRouter", profile.ModelProvider)
	assert.Equal(t, "ctx-1", profile.ContextID)
	assert.Equal(t, []string{"doc1", "doc2"}, profile.Knowledge)
	assert.Equal(t, []string{"Hello!"}, profile.ExampleResponses)
}

func TestClient_FetchProfile_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	profile, err := client.FetchProfile(context.Background())
	require.Error(t, err)
	assert.Equal(t, Profile{}, profile)

	var agentErr *Error
	require.True(t, errors.As(err, &agentErr))
	assert.Equal(t, "profile", agentErr.Op)
	assert.Equal(t, "down for maintenance", agentErr.Detail)
}

func TestClient_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		w.Write([]byte(`{"message": "Welcome to the Light Ai Framework!"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	msg, err := client.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Welcome to the Light Ai Framework!", msg)
}

func TestClient_WithHTTPClient(t *testing.T) {
	var hit bool
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		hit = true
		return nil, errors.New("no network in tests")
	})

	client := NewClient("http://127.0.0.1:8000", 0, WithHTTPClient(&http.Client{Transport: rt}))
	_, err := client.Send(context.Background(), "Hello")
	assert.True(t, hit)
	assert.True(t, IsTransport(err))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
