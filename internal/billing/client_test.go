package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_CreateAccount(t *testing.T) {
	t.Run("posts the account payload", func(t *testing.T) {
		var got accountRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/billing-accounts", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		client := NewHTTPClient(srv.URL, time.Second)
		err := client.CreateAccount(context.Background(), "pid-1", "John Doe", "john@example.com")
		require.NoError(t, err)
		assert.Equal(t, "pid-1", got.PatientID)
		assert.Equal(t, "John Doe", got.Name)
		assert.Equal(t, "john@example.com", got.Email)
	})

	t.Run("non-2xx responses are errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "account ledger unavailable", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		client := NewHTTPClient(srv.URL, time.Second)
		err := client.CreateAccount(context.Background(), "pid-1", "John Doe", "john@example.com")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
		assert.Contains(t, err.Error(), "account ledger unavailable")
	})

	t.Run("honors the configured timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()

		client := NewHTTPClient(srv.URL, 20*time.Millisecond)
		err := client.CreateAccount(context.Background(), "pid-1", "John Doe", "john@example.com")
		require.Error(t, err)
	})

	t.Run("unreachable service is an error", func(t *testing.T) {
		client := NewHTTPClient("http://127.0.0.1:1", 100*time.Millisecond)
		err := client.CreateAccount(context.Background(), "pid-1", "John Doe", "john@example.com")
		require.Error(t, err)
	})
}

func TestMockClient(t *testing.T) {
	t.Run("accepts after the configured latency", func(t *testing.T) {
		client := MockClient{Latency: time.Millisecond}
		require.NoError(t, client.CreateAccount(context.Background(), "pid-1", "John Doe", "john@example.com"))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		client := MockClient{Latency: time.Second}
		err := client.CreateAccount(ctx, "pid-1", "John Doe", "john@example.com")
		require.ErrorIs(t, err, context.Canceled)
	})
}
