package client_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/CybraneX-team/livekit-meeting/internal/adapters/client"
	"github.com/CybraneX-team/livekit-meeting/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartWriter_PutPart(t *testing.T) {
	t.Run("success - returns the store tag", func(t *testing.T) {
		// Arrange
		var received []byte
		var method string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			received, _ = io.ReadAll(r.Body)
			w.Header().Set("ETag", `"abc123"`)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()
		writer := client.NewPartWriter(server.Client(), discardLogger)

		// Act
		etag, err := writer.PutPart(context.Background(), server.URL+"/part?partNumber=1", []byte("chunk-bytes"))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, `"abc123"`, etag)
		assert.Equal(t, http.MethodPut, method)
		assert.Equal(t, []byte("chunk-bytes"), received)
	})

	t.Run("error - missing tag", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()
		writer := client.NewPartWriter(server.Client(), discardLogger)

		// Act
		etag, err := writer.PutPart(context.Background(), server.URL, []byte("x"))

		// Assert
		assert.ErrorIs(t, err, domain.ErrMissingPartTag)
		assert.Empty(t, etag)
	})

	t.Run("error - store rejects the part", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("ETag", `"ignored"`)
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()
		writer := client.NewPartWriter(server.Client(), discardLogger)

		// Act
		_, err := writer.PutPart(context.Background(), server.URL, []byte("x"))

		// Assert
		assert.ErrorContains(t, err, "403")
	})

	t.Run("error - cancelled context", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("ETag", `"abc"`)
		}))
		defer server.Close()
		writer := client.NewPartWriter(server.Client(), discardLogger)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// Act
		_, err := writer.PutPart(ctx, server.URL, []byte("x"))

		// Assert
		assert.ErrorIs(t, err, context.Canceled)
	})
}
