package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubQRCodeStorage_Upload(t *testing.T) {
	t.Run("stores body and returns URL", func(t *testing.T) {
		stub := NewStubQRCodeStorage()

		url, err := stub.Upload(context.Background(), "qr/loc-1.png", []byte("png-bytes"), "image/png")

		require.NoError(t, err)
		assert.Equal(t, "https://storage.example.com/qr/loc-1.png", url)

		body, ok := stub.Object("qr/loc-1.png")
		require.True(t, ok)
		assert.Equal(t, []byte("png-bytes"), body)
	})

	t.Run("rejects empty key", func(t *testing.T) {
		stub := NewStubQRCodeStorage()

		_, err := stub.Upload(context.Background(), "", []byte("x"), "image/png")
		assert.Error(t, err)
	})
}

func TestStubQRCodeStorage_Delete(t *testing.T) {
	t.Run("removes stored object", func(t *testing.T) {
		stub := NewStubQRCodeStorage()
		_, err := stub.Upload(context.Background(), "qr/loc-1.png", []byte("png-bytes"), "image/png")
		require.NoError(t, err)

		require.NoError(t, stub.Delete(context.Background(), "qr/loc-1.png"))

		_, ok := stub.Object("qr/loc-1.png")
		assert.False(t, ok)
	})

	t.Run("deleting a missing key is not an error", func(t *testing.T) {
		stub := NewStubQRCodeStorage()
		assert.NoError(t, stub.Delete(context.Background(), "qr/missing.png"))
	})
}
