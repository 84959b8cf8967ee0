package media

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	id := uuid.MustParse("7b0c3c52-9a52-4c1e-9d55-1f3c9c2a6a10")

	key, err := ObjectKey(id, "kettle.PNG", "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "products/7b0c3c52-9a52-4c1e-9d55-1f3c9c2a6a10/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	key, err = ObjectKey(id, "photo.jpeg", "image/jpeg")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".jpeg"))

	_, err = ObjectKey(id, "notes.txt", "text/plain")
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com",
		publicBaseURL(S3Options{Bucket: "b", PublicURL: "https://cdn.example.com/"}, "auto"))
	assert.Equal(t, "https://acct.r2.cloudflarestorage.com/b",
		publicBaseURL(S3Options{Bucket: "b", Endpoint: "https://acct.r2.cloudflarestorage.com"}, "auto"))
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com",
		publicBaseURL(S3Options{Bucket: "b"}, "eu-west-1"))
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Options{})
	assert.Error(t, err)
}

func TestKeyFromURL(t *testing.T) {
	s := &S3Store{baseURL: "https://cdn.example.com"}
	key, ok := s.KeyFromURL("https://cdn.example.com/products/1/a.png")
	assert.True(t, ok)
	assert.Equal(t, "products/1/a.png", key)

	_, ok = s.KeyFromURL("https://elsewhere.example.com/a.png")
	assert.False(t, ok)
}
