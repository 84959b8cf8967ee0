// Package media stores uploaded product images in an S3-compatible bucket (AWS S3, Cloudflare R2, MinIO).
package media

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidImage = errors.New("unsupported image type")

// ImageStore persists image bytes and returns the public URL of the stored object.
type ImageStore interface {
	Put(ctx context.Context, key string, contentType string, body []byte) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL returns the object key of a URL this store produced.
	KeyFromURL(url string) (string, bool)
}

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ObjectKey builds products/<product-id>/<random><ext> for an upload.
func ObjectKey(productID uuid.UUID, filename, contentType string) (string, error) {
	ext, ok := allowedTypes[strings.ToLower(contentType)]
	if !ok {
		return "", ErrInvalidImage
	}
	if named := strings.ToLower(path.Ext(filename)); named == ".jpeg" || named == ext {
		ext = named
	}
	return path.Join("products", productID.String(), uuid.NewString()+ext), nil
}
