package services

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopg_back_end/internal/database"
)

// DefaultProductObjectURL builds the bucket URL for a product image that was
// uploaded under products/<name>.jpg.
func DefaultProductObjectURL(productName string) string {
	return fmt.Sprintf("http://%s/%s/products/%s.jpg",
		os.Getenv("MINIO_ENDPOINT"),
		os.Getenv("MINIO_BUCKET"),
		productName,
	)
}

// GenerateSignedURL presigns a stored object URL for temporary access.
func GenerateSignedURL(ctx context.Context, objectPath string, duration time.Duration) (string, error) {
	bucket := os.Getenv("MINIO_BUCKET")

	// Strip the plain bucket URL prefix so only the object key remains.
	prefix := fmt.Sprintf("http://%s/%s/", os.Getenv("MINIO_ENDPOINT"), bucket)
	key := strings.TrimPrefix(objectPath, prefix)

	presignedURL, err := database.MinIO.PresignedGetObject(
		ctx,
		bucket,
		key,
		duration,
		make(url.Values),
	)
	if err != nil {
		return "", err
	}

	return presignedURL.String(), nil
}

// SignImageURLs presigns every image URL of a product, skipping any that
// fail (the unsigned URL is better than none).
func SignImageURLs(ctx context.Context, urls []string) []string {
	if database.MinIO == nil {
		return urls
	}
	signed := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		s, err := GenerateSignedURL(ctx, u, 24*time.Hour)
		if err != nil {
			signed = append(signed, u)
			continue
		}
		signed = append(signed, s)
	}
	return signed
}
