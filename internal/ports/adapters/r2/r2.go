// Package r2 uploads rendered clips to an S3-compatible bucket (Cloudflare
// R2) and returns their public URLs.
package r2

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type Adapter struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

func New(accessKey, secretKey, endpoint, bucket, publicBaseURL string) *Adapter {
	cfg := aws.Config{
		Region:      "auto",
		Credentials: credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	return &Adapter{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Store uploads the file under a uuid-suffixed key. The suffix keeps keys
// collision-free across re-runs that produce the same clip names.
func (a *Adapter) Store(ctx context.Context, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open upload source: %w", err)
	}
	defer f.Close()

	base := filepath.Base(filePath)
	ext := filepath.Ext(base)
	key := fmt.Sprintf("%s-%s%s", strings.TrimSuffix(base, ext), uuid.NewString()[:8], ext)

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentTypeFor(ext)),
	})
	if err != nil {
		return "", fmt.Errorf("put object %q: %w", key, err)
	}

	if a.publicBase != "" {
		return a.publicBase + "/" + key, nil
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com/%s", a.bucket, key), nil
}

func contentTypeFor(ext string) string {
	switch strings.ToLower(ext) {
	case ".mp4":
		return "video/mp4"
	case ".mp3":
		return "audio/mpeg"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".srt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
