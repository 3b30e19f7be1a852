package utils_s3

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const PRESIGN_EXPIRATION = 15 * time.Minute

type Client struct {
	s3      *s3.Client
	presign *s3.PresignClient
	bucket  string
	region  string
}

func NewClient(ctx context.Context) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET environment variable is not set")
	}

	s3Client := s3.NewFromConfig(cfg)
	return &Client{
		s3:      s3Client,
		presign: s3.NewPresignClient(s3Client),
		bucket:  bucket,
		region:  cfg.Region,
	}, nil
}

// PublicURL is the non-presigned URL an object will be served from
// once uploaded.
func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)
}

// KeyFromURL extracts the object key from a public URL for this
// bucket. Returns "" for URLs that do not belong to the bucket.
func (c *Client) KeyFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if !strings.HasPrefix(u.Host, c.bucket+".s3.") {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

// PresignPut issues a short-lived PUT URL scoped to a single key.
func (c *Client) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	req, err := c.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = PRESIGN_EXPIRATION
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// PutBytes uploads an object directly. Used by the blog generator for
// AI-produced images.
func (c *Client) PutBytes(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return c.PublicURL(key), nil
}

// DeleteByURL removes an object given its public URL. Best-effort:
// failures are logged, never propagated, so callers can clean up media
// without aborting the surrounding operation.
func (c *Client) DeleteByURL(ctx context.Context, rawURL string) {
	key := c.KeyFromURL(rawURL)
	if key == "" {
		return
	}

	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Printf("failed to delete object %s: %v", key, err)
	}
}
