// Package s3 stores uploaded share images in an S3 bucket.
package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "github.com/maraichr/gradient/internal/config"
)

// Client writes objects to a single bucket. Works with both AWS S3 and
// S3-compatible endpoints.
type Client struct {
	client *s3.Client
	bucket string
	prefix string
	base   string
}

// NewClient loads the default AWS credential chain for the configured region.
func NewClient(ctx context.Context, cfg appconfig.S3Config) (*Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = &cfg.Endpoint
			o.UsePathStyle = true
		}
	})

	return &Client{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		base:   objectBase(cfg),
	}, nil
}

func objectBase(cfg appconfig.S3Config) string {
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

// PutImage uploads the object and returns its public URL.
func (c *Client) PutImage(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	key = c.objectKey(key)
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &c.bucket,
		Key:           &key,
		Body:          r,
		ContentLength: &size,
		ContentType:   &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return c.base + "/" + (&url.URL{Path: key}).EscapedPath(), nil
}

func (c *Client) objectKey(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + "/" + key
}
