package s3

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config holds S3 connection configuration
type Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Client wraps the S3 SDK with upload/download helpers scoped to one bucket.
type Client struct {
	config     *Config
	s3Client   *awss3.Client
	uploader   *manager.Uploader
	downloader *manager.Downloader
	logger     *slog.Logger
}

// NewClient creates a new S3 client for the configured bucket
func NewClient(config *Config, logger *slog.Logger) *Client {
	creds := credentials.NewStaticCredentialsProvider(config.AccessKey, config.SecretKey, "")

	s3Client := awss3.New(awss3.Options{
		Region:      config.Region,
		Credentials: creds,
	})

	logger.Info("S3 client initialized",
		slog.String("bucket", config.Bucket),
		slog.String("region", config.Region),
	)

	return &Client{
		config:     config,
		s3Client:   s3Client,
		uploader:   manager.NewUploader(s3Client),
		downloader: manager.NewDownloader(s3Client),
		logger:     logger,
	}
}

// Upload streams body into the bucket under key and returns the object URL.
// The body is never buffered to local disk.
func (c *Client) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	input := &awss3.PutObjectInput{
		Bucket: aws.String(c.config.Bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	_, err := c.uploader.Upload(ctx, input)
	if err != nil {
		c.logger.Error("Failed to upload object to S3",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", key, c.config.Bucket, err)
	}

	objectURL := c.ObjectURL(key)

	c.logger.Debug("Object uploaded to S3",
		slog.String("key", key),
		slog.String("url", objectURL),
	)

	return objectURL, nil
}

// DownloadToFile downloads the object at key into the file at path.
func (c *Client) DownloadToFile(ctx context.Context, key, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create download target %s: %w", path, err)
	}
	defer f.Close()

	_, err = c.downloader.Download(ctx, f, &awss3.GetObjectInput{
		Bucket: aws.String(c.config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to download object %s from bucket %s: %w", key, c.config.Bucket, err)
	}

	c.logger.Debug("Object downloaded from S3",
		slog.String("key", key),
		slog.String("path", path),
	)

	return nil
}

// ObjectURL returns the public URL for an object key.
func (c *Client) ObjectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.config.Bucket, c.config.Region, key)
}

// ObjectKey extracts the object key from an object URL produced by ObjectURL.
func ObjectKey(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid object URL %q: %w", rawURL, err)
	}

	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", fmt.Errorf("object URL %q has no key", rawURL)
	}

	return key, nil
}
