package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/dtroode/obituary-server/internal/model"
	"github.com/minio/minio-go/v7"
)

// Internal adapter interface to enable mocking without a real MinIO server.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketPolicy(ctx context.Context, bucketName, policy string) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	EndpointURL() *url.URL
}

// Wrapper to adapt *minio.Client to minioAPI.
type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}
func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}
func (w minioClientWrapper) SetBucketPolicy(ctx context.Context, bucketName, policy string) error {
	return w.c.SetBucketPolicy(ctx, bucketName, policy)
}
func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}
func (w minioClientWrapper) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return w.c.RemoveObject(ctx, bucketName, objectName, opts)
}
func (w minioClientWrapper) EndpointURL() *url.URL {
	return w.c.EndpointURL()
}

var _ model.ObjectStorage = (*Client)(nil)

// publicReadPolicy lets browsers fetch photos directly from the bucket.
const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

type Client struct {
	api    minioAPI
	bucket string

	mu    sync.Mutex
	ready bool
}

// NewClient creates a new MinIO storage client using a real *minio.Client instance.
func NewClient(client *minio.Client, bucket string) *Client {
	return NewClientWithAPI(minioClientWrapper{c: client}, bucket)
}

// NewClientWithAPI allows injecting a mockable API (used in tests).
// The bucket is checked lazily on first upload so an unreachable server does not block startup.
func NewClientWithAPI(api minioAPI, bucket string) *Client {
	return &Client{
		api:    api,
		bucket: bucket,
	}
}

// ensureBucketExists creates the bucket with a public-read policy if it doesn't exist.
// A failed attempt is retried on the next upload.
func (c *Client) ensureBucketExists(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ready {
		return nil
	}

	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		err = c.api.SetBucketPolicy(ctx, c.bucket, fmt.Sprintf(publicReadPolicy, c.bucket))
		if err != nil {
			return fmt.Errorf("failed to set bucket policy: %w", err)
		}
	}

	c.ready = true
	return nil
}

// Upload uploads data to MinIO and returns the object's absolute URL.
func (c *Client) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if err := c.ensureBucketExists(ctx); err != nil {
		return "", fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	_, err := c.api.PutObject(ctx, c.bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	return c.objectURL(key), nil
}

// Delete deletes the object an URL returned by Upload points at.
func (c *Client) Delete(ctx context.Context, objectURL string) error {
	key, err := c.keyFromURL(objectURL)
	if err != nil {
		return err
	}

	err = c.api.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (c *Client) baseURL() string {
	endpoint := c.api.EndpointURL()
	return strings.TrimSuffix(endpoint.String(), "/") + "/" + c.bucket + "/"
}

func (c *Client) objectURL(key string) string {
	return c.baseURL() + key
}

func (c *Client) keyFromURL(objectURL string) (string, error) {
	key, ok := strings.CutPrefix(objectURL, c.baseURL())
	if !ok || key == "" {
		return "", fmt.Errorf("object url %q does not belong to bucket %s", objectURL, c.bucket)
	}
	return key, nil
}
