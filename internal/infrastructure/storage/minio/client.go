package minio

import (
	"context"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hydromoment/pkg/errors"
)

// MinIOAPI is the subset of the object-storage SDK the report archive uses.
// GetObject returns a plain io.ReadCloser so that callers and tests do not
// depend on *minio.Object.
type MinIOAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketLifecycle(ctx context.Context, bucketName string, config *lifecycle.Configuration) error
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// sdkClient adapts *minio.Client to MinIOAPI.
type sdkClient struct {
	*minio.Client
}

func (c sdkClient) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return c.Client.GetObject(ctx, bucketName, objectName, opts)
}

type MinIOConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	Region          string        `mapstructure:"region"`
	Bucket          string        `mapstructure:"bucket"`
	Prefix          string        `mapstructure:"prefix"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
	RetentionDays   int           `mapstructure:"retention_days"`
}

type MinIOClient struct {
	client MinIOAPI
	config *MinIOConfig
	logger logging.Logger
	mu     sync.RWMutex
	closed bool
}

var ErrMinIOClientClosed = errors.New(errors.ErrCodeStorageError, "minio client is closed")

func NewMinIOClient(cfg *MinIOConfig, log logging.Logger) (*MinIOClient, error) {
	applyDefaults(cfg)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to create minio client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mClient := NewMinIOClientWithAPI(sdkClient{client}, cfg, log)
	if _, err := mClient.client.ListBuckets(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to connect to minio")
	}
	if err := mClient.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	mClient.SetupLifecycleRules(ctx)

	mClient.logger.Info("MinIO client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
		logging.Bool("ssl", cfg.UseSSL),
	)
	return mClient, nil
}

// NewMinIOClientWithAPI builds a client over an already-constructed API
// without touching the network.
func NewMinIOClientWithAPI(api MinIOAPI, cfg *MinIOConfig, log logging.Logger) *MinIOClient {
	if log == nil {
		log = logging.NewNopLogger()
	}
	applyDefaults(cfg)
	return &MinIOClient{client: api, config: cfg, logger: log}
}

func applyDefaults(cfg *MinIOConfig) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "hmoment-reports"
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "reports/"
	}
	if cfg.PresignExpiry == 0 {
		cfg.PresignExpiry = time.Hour
	}
}

func (c *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.config.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to check bucket existence")
	}
	if exists {
		return nil
	}
	if err := c.client.MakeBucket(ctx, c.config.Bucket, minio.MakeBucketOptions{Region: c.config.Region}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to create bucket").WithDetail(c.config.Bucket)
	}
	c.logger.Info("Created bucket", logging.String("bucket", c.config.Bucket))
	return nil
}

// SetupLifecycleRules expires archived reports after RetentionDays. Failures
// are logged; some S3-compatible backends reject lifecycle configuration.
func (c *MinIOClient) SetupLifecycleRules(ctx context.Context) {
	if c.config.RetentionDays <= 0 {
		return
	}
	cfg := lifecycle.NewConfiguration()
	cfg.Rules = []lifecycle.Rule{
		{
			ID:         "report-retention",
			Status:     "Enabled",
			RuleFilter: lifecycle.Filter{Prefix: c.config.Prefix},
			Expiration: lifecycle.Expiration{
				Days: lifecycle.ExpirationDays(c.config.RetentionDays),
			},
		},
	}
	if err := c.client.SetBucketLifecycle(ctx, c.config.Bucket, cfg); err != nil {
		c.logger.Warn("Failed to set lifecycle for report bucket", logging.Err(err))
	}
}

func (c *MinIOClient) Bucket() string {
	return c.config.Bucket
}

func (c *MinIOClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *MinIOClient) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

type HealthStatus struct {
	Healthy bool
	Latency time.Duration
	Bucket  string
	Error   string
}

func (c *MinIOClient) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	if c.isClosed() {
		return &HealthStatus{Bucket: c.config.Bucket, Error: ErrMinIOClientClosed.Error()}, ErrMinIOClientClosed
	}
	start := time.Now()
	exists, err := c.client.BucketExists(ctx, c.config.Bucket)
	status := &HealthStatus{
		Healthy: err == nil && exists,
		Latency: time.Since(start),
		Bucket:  c.config.Bucket,
	}
	if err != nil {
		status.Error = err.Error()
		return status, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "minio health check failed")
	}
	if !exists {
		status.Error = "bucket " + c.config.Bucket + " missing"
		return status, errors.New(errors.ErrCodeServiceUnavailable, status.Error)
	}
	return status, nil
}

func (c *MinIOClient) GeneratePresignedGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if expiry == 0 {
		expiry = c.config.PresignExpiry
	}
	u, err := c.client.PresignedGetObject(ctx, c.config.Bucket, objectName, expiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageError, "failed to presign report url")
	}
	return u.String(), nil
}

//Personal.AI order the ending
