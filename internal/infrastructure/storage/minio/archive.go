package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hydromoment/pkg/errors"
)

const reportContentType = "application/json"

var (
	ErrReportNotFound = errors.New(errors.ErrCodeReportNotFound, "moment report not found")
	ErrUploadFailed   = errors.New(errors.ErrCodeStorageError, "report upload failed")
	ErrDownloadFailed = errors.New(errors.ErrCodeStorageError, "report download failed")
	ErrInvalidRunID   = errors.New(errors.ErrCodeValidation, "invalid run id")
)

// ArchivedReport describes one stored report object.
type ArchivedReport struct {
	RunID        string            `json:"run_id"`
	Bucket       string            `json:"bucket"`
	ObjectKey    string            `json:"object_key"`
	ETag         string            `json:"etag,omitempty"`
	Size         int64             `json:"size"`
	LastModified time.Time         `json:"last_modified,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// ReportArchive stores JSON moment reports keyed by run id.
type ReportArchive struct {
	client *MinIOClient
	logger logging.Logger
}

func NewReportArchive(client *MinIOClient, log logging.Logger) *ReportArchive {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ReportArchive{client: client, logger: log}
}

// ObjectKey returns the object name a run's report is stored under.
func (a *ReportArchive) ObjectKey(runID string) string {
	return a.client.config.Prefix + runID + ".json"
}

func validRunID(runID string) bool {
	return runID != "" && !strings.ContainsAny(runID, "/\\") && runID != "." && runID != ".."
}

// Put serialises report as JSON and uploads it. Metadata is attached as
// user metadata on the object.
func (a *ReportArchive) Put(ctx context.Context, runID string, report interface{}, metadata map[string]string) (*ArchivedReport, error) {
	if a.client.isClosed() {
		return nil, ErrMinIOClientClosed
	}
	if !validRunID(runID) {
		return nil, ErrInvalidRunID.WithDetail(runID)
	}
	data, err := json.Marshal(report)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode moment report")
	}

	key := a.ObjectKey(runID)
	info, err := a.client.client.PutObject(ctx, a.client.config.Bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: reportContentType, UserMetadata: metadata})
	if err != nil {
		a.logger.Error("Failed to archive report", logging.RunID(runID), logging.Err(err))
		return nil, ErrUploadFailed.WithCause(err).WithDetail(key)
	}

	a.logger.Debug("Archived report",
		logging.RunID(runID),
		logging.String("object", key),
		logging.Int64("size", info.Size),
	)
	return &ArchivedReport{
		RunID:        runID,
		Bucket:       a.client.config.Bucket,
		ObjectKey:    key,
		ETag:         info.ETag,
		Size:         int64(len(data)),
		LastModified: info.LastModified,
		Metadata:     metadata,
	}, nil
}

// Get downloads the report for runID and decodes it into dest.
func (a *ReportArchive) Get(ctx context.Context, runID string, dest interface{}) error {
	if a.client.isClosed() {
		return ErrMinIOClientClosed
	}
	if !validRunID(runID) {
		return ErrInvalidRunID.WithDetail(runID)
	}
	key := a.ObjectKey(runID)
	obj, err := a.client.client.GetObject(ctx, a.client.config.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return a.mapReadErr(err, runID, key)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return a.mapReadErr(err, runID, key)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode moment report").WithDetail(key)
	}
	return nil
}

func (a *ReportArchive) mapReadErr(err error, runID, key string) error {
	if isNoSuchKey(err) {
		return ErrReportNotFound.WithDetail(runID)
	}
	return ErrDownloadFailed.WithCause(err).WithDetail(key)
}

// Stat returns object information without downloading the body.
func (a *ReportArchive) Stat(ctx context.Context, runID string) (*ArchivedReport, error) {
	if !validRunID(runID) {
		return nil, ErrInvalidRunID.WithDetail(runID)
	}
	key := a.ObjectKey(runID)
	info, err := a.client.client.StatObject(ctx, a.client.config.Bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrReportNotFound.WithDetail(runID)
		}
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to stat report").WithDetail(key)
	}
	return a.toArchived(info), nil
}

func (a *ReportArchive) Delete(ctx context.Context, runID string) error {
	if !validRunID(runID) {
		return ErrInvalidRunID.WithDetail(runID)
	}
	key := a.ObjectKey(runID)
	if err := a.client.client.RemoveObject(ctx, a.client.config.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to delete report").WithDetail(key)
	}
	return nil
}

// List returns up to limit archived reports, newest first. A non-positive
// limit returns all of them.
func (a *ReportArchive) List(ctx context.Context, limit int) ([]*ArchivedReport, error) {
	// Cancelling stops the lister goroutine when we return early.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objects := a.client.client.ListObjects(ctx, a.client.config.Bucket, minio.ListObjectsOptions{
		Prefix:       a.client.config.Prefix,
		Recursive:    true,
		WithMetadata: true,
	})

	var out []*ArchivedReport
	for obj := range objects {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, errors.ErrCodeStorageError, "failed to list reports")
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		out = append(out, a.toArchived(obj))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastModified.After(out[j].LastModified)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// PresignedURL returns a time-limited download link for runID's report.
func (a *ReportArchive) PresignedURL(ctx context.Context, runID string, expiry time.Duration) (string, error) {
	if !validRunID(runID) {
		return "", ErrInvalidRunID.WithDetail(runID)
	}
	return a.client.GeneratePresignedGetURL(ctx, a.ObjectKey(runID), expiry)
}

func (a *ReportArchive) toArchived(info minio.ObjectInfo) *ArchivedReport {
	return &ArchivedReport{
		RunID:        strings.TrimSuffix(path.Base(info.Key), ".json"),
		Bucket:       a.client.config.Bucket,
		ObjectKey:    info.Key,
		ETag:         info.ETag,
		Size:         info.Size,
		LastModified: info.LastModified,
		Metadata:     info.UserMetadata,
	}
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

//Personal.AI order the ending
