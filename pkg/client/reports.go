package client

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/turtacn/hydromoment/pkg/errors"
	"github.com/turtacn/hydromoment/pkg/types/common"
	htypes "github.com/turtacn/hydromoment/pkg/types/hydropathy"
)

// ReportsClient reads archived moment reports.
type ReportsClient struct {
	client *Client
}

// ReportSummary is one entry of the report listing.
type ReportSummary struct {
	RunID        string            `json:"run_id"`
	Bucket       string            `json:"bucket"`
	ObjectKey    string            `json:"object_key"`
	ETag         string            `json:"etag,omitempty"`
	Size         int64             `json:"size"`
	LastModified time.Time         `json:"last_modified"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// ReportList is a page of the report listing.
type ReportList struct {
	Reports []ReportSummary `json:"reports"`
	Total   int             `json:"total"`
}

// ReportURL is a presigned download link.
type ReportURL struct {
	RunID     string    `json:"run_id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// List returns up to limit reports, newest first. Zero uses the server
// default.
func (r *ReportsClient) List(ctx context.Context, limit int) ([]ReportSummary, error) {
	if limit < 0 {
		return nil, errors.InvalidParam("limit must not be negative")
	}
	path := "/api/v1/reports"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}
	var out ReportList
	if err := r.client.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Reports, nil
}

// Get fetches the archived report of a run.
func (r *ReportsClient) Get(ctx context.Context, runID string) (*htypes.ComputeResponse, error) {
	if !common.IsRunID(runID) {
		return nil, errors.InvalidParam("run id must be a UUID").WithDetail(runID)
	}
	var out htypes.ComputeResponse
	if err := r.client.get(ctx, "/api/v1/reports/"+url.PathEscape(runID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// URL returns a presigned link to the report. Zero expiry uses the server
// default.
func (r *ReportsClient) URL(ctx context.Context, runID string, expiry time.Duration) (*ReportURL, error) {
	if !common.IsRunID(runID) {
		return nil, errors.InvalidParam("run id must be a UUID").WithDetail(runID)
	}
	path := "/api/v1/reports/" + url.PathEscape(runID) + "/url"
	if expiry > 0 {
		path += "?" + url.Values{"expiry": {expiry.String()}}.Encode()
	}
	var out ReportURL
	if err := r.client.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
