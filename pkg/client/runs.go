package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/turtacn/hydromoment/pkg/errors"
	"github.com/turtacn/hydromoment/pkg/types/common"
	htypes "github.com/turtacn/hydromoment/pkg/types/hydropathy"
)

// RunsClient reads the run history.
type RunsClient struct {
	client *Client
}

// List returns up to limit runs, newest first. An empty status lists every
// run; zero limit uses the server default.
func (r *RunsClient) List(ctx context.Context, limit int, status string) (*htypes.RunList, error) {
	if limit < 0 {
		return nil, errors.InvalidParam("limit must not be negative")
	}
	if status != "" && !htypes.ValidStatus(status) {
		return nil, errors.InvalidParam("unknown run status").WithDetail("status=" + status)
	}
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if status != "" {
		q.Set("status", status)
	}
	path := "/api/v1/runs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out htypes.RunList
	if err := r.client.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns the history record of one run.
func (r *RunsClient) Get(ctx context.Context, runID string) (*htypes.RunRecord, error) {
	if !common.IsRunID(runID) {
		return nil, errors.InvalidParam("run id must be a UUID").WithDetail(runID)
	}
	var out htypes.RunRecord
	if err := r.client.get(ctx, "/api/v1/runs/"+url.PathEscape(runID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
