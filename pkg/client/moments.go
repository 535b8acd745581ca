package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/turtacn/hydromoment/pkg/errors"
	htypes "github.com/turtacn/hydromoment/pkg/types/hydropathy"
)

// MomentsClient covers moment runs, queued jobs, classification and the
// scale catalogue.
type MomentsClient struct {
	client *Client
}

// Compute runs a moment calculation synchronously.
func (m *MomentsClient) Compute(ctx context.Context, req *htypes.ComputeRequest) (*htypes.ComputeResponse, error) {
	if err := validateCompute(req); err != nil {
		return nil, err
	}
	var out htypes.ComputeResponse
	if err := m.client.post(ctx, "/api/v1/moments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitJob queues a calculation for the worker. The returned job id is the
// run id under which the report is archived.
func (m *MomentsClient) SubmitJob(ctx context.Context, req *htypes.ComputeRequest) (*htypes.JobAccepted, error) {
	if err := validateCompute(req); err != nil {
		return nil, err
	}
	var out htypes.JobAccepted
	if err := m.client.post(ctx, "/api/v1/jobs", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Classify returns the colour bucket of a value.
func (m *MomentsClient) Classify(ctx context.Context, req *htypes.ClassifyRequest) (*htypes.ClassifyResponse, error) {
	if req == nil || req.Value == nil {
		return nil, errors.InvalidParam("value is required")
	}
	if (req.Min == nil) != (req.Max == nil) {
		return nil, errors.InvalidParam("min and max must be given together")
	}
	var out htypes.ClassifyResponse
	if err := m.client.post(ctx, "/api/v1/classify", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Scales lists the hydrophobicity scales, with per-residue values when
// withValues is set.
func (m *MomentsClient) Scales(ctx context.Context, withValues bool) (*htypes.ScaleList, error) {
	path := "/api/v1/scales"
	if withValues {
		path += "?" + url.Values{"values": {strconv.FormatBool(true)}}.Encode()
	}
	var out htypes.ScaleList
	if err := m.client.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func validateCompute(req *htypes.ComputeRequest) error {
	if req == nil {
		return errors.InvalidParam("request is required")
	}
	if len(req.Coordinates) == 0 {
		return errors.New(errors.ErrCodeInvalidCoordinates, "no residue coordinates supplied")
	}
	return nil
}

//Personal.AI order the ending
