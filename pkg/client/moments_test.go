package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hydromoment/pkg/errors"
	htypes "github.com/turtacn/hydromoment/pkg/types/hydropathy"
)

func float(v float64) *float64 { return &v }

func TestMoments_Compute(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/moments", r.URL.Path)

		var req htypes.ComputeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 10.0, req.Radius)
		assert.Len(t, req.Coordinates, 2)

		writeEnvelope(t, w, http.StatusOK, htypes.ComputeResponse{
			RunID: "3b241101-e2bb-4255-8caf-4136c566a962",
			Count: 2,
			Moments: []htypes.Moment{
				{Residue: "ALA1", Bucket: 4, Color: "white"},
				{Residue: "ARG2", Bucket: 0, Color: "blue"},
			},
		})
	})

	resp, err := c.Moments().Compute(context.Background(), &htypes.ComputeRequest{
		Coordinates: map[string]htypes.Point{"ALA1": {0, 0, 0}, "ARG2": {3, 0, 0}},
		Radius:      10,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "blue", resp.Moments[1].Color)
}

func TestMoments_ComputeRejectsEmptyRequest(t *testing.T) {
	c, err := NewClient("http://localhost:1")
	require.NoError(t, err)

	_, err = c.Moments().Compute(context.Background(), nil)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))

	_, err = c.Moments().Compute(context.Background(), &htypes.ComputeRequest{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidCoordinates))
}

func TestMoments_SubmitJob(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/jobs", r.URL.Path)
		writeEnvelope(t, w, http.StatusAccepted, htypes.JobAccepted{JobID: "j-1", Status: "queued", Topic: "hmoment.moment.requested"})
	})

	acc, err := c.Moments().SubmitJob(context.Background(), &htypes.ComputeRequest{
		Coordinates: map[string]htypes.Point{"ALA1": {0, 0, 0}},
	})
	require.NoError(t, err)
	assert.Equal(t, "queued", acc.Status)
	assert.Equal(t, "j-1", acc.JobID)
}

func TestMoments_SubmitJobWithoutQueue(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeErrorEnvelope(t, w, http.StatusServiceUnavailable, "COMMON_008", "job queue not configured")
	}, WithRetryMax(0))

	_, err := c.Moments().SubmitJob(context.Background(), &htypes.ComputeRequest{
		Coordinates: map[string]htypes.Point{"ALA1": {0, 0, 0}},
	})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}

func TestMoments_Classify(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/classify", r.URL.Path)
		var req htypes.ClassifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Value)
		writeEnvelope(t, w, http.StatusOK, htypes.ClassifyResponse{Value: *req.Value, Bucket: 9, Color: "red"})
	})

	resp, err := c.Moments().Classify(context.Background(), &htypes.ClassifyRequest{Value: float(4.5)})
	require.NoError(t, err)
	assert.Equal(t, 9, resp.Bucket)
	assert.Equal(t, 4.5, resp.Value)
}

func TestMoments_ClassifyValidation(t *testing.T) {
	c, err := NewClient("http://localhost:1")
	require.NoError(t, err)

	tests := []struct {
		name string
		req  *htypes.ClassifyRequest
	}{
		{"nil", nil},
		{"no value", &htypes.ClassifyRequest{}},
		{"min without max", &htypes.ClassifyRequest{Value: float(1), Min: float(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Moments().Classify(context.Background(), tt.req)
			assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
		})
	}
}

func TestMoments_Scales(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/scales", r.URL.Path)
		list := htypes.ScaleList{Scales: []htypes.ScaleInfo{{Name: "KD", Default: true, Min: -4.5, Max: 4.5}}, Total: 1}
		if r.URL.Query().Get("values") == "true" {
			list.Scales[0].Values = map[string]float64{"ILE": 4.5}
		}
		writeEnvelope(t, w, http.StatusOK, list)
	})

	plain, err := c.Moments().Scales(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, plain.Total)
	assert.Nil(t, plain.Scales[0].Values)

	full, err := c.Moments().Scales(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 4.5, full.Scales[0].Values["ILE"])
}

//Personal.AI order the ending
