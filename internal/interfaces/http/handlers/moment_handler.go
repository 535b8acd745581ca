package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/hydromoment/internal/application/moments"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hydromoment/internal/infrastructure/storage/minio"
	"github.com/turtacn/hydromoment/pkg/errors"
	"github.com/turtacn/hydromoment/pkg/types/common"
	htypes "github.com/turtacn/hydromoment/pkg/types/hydropathy"
)

const (
	defaultReportLimit = 20
	defaultRunLimit    = 50
)

// JobQueue hands compute jobs to the worker.
type JobQueue interface {
	SubmitJob(ctx context.Context, job *htypes.ComputeJob) error
	RequestTopic() string
}

// MomentHandler serves the moment, classification, scale and report
// endpoints.
type MomentHandler struct {
	svc     moments.Service
	jobs    JobQueue
	logger  logging.Logger
	maxBody int64
}

// NewMomentHandler creates a MomentHandler. A non-positive maxBody uses
// DefaultMaxBodySize.
func NewMomentHandler(svc moments.Service, logger logging.Logger, maxBody int64) *MomentHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if maxBody <= 0 {
		maxBody = DefaultMaxBodySize
	}
	return &MomentHandler{svc: svc, logger: logger.Named("http"), maxBody: maxBody}
}

// WithJobQueue enables POST /api/v1/jobs.
func (h *MomentHandler) WithJobQueue(q JobQueue) *MomentHandler {
	h.jobs = q
	return h
}

// Compute handles POST /api/v1/moments.
func (h *MomentHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req htypes.ComputeRequest
	if !decodeJSON(w, r, h.maxBody, &req) {
		return
	}

	res, err := h.svc.Compute(r.Context(), &moments.Request{
		Coordinates:  moments.FromPoints(req.Coordinates),
		Radius:       req.Radius,
		Scale:        req.Scale,
		DistanceMode: req.DistanceMode,
		RSAThreshold: req.RSAThreshold,
		ACCArray:     req.ACCArray,
		Archive:      req.Archive,
		NoCache:      req.NoCache,
	})
	if err != nil {
		h.logger.WithContext(r.Context()).Warn("Compute request failed",
			logging.Int("residues", len(req.Coordinates)), logging.Err(err))
		writeAppError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, moments.ToResponse(res))
}

// SubmitJob handles POST /api/v1/jobs. The job id is also the run id of the
// report the worker archives.
func (h *MomentHandler) SubmitJob(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		writeAppError(w, r, errors.New(errors.ErrCodeServiceUnavailable, "job queue is not configured"))
		return
	}
	var req htypes.ComputeRequest
	if !decodeJSON(w, r, h.maxBody, &req) {
		return
	}

	job := &htypes.ComputeJob{
		JobID:       common.NewRunID(),
		Request:     req,
		SubmittedAt: time.Now().UTC(),
	}
	if err := h.svc.TrackJob(r.Context(), job.JobID, len(req.Coordinates)); err != nil {
		h.logger.WithContext(r.Context()).Warn("Failed to record queued job",
			logging.String("job_id", job.JobID), logging.Err(err))
	}
	if err := h.jobs.SubmitJob(r.Context(), job); err != nil {
		h.logger.WithContext(r.Context()).Error("Job submission failed",
			logging.String("job_id", job.JobID), logging.Err(err))
		writeAppError(w, r, err)
		return
	}
	h.logger.WithContext(r.Context()).Info("Job queued",
		logging.String("job_id", job.JobID), logging.Int("residues", len(req.Coordinates)))
	writeData(w, r, http.StatusAccepted, htypes.JobAccepted{
		JobID:  job.JobID,
		Status: "queued",
		Topic:  h.jobs.RequestTopic(),
	})
}

// Classify handles POST /api/v1/classify.
func (h *MomentHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req htypes.ClassifyRequest
	if !decodeJSON(w, r, h.maxBody, &req) {
		return
	}

	resp, err := h.svc.Classify(r.Context(), &moments.ClassifyInput{
		Value:    *req.Value,
		Scale:    req.Scale,
		Min:      req.Min,
		Max:      req.Max,
		Reversed: req.Reversed,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, resp)
}

// ListScales handles GET /api/v1/scales[?values=true].
func (h *MomentHandler) ListScales(w http.ResponseWriter, r *http.Request) {
	withValues, _ := strconv.ParseBool(r.URL.Query().Get("values"))
	writeData(w, r, http.StatusOK, h.svc.ListScales(withValues))
}

// ReportListResponse is a page of archived reports, newest first.
type ReportListResponse struct {
	Reports []*minio.ArchivedReport `json:"reports"`
	Total   int                     `json:"total"`
}

// ListReports handles GET /api/v1/reports[?limit=n].
func (h *MomentHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultReportLimit)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	list, err := h.svc.ListReports(r.Context(), limit)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if list == nil {
		list = []*minio.ArchivedReport{}
	}
	writeData(w, r, http.StatusOK, ReportListResponse{Reports: list, Total: len(list)})
}

// GetReport handles GET /api/v1/reports/{runID}.
func (h *MomentHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.GetReport(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, report)
}

// ReportURLResponse carries a presigned report link.
type ReportURLResponse struct {
	RunID     string    `json:"run_id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// ReportURL handles GET /api/v1/reports/{runID}/url[?expiry=1h].
func (h *MomentHandler) ReportURL(w http.ResponseWriter, r *http.Request) {
	var expiry time.Duration
	if v := r.URL.Query().Get("expiry"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			writeAppError(w, r, errors.InvalidParam("expiry must be a positive duration").WithDetail("expiry="+v))
			return
		}
		expiry = d
	}

	runID := chi.URLParam(r, "runID")
	u, err := h.svc.ReportURL(r.Context(), runID, expiry)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	resp := ReportURLResponse{RunID: runID, URL: u}
	if expiry > 0 {
		resp.ExpiresAt = time.Now().UTC().Add(expiry)
	}
	writeData(w, r, http.StatusOK, resp)
}

// ListRuns handles GET /api/v1/runs[?limit=n&status=s].
func (h *MomentHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultRunLimit)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	list, err := h.svc.ListRuns(r.Context(), limit, r.URL.Query().Get("status"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, list)
}

// GetRun handles GET /api/v1/runs/{runID}.
func (h *MomentHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.GetRun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, rec)
}

//Personal.AI order the ending
