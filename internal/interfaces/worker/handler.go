// Package worker turns queued compute jobs into moment runs.
package worker

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/turtacn/hydromoment/internal/application/moments"
	"github.com/turtacn/hydromoment/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hydromoment/pkg/errors"
	htypes "github.com/turtacn/hydromoment/pkg/types/hydropathy"
)

// DefaultJobTimeout bounds a single run.
const DefaultJobTimeout = 5 * time.Minute

// JobHandler runs ComputeJobs from the request topic. The job id becomes the
// run id, so an archived result is found under /api/v1/reports/{jobID}.
type JobHandler struct {
	svc     moments.Service
	logger  logging.Logger
	timeout time.Duration
}

// NewJobHandler creates a JobHandler. A non-positive timeout uses
// DefaultJobTimeout.
func NewJobHandler(svc moments.Service, logger logging.Logger, timeout time.Duration) *JobHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	return &JobHandler{svc: svc, logger: logger.Named("worker"), timeout: timeout}
}

// Handle implements kafka.MessageHandler. Malformed messages and invalid
// jobs are permanent failures; unavailable backends are retried.
func (h *JobHandler) Handle(ctx context.Context, msg *kafka.Message) error {
	env, err := kafka.MessageToEventEnvelope(msg)
	if err != nil {
		return kafka.Permanent(err)
	}
	if env.EventType != kafka.EventMomentRequested {
		h.logger.Warn("Skipping unexpected event",
			logging.String("event_type", env.EventType),
			logging.String("event_id", env.EventID))
		return nil
	}

	var job htypes.ComputeJob
	if err := env.DecodePayload(&job); err != nil {
		return kafka.Permanent(err)
	}

	log := h.logger.With(logging.String("job_id", job.JobID))
	if !job.SubmittedAt.IsZero() {
		log = log.With(logging.Duration("queued_for", time.Since(job.SubmittedAt)))
	}

	runCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	r := job.Request
	res, err := h.svc.Compute(runCtx, &moments.Request{
		RunID:        job.JobID,
		Coordinates:  moments.FromPoints(r.Coordinates),
		Radius:       r.Radius,
		Scale:        r.Scale,
		DistanceMode: r.DistanceMode,
		RSAThreshold: r.RSAThreshold,
		ACCArray:     r.ACCArray,
		Archive:      r.Archive,
		NoCache:      r.NoCache,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if transient(err) {
			log.WithError(err).Warn("Job failed, will retry")
			return err
		}
		log.WithError(err).Error("Job rejected")
		return kafka.Permanent(err)
	}

	log.Info("Job completed",
		logging.RunID(res.RunID),
		logging.Int("residues", len(res.Moments)),
		logging.Bool("cached", res.Cached),
		logging.Bool("archived", res.Archive != nil),
		logging.Duration("duration", res.Duration))
	return nil
}

// transient reports whether a retry could succeed.
func transient(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeServiceUnavailable, errors.ErrCodeTimeout,
		errors.ErrCodeStorageError, errors.ErrCodeCacheError, errors.ErrCodeDatabaseError:
		return true
	}
	return false
}

//Personal.AI order the ending
