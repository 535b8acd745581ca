// Package moments provides the application service behind the hmoment CLI
// and the HTTP API: it validates run parameters, consults the result cache,
// runs the moment aggregation, archives reports and records metrics.
package moments

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/turtacn/hydromoment/internal/config"
	"github.com/turtacn/hydromoment/internal/domain/hydropathy"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/hydromoment/internal/infrastructure/storage/minio"
	"github.com/turtacn/hydromoment/pkg/errors"
	"github.com/turtacn/hydromoment/pkg/types/common"
	htypes "github.com/turtacn/hydromoment/pkg/types/hydropathy"
)

// Cache stores computed moment sets under content-addressed keys. GetOrSet
// runs loader once per key across concurrent callers and reports a hit.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) (bool, error)
}

// Archive stores run reports keyed by run id.
type Archive interface {
	Put(ctx context.Context, runID string, report interface{}, metadata map[string]string) (*minio.ArchivedReport, error)
	Get(ctx context.Context, runID string, dest interface{}) error
	Stat(ctx context.Context, runID string) (*minio.ArchivedReport, error)
	Delete(ctx context.Context, runID string) error
	List(ctx context.Context, limit int) ([]*minio.ArchivedReport, error)
	PresignedURL(ctx context.Context, runID string, expiry time.Duration) (string, error)
}

// EventPublisher announces completed runs.
type EventPublisher interface {
	PublishRunCompleted(ctx context.Context, ev *htypes.RunCompleted) error
}

// RunStore records the run history.
type RunStore interface {
	Upsert(ctx context.Context, rec *htypes.RunRecord) error
	Get(ctx context.Context, runID string) (*htypes.RunRecord, error)
	List(ctx context.Context, limit int, status string) ([]*htypes.RunRecord, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Service defines the moment application operations.
type Service interface {
	Compute(ctx context.Context, req *Request) (*Result, error)
	Classify(ctx context.Context, req *ClassifyInput) (*htypes.ClassifyResponse, error)
	ListScales(includeValues bool) *htypes.ScaleList
	GetReport(ctx context.Context, runID string) (*htypes.ComputeResponse, error)
	ListReports(ctx context.Context, limit int) ([]*minio.ArchivedReport, error)
	ReportURL(ctx context.Context, runID string, expiry time.Duration) (string, error)
	TrackJob(ctx context.Context, runID string, residues int) error
	GetRun(ctx context.Context, runID string) (*htypes.RunRecord, error)
	ListRuns(ctx context.Context, limit int, status string) (*htypes.RunList, error)
	Prune(ctx context.Context, olderThan time.Duration) (*htypes.PruneResult, error)
}

// Request carries one moment run. Zero-valued parameters take the service
// defaults. RunID, when set, must be a UUID and replaces the generated id.
type Request struct {
	RunID        string
	Coordinates  hydropathy.CoordinateMap
	Radius       float64
	Scale        string
	DistanceMode string
	RSAThreshold float64
	ACCArray     string
	Workers      int
	Archive      bool
	NoCache      bool
}

// Params are the resolved, validated parameters of a run.
type Params struct {
	Scale        *hydropathy.Scale
	Radius       float64
	DistanceMode hydropathy.DistanceMode
	RSAThreshold float64
	ACCArray     hydropathy.ACCArray
}

// Result is the outcome of one run.
type Result struct {
	RunID     string
	Params    Params
	Moments   hydropathy.MomentSet
	Cached    bool
	Archive   *minio.ArchivedReport
	Duration  time.Duration
	CreatedAt time.Time
}

// ClassifyInput asks for the bucket of Value against either a named scale or
// an explicit [Min, Max] range. Reversed, when set, overrides the scale's
// orientation.
type ClassifyInput struct {
	Value    float64
	Scale    string
	Min      *float64
	Max      *float64
	Reversed *bool
}

// Option configures the service.
type Option func(*serviceImpl)

// WithCache enables result caching with the given TTL.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(s *serviceImpl) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithArchive enables report archiving.
func WithArchive(a Archive) Option {
	return func(s *serviceImpl) { s.archive = a }
}

// WithMetrics records run metrics.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(s *serviceImpl) { s.metrics = m }
}

// WithEvents publishes a RunCompleted event after every successful run.
// Publish failures are logged and do not fail the run.
func WithEvents(p EventPublisher) Option {
	return func(s *serviceImpl) { s.events = p }
}

// WithRunStore records every run in the run history. Store failures are
// logged and do not fail the run.
func WithRunStore(r RunStore) Option {
	return func(s *serviceImpl) { s.runs = r }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) { s.now = now }
}

type serviceImpl struct {
	cfg      config.MomentConfig
	logger   logging.Logger
	cache    Cache
	cacheTTL time.Duration
	archive  Archive
	metrics  *prometheus.AppMetrics
	events   EventPublisher
	runs     RunStore
	now      func() time.Time
}

// NewService creates the moment application service. cfg is expected to have
// passed config.Validate.
func NewService(cfg config.MomentConfig, logger logging.Logger, opts ...Option) Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &serviceImpl{
		cfg:    cfg,
		logger: logger.Named("moments"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ─────────────────────────────────────────────────────────────────────────────
// Compute
// ─────────────────────────────────────────────────────────────────────────────

func (s *serviceImpl) Compute(ctx context.Context, req *Request) (_ *Result, err error) {
	if req == nil {
		return nil, errors.InvalidParam("request is required")
	}
	runID := req.RunID
	if runID == "" {
		runID = common.NewRunID()
	} else if !common.IsRunID(runID) {
		return nil, errors.InvalidParam("run id must be a UUID").WithDetail("run_id=" + runID)
	}

	start := s.now()
	ctx = logging.ContextWithRunID(ctx, runID)
	if s.runs != nil {
		s.track(ctx, s.runRecord(runID, req, htypes.StatusRunning, start))
		defer func() {
			if err != nil {
				rec := s.runRecord(runID, req, htypes.StatusFailed, start)
				rec.ErrorCode = string(errors.GetCode(err))
				rec.ErrorMessage = err.Error()
				rec.DurationMs = s.now().Sub(start).Milliseconds()
				s.track(ctx, rec)
			}
		}()
	}

	params, err := s.resolve(req)
	if err != nil {
		return nil, err
	}
	if len(req.Coordinates) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidCoordinates, "no residue coordinates supplied")
	}
	if s.cfg.MaxResidues > 0 && len(req.Coordinates) > s.cfg.MaxResidues {
		return nil, errors.Newf(errors.ErrCodeInvalidCoordinates, "too many residues: %d > %d",
			len(req.Coordinates), s.cfg.MaxResidues)
	}
	log := s.logger.WithContext(ctx).With(
		logging.Scale(params.Scale.Name),
		logging.Radius(params.Radius),
		logging.String("distance_mode", params.DistanceMode.String()),
	)

	result := &Result{RunID: runID, Params: params, CreatedAt: start.UTC()}
	key := CacheKey(req.Coordinates, params)

	result.Moments, result.Cached, err = s.moments(ctx, log, key, req, params, start)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordMomentFailure(params.Scale.Name, string(errors.GetCode(err)))
		}
		log.WithError(err).Warn("Moment computation failed", logging.Int("residues", len(req.Coordinates)))
		return nil, err
	}
	result.Duration = s.now().Sub(start)

	if err := s.persist(ctx, log, req, result); err != nil {
		return nil, err
	}
	ev := completedEvent(result)
	if s.runs != nil {
		s.track(ctx, completedRecord(ev))
	}
	if s.events != nil {
		if err := s.events.PublishRunCompleted(ctx, ev); err != nil {
			log.WithError(err).Warn("Failed to publish run event")
		}
	}

	log.Info("Moments calculated",
		logging.Int("count", len(result.Moments)),
		logging.Bool("cached", result.Cached),
		logging.Duration("duration", result.Duration),
	)
	return result, nil
}

// resolve applies defaults and validates every run parameter.
func (s *serviceImpl) resolve(req *Request) (Params, error) {
	var p Params

	p.Radius = req.Radius
	if p.Radius == 0 {
		p.Radius = s.cfg.Radius
	}
	if err := s.cfg.RadiusWindow().Check(p.Radius); err != nil {
		return p, err
	}

	name := req.Scale
	if name == "" {
		name = s.cfg.Scale
	}
	scale, err := hydropathy.LookupScale(name)
	if err != nil {
		return p, err
	}
	p.Scale = scale

	modeName := req.DistanceMode
	if modeName == "" {
		modeName = s.cfg.DistanceMode
	}
	if p.DistanceMode, err = hydropathy.ParseDistanceMode(modeName); err != nil {
		return p, err
	}

	p.RSAThreshold = req.RSAThreshold
	if p.RSAThreshold == 0 {
		p.RSAThreshold = s.cfg.RSAThreshold
	}
	if err := hydropathy.CheckRSAThreshold(p.RSAThreshold); err != nil {
		return p, err
	}

	accName := req.ACCArray
	if accName == "" {
		accName = s.cfg.ACCArray
	}
	if p.ACCArray, err = hydropathy.ParseACCArray(accName); err != nil {
		return p, err
	}
	return p, nil
}

// moments returns the moment set of a run and whether it came from the
// cache. Identical concurrent runs share one computation. A failing cache is
// logged and bypassed.
func (s *serviceImpl) moments(ctx context.Context, log logging.Logger, key string, req *Request, params Params, start time.Time) (hydropathy.MomentSet, bool, error) {
	compute := func(ctx context.Context) (hydropathy.MomentSet, error) {
		workers := s.cfg.Workers
		if req.Workers > 0 {
			workers = req.Workers
		}
		set, err := hydropathy.ComputeMomentsContext(ctx, req.Coordinates, params.Radius, params.Scale,
			hydropathy.WithDistanceMode(params.DistanceMode),
			hydropathy.WithWorkers(workers),
		)
		if err != nil {
			return nil, err
		}
		if s.metrics != nil {
			neighbors := make([]int, len(set))
			buckets := make([]int, len(set))
			for i, m := range set {
				neighbors[i], buckets[i] = m.Neighbors, m.Bucket
			}
			s.metrics.RecordMomentRun(params.Scale.Name, params.DistanceMode.String(), s.now().Sub(start), neighbors, buckets)
		}
		return set, nil
	}

	if s.cache == nil {
		set, err := compute(ctx)
		return set, false, err
	}
	if req.NoCache {
		set, err := compute(ctx)
		if err != nil {
			return nil, false, err
		}
		if err := s.cache.Set(ctx, key, set, s.cacheTTL); err != nil {
			log.WithError(err).Warn("Failed to cache moments")
		}
		return set, false, nil
	}

	var set hydropathy.MomentSet
	hit, err := s.cache.GetOrSet(ctx, key, &set, s.cacheTTL, func(ctx context.Context) (interface{}, error) {
		return compute(ctx)
	})
	switch {
	case err == nil && hit:
		s.recordCache(prometheus.CacheHit)
		log.Debug("Moment cache hit", logging.String("key", key))
		return set, true, nil
	case err == nil:
		s.recordCache(prometheus.CacheMiss)
		return set, false, nil
	case errors.IsCode(err, errors.ErrCodeCacheError):
		s.recordCache(prometheus.CacheError)
		log.WithError(err).Warn("Moment cache lookup failed")
		set, err := compute(ctx)
		return set, false, err
	default:
		s.recordCache(prometheus.CacheMiss)
		return nil, false, err
	}
}

func (s *serviceImpl) recordCache(result string) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(result)
	}
}

// persist archives the report when the run asks for it. Archive failures
// fail the run.
func (s *serviceImpl) persist(ctx context.Context, log logging.Logger, req *Request, res *Result) error {
	if !req.Archive {
		return nil
	}
	if s.archive == nil {
		return errors.New(errors.ErrCodeServiceUnavailable, "report archive is not configured")
	}
	ref, err := s.archive.Put(ctx, res.RunID, ToResponse(res), reportMetadata(res))
	if s.metrics != nil {
		s.metrics.RecordArchive("put", err)
	}
	if err != nil {
		log.WithError(err).Error("Failed to archive report")
		return err
	}
	res.Archive = ref
	return nil
}

func completedEvent(res *Result) *htypes.RunCompleted {
	ev := &htypes.RunCompleted{
		RunID:        res.RunID,
		Scale:        res.Params.Scale.Name,
		Radius:       res.Params.Radius,
		DistanceMode: res.Params.DistanceMode.String(),
		Residues:     len(res.Moments),
		Cached:       res.Cached,
		DurationMs:   res.Duration.Milliseconds(),
		CreatedAt:    res.CreatedAt,
	}
	if res.Archive != nil {
		ev.ArchiveKey = res.Archive.ObjectKey
	}
	return ev
}

// runRecord describes a run that has not completed. Parameters are the
// requested ones, falling back to the configured defaults.
func (s *serviceImpl) runRecord(runID string, req *Request, status string, start time.Time) *htypes.RunRecord {
	rec := &htypes.RunRecord{
		RunID:        runID,
		Status:       status,
		Scale:        req.Scale,
		Radius:       req.Radius,
		DistanceMode: req.DistanceMode,
		Residues:     len(req.Coordinates),
		CreatedAt:    start.UTC(),
	}
	if rec.Scale == "" {
		rec.Scale = s.cfg.Scale
	}
	if rec.Radius == 0 {
		rec.Radius = s.cfg.Radius
	}
	if rec.DistanceMode == "" {
		rec.DistanceMode = s.cfg.DistanceMode
	}
	return rec
}

func completedRecord(ev *htypes.RunCompleted) *htypes.RunRecord {
	return &htypes.RunRecord{
		RunID:        ev.RunID,
		Status:       htypes.StatusCompleted,
		Scale:        ev.Scale,
		Radius:       ev.Radius,
		DistanceMode: ev.DistanceMode,
		Residues:     ev.Residues,
		Cached:       ev.Cached,
		ArchiveKey:   ev.ArchiveKey,
		DurationMs:   ev.DurationMs,
		CreatedAt:    ev.CreatedAt,
	}
}

// track writes rec to the run history, logging failures.
func (s *serviceImpl) track(ctx context.Context, rec *htypes.RunRecord) {
	if err := s.runs.Upsert(ctx, rec); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("Failed to record run", logging.String("status", rec.Status))
	}
}

func reportMetadata(res *Result) map[string]string {
	return map[string]string{
		"scale":         res.Params.Scale.Name,
		"radius":        strconv.FormatFloat(res.Params.Radius, 'g', -1, 64),
		"distance-mode": res.Params.DistanceMode.String(),
		"residues":      strconv.Itoa(len(res.Moments)),
	}
}

// CacheKey derives a content address from the coordinates and every
// parameter that affects the moments.
func CacheKey(coords hydropathy.CoordinateMap, p Params) string {
	ids := make([]string, 0, len(coords))
	for id := range coords {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	h := sha256.New()
	buf := make([]byte, 0, 64)
	write := func(s string) {
		buf = append(buf[:0], s...)
		buf = append(buf, 0)
		h.Write(buf)
	}
	write(p.Scale.Name)
	write(strconv.FormatFloat(p.Radius, 'g', -1, 64))
	write(p.DistanceMode.String())
	for _, id := range ids {
		c := coords[id]
		write(id)
		write(strconv.FormatFloat(c.X, 'g', -1, 64))
		write(strconv.FormatFloat(c.Y, 'g', -1, 64))
		write(strconv.FormatFloat(c.Z, 'g', -1, 64))
	}
	return "moments:" + hex.EncodeToString(h.Sum(nil))
}

// ─────────────────────────────────────────────────────────────────────────────
// Classify / scales
// ─────────────────────────────────────────────────────────────────────────────

func (s *serviceImpl) Classify(_ context.Context, in *ClassifyInput) (*htypes.ClassifyResponse, error) {
	if in == nil {
		return nil, errors.InvalidParam("request is required")
	}
	if math.IsNaN(in.Value) || math.IsInf(in.Value, 0) {
		return nil, errors.InvalidParam("value must be finite")
	}

	out := &htypes.ClassifyResponse{Value: in.Value}
	switch {
	case in.Min != nil || in.Max != nil:
		if in.Min == nil || in.Max == nil {
			return nil, errors.InvalidParam("min and max must be given together")
		}
		lo, hi := *in.Min, *in.Max
		if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			return nil, errors.InvalidParam("min and max must be finite")
		}
		if lo > hi {
			return nil, errors.InvalidParam("min must not exceed max").
				WithDetail("min=" + strconv.FormatFloat(lo, 'g', -1, 64) + " max=" + strconv.FormatFloat(hi, 'g', -1, 64))
		}
		out.Min, out.Max = lo, hi
		if in.Scale != "" {
			out.Scale = in.Scale
		}
	default:
		name := in.Scale
		if name == "" {
			name = s.cfg.Scale
		}
		scale, err := hydropathy.LookupScale(name)
		if err != nil {
			return nil, err
		}
		out.Scale = scale.Name
		out.Min, out.Max = scale.Min(), scale.Max()
		out.Reversed = scale.Reversed
	}
	if in.Reversed != nil {
		out.Reversed = *in.Reversed
	}

	out.Bucket = hydropathy.BucketIndex(out.Value, out.Min, out.Max)
	color := hydropathy.ColorForBucket(out.Bucket, out.Reversed)
	out.Color = color.Hex()
	out.RGB = htypes.Point{color.R, color.G, color.B}
	th := hydropathy.Thresholds(out.Min, out.Max)
	out.Thresholds = th[:]
	return out, nil
}

func (s *serviceImpl) ListScales(includeValues bool) *htypes.ScaleList {
	scales := hydropathy.BuiltinScales()
	out := &htypes.ScaleList{Scales: make([]htypes.ScaleInfo, 0, len(scales)), Total: len(scales)}
	for _, sc := range scales {
		info := htypes.ScaleInfo{
			Name:     sc.Name,
			Reversed: sc.Reversed,
			Default:  sc.Name == s.cfg.Scale,
			Min:      sc.Min(),
			Max:      sc.Max(),
		}
		if includeValues {
			info.Values = make(map[string]float64, len(sc.Values))
			for rt, v := range sc.Values {
				info.Values[rt.String()] = v
			}
		}
		out.Scales = append(out.Scales, info)
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Reports
// ─────────────────────────────────────────────────────────────────────────────

func (s *serviceImpl) requireArchive(runID string) error {
	if s.archive == nil {
		return errors.New(errors.ErrCodeServiceUnavailable, "report archive is not configured")
	}
	if runID != "" && !common.IsRunID(runID) {
		return errors.InvalidParam("run id must be a UUID").WithDetail(runID)
	}
	return nil
}

func (s *serviceImpl) GetReport(ctx context.Context, runID string) (*htypes.ComputeResponse, error) {
	if runID == "" {
		return nil, errors.InvalidParam("run id is required")
	}
	if err := s.requireArchive(runID); err != nil {
		return nil, err
	}
	var report htypes.ComputeResponse
	err := s.archive.Get(ctx, runID, &report)
	if s.metrics != nil {
		s.metrics.RecordArchive("get", err)
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *serviceImpl) ListReports(ctx context.Context, limit int) ([]*minio.ArchivedReport, error) {
	if err := s.requireArchive(""); err != nil {
		return nil, err
	}
	reports, err := s.archive.List(ctx, limit)
	if s.metrics != nil {
		s.metrics.RecordArchive("list", err)
	}
	return reports, err
}

func (s *serviceImpl) ReportURL(ctx context.Context, runID string, expiry time.Duration) (string, error) {
	if runID == "" {
		return "", errors.InvalidParam("run id is required")
	}
	if err := s.requireArchive(runID); err != nil {
		return "", err
	}
	// Presigning never touches the bucket, so check the report exists first.
	_, err := s.archive.Stat(ctx, runID)
	if s.metrics != nil {
		s.metrics.RecordArchive("stat", err)
	}
	if err != nil {
		return "", err
	}
	return s.archive.PresignedURL(ctx, runID, expiry)
}

// ─────────────────────────────────────────────────────────────────────────────
// Run history
// ─────────────────────────────────────────────────────────────────────────────

// TrackJob records runID as queued. Without a run store it does nothing.
func (s *serviceImpl) TrackJob(ctx context.Context, runID string, residues int) error {
	if s.runs == nil {
		return nil
	}
	if !common.IsRunID(runID) {
		return errors.InvalidParam("run id must be a UUID").WithDetail(runID)
	}
	return s.runs.Upsert(ctx, &htypes.RunRecord{
		RunID:     runID,
		Status:    htypes.StatusQueued,
		Residues:  residues,
		CreatedAt: s.now().UTC(),
	})
}

func (s *serviceImpl) GetRun(ctx context.Context, runID string) (*htypes.RunRecord, error) {
	if s.runs == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "run history is not configured")
	}
	if !common.IsRunID(runID) {
		return nil, errors.InvalidParam("run id must be a UUID").WithDetail(runID)
	}
	return s.runs.Get(ctx, runID)
}

func (s *serviceImpl) ListRuns(ctx context.Context, limit int, status string) (*htypes.RunList, error) {
	if s.runs == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "run history is not configured")
	}
	if limit < 0 {
		return nil, errors.InvalidParam("limit must not be negative")
	}
	if status != "" && !htypes.ValidStatus(status) {
		return nil, errors.InvalidParam("unknown run status").WithDetail("status=" + status)
	}
	runs, err := s.runs.List(ctx, limit, status)
	if err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []*htypes.RunRecord{}
	}
	return &htypes.RunList{Runs: runs, Total: len(runs)}, nil
}

// Prune deletes finished runs and archived reports older than olderThan.
// Either backend may be absent, but not both.
func (s *serviceImpl) Prune(ctx context.Context, olderThan time.Duration) (*htypes.PruneResult, error) {
	if olderThan <= 0 {
		return nil, errors.InvalidParam("older-than must be a positive duration").WithDetail(olderThan.String())
	}
	if s.runs == nil && s.archive == nil {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "run history and report archive are not configured")
	}
	out := &htypes.PruneResult{Cutoff: s.now().Add(-olderThan).UTC()}
	log := s.logger.WithContext(ctx)

	if s.runs != nil {
		n, err := s.runs.DeleteBefore(ctx, out.Cutoff)
		if err != nil {
			return nil, err
		}
		out.Runs = n
	}

	if s.archive != nil {
		reports, err := s.archive.List(ctx, 0)
		if s.metrics != nil {
			s.metrics.RecordArchive("list", err)
		}
		if err != nil {
			return nil, err
		}
		for _, r := range reports {
			if !r.LastModified.Before(out.Cutoff) {
				continue
			}
			err := s.archive.Delete(ctx, r.RunID)
			if s.metrics != nil {
				s.metrics.RecordArchive("delete", err)
			}
			if err != nil {
				return nil, err
			}
			out.Reports++
		}
	}

	log.Info("Pruned history",
		logging.Int64("runs", out.Runs),
		logging.Int("reports", out.Reports),
		logging.String("cutoff", out.Cutoff.Format(time.RFC3339)),
	)
	return out, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// DTO conversion
// ─────────────────────────────────────────────────────────────────────────────

// ToResponse converts a run result to its wire form.
func ToResponse(res *Result) *htypes.ComputeResponse {
	out := &htypes.ComputeResponse{
		RunID: res.RunID,
		Parameters: htypes.RunParameters{
			Scale:        res.Params.Scale.Name,
			Reversed:     res.Params.Scale.Reversed,
			ScaleMin:     res.Params.Scale.Min(),
			ScaleMax:     res.Params.Scale.Max(),
			Radius:       res.Params.Radius,
			DistanceMode: res.Params.DistanceMode.String(),
			RSAThreshold: res.Params.RSAThreshold,
			ACCArray:     string(res.Params.ACCArray),
		},
		Count:     len(res.Moments),
		Moments:   make([]htypes.Moment, len(res.Moments)),
		Cached:    res.Cached,
		Duration:  res.Duration.String(),
		CreatedAt: res.CreatedAt,
	}
	if res.Archive != nil {
		out.ArchiveKey = res.Archive.ObjectKey
	}
	for i, m := range res.Moments {
		out.Moments[i] = htypes.Moment{
			Residue:   m.Residue,
			Origin:    htypes.Point{m.Center.X, m.Center.Y, m.Center.Z},
			Vector:    htypes.Point{m.Moment.X, m.Moment.Y, m.Moment.Z},
			MeanIndex: m.MeanIndex,
			Bucket:    m.Bucket,
			Color:     m.Color.Hex(),
			RGB:       htypes.Point{m.Color.R, m.Color.G, m.Color.B},
			Neighbors: m.Neighbors,
		}
	}
	return out
}

// FromPoints converts wire coordinates to a domain coordinate map.
func FromPoints(points map[string]htypes.Point) hydropathy.CoordinateMap {
	coords := make(hydropathy.CoordinateMap, len(points))
	for id, p := range points {
		coords[id] = hydropathy.Vec3{X: p[0], Y: p[1], Z: p[2]}
	}
	return coords
}

//Personal.AI order the ending
