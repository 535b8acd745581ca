package moments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/hydromoment/internal/config"
	"github.com/turtacn/hydromoment/internal/domain/hydropathy"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/hydromoment/internal/infrastructure/storage/minio"
	"github.com/turtacn/hydromoment/internal/testutil"
	"github.com/turtacn/hydromoment/pkg/errors"
	"github.com/turtacn/hydromoment/pkg/types/common"
	htypes "github.com/turtacn/hydromoment/pkg/types/hydropathy"
)

// ─────────────────────────────────────────────────────────────────────────────
// Mocks
// ─────────────────────────────────────────────────────────────────────────────

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

// GetOrSet returns a hit when the first return value fills dest, the error
// when one is set, and otherwise runs loader as a miss.
func (m *MockCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) (bool, error) {
	args := m.Called(ctx, key, ttl)
	if fn, ok := args.Get(0).(func(interface{}) error); ok {
		return true, fn(dest)
	}
	if err := args.Error(1); err != nil {
		return false, err
	}
	v, err := loader(ctx)
	if err != nil {
		return false, err
	}
	*dest.(*hydropathy.MomentSet) = v.(hydropathy.MomentSet)
	return false, nil
}

type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) Put(ctx context.Context, runID string, report interface{}, metadata map[string]string) (*minio.ArchivedReport, error) {
	args := m.Called(ctx, runID, report, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*minio.ArchivedReport), args.Error(1)
}

func (m *MockArchive) Get(ctx context.Context, runID string, dest interface{}) error {
	args := m.Called(ctx, runID, dest)
	if fn, ok := args.Get(0).(func(interface{}) error); ok {
		return fn(dest)
	}
	return args.Error(0)
}

func (m *MockArchive) Stat(ctx context.Context, runID string) (*minio.ArchivedReport, error) {
	args := m.Called(ctx, runID)
	ref, _ := args.Get(0).(*minio.ArchivedReport)
	return ref, args.Error(1)
}

func (m *MockArchive) Delete(ctx context.Context, runID string) error {
	return m.Called(ctx, runID).Error(0)
}

func (m *MockArchive) List(ctx context.Context, limit int) ([]*minio.ArchivedReport, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*minio.ArchivedReport), args.Error(1)
}

func (m *MockArchive) PresignedURL(ctx context.Context, runID string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, runID, expiry)
	return args.String(0), args.Error(1)
}

type MockEvents struct {
	mock.Mock
}

func (m *MockEvents) PublishRunCompleted(ctx context.Context, ev *htypes.RunCompleted) error {
	return m.Called(ctx, ev).Error(0)
}

func testMomentConfig() config.MomentConfig {
	return config.MomentConfig{
		Radius:       hydropathy.DefaultRadius,
		RadiusMin:    hydropathy.MinRadius,
		RadiusMax:    hydropathy.MaxRadius,
		Scale:        hydropathy.DefaultScaleName,
		DistanceMode: string(hydropathy.DistanceTruncated),
		Workers:      2,
		RSAThreshold: hydropathy.DefaultRSAThreshold,
		ACCArray:     string(hydropathy.ACCSander),
		MaxResidues:  100,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Suite
// ─────────────────────────────────────────────────────────────────────────────

type ServiceTestSuite struct {
	suite.Suite
	cache   *MockCache
	archive *MockArchive
	logger  *testutil.MockLogger
	svc     Service
	ctx     context.Context
}

func (s *ServiceTestSuite) SetupTest() {
	s.cache = new(MockCache)
	s.archive = new(MockArchive)
	s.logger = testutil.NewMockLogger()
	s.ctx = context.Background()
	s.svc = NewService(testMomentConfig(), s.logger,
		WithCache(s.cache, time.Hour),
		WithArchive(s.archive),
		WithMetrics(prometheus.NewAppMetrics(prometheus.NewNoopCollector())),
	)
}

func (s *ServiceTestSuite) TearDownTest() {
	s.cache.AssertExpectations(s.T())
	s.archive.AssertExpectations(s.T())
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) TestCompute_CacheMissComputesThroughCache() {
	s.cache.On("GetOrSet", mock.Anything, mock.AnythingOfType("string"), time.Hour).Return(nil, nil).Once()

	res, err := s.svc.Compute(s.ctx, &Request{Coordinates: testutil.TwoResidueCoords()})
	s.Require().NoError(err)

	s.True(common.IsRunID(res.RunID))
	s.False(res.Cached)
	s.Nil(res.Archive)
	s.Equal(hydropathy.DefaultScaleName, res.Params.Scale.Name)
	s.Equal(hydropathy.DefaultRadius, res.Params.Radius)
	s.Equal(hydropathy.DistanceTruncated, res.Params.DistanceMode)
	s.Equal(hydropathy.ACCSander, res.Params.ACCArray)
	s.Require().Len(res.Moments, 2)

	// Kyte-Doolittle: ALA 1.8, GLY -0.4.
	ala, ok := res.Moments.Get("ALA1")
	s.Require().True(ok)
	s.InDelta(-0.4, ala.Moment.X, 1e-12)
	s.InDelta(0.7, ala.MeanIndex, 1e-12)
	s.Equal(2, ala.Neighbors)

	gly, ok := res.Moments.Get("GLY2")
	s.Require().True(ok)
	s.InDelta(-1.8, gly.Moment.X, 1e-12)

	msg, ok := s.logger.Find("info", "Moments calculated")
	s.Require().True(ok)
	count, _ := msg.Field("count")
	s.Equal(2, count)
	runID, _ := msg.Field("run_id")
	s.Equal(res.RunID, runID)
}

func (s *ServiceTestSuite) TestCompute_CacheHit() {
	cached := hydropathy.MomentSet{{Residue: "ALA1", MeanIndex: 1.8, Bucket: 7, Neighbors: 1}}
	s.cache.On("GetOrSet", mock.Anything, mock.AnythingOfType("string"), time.Hour).
		Return(func(dest interface{}) error {
			*dest.(*hydropathy.MomentSet) = cached
			return nil
		}, nil)

	res, err := s.svc.Compute(s.ctx, &Request{Coordinates: hydropathy.CoordinateMap{"ALA1": {}}})
	s.Require().NoError(err)
	s.True(res.Cached)
	s.Equal(cached, res.Moments)
	s.cache.AssertNotCalled(s.T(), "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ServiceTestSuite) TestCompute_NoCacheSkipsLookupButStores() {
	s.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, time.Hour).Return(nil)

	res, err := s.svc.Compute(s.ctx, &Request{Coordinates: testutil.TwoResidueCoords(), NoCache: true})
	s.Require().NoError(err)
	s.False(res.Cached)
	s.cache.AssertNotCalled(s.T(), "GetOrSet", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ServiceTestSuite) TestCompute_NoCacheStoreFailureIsLogged() {
	s.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, time.Hour).
		Return(errors.New(errors.ErrCodeCacheError, "connection refused"))

	res, err := s.svc.Compute(s.ctx, &Request{Coordinates: testutil.TwoResidueCoords(), NoCache: true})
	s.Require().NoError(err)
	s.Len(res.Moments, 2)
	s.True(s.logger.HasMessage("warn", "Failed to cache moments"))
}

func (s *ServiceTestSuite) TestCompute_CacheFailureFallsBackToCompute() {
	s.cache.On("GetOrSet", mock.Anything, mock.Anything, time.Hour).
		Return(nil, errors.New(errors.ErrCodeCacheError, "connection refused"))

	res, err := s.svc.Compute(s.ctx, &Request{Coordinates: testutil.TwoResidueCoords()})
	s.Require().NoError(err)
	s.Len(res.Moments, 2)
	s.False(res.Cached)
	s.True(s.logger.HasMessage("warn", "Moment cache lookup failed"))
	s.cache.AssertNotCalled(s.T(), "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ServiceTestSuite) TestCompute_Archive() {
	s.cache.On("GetOrSet", mock.Anything, mock.Anything, time.Hour).Return(nil, nil)
	s.archive.On("Put", mock.Anything, mock.AnythingOfType("string"),
		mock.MatchedBy(func(r *htypes.ComputeResponse) bool { return r.Count == 6 }),
		mock.MatchedBy(func(m map[string]string) bool {
			return m["scale"] == "Eisenberg" && m["radius"] == "8" && m["residues"] == "6"
		})).
		Return(&minio.ArchivedReport{ObjectKey: "reports/x.json"}, nil)

	res, err := s.svc.Compute(s.ctx, &Request{
		Coordinates: testutil.SurfacePatch(),
		Radius:      8,
		Scale:       "Eisenberg",
		Archive:     true,
	})
	s.Require().NoError(err)
	s.Require().NotNil(res.Archive)
	s.Equal("reports/x.json", ToResponse(res).ArchiveKey)
}

func (s *ServiceTestSuite) TestCompute_ArchiveFailureFailsRun() {
	s.cache.On("GetOrSet", mock.Anything, mock.Anything, time.Hour).Return(nil, nil)
	s.archive.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New(errors.ErrCodeStorageError, "bucket gone"))

	_, err := s.svc.Compute(s.ctx, &Request{Coordinates: testutil.TwoResidueCoords(), Archive: true})
	s.True(errors.IsCode(err, errors.ErrCodeStorageError))
	s.True(s.logger.HasMessage("error", "Failed to archive report"))
}

func (s *ServiceTestSuite) TestCompute_UnknownResidue() {
	s.cache.On("GetOrSet", mock.Anything, mock.Anything, time.Hour).Return(nil, nil)

	_, err := s.svc.Compute(s.ctx, &Request{Coordinates: hydropathy.CoordinateMap{"XYZ1": {}}})
	s.True(errors.IsCode(err, errors.ErrCodeUnknownResidueType))
	s.True(s.logger.HasMessage("warn", "Moment computation failed"))
}

func (s *ServiceTestSuite) TestReports() {
	runID := common.NewRunID()
	s.archive.On("Get", mock.Anything, runID, mock.Anything).Return(func(dest interface{}) error {
		dest.(*htypes.ComputeResponse).RunID = runID
		return nil
	})
	s.archive.On("List", mock.Anything, 5).Return([]*minio.ArchivedReport{{RunID: runID}}, nil)
	s.archive.On("Stat", mock.Anything, runID).Return(&minio.ArchivedReport{RunID: runID}, nil)
	s.archive.On("PresignedURL", mock.Anything, runID, time.Minute).Return("https://minio/x", nil)

	report, err := s.svc.GetReport(s.ctx, runID)
	s.Require().NoError(err)
	s.Equal(runID, report.RunID)

	list, err := s.svc.ListReports(s.ctx, 5)
	s.Require().NoError(err)
	s.Len(list, 1)

	url, err := s.svc.ReportURL(s.ctx, runID, time.Minute)
	s.Require().NoError(err)
	s.Equal("https://minio/x", url)
}

func (s *ServiceTestSuite) TestGetReport_NotFound() {
	runID := common.NewRunID()
	s.archive.On("Get", mock.Anything, runID, mock.Anything).
		Return(errors.New(errors.ErrCodeReportNotFound, "moment report not found"))

	_, err := s.svc.GetReport(s.ctx, runID)
	s.True(errors.IsNotFound(err))
}

func (s *ServiceTestSuite) TestReportURL_MissingReport() {
	runID := common.NewRunID()
	s.archive.On("Stat", mock.Anything, runID).
		Return(nil, errors.New(errors.ErrCodeReportNotFound, "moment report not found"))

	_, err := s.svc.ReportURL(s.ctx, runID, time.Minute)
	s.True(errors.IsCode(err, errors.ErrCodeReportNotFound))
	s.archive.AssertNotCalled(s.T(), "PresignedURL", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ServiceTestSuite) TestGetReport_InvalidRunID() {
	_, err := s.svc.GetReport(s.ctx, "../etc/passwd")
	s.True(errors.IsCode(err, errors.ErrCodeBadRequest))

	_, err = s.svc.GetReport(s.ctx, "")
	s.True(errors.IsCode(err, errors.ErrCodeBadRequest))
}

// ─────────────────────────────────────────────────────────────────────────────
// Table tests
// ─────────────────────────────────────────────────────────────────────────────

func TestCompute_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
		code errors.ErrorCode
	}{
		{"nil request", nil, errors.ErrCodeBadRequest},
		{"radius below window", &Request{Coordinates: testutil.TwoResidueCoords(), Radius: 3}, errors.ErrCodeInvalidRadius},
		{"radius above window", &Request{Coordinates: testutil.TwoResidueCoords(), Radius: 10.5}, errors.ErrCodeInvalidRadius},
		{"negative radius", &Request{Coordinates: testutil.TwoResidueCoords(), Radius: -6}, errors.ErrCodeInvalidRadius},
		{"unknown scale", &Request{Coordinates: testutil.TwoResidueCoords(), Scale: "Nope"}, errors.ErrCodeUnknownScale},
		{"bad mode", &Request{Coordinates: testutil.TwoResidueCoords(), DistanceMode: "manhattan"}, errors.ErrCodeInvalidDistanceMode},
		{"threshold too low", &Request{Coordinates: testutil.TwoResidueCoords(), RSAThreshold: 0.1}, errors.ErrCodeInvalidThreshold},
		{"threshold too high", &Request{Coordinates: testutil.TwoResidueCoords(), RSAThreshold: 0.9}, errors.ErrCodeInvalidThreshold},
		{"bad acc", &Request{Coordinates: testutil.TwoResidueCoords(), ACCArray: "Rose"}, errors.ErrCodeValidation},
		{"no coordinates", &Request{}, errors.ErrCodeInvalidCoordinates},
		{"malformed run id", &Request{Coordinates: testutil.TwoResidueCoords(), RunID: "run-1"}, errors.ErrCodeBadRequest},
	}

	svc := NewService(testMomentConfig(), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Compute(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestCompute_MaxResidues(t *testing.T) {
	cfg := testMomentConfig()
	cfg.MaxResidues = 5
	svc := NewService(cfg, nil)

	_, err := svc.Compute(context.Background(), &Request{Coordinates: testutil.SurfacePatch()})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidCoordinates))
}

func TestCompute_ArchiveRequestedWithoutBackend(t *testing.T) {
	svc := NewService(testMomentConfig(), nil)
	_, err := svc.Compute(context.Background(), &Request{Coordinates: testutil.TwoResidueCoords(), Archive: true})
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
}

func TestCompute_PublishesRunCompleted(t *testing.T) {
	events := new(MockEvents)
	runID := common.NewRunID()
	events.On("PublishRunCompleted", mock.Anything, mock.MatchedBy(func(ev *htypes.RunCompleted) bool {
		return ev.RunID == runID && ev.Residues == 2 && ev.Scale == "Kyte_Doolitle" && ev.Radius == 6 &&
			ev.DistanceMode == "truncated" && ev.ArchiveKey == ""
	})).Return(nil).Once()

	svc := NewService(testMomentConfig(), nil, WithEvents(events))
	res, err := svc.Compute(context.Background(), &Request{RunID: runID, Coordinates: testutil.TwoResidueCoords()})
	require.NoError(t, err)
	assert.Equal(t, runID, res.RunID)
	events.AssertExpectations(t)
}

func TestCompute_EventFailureDoesNotFailRun(t *testing.T) {
	events := new(MockEvents)
	events.On("PublishRunCompleted", mock.Anything, mock.Anything).
		Return(errors.New(errors.ErrCodeServiceUnavailable, "publish failed"))
	log := testutil.NewMockLogger()

	svc := NewService(testMomentConfig(), log, WithEvents(events))
	res, err := svc.Compute(context.Background(), &Request{Coordinates: testutil.TwoResidueCoords()})
	require.NoError(t, err)
	assert.Len(t, res.Moments, 2)
	assert.True(t, log.HasMessage("warn", "Failed to publish run event"))
}

func TestCompute_NoEventOnFailure(t *testing.T) {
	events := new(MockEvents)
	svc := NewService(testMomentConfig(), nil, WithEvents(events))

	_, err := svc.Compute(context.Background(), &Request{Coordinates: testutil.TwoResidueCoords(), Scale: "Nope"})
	require.Error(t, err)
	events.AssertNotCalled(t, "PublishRunCompleted", mock.Anything, mock.Anything)
}

func TestCompute_ContinuousModeAndClock(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Millisecond)
	}
	svc := NewService(testMomentConfig(), nil, WithClock(clock))

	res, err := svc.Compute(context.Background(), &Request{
		Coordinates:  testutil.TwoResidueCoords(),
		Radius:       4,
		DistanceMode: "continuous",
	})
	require.NoError(t, err)
	assert.Equal(t, hydropathy.DistanceContinuous, res.Params.DistanceMode)
	assert.Equal(t, base.Add(time.Millisecond), res.CreatedAt)
	assert.Positive(t, res.Duration)
	assert.Equal(t, "Kyte_Doolitle", ToResponse(res).Parameters.Scale)
}

func TestCacheKey(t *testing.T) {
	scale, err := hydropathy.LookupScale(hydropathy.DefaultScaleName)
	require.NoError(t, err)
	p := Params{Scale: scale, Radius: 6, DistanceMode: hydropathy.DistanceTruncated}

	k1 := CacheKey(testutil.TwoResidueCoords(), p)
	assert.Regexp(t, `^moments:[0-9a-f]{64}$`, k1)
	assert.Equal(t, k1, CacheKey(testutil.TwoResidueCoords(), p), "key must not depend on map order")

	// Parameters that change the result change the key.
	p2 := p
	p2.Radius = 7
	assert.NotEqual(t, k1, CacheKey(testutil.TwoResidueCoords(), p2))

	p3 := p
	p3.DistanceMode = hydropathy.DistanceContinuous
	assert.NotEqual(t, k1, CacheKey(testutil.TwoResidueCoords(), p3))

	moved := testutil.TwoResidueCoords()
	moved["GLY2"] = hydropathy.Vec3{X: 3.0001}
	assert.NotEqual(t, k1, CacheKey(moved, p))

	// RSA threshold is provenance only.
	p4 := p
	p4.RSAThreshold = 0.5
	assert.Equal(t, k1, CacheKey(testutil.TwoResidueCoords(), p4))
}

func TestClassify(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	yes := true
	svc := NewService(testMomentConfig(), nil)

	tests := []struct {
		name     string
		in       *ClassifyInput
		bucket   int
		color    string
		reversed bool
		code     errors.ErrorCode
	}{
		{name: "explicit range top", in: &ClassifyInput{Value: 1, Min: f(0), Max: f(1)}, bucket: 10, color: "#ff0000"},
		{name: "explicit range bottom", in: &ClassifyInput{Value: 0, Min: f(0), Max: f(1)}, bucket: 1, color: "#0000ff"},
		{name: "below range clamps", in: &ClassifyInput{Value: -5, Min: f(0), Max: f(1)}, bucket: 1, color: "#0000ff"},
		{name: "explicit reversed", in: &ClassifyInput{Value: 1, Min: f(0), Max: f(1), Reversed: &yes}, bucket: 10, color: "#0000ff", reversed: true},
		{name: "default scale", in: &ClassifyInput{Value: 4.5}, bucket: 10, color: "#ff0000"},
		{name: "reversed scale", in: &ClassifyInput{Value: 3.0, Scale: "Hopp_Woods"}, bucket: 10, color: "#0000ff", reversed: true},
		{name: "min above max", in: &ClassifyInput{Value: 0, Min: f(2), Max: f(1)}, code: errors.ErrCodeBadRequest},
		{name: "min without max", in: &ClassifyInput{Value: 0, Min: f(0)}, code: errors.ErrCodeBadRequest},
		{name: "unknown scale", in: &ClassifyInput{Value: 0, Scale: "Nope"}, code: errors.ErrCodeUnknownScale},
		{name: "nil", in: nil, code: errors.ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := svc.Classify(context.Background(), tt.in)
			if tt.code != "" {
				assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, out.Bucket)
			assert.Equal(t, tt.color, out.Color)
			assert.Equal(t, tt.reversed, out.Reversed)
			assert.Len(t, out.Thresholds, hydropathy.BucketCount)
			assert.Equal(t, out.Max, out.Thresholds[hydropathy.BucketCount-1])
		})
	}
}

func TestListScales(t *testing.T) {
	svc := NewService(testMomentConfig(), nil)

	list := svc.ListScales(false)
	assert.Equal(t, len(hydropathy.ScaleNames()), list.Total)
	var defaults int
	for _, sc := range list.Scales {
		assert.Nil(t, sc.Values)
		assert.LessOrEqual(t, sc.Min, sc.Max)
		if sc.Default {
			defaults++
			assert.Equal(t, hydropathy.DefaultScaleName, sc.Name)
		}
		assert.Equal(t, hydropathy.IsReversedScale(sc.Name), sc.Reversed)
	}
	assert.Equal(t, 1, defaults)

	withValues := svc.ListScales(true)
	assert.Len(t, withValues.Scales[0].Values, 20)
}

func TestReports_WithoutArchive(t *testing.T) {
	svc := NewService(testMomentConfig(), nil)
	_, err := svc.GetReport(context.Background(), common.NewRunID())
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))

	_, err = svc.ListReports(context.Background(), 10)
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
}

func TestToResponse(t *testing.T) {
	scale, err := hydropathy.LookupScale("Hopp_Woods")
	require.NoError(t, err)
	res := &Result{
		RunID: "r",
		Params: Params{Scale: scale, Radius: 6, DistanceMode: hydropathy.DistanceTruncated,
			RSAThreshold: 0.3, ACCArray: hydropathy.ACCWilke},
		Moments: hydropathy.MomentSet{{
			Residue: "ALA1", Center: hydropathy.Vec3{X: 1}, Moment: hydropathy.Vec3{Y: 2},
			MeanIndex: 0.5, Bucket: 4, Color: hydropathy.RGB{R: 1}, Neighbors: 3,
		}},
		Duration: 1500 * time.Microsecond,
	}

	out := ToResponse(res)
	assert.True(t, out.Parameters.Reversed)
	assert.Equal(t, "Wilke", out.Parameters.ACCArray)
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, "1.5ms", out.Duration)
	assert.Equal(t, htypes.Point{1, 0, 0}, out.Moments[0].Origin)
	assert.Equal(t, htypes.Point{0, 2, 0}, out.Moments[0].Vector)
	assert.Equal(t, "#ff0000", out.Moments[0].Color)
	assert.Empty(t, out.ArchiveKey)
}

func TestFromPoints(t *testing.T) {
	coords := FromPoints(map[string]htypes.Point{"ALA1": {1, 2, 3}})
	assert.Equal(t, hydropathy.Vec3{X: 1, Y: 2, Z: 3}, coords["ALA1"])
}

//Personal.AI order the ending
