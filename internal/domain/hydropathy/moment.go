package hydropathy

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/hydromoment/pkg/errors"
)

// CoordinateMap maps a residue identifier ("ALA42") to its reference-atom
// coordinate. It is treated as read-only.
type CoordinateMap map[string]Vec3

// DistanceMode selects how the centre-to-neighbour distance is measured.
type DistanceMode string

const (
	// DistanceTruncated truncates the Euclidean distance to an integer before
	// comparing it with the radius.
	DistanceTruncated DistanceMode = "truncated"
	// DistanceContinuous compares the exact Euclidean distance.
	DistanceContinuous DistanceMode = "continuous"
)

// IsValid checks if the distance mode is supported.
func (m DistanceMode) IsValid() bool {
	return m == DistanceTruncated || m == DistanceContinuous
}

// String returns the string representation of the distance mode.
func (m DistanceMode) String() string {
	return string(m)
}

// ParseDistanceMode parses a string into a DistanceMode. The empty string
// yields DistanceTruncated.
func ParseDistanceMode(s string) (DistanceMode, error) {
	if s == "" {
		return DistanceTruncated, nil
	}
	m := DistanceMode(s)
	if !m.IsValid() {
		return "", errors.New(errors.ErrCodeInvalidDistanceMode, "unsupported distance mode").
			WithDetail("mode=" + s)
	}
	return m, nil
}

func (m DistanceMode) measure(a, b Vec3) float64 {
	d := a.Distance(b)
	if m == DistanceContinuous {
		return d
	}
	return math.Trunc(d)
}

// RegionMoment is the hydropathy moment of the sphere centred on one residue.
type RegionMoment struct {
	Residue   string  `json:"residue"`
	Center    Vec3    `json:"center"`
	Moment    Vec3    `json:"moment"`
	MeanIndex float64 `json:"mean_index"`
	Bucket    int     `json:"bucket"`
	Color     RGB     `json:"color"`
	Neighbors int     `json:"neighbors"`
}

// MomentSet holds one RegionMoment per input residue, sorted by residue id.
type MomentSet []RegionMoment

// Get returns the moment for residue id.
func (s MomentSet) Get(id string) (RegionMoment, bool) {
	i := sort.Search(len(s), func(i int) bool { return s[i].Residue >= id })
	if i < len(s) && s[i].Residue == id {
		return s[i], true
	}
	return RegionMoment{}, false
}

// ByResidue indexes the set by residue id.
func (s MomentSet) ByResidue() map[string]RegionMoment {
	out := make(map[string]RegionMoment, len(s))
	for _, m := range s {
		out[m.Residue] = m
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Options
// ─────────────────────────────────────────────────────────────────────────────

type computeOptions struct {
	mode    DistanceMode
	workers int
}

// Option configures ComputeMoments.
type Option func(*computeOptions)

// WithDistanceMode sets the distance mode. Defaults to DistanceTruncated.
func WithDistanceMode(m DistanceMode) Option {
	return func(o *computeOptions) { o.mode = m }
}

// WithWorkers bounds the number of centres computed concurrently. Values
// below 2 compute sequentially.
func WithWorkers(n int) Option {
	return func(o *computeOptions) { o.workers = n }
}

// ─────────────────────────────────────────────────────────────────────────────
// Aggregation
// ─────────────────────────────────────────────────────────────────────────────

// ComputeMoments computes a RegionMoment for every residue in coords. See
// ComputeMomentsContext.
func ComputeMoments(coords CoordinateMap, radius float64, scale *Scale, opts ...Option) (MomentSet, error) {
	return ComputeMomentsContext(context.Background(), coords, radius, scale, opts...)
}

// ComputeMomentsContext computes, for each residue c, the sum over every
// residue n within radius of c (c included) of unit(n - c) scaled by n's
// hydrophobicity index, together with the mean index of the neighbourhood
// and its colour bucket on scale's range.
func ComputeMomentsContext(ctx context.Context, coords CoordinateMap, radius float64, scale *Scale, opts ...Option) (MomentSet, error) {
	o := computeOptions{mode: DistanceTruncated}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.mode.IsValid() {
		return nil, errors.New(errors.ErrCodeInvalidDistanceMode, "unsupported distance mode").
			WithDetail("mode=" + o.mode.String())
	}
	if math.IsNaN(radius) || radius <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidRadius, "radius must be positive").
			WithDetail(fmt.Sprintf("radius=%v", radius))
	}
	if scale == nil {
		return nil, errors.New(errors.ErrCodeUnknownScale, "scale is required")
	}

	ids := make([]string, 0, len(coords))
	for id := range coords {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// Resolve every index before the O(R²) pass so lookups fail fast.
	points := make([]Vec3, len(ids))
	indices := make([]float64, len(ids))
	for i, id := range ids {
		p := coords[id]
		if !p.IsFinite() {
			return nil, errors.New(errors.ErrCodeInvalidCoordinates, "coordinate must be finite").
				WithDetail("residue=" + id)
		}
		idx, err := scale.IndexOf(id)
		if err != nil {
			return nil, err
		}
		points[i] = p
		indices[i] = idx
	}

	lo, hi := scale.Min(), scale.Max()
	out := make(MomentSet, len(ids))
	compute := func(i int) error {
		m, err := regionMoment(points, indices, i, radius, o.mode)
		if err != nil {
			return errors.Wrap(err, errors.CodeUnknown, "computing region moment").WithDetail("residue=" + ids[i])
		}
		m.Residue = ids[i]
		m.Bucket = BucketIndex(m.MeanIndex, lo, hi)
		m.Color = ColorForBucket(m.Bucket, scale.Reversed)
		out[i] = m
		return nil
	}

	if o.workers < 2 {
		for i := range ids {
			if err := ctx.Err(); err != nil {
				return nil, cancelled(err)
			}
			if err := compute(i); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i := range ids {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return compute(i)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, cancelled(err)
	}
	return out, nil
}

// cancelled tags a bare context error as a timeout; other errors pass through.
func cancelled(err error) error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(err, errors.ErrCodeTimeout, "moment computation cancelled")
	}
	return err
}

func regionMoment(points []Vec3, indices []float64, c int, radius float64, mode DistanceMode) (RegionMoment, error) {
	center := points[c]
	var acc Vec3
	var sum float64
	count := 0
	for n, p := range points {
		if mode.measure(center, p) >= radius {
			continue
		}
		acc = acc.Add(p.Sub(center).Unit().Scale(indices[n]))
		sum += indices[n]
		count++
	}
	if count == 0 {
		return RegionMoment{}, errors.New(errors.ErrCodeEmptyNeighborhood, "no residues within radius")
	}
	return RegionMoment{
		Center:    center,
		Moment:    acc,
		MeanIndex: sum / float64(count),
		Neighbors: count,
	}, nil
}

//Personal.AI order the ending
