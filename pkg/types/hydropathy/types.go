// Package hydropathy holds the wire types shared by the hmoment CLI and the
// HTTP API.
package hydropathy

import "time"

// Point is an (x, y, z) coordinate in ångströms.
type Point [3]float64

// ComputeRequest asks for the region moments of a coordinate map. Zero
// values fall back to the server's configured defaults.
type ComputeRequest struct {
	Coordinates  map[string]Point `json:"coordinates" validate:"required,min=1"`
	Radius       float64          `json:"radius,omitempty" validate:"omitempty,gt=0"`
	Scale        string           `json:"scale,omitempty" validate:"omitempty,max=64"`
	DistanceMode string           `json:"distance_mode,omitempty" validate:"omitempty,oneof=truncated continuous"`
	RSAThreshold float64          `json:"rsa_threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
	ACCArray     string           `json:"acc_array,omitempty" validate:"omitempty,oneof=Sander Miller Wilke"`
	Archive      bool             `json:"archive,omitempty"`
	NoCache      bool             `json:"no_cache,omitempty"`
}

// Moment is the region moment around one residue.
type Moment struct {
	Residue   string  `json:"residue"`
	Origin    Point   `json:"origin"`
	Vector    Point   `json:"vector"`
	MeanIndex float64 `json:"mean_index"`
	Bucket    int     `json:"bucket"`
	Color     string  `json:"color"`
	RGB       Point   `json:"rgb"`
	Neighbors int     `json:"neighbors"`
}

// RunParameters echoes the effective parameters of a run.
type RunParameters struct {
	Scale        string  `json:"scale"`
	Reversed     bool    `json:"reversed"`
	ScaleMin     float64 `json:"scale_min"`
	ScaleMax     float64 `json:"scale_max"`
	Radius       float64 `json:"radius"`
	DistanceMode string  `json:"distance_mode"`
	RSAThreshold float64 `json:"rsa_threshold"`
	ACCArray     string  `json:"acc_array"`
}

// ComputeResponse is the report of one moment run.
type ComputeResponse struct {
	RunID      string        `json:"run_id"`
	Parameters RunParameters `json:"parameters"`
	Count      int           `json:"count"`
	Moments    []Moment      `json:"moments"`
	Cached     bool          `json:"cached"`
	ArchiveKey string        `json:"archive_key,omitempty"`
	Duration   string        `json:"duration"`
	CreatedAt  time.Time     `json:"created_at"`
}

// ClassifyRequest maps a value to a colour bucket, either against a named
// scale's range or an explicit [Min, Max] range.
type ClassifyRequest struct {
	Value    *float64 `json:"value" validate:"required"`
	Scale    string   `json:"scale,omitempty" validate:"omitempty,max=64"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Reversed *bool    `json:"reversed,omitempty"`
}

// ClassifyResponse is the bucket and colour of a value.
type ClassifyResponse struct {
	Value      float64   `json:"value"`
	Min        float64   `json:"min"`
	Max        float64   `json:"max"`
	Reversed   bool      `json:"reversed"`
	Scale      string    `json:"scale,omitempty"`
	Bucket     int       `json:"bucket"`
	Color      string    `json:"color"`
	RGB        Point     `json:"rgb"`
	Thresholds []float64 `json:"thresholds"`
}

// ScaleInfo describes a built-in hydrophobicity scale.
type ScaleInfo struct {
	Name     string             `json:"name"`
	Reversed bool               `json:"reversed"`
	Default  bool               `json:"default"`
	Min      float64            `json:"min"`
	Max      float64            `json:"max"`
	Values   map[string]float64 `json:"values,omitempty"`
}

// ScaleList is the response of the scale catalogue.
type ScaleList struct {
	Scales []ScaleInfo `json:"scales"`
	Total  int         `json:"total"`
}

// ComputeJob is a compute request queued for the worker. JobID becomes the
// run id of the resulting report.
type ComputeJob struct {
	JobID       string         `json:"job_id"`
	Request     ComputeRequest `json:"request"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

// JobAccepted is the response to a queued compute job.
type JobAccepted struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
	Topic  string `json:"topic"`
}

// RunCompleted is published after every successful run.
type RunCompleted struct {
	RunID        string    `json:"run_id"`
	Scale        string    `json:"scale"`
	Radius       float64   `json:"radius"`
	DistanceMode string    `json:"distance_mode"`
	Residues     int       `json:"residues"`
	Cached       bool      `json:"cached"`
	ArchiveKey   string    `json:"archive_key,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

// Run statuses kept in the run history.
const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ValidStatus reports whether s is one of the run statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusQueued, StatusRunning, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// RunRecord is one entry of the run history.
type RunRecord struct {
	RunID        string    `json:"run_id"`
	Status       string    `json:"status"`
	Scale        string    `json:"scale,omitempty"`
	Radius       float64   `json:"radius,omitempty"`
	DistanceMode string    `json:"distance_mode,omitempty"`
	Residues     int       `json:"residues"`
	Cached       bool      `json:"cached"`
	ArchiveKey   string    `json:"archive_key,omitempty"`
	ErrorCode    string    `json:"error_code,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RunList is a page of the run history, newest first.
type RunList struct {
	Runs  []*RunRecord `json:"runs"`
	Total int          `json:"total"`
}

// PruneResult reports what a history prune removed.
type PruneResult struct {
	Cutoff  time.Time `json:"cutoff"`
	Runs    int64     `json:"runs"`
	Reports int       `json:"reports"`
}

//Personal.AI order the ending
