package stac

import "time"

// Extent represents the spatial and temporal extent of a STAC Collection.
type Extent struct {
	Spatial  *SpatialExtent  `json:"spatial,omitempty"`
	Temporal *TemporalExtent `json:"temporal,omitempty"`
}

// SpatialExtent represents the spatial extent of a STAC Collection.
type SpatialExtent struct {
	Bbox [][]float64 `json:"bbox"`
}

// TemporalExtent represents the temporal extent of a STAC Collection.
type TemporalExtent struct {
	Interval [][]any `json:"interval"`
}

// NewExtent builds an extent from a single bounding box and a time interval.
// A nil end time produces an open-ended interval.
func NewExtent(bbox []float64, start time.Time, end *time.Time) *Extent {
	interval := []any{start.UTC().Format(time.RFC3339), nil}
	if end != nil {
		interval[1] = end.UTC().Format(time.RFC3339)
	}
	return &Extent{
		Spatial:  &SpatialExtent{Bbox: [][]float64{bbox}},
		Temporal: &TemporalExtent{Interval: [][]any{interval}},
	}
}
