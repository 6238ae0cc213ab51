package gdal

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Info holds the subset of `gdalinfo -json` output this tool consumes.
type Info struct {
	DriverShortName  string            `json:"driverShortName"`
	Files            []string          `json:"files"`
	Size             []int             `json:"size"`
	GeoTransform     []float64         `json:"geoTransform"`
	CoordinateSystem *CoordinateSystem `json:"coordinateSystem"`
	Wgs84Extent      *Geometry         `json:"wgs84Extent"`
	Bands            []Band            `json:"bands"`
}

// CoordinateSystem holds the raster's spatial reference.
type CoordinateSystem struct {
	WKT string `json:"wkt"`
}

// Geometry is the GeoJSON polygon gdalinfo reports for the WGS84 extent.
type Geometry struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// Band describes a single raster band, including statistics when gdalinfo ran
// with -stats.
type Band struct {
	Band        int                          `json:"band"`
	Type        string                       `json:"type"`
	NoDataValue *float64                     `json:"noDataValue"`
	Minimum     *float64                     `json:"minimum"`
	Maximum     *float64                     `json:"maximum"`
	Mean        *float64                     `json:"mean"`
	StdDev      *float64                     `json:"stdDev"`
	Metadata    map[string]map[string]string `json:"metadata"`
}

// Info reads raster metadata by running `gdalinfo -json -stats`.
func (t *Tool) Info(ctx context.Context, path string) (*Info, error) {
	out, err := t.runner.Run(ctx, t.command(InfoTool), "-json", "-stats", path)
	if err != nil {
		return nil, fmt.Errorf("info %s: %w", path, err)
	}

	var info Info
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("decode gdalinfo output for %s: %w", path, err)
	}
	return &info, nil
}

// Width returns the raster width in pixels, or 0 when unknown.
func (i *Info) Width() int {
	if len(i.Size) < 2 {
		return 0
	}
	return i.Size[0]
}

// Height returns the raster height in pixels, or 0 when unknown.
func (i *Info) Height() int {
	if len(i.Size) < 2 {
		return 0
	}
	return i.Size[1]
}

// ValidPercent reports the percentage of valid (non-nodata) pixels for the
// band, when gdalinfo computed it.
func (b Band) ValidPercent() (float64, bool) {
	defaults, ok := b.Metadata[""]
	if !ok {
		return 0, false
	}
	raw, ok := defaults["STATISTICS_VALID_PERCENT"]
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// HasData reports whether any band holds a non-empty, non-zero signal.
// Bands without statistics are assumed to hold data.
func (i *Info) HasData() bool {
	for _, band := range i.Bands {
		if vp, ok := band.ValidPercent(); ok && vp == 0 {
			continue
		}
		if band.Minimum == nil || band.Maximum == nil {
			return true
		}
		if *band.Minimum != 0 || *band.Maximum != 0 {
			return true
		}
	}
	return false
}

// ProjShape returns the raster shape as [height, width] for proj:shape.
func (i *Info) ProjShape() []int {
	if len(i.Size) < 2 {
		return nil
	}
	return []int{i.Size[1], i.Size[0]}
}

// ProjTransform returns the affine transform in the row-major order used by
// proj:transform: [a, b, xoff, d, e, yoff].
func (i *Info) ProjTransform() []float64 {
	gt := i.GeoTransform
	if len(gt) != 6 {
		return nil
	}
	return []float64{gt[1], gt[2], gt[0], gt[4], gt[5], gt[3]}
}

// ProjBbox returns the native-CRS bounding box [minx, miny, maxx, maxy]
// computed from the geotransform and raster size. Rotated rasters are not
// supported and return nil.
func (i *Info) ProjBbox() []float64 {
	gt := i.GeoTransform
	if len(gt) != 6 || len(i.Size) < 2 {
		return nil
	}
	if gt[2] != 0 || gt[4] != 0 {
		return nil
	}

	w, h := float64(i.Size[0]), float64(i.Size[1])
	x0, x1 := gt[0], gt[0]+w*gt[1]
	y0, y1 := gt[3]+h*gt[5], gt[3]
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return []float64{x0, y0, x1, y1}
}

// Wgs84Bbox returns the [minx, miny, maxx, maxy] bounds of the WGS84 extent
// polygon, when gdalinfo reported one.
func (i *Info) Wgs84Bbox() ([]float64, bool) {
	if i.Wgs84Extent == nil || len(i.Wgs84Extent.Coordinates) == 0 || len(i.Wgs84Extent.Coordinates[0]) == 0 {
		return nil, false
	}

	ring := i.Wgs84Extent.Coordinates[0]
	minx, miny := ring[0][0], ring[0][1]
	maxx, maxy := minx, miny
	for _, pt := range ring[1:] {
		if pt[0] < minx {
			minx = pt[0]
		}
		if pt[0] > maxx {
			maxx = pt[0]
		}
		if pt[1] < miny {
			miny = pt[1]
		}
		if pt[1] > maxy {
			maxy = pt[1]
		}
	}
	return []float64{minx, miny, maxx, maxy}, true
}

// GeoJSON returns the WGS84 extent as a GeoJSON geometry value suitable for an
// Item's geometry member.
func (i *Info) GeoJSON() (any, bool) {
	if i.Wgs84Extent == nil || i.Wgs84Extent.Type == "" {
		return nil, false
	}
	return map[string]any{
		"type":        i.Wgs84Extent.Type,
		"coordinates": i.Wgs84Extent.Coordinates,
	}, true
}
