package soilgrids

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/isric/go-stac-soilgrids/pkg/gdal"
	"github.com/isric/go-stac-soilgrids/pkg/stac"
)

// CreateCollection builds the SoilGrids STAC Collection from the dataset
// constants.
func CreateCollection() (*stac.Collection, error) {
	col := stac.NewCollection(CollectionID)
	col.Title = Title
	col.Description = Description
	col.License = License
	col.Keywords = []string{"soil", "soilgrids", "isric", "global", "250m"}
	col.Providers = []*stac.Provider{Provider()}
	col.Extent = stac.NewExtent(BoundingBox, ReleaseDate, nil)

	col.AddExtension(ExtensionProjection)
	col.AddExtension(ExtensionScientific)

	col.AddLink(&stac.Link{
		Rel:   stac.RelLicense,
		Href:  LicenseURL,
		Title: LicenseTitle,
	})
	col.AddLink(&stac.Link{
		Rel:  stac.RelCite,
		Href: "https://doi.org/" + DOI,
	})

	col.SetField("sci:doi", DOI)
	col.SetField("sci:citation", Citation)

	col.SetSummary("proj:epsg", []int{EPSG})
	col.SetSummary("proj:wkt2", []string{CRSWKT})
	col.SetSummary("soilgrids:property", PropertyCodes)
	col.SetSummary("soilgrids:depth", AllDepthCodes())
	col.SetSummary("soilgrids:probability", ProbabilityCodes)

	if err := col.Validate(); err != nil {
		return nil, err
	}
	return col, nil
}

// RasterReader acquires raster metadata for a path. The production reader is
// (*gdal.Tool).Info; tests substitute canned values.
type RasterReader func(ctx context.Context, path string) (*gdal.Info, error)

type itemConfig struct {
	info   *gdal.Info
	reader RasterReader
}

// ItemOption configures CreateItem.
type ItemOption func(*itemConfig)

// WithRasterInfo supplies already-acquired raster metadata for the source.
func WithRasterInfo(info *gdal.Info) ItemOption {
	return func(c *itemConfig) { c.info = info }
}

// WithReader supplies a RasterReader used to acquire metadata for the source.
// Without a reader (or WithRasterInfo), items fall back to the dataset-level
// extent and projection constants.
func WithReader(reader RasterReader) ItemOption {
	return func(c *itemConfig) { c.reader = reader }
}

// CreateItem builds a STAC Item for a SoilGrids source: either a single
// COG/VRT raster or an item directory of per-probability tiles produced by
// the organize step. CreateItem never executes external processes itself;
// raster access goes through the configured reader.
func CreateItem(ctx context.Context, source string, opts ...ItemOption) (*stac.Item, error) {
	var cfg itemConfig
	for _, o := range opts {
		o(&cfg)
	}

	fi, err := os.Stat(source)
	if err != nil && cfg.info == nil && cfg.reader != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}

	if err == nil && fi.IsDir() {
		return createDirectoryItem(ctx, source, &cfg)
	}
	return createFileItem(ctx, source, &cfg)
}

func createFileItem(ctx context.Context, source string, cfg *itemConfig) (*stac.Item, error) {
	id, err := ParseAssetName(source)
	if err != nil {
		return nil, err
	}

	itemID := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	item := newLayerItem(itemID, id.Property, id.Depth)
	item.SetProperty("soilgrids:probability", id.Probability)
	if id.Tiled() {
		item.SetProperty("soilgrids:tile", id.Tile())
	}

	info, err := resolveInfo(ctx, source, cfg)
	if err != nil {
		return nil, err
	}
	applyGeometry(item, info)

	asset := layerAsset(source, *id, info)
	item.AddAsset(id.Probability, asset)
	if info != nil {
		item.AddExtension(ExtensionRaster)
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

func createDirectoryItem(ctx context.Context, source string, cfg *itemConfig) (*stac.Item, error) {
	id, err := ParseItemDirName(source)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(source)
	if err != nil {
		return nil, fmt.Errorf("read item directory: %w", err)
	}

	var assets []AssetID
	paths := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".tif") {
			continue
		}
		aid, err := ParseAssetName(entry.Name())
		if err != nil {
			return nil, err
		}
		if aid.Property != id.Property || aid.Depth != id.Depth || aid.Tile() != id.Tile() {
			return nil, fmt.Errorf("asset %q does not belong to item %q", entry.Name(), filepath.Base(source))
		}
		assets = append(assets, *aid)
		paths[aid.Probability] = filepath.Join(source, entry.Name())
	}
	if len(assets) == 0 {
		return nil, fmt.Errorf("no COG assets found in %q", source)
	}

	sort.Slice(assets, func(i, j int) bool {
		return probabilityRank(assets[i].Probability) < probabilityRank(assets[j].Probability)
	})

	item := newLayerItem(filepath.Base(filepath.Clean(source)), id.Property, id.Depth)
	item.SetProperty("soilgrids:tile", id.Tile())

	// The tiles of an item share one grid, so metadata from the first
	// asset stands in for all of them.
	info, err := resolveInfo(ctx, paths[assets[0].Probability], cfg)
	if err != nil {
		return nil, err
	}
	applyGeometry(item, info)

	for _, aid := range assets {
		item.AddAsset(aid.Probability, layerAsset(paths[aid.Probability], aid, info))
	}
	if info != nil {
		item.AddExtension(ExtensionRaster)
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// newLayerItem builds the common skeleton shared by file and directory items.
func newLayerItem(itemID, property, depth string) *stac.Item {
	prop := Properties[property]
	depthLabel, _ := DepthLabel(depth)

	item := stac.NewItem(itemID)
	item.SetProperty("datetime", ReleaseDate.Format(time.RFC3339))
	item.SetProperty("title", fmt.Sprintf("%s, %s", prop.Description, depthLabel))
	item.SetProperty("soilgrids:property", property)
	item.SetProperty("soilgrids:depth", depth)
	item.SetProperty("soilgrids:unit", prop.Unit)

	item.AddExtension(ExtensionProjection)
	item.SetProperty("proj:epsg", EPSG)
	item.SetProperty("proj:wkt2", CRSWKT)

	return item
}

func resolveInfo(ctx context.Context, path string, cfg *itemConfig) (*gdal.Info, error) {
	if cfg.info != nil {
		return cfg.info, nil
	}
	if cfg.reader == nil {
		return nil, nil
	}
	info, err := cfg.reader(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read raster metadata: %w", err)
	}
	return info, nil
}

// applyGeometry sets the item geometry, bbox, and raster-derived projection
// fields. Without raster metadata the dataset bounding box stands in.
func applyGeometry(item *stac.Item, info *gdal.Info) {
	if info != nil {
		if shape := info.ProjShape(); shape != nil {
			item.SetProperty("proj:shape", shape)
		}
		if transform := info.ProjTransform(); transform != nil {
			item.SetProperty("proj:transform", transform)
		}
		if bbox := info.ProjBbox(); bbox != nil {
			item.SetProperty("proj:bbox", bbox)
		}
		if bbox, ok := info.Wgs84Bbox(); ok {
			item.Bbox = bbox
		}
		if geom, ok := info.GeoJSON(); ok {
			item.Geometry = geom
		}
	}

	if item.Geometry == nil {
		item.Bbox = BoundingBox
		item.Geometry = bboxPolygon(BoundingBox)
	}
}

func layerAsset(path string, id AssetID, info *gdal.Info) *stac.Asset {
	prop := Properties[id.Property]
	probLabel := Probabilities[id.Probability]

	asset := &stac.Asset{
		Href:  path,
		Type:  mediaTypeFor(path),
		Title: fmt.Sprintf("%s (%s)", prop.Description, probLabel),
		Roles: []string{"data"},
	}

	if info != nil && len(info.Bands) > 0 {
		bands := make([]map[string]any, 0, len(info.Bands))
		for _, b := range info.Bands {
			band := map[string]any{
				"data_type":          rasterDataType(b.Type),
				"unit":               prop.Unit,
				"spatial_resolution": SpatialResolution,
			}
			if b.NoDataValue != nil {
				band["nodata"] = *b.NoDataValue
			}
			bands = append(bands, band)
		}
		asset.SetField("raster:bands", bands)
	}
	return asset
}

func mediaTypeFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".vrt") {
		return stac.MediaTypeGeoTIFF
	}
	return stac.MediaTypeCOG
}

// rasterDataType lowers GDAL band type names to raster extension data types.
func rasterDataType(gdalType string) string {
	if strings.EqualFold(gdalType, "Byte") {
		return "uint8"
	}
	return strings.ToLower(gdalType)
}

func probabilityRank(code string) int {
	for i, c := range ProbabilityCodes {
		if c == code {
			return i
		}
	}
	return len(ProbabilityCodes)
}

func bboxPolygon(bbox []float64) map[string]any {
	minx, miny, maxx, maxy := bbox[0], bbox[1], bbox[2], bbox[3]
	return map[string]any{
		"type": "Polygon",
		"coordinates": [][][]float64{{
			{minx, miny},
			{maxx, miny},
			{maxx, maxy},
			{minx, maxy},
			{minx, miny},
		}},
	}
}
