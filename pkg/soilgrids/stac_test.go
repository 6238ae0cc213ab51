package soilgrids

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isric/go-stac-soilgrids/pkg/gdal"
)

func TestCreateCollection(t *testing.T) {
	col, err := CreateCollection()
	require.NoError(t, err)

	assert.Equal(t, "soilgrids250m", col.Id)
	assert.Equal(t, "Collection", col.Type)
	assert.Equal(t, "CC-BY-4.0", col.License)
	assert.Equal(t, Title, col.Title)

	require.Len(t, col.Providers, 1)
	assert.Equal(t, ProviderName, col.Providers[0].Name)

	require.NotNil(t, col.GetLink("license"))
	assert.Equal(t, LicenseURL, col.GetLink("license").Href)
	require.NotNil(t, col.GetLink("cite-as"))

	assert.Contains(t, col.Extensions, ExtensionProjection)
	assert.Contains(t, col.Extensions, ExtensionScientific)
	assert.Equal(t, DOI, col.AdditionalFields["sci:doi"])
	assert.Equal(t, Citation, col.AdditionalFields["sci:citation"])

	require.NotNil(t, col.Extent)
	assert.Equal(t, [][]float64{BoundingBox}, col.Extent.Spatial.Bbox)
	assert.Equal(t, "2020-05-01T00:00:00Z", col.Extent.Temporal.Interval[0][0])
	assert.Nil(t, col.Extent.Temporal.Interval[0][1])

	assert.Equal(t, []int{EPSG}, col.Summaries["proj:epsg"])
	assert.Equal(t, PropertyCodes, col.Summaries["soilgrids:property"])
	assert.Equal(t, ProbabilityCodes, col.Summaries["soilgrids:probability"])

	t.Run("serializes with soilgrids summaries", func(t *testing.T) {
		data, err := json.Marshal(col)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, DOI, decoded["sci:doi"])
		summaries := decoded["summaries"].(map[string]any)
		assert.Contains(t, summaries, "soilgrids:depth")
	})
}

func testInfo() *gdal.Info {
	nodata := 0.0
	return &gdal.Info{
		DriverShortName: "GTiff",
		Size:            []int{10000, 10000},
		GeoTransform:    []float64{9070000, 250, 0, -1000000, 0, -250},
		Wgs84Extent: &gdal.Geometry{
			Type: "Polygon",
			Coordinates: [][][2]float64{{
				{96, -9}, {96, -31.5}, {120.5, -31.5}, {120.5, -9}, {96, -9},
			}},
		},
		Bands: []gdal.Band{{Band: 1, Type: "UInt16", NoDataValue: &nodata}},
	}
}

func TestCreateItemFromFile(t *testing.T) {
	t.Run("with raster metadata", func(t *testing.T) {
		item, err := CreateItem(context.Background(), "clay_0-5cm_mean_01_02.tif", WithRasterInfo(testInfo()))
		require.NoError(t, err)

		assert.Equal(t, "clay_0-5cm_mean_01_02", item.Id)
		assert.Equal(t, "Feature", item.Type)
		assert.Equal(t, "2020-05-01T00:00:00Z", item.Properties["datetime"])
		assert.Equal(t, "clay", item.Properties["soilgrids:property"])
		assert.Equal(t, "0-5cm", item.Properties["soilgrids:depth"])
		assert.Equal(t, "mean", item.Properties["soilgrids:probability"])
		assert.Equal(t, "01_02", item.Properties["soilgrids:tile"])
		assert.Equal(t, "g/kg", item.Properties["soilgrids:unit"])

		assert.Contains(t, item.Extensions, ExtensionProjection)
		assert.Contains(t, item.Extensions, ExtensionRaster)
		assert.Equal(t, EPSG, item.Properties["proj:epsg"])
		assert.Equal(t, CRSWKT, item.Properties["proj:wkt2"])
		assert.Equal(t, []int{10000, 10000}, item.Properties["proj:shape"])
		assert.Equal(t, []float64{250, 0, 9070000, 0, -250, -1000000}, item.Properties["proj:transform"])
		assert.Equal(t, []float64{9070000, -3500000, 11570000, -1000000}, item.Properties["proj:bbox"])

		assert.Equal(t, []float64{96, -31.5, 120.5, -9}, item.Bbox)
		geom := item.Geometry.(map[string]any)
		assert.Equal(t, "Polygon", geom["type"])

		require.Contains(t, item.Assets, "mean")
		asset := item.Assets["mean"]
		assert.Equal(t, "clay_0-5cm_mean_01_02.tif", asset.Href)
		assert.Contains(t, asset.Type, "cloud-optimized")
		assert.Equal(t, []string{"data"}, asset.Roles)

		bands, ok := asset.AdditionalFields["raster:bands"].([]map[string]any)
		require.True(t, ok)
		require.Len(t, bands, 1)
		assert.Equal(t, "uint16", bands[0]["data_type"])
		assert.Equal(t, 0.0, bands[0]["nodata"])
		assert.Equal(t, "g/kg", bands[0]["unit"])
	})

	t.Run("without raster metadata falls back to dataset extent", func(t *testing.T) {
		item, err := CreateItem(context.Background(), "ocs_0-30cm_mean.vrt")
		require.NoError(t, err)

		assert.Equal(t, "ocs_0-30cm_mean", item.Id)
		assert.Equal(t, BoundingBox, item.Bbox)
		assert.NotContains(t, item.Properties, "proj:shape")
		assert.NotContains(t, item.Extensions, ExtensionRaster)
		assert.NotContains(t, item.Properties, "soilgrids:tile")

		require.Contains(t, item.Assets, "mean")
		assert.NotContains(t, item.Assets["mean"].AdditionalFields, "raster:bands")
	})

	t.Run("reader is used when no info is supplied", func(t *testing.T) {
		var readPath string
		reader := func(_ context.Context, path string) (*gdal.Info, error) {
			readPath = path
			return testInfo(), nil
		}

		dir := t.TempDir()
		path := filepath.Join(dir, "clay_0-5cm_mean.tif")
		require.NoError(t, os.WriteFile(path, []byte("stub"), 0o644))

		item, err := CreateItem(context.Background(), path, WithReader(reader))
		require.NoError(t, err)
		assert.Equal(t, path, readPath)
		assert.Contains(t, item.Properties, "proj:shape")
	})

	t.Run("invalid name is rejected", func(t *testing.T) {
		_, err := CreateItem(context.Background(), "humus_0-5cm_mean.tif")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown soil property")
	})
}

func TestCreateItemFromDirectory(t *testing.T) {
	writeStub := func(t *testing.T, dir, name string) {
		t.Helper()
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("stub"), 0o644))
	}

	t.Run("one asset per probability layer", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "clay_0-5cm_01_02")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		writeStub(t, dir, "clay_0-5cm_mean_01_02.tif")
		writeStub(t, dir, "clay_0-5cm_Q0.5_01_02.tif")
		writeStub(t, dir, "clay_0-5cm_uncertainty_01_02.tif")

		item, err := CreateItem(context.Background(), dir, WithRasterInfo(testInfo()))
		require.NoError(t, err)

		assert.Equal(t, "clay_0-5cm_01_02", item.Id)
		assert.Equal(t, "01_02", item.Properties["soilgrids:tile"])
		assert.NotContains(t, item.Properties, "soilgrids:probability")

		require.Len(t, item.Assets, 3)
		for _, key := range []string{"Q0.5", "mean", "uncertainty"} {
			require.Contains(t, item.Assets, key)
			assert.Contains(t, item.Assets[key].Href, key)
		}
	})

	t.Run("empty directory is rejected", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "clay_0-5cm_01_02")
		require.NoError(t, os.MkdirAll(dir, 0o755))

		_, err := CreateItem(context.Background(), dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no COG assets")
	})

	t.Run("foreign asset is rejected", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "clay_0-5cm_01_02")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		writeStub(t, dir, "clay_0-5cm_mean_01_02.tif")
		writeStub(t, dir, "sand_0-5cm_mean_01_02.tif")

		_, err := CreateItem(context.Background(), dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not belong to item")
	})

	t.Run("bad directory name is rejected", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "not-an-item")
		require.NoError(t, os.MkdirAll(dir, 0o755))

		_, err := CreateItem(context.Background(), dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unrecognized item directory name")
	})
}
