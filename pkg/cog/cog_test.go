package cog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isric/go-stac-soilgrids/pkg/gdal"
)

// scriptedRunner fakes the GDAL tools: retile drops tile files into the
// target directory, gdalinfo reports statistics per tile name.
type scriptedRunner struct {
	t *testing.T

	// emptyTiles marks tile basenames whose statistics read as all-zero.
	emptyTiles map[string]bool

	retiles int
}

func (r *scriptedRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	switch {
	case strings.Contains(name, "retile"):
		r.retiles++
		dir := argAfter(args, "-targetDir")
		require.NotEmpty(r.t, dir)
		src := filepath.Base(args[len(args)-1])
		stem := strings.TrimSuffix(src, filepath.Ext(src))
		for _, tile := range []string{"01_01", "01_02"} {
			path := filepath.Join(dir, fmt.Sprintf("%s_%s.tif", stem, tile))
			require.NoError(r.t, os.WriteFile(path, []byte("tile"), 0o644))
		}
		return nil, nil
	case strings.Contains(name, "gdalinfo"):
		tile := filepath.Base(args[len(args)-1])
		if r.emptyTiles[tile] {
			return []byte(`{"size": [10, 10], "bands": [{"band": 1, "type": "UInt16", "minimum": 0.0, "maximum": 0.0}]}`), nil
		}
		return []byte(`{"size": [10, 10], "bands": [{"band": 1, "type": "UInt16", "minimum": 1.0, "maximum": 9.0}]}`), nil
	default:
		r.t.Fatalf("unexpected command %s", name)
		return nil, nil
	}
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func TestProcessDataset(t *testing.T) {
	t.Run("moves non-empty tiles into layer directories", func(t *testing.T) {
		runner := &scriptedRunner{t: t, emptyTiles: map[string]bool{
			"ocs_0-30cm_mean_01_02.tif": true,
		}}
		pipeline := NewPipeline(gdal.New(gdal.WithRunner(runner)))

		dest := t.TempDir()
		err := pipeline.ProcessDataset(context.Background(), "/data/soilgrids", dest, []string{"ocs"})
		require.NoError(t, err)

		// ocs has one depth and five probability layers.
		assert.Equal(t, 5, runner.retiles)

		meanDir := filepath.Join(dest, "ocs_0-30cm_mean")
		entries, err := os.ReadDir(meanDir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "ocs_0-30cm_mean_01_01.tif", entries[0].Name())

		q05Dir := filepath.Join(dest, "ocs_0-30cm_Q0.05")
		entries, err = os.ReadDir(q05Dir)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("unknown property is rejected up front", func(t *testing.T) {
		pipeline := NewPipeline(gdal.New(gdal.WithRunner(&scriptedRunner{t: t})))
		err := pipeline.ProcessDataset(context.Background(), "/data", t.TempDir(), []string{"humus"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown soil property "humus"`)
	})
}

func TestTileName(t *testing.T) {
	assert.Equal(t, "clay_0-5cm_mean_01_02.tif", tileName("clay_0-5cm_mean_01_02.vrt"))
	assert.Equal(t, "clay_0-5cm_mean_01_02.tif", tileName("clay_0-5cm_mean_01_02.tif"))
}

func TestCreateCOG(t *testing.T) {
	t.Run("dry run executes nothing", func(t *testing.T) {
		runner := &scriptedRunner{t: t}
		pipeline := NewPipeline(gdal.New(gdal.WithRunner(runner)))

		err := pipeline.CreateCOG(context.Background(), "in.tif", filepath.Join(t.TempDir(), "out.tif"), true)
		require.NoError(t, err)
		assert.Equal(t, 0, runner.retiles)
	})
}

// seedProcessedDataset lays out {source}/{layer}/{layer}_{col}_{row}.tif files.
func seedProcessedDataset(t *testing.T, source string, layers []string, tiles []string) {
	t.Helper()
	for _, layer := range layers {
		dir := filepath.Join(source, layer)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		for _, tile := range tiles {
			name := fmt.Sprintf("%s_%s.tif", layer, tile)
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
		}
	}
}

func TestTileIndices(t *testing.T) {
	t.Run("extracts indices from the first layer directory", func(t *testing.T) {
		source := t.TempDir()
		seedProcessedDataset(t, source, []string{"clay_0-5cm_mean"}, []string{"01_01", "01_02", "02_01"})

		tiles, err := TileIndices(source)
		require.NoError(t, err)
		assert.Equal(t, []Tile{{"01", "01"}, {"01", "02"}, {"02", "01"}}, tiles)
	})

	t.Run("file without indices is an error", func(t *testing.T) {
		source := t.TempDir()
		dir := filepath.Join(source, "clay_0-5cm_mean")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "clay_0-5cm_mean.tif"), []byte("x"), 0o644))

		_, err := TileIndices(source)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "couldn't extract tile indices")
	})

	t.Run("empty source is an error", func(t *testing.T) {
		_, err := TileIndices(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no layer directories")
	})
}

func TestOrganizeCOGs(t *testing.T) {
	source := t.TempDir()
	layers := []string{
		"ocs_0-30cm_Q0.05", "ocs_0-30cm_Q0.5", "ocs_0-30cm_Q0.95",
		"ocs_0-30cm_mean", "ocs_0-30cm_uncertainty",
	}
	seedProcessedDataset(t, source, layers, []string{"01_02"})
	// Simulate a tile dropped as empty during processing.
	require.NoError(t, os.Remove(filepath.Join(source, "ocs_0-30cm_uncertainty", "ocs_0-30cm_uncertainty_01_02.tif")))

	pipeline := NewPipeline(gdal.New(gdal.WithRunner(&scriptedRunner{t: t})))
	dest := t.TempDir()
	require.NoError(t, pipeline.OrganizeCOGs(source, dest))

	itemDir := filepath.Join(dest, "ocs_0-30cm_01_02")
	entries, err := os.ReadDir(itemDir)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "ocs_0-30cm_mean_01_02.tif")
	assert.NotContains(t, names, "ocs_0-30cm_uncertainty_01_02.tif")

	data, err := os.ReadFile(filepath.Join(itemDir, "ocs_0-30cm_mean_01_02.tif"))
	require.NoError(t, err)
	assert.Equal(t, "ocs_0-30cm_mean_01_02.tif", string(data))

	// Item directories exist for every property/depth even when no tiles
	// were present for them.
	clayDir := filepath.Join(dest, "clay_0-5cm_01_02")
	fi, err := os.Stat(clayDir)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}
