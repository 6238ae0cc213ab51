// Package cog prepares SoilGrids rasters for STAC cataloging: retiling the
// published VRTs into Cloud-Optimized GeoTIFF tiles and arranging the tiles
// into per-item directories.
package cog

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/isric/go-stac-soilgrids/internal/log"
	"github.com/isric/go-stac-soilgrids/pkg/gdal"
	"github.com/isric/go-stac-soilgrids/pkg/soilgrids"
)

// Pipeline drives the retile and organize steps.
type Pipeline struct {
	tool      *gdal.Tool
	pixelSize [2]int
	log       zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPixelSize overrides the tile size in pixels.
func WithPixelSize(ps [2]int) Option {
	return func(p *Pipeline) { p.pixelSize = ps }
}

// NewPipeline returns a Pipeline executing GDAL commands through tool.
func NewPipeline(tool *gdal.Tool, opts ...Option) *Pipeline {
	p := &Pipeline{
		tool:      tool,
		pixelSize: soilgrids.TilingPixelSize,
		log:       log.WithComponent("cog"),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// ProcessDataset retiles every selected property, depth, and probability
// layer under source into COG tiles, keeping only tiles that hold data.
// Source layout follows the SoilGrids distribution:
// {source}/{property}/{property}_{depth}_{probability}.vrt. Tiles land in
// {destDir}/{property}_{depth}_{probability}/.
func (p *Pipeline) ProcessDataset(ctx context.Context, source, destDir string, properties []string) error {
	if len(properties) == 0 {
		properties = soilgrids.PropertyCodes
	}
	for _, prop := range properties {
		if _, ok := soilgrids.Properties[prop]; !ok {
			return fmt.Errorf("unknown soil property %q", prop)
		}
	}

	for _, prop := range properties {
		for _, depth := range soilgrids.DepthsFor(prop) {
			for _, prob := range soilgrids.ProbabilityCodes {
				if err := p.processLayer(ctx, source, destDir, prop, depth, prob); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (p *Pipeline) processLayer(ctx context.Context, source, destDir, prop, depth, prob string) error {
	layer := fmt.Sprintf("%s_%s_%s", prop, depth, prob)
	src := filepath.Join(source, prop, layer+".vrt")

	tmpDir, err := os.MkdirTemp("", "soilgrids-retile-")
	if err != nil {
		return fmt.Errorf("create temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck

	p.log.Info().Str("layer", layer).Str("src", src).Msg("retiling")
	if err := p.tool.Retile(ctx, src, tmpDir, p.pixelSize, gdal.RetileOptions()); err != nil {
		return err
	}

	layerDir := filepath.Join(destDir, layer)
	if err := os.MkdirAll(layerDir, 0o755); err != nil {
		return fmt.Errorf("create layer directory %s: %w", layerDir, err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return fmt.Errorf("read tile directory: %w", err)
	}

	p.log.Info().Str("layer", layer).Str("dst", layerDir).Msg("moving tiles")
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		tilePath := filepath.Join(tmpDir, entry.Name())

		info, err := p.tool.Info(ctx, tilePath)
		if err != nil {
			return err
		}
		if !info.HasData() {
			p.log.Debug().Str("tile", entry.Name()).Msg("skipping empty tile")
			continue
		}

		dst := filepath.Join(layerDir, tileName(entry.Name()))
		if err := moveFile(tilePath, dst); err != nil {
			return fmt.Errorf("move tile %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// tileName normalizes retile output names to the .tif suffix.
func tileName(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".vrt") {
		return strings.TrimSuffix(name, filepath.Ext(name)) + ".tif"
	}
	return name
}

// CreateCOG converts a single raster into a COG at dst. With dryRun set, the
// conversion is logged but not executed.
func (p *Pipeline) CreateCOG(ctx context.Context, src, dst string, dryRun bool) error {
	if dryRun {
		p.log.Info().Str("src", src).Str("dst", dst).Msg("dry run: would create COG")
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return p.tool.Translate(ctx, src, dst, gdal.TranslateOptions())
}

// Tile is a tile position parsed from processed file names.
type Tile struct {
	Col string
	Row string
}

// TileIndices extracts the tile positions present in a processed dataset by
// scanning the first layer directory under source.
func TileIndices(source string) ([]Tile, error) {
	entries, err := os.ReadDir(source)
	if err != nil {
		return nil, fmt.Errorf("read dataset directory: %w", err)
	}

	var layerDir string
	for _, entry := range entries {
		if entry.IsDir() {
			layerDir = filepath.Join(source, entry.Name())
			break
		}
	}
	if layerDir == "" {
		return nil, fmt.Errorf("no layer directories under %s", source)
	}

	files, err := os.ReadDir(layerDir)
	if err != nil {
		return nil, fmt.Errorf("read layer directory: %w", err)
	}

	var tiles []Tile
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		id, err := soilgrids.ParseAssetName(file.Name())
		if err != nil || !id.Tiled() {
			return nil, fmt.Errorf("couldn't extract tile indices from %q", file.Name())
		}
		tiles = append(tiles, Tile{Col: id.TileCol, Row: id.TileRow})
	}
	if len(tiles) == 0 {
		return nil, fmt.Errorf("no tiles under %s", layerDir)
	}
	return tiles, nil
}

// OrganizeCOGs copies processed per-layer tiles into per-item directories
// {destDir}/{property}_{depth}_{col}_{row}, one file per probability layer.
// Layers whose tile was dropped as empty during processing are skipped.
func (p *Pipeline) OrganizeCOGs(source, destDir string) error {
	tiles, err := TileIndices(source)
	if err != nil {
		return err
	}

	for _, tile := range tiles {
		for _, prop := range soilgrids.PropertyCodes {
			for _, depth := range soilgrids.DepthsFor(prop) {
				itemDir := filepath.Join(destDir, fmt.Sprintf("%s_%s_%s_%s", prop, depth, tile.Col, tile.Row))
				p.log.Debug().Str("dir", itemDir).Msg("creating item directory")
				if err := os.MkdirAll(itemDir, 0o755); err != nil {
					return fmt.Errorf("create item directory %s: %w", itemDir, err)
				}

				for _, prob := range soilgrids.ProbabilityCodes {
					layer := fmt.Sprintf("%s_%s_%s", prop, depth, prob)
					fileName := fmt.Sprintf("%s_%s_%s.tif", layer, tile.Col, tile.Row)
					src := filepath.Join(source, layer, fileName)

					err := copyFile(src, filepath.Join(itemDir, fileName))
					if os.IsNotExist(err) {
						p.log.Debug().Str("tile", fileName).Msg("skipping missing tile")
						continue
					}
					if err != nil {
						return fmt.Errorf("copy tile %s: %w", fileName, err)
					}
				}
			}
		}
	}
	return nil
}

// moveFile renames src to dst, falling back to copy+remove across filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
