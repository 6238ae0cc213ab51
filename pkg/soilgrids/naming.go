package soilgrids

import (
	"fmt"
	"path/filepath"
	"strings"
)

// AssetID identifies a single SoilGrids raster layer: a soil property, a depth
// slice, a statistical layer, and optionally a tile position. It is parsed
// from file names of the form
//
//	{property}_{depth}_{probability}.{tif|vrt}
//	{property}_{depth}_{probability}_{col}_{row}.tif
type AssetID struct {
	Property    string
	Depth       string
	Probability string
	TileCol     string
	TileRow     string
}

// Tiled reports whether the asset carries a tile position.
func (id AssetID) Tiled() bool {
	return id.TileCol != "" && id.TileRow != ""
}

// Tile returns the tile position as "{col}_{row}", or "" for untiled assets.
func (id AssetID) Tile() string {
	if !id.Tiled() {
		return ""
	}
	return id.TileCol + "_" + id.TileRow
}

// ItemID identifies an item directory of per-probability tiles, parsed from
// directory names of the form {property}_{depth}_{col}_{row}.
type ItemID struct {
	Property string
	Depth    string
	TileCol  string
	TileRow  string
}

// Tile returns the tile position as "{col}_{row}".
func (id ItemID) Tile() string {
	return id.TileCol + "_" + id.TileRow
}

// ParseAssetName parses a SoilGrids raster file name or path into an AssetID.
func ParseAssetName(name string) (*AssetID, error) {
	stem, err := stem(name)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(stem, "_")
	id := &AssetID{}
	switch len(parts) {
	case 3:
		id.Property, id.Depth, id.Probability = parts[0], parts[1], parts[2]
	case 5:
		id.Property, id.Depth, id.Probability = parts[0], parts[1], parts[2]
		id.TileCol, id.TileRow = parts[3], parts[4]
		if !isIndex(id.TileCol) || !isIndex(id.TileRow) {
			return nil, fmt.Errorf("invalid tile indices %q_%q in %q", id.TileCol, id.TileRow, name)
		}
	default:
		return nil, fmt.Errorf("unrecognized asset name %q", name)
	}

	if err := validateLayer(id.Property, id.Depth, name); err != nil {
		return nil, err
	}
	if _, ok := Probabilities[id.Probability]; !ok {
		return nil, fmt.Errorf("unknown probability layer %q in %q", id.Probability, name)
	}
	return id, nil
}

// ParseItemDirName parses an item directory name into an ItemID.
func ParseItemDirName(name string) (*ItemID, error) {
	base := filepath.Base(filepath.Clean(name))

	parts := strings.Split(base, "_")
	if len(parts) != 4 {
		return nil, fmt.Errorf("unrecognized item directory name %q", base)
	}

	id := &ItemID{Property: parts[0], Depth: parts[1], TileCol: parts[2], TileRow: parts[3]}
	if !isIndex(id.TileCol) || !isIndex(id.TileRow) {
		return nil, fmt.Errorf("invalid tile indices %q_%q in %q", id.TileCol, id.TileRow, base)
	}
	if err := validateLayer(id.Property, id.Depth, base); err != nil {
		return nil, err
	}
	return id, nil
}

func validateLayer(property, depth, src string) error {
	if _, ok := Properties[property]; !ok {
		return fmt.Errorf("unknown soil property %q in %q", property, src)
	}
	for _, d := range DepthsFor(property) {
		if d == depth {
			return nil
		}
	}
	return fmt.Errorf("depth %q is not mapped for property %q in %q", depth, property, src)
}

func stem(name string) (string, error) {
	base := filepath.Base(name)
	ext := strings.ToLower(filepath.Ext(base))
	switch ext {
	case ".tif", ".tiff", ".vrt":
		return strings.TrimSuffix(base, filepath.Ext(base)), nil
	default:
		return "", fmt.Errorf("unsupported raster extension in %q", name)
	}
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
