package soilgrids

import (
	"time"

	"github.com/isric/go-stac-soilgrids/pkg/stac"
)

// Collection-level metadata for the SoilGrids 250m dataset.
const (
	CollectionID = "soilgrids250m"
	Title        = "ISRIC SoilGrids Global Soil Property Maps"
	Description  = "SoilGrids is a system for global digital soil mapping that makes use of global soil profile information and covariate data to model the spatial distribution of soil properties across the globe. SoilGrids is a collection of soil property maps for the world produced using machine learning at 250 m resolution."

	License      = "CC-BY-4.0"
	LicenseURL   = "https://creativecommons.org/licenses/by/4.0/"
	LicenseTitle = "Creative Commons Attribution 4.0 International"

	DOI      = "10.5194/soil-7-217-2021"
	Citation = "Poggio, L., de Sousa, L. M., Batjes, N. H., Heuvelink, G. B. M., Kempen, B., Ribeiro, E., and Rossiter, D.: SoilGrids 2.0: producing soil information for the globe with quantified spatial uncertainty, SOIL, 7, 217–240, 2021."

	DatasetURL       = "https://files.isric.org/soilgrids/latest/data/"
	DatasetAccessURL = "/vsicurl?max_retry=3&retry_delay=1&list_dir=no&url=" + DatasetURL

	ProviderName = "ISRIC — World Soil Information"
	ProviderURL  = "https://www.isric.org/explore/soilgrids"
)

// EPSG is the synthetic code ISRIC uses for the Interrupted Goode Homolosine
// projection SoilGrids is published in. It is not a registered EPSG code, so
// documents always carry the WKT alongside it.
const EPSG = 152160

// CRSWKT is the WKT definition of the SoilGrids Homolosine projection.
const CRSWKT = `PROJCS["Homolosine",
    GEOGCS["WGS 84",
        DATUM["WGS_1984",
            SPHEROID["WGS 84",6378137,298.257223563,
                AUTHORITY["EPSG","7030"]],
   AUTHORITY["EPSG","6326"]],
        PRIMEM["Greenwich",0,
            AUTHORITY["EPSG","8901"]],
        UNIT["degree",0.0174532925199433,
            AUTHORITY["EPSG","9122"]],
        AUTHORITY["EPSG","4326"]],
    PROJECTION["Interrupted_Goode_Homolosine"],
    UNIT["Meter",1]]`

// STAC extension schema URIs used by this package.
const (
	ExtensionProjection = "https://stac-extensions.github.io/projection/v1.1.0/schema.json"
	ExtensionRaster     = "https://stac-extensions.github.io/raster/v1.1.0/schema.json"
	ExtensionScientific = "https://stac-extensions.github.io/scientific/v1.0.0/schema.json"
)

// SpatialResolution is the ground sample distance of SoilGrids rasters in
// meters.
const SpatialResolution = 250

var (
	// BoundingBox is the dataset extent in WGS84 [minx, miny, maxx, maxy].
	BoundingBox = []float64{96.00, -44.00, 168.00, -9.00}

	// ReleaseDate is the publication date of SoilGrids 2.0.
	ReleaseDate = time.Date(2020, time.May, 1, 0, 0, 0, 0, time.UTC)

	// TilingPixelSize is the tile size used when retiling the source VRTs.
	TilingPixelSize = [2]int{10000, 10000}
)

// Provider returns the ISRIC provider entry for authored collections.
func Provider() *stac.Provider {
	return &stac.Provider{
		Name:  ProviderName,
		Roles: []string{stac.RoleHost, stac.RoleProcessor, stac.RoleProducer},
		Url:   ProviderURL,
	}
}

// Property describes a mapped soil property.
type Property struct {
	Code        string
	Description string
	Unit        string
}

// PropertyCodes lists the mapped soil properties in catalog order.
var PropertyCodes = []string{
	"bdod", "cec", "cfvo", "clay", "nitrogen", "ocd", "ocs",
	"phh2o", "sand", "silt", "soc",
}

// Properties maps property codes to their descriptions and units.
var Properties = map[string]Property{
	"bdod":     {Code: "bdod", Description: "Bulk density of the fine earth fraction", Unit: "cg/cm³"},
	"cec":      {Code: "cec", Description: "Cation Exchange Capacity of the soil", Unit: "mmol(c)/kg"},
	"cfvo":     {Code: "cfvo", Description: "Volumetric fraction of coarse fragments (> 2 mm)", Unit: "cm3/dm3 (vol‰)"},
	"clay":     {Code: "clay", Description: "Proportion of clay particles (< 0.002 mm) in the fine earth fraction", Unit: "g/kg"},
	"nitrogen": {Code: "nitrogen", Description: "Total nitrogen", Unit: "cg/kg"},
	"ocd":      {Code: "ocd", Description: "Organic carbon density", Unit: "hg/m³"},
	"ocs":      {Code: "ocs", Description: "Organic carbon stocks", Unit: "t/ha"},
	"phh2o":    {Code: "phh2o", Description: "Soil pH", Unit: "pHx10"},
	"sand":     {Code: "sand", Description: "Proportion of sand particles (> 0.05 mm) in the fine earth fraction", Unit: "g/kg"},
	"silt":     {Code: "silt", Description: "Proportion of silt particles (≥ 0.002 mm and ≤ 0.05 mm) in the fine earth fraction", Unit: "g/kg"},
	"soc":      {Code: "soc", Description: "Soil organic carbon content in the fine earth fraction", Unit: "dg/kg"},
}

// DepthCodes lists the standard depth slices in catalog order.
var DepthCodes = []string{
	"0-5cm", "5-15cm", "15-30cm", "30-60cm", "60-100cm", "100-200cm",
}

// Depths maps standard depth codes to labels.
var Depths = map[string]string{
	"0-5cm":     "Zero to 5cm Depth",
	"5-15cm":    "5cm to 15cm Depth",
	"15-30cm":   "15cm to 30cm Depth",
	"30-60cm":   "30cm to 60cm Depth",
	"60-100cm":  "60cm to 100cm Depth",
	"100-200cm": "100cm to 200cm Depth",
}

// Organic carbon stocks are only mapped for the aggregated 0-30cm slice.
var (
	OCSDepthCodes = []string{"0-30cm"}
	OCSDepths     = map[string]string{"0-30cm": "Zero to 30cm Depth"}
)

// ProbabilityCodes lists the statistical layers in catalog order.
var ProbabilityCodes = []string{"Q0.05", "Q0.5", "Q0.95", "mean", "uncertainty"}

// Probabilities maps statistical layer codes to labels.
var Probabilities = map[string]string{
	"Q0.05":       "5% quantile",
	"Q0.5":        "median of the distribution",
	"Q0.95":       "95% quantile",
	"mean":        "mean of the distribution",
	"uncertainty": "10x(Q0.95-Q0.05)/Q0.50",
}

// DepthsFor returns the depth codes mapped for the given property.
func DepthsFor(property string) []string {
	if property == "ocs" {
		return OCSDepthCodes
	}
	return DepthCodes
}

// DepthLabel returns the label for a depth code, standard or ocs-specific.
func DepthLabel(code string) (string, bool) {
	if label, ok := Depths[code]; ok {
		return label, true
	}
	label, ok := OCSDepths[code]
	return label, ok
}

// AllDepthCodes returns the union of standard and ocs depth codes.
func AllDepthCodes() []string {
	all := make([]string, 0, len(DepthCodes)+len(OCSDepthCodes))
	all = append(all, DepthCodes...)
	all = append(all, OCSDepthCodes...)
	return all
}
