// Package stac provides authoring-oriented types for SpatioTemporal Asset
// Catalog (STAC) documents.
//
// The Item, Collection, Link, and Asset types support "foreign members":
// JSON fields not defined by the STAC specification, such as extension fields
// ("proj:wkt2", "raster:bands", "sci:doi") or dataset-specific fields
// ("soilgrids:depth"). Foreign members live in each type's AdditionalFields
// map and survive marshal/unmarshal round-trips.
//
// Documents are written with WriteFile, which replaces the destination
// atomically so downstream catalog readers never observe a torn document.
package stac
