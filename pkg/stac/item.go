package stac

import (
	"encoding/json"
	"fmt"
)

// Item represents a STAC Item (GeoJSON Feature) with support for foreign members.
type Item struct {
	Type       string            `json:"type"`
	Version    string            `json:"stac_version"`
	Extensions []string          `json:"stac_extensions,omitempty"`
	Id         string            `json:"id"`
	Geometry   any               `json:"geometry"`
	Bbox       []float64         `json:"bbox,omitempty"`
	Properties map[string]any    `json:"properties"`
	Links      []*Link           `json:"links"`
	Assets     map[string]*Asset `json:"assets"`
	Collection string            `json:"collection,omitempty"`

	// AdditionalFields holds foreign members not defined in the STAC spec.
	AdditionalFields map[string]any `json:"-"`
}

var knownItemFields = map[string]bool{
	"type": true, "stac_version": true, "stac_extensions": true,
	"id": true, "geometry": true, "bbox": true, "properties": true,
	"links": true, "assets": true, "collection": true,
}

// NewItem returns an Item with the type, version, and container fields
// initialized for authoring.
func NewItem(id string) *Item {
	return &Item{
		Type:       TypeFeature,
		Version:    Version,
		Id:         id,
		Properties: make(map[string]any),
		Links:      []*Link{},
		Assets:     make(map[string]*Asset),
	}
}

// SetProperty stores a value in the Item's properties object.
func (item *Item) SetProperty(key string, value any) {
	if item.Properties == nil {
		item.Properties = make(map[string]any)
	}
	item.Properties[key] = value
}

// AddAsset registers an asset under the given key.
func (item *Item) AddAsset(key string, asset *Asset) {
	if item.Assets == nil {
		item.Assets = make(map[string]*Asset)
	}
	item.Assets[key] = asset
}

// AddLink appends a link, replacing any existing link with the same rel when
// the rel is one that must be unique (self, root, parent, collection).
func (item *Item) AddLink(link *Link) {
	switch link.Rel {
	case RelSelf, RelRoot, RelParent, RelCollection:
		item.Links = replaceLink(item.Links, link)
	default:
		item.Links = append(item.Links, link)
	}
}

// AddExtension records a STAC extension schema URI on the item.
func (item *Item) AddExtension(uri string) {
	item.Extensions = appendExtension(item.Extensions, uri)
}

// SetField stores a foreign member (e.g. a field outside the properties
// object) on the item.
func (item *Item) SetField(key string, value any) {
	item.AdditionalFields = setField(item.AdditionalFields, key, value)
}

// GetLink returns the first link with the given rel, or nil.
func (item *Item) GetLink(rel string) *Link {
	return findLink(item.Links, rel)
}

// SetSelfHref sets the item's self link to the given href.
func (item *Item) SetSelfHref(href string) {
	item.AddLink(&Link{Rel: RelSelf, Href: href, Type: MediaTypeGeoJSON})
}

// Validate performs structural checks on the item before it is written.
func (item *Item) Validate() error {
	if item.Id == "" {
		return fmt.Errorf("item: missing id")
	}
	if item.Type != TypeFeature {
		return fmt.Errorf("item %s: type must be %q, got %q", item.Id, TypeFeature, item.Type)
	}
	if item.Version == "" {
		return fmt.Errorf("item %s: missing stac_version", item.Id)
	}
	if n := len(item.Bbox); n != 0 && n != 4 && n != 6 {
		return fmt.Errorf("item %s: bbox must have 4 or 6 values, got %d", item.Id, n)
	}
	if _, ok := item.Properties["datetime"]; !ok {
		return fmt.Errorf("item %s: missing datetime property", item.Id)
	}
	return nil
}

// UnmarshalJSON implements custom unmarshaling to capture foreign members.
func (item *Item) UnmarshalJSON(data []byte) error {
	type itemAlias Item
	var aux itemAlias
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*item = Item(aux)

	extra, err := decodeExtra(data, knownItemFields)
	if err != nil {
		return err
	}
	item.AdditionalFields = extra
	return nil
}

// MarshalJSON implements custom marshaling to include foreign members.
func (item Item) MarshalJSON() ([]byte, error) {
	type itemAlias Item
	return encodeWithExtra(itemAlias(item), item.AdditionalFields)
}
