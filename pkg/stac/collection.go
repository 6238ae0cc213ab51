package stac

import (
	"encoding/json"
	"fmt"
)

// Collection represents a STAC Collection with support for foreign members.
type Collection struct {
	Type        string            `json:"type"`
	Version     string            `json:"stac_version"`
	Extensions  []string          `json:"stac_extensions,omitempty"`
	Id          string            `json:"id"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description"`
	Keywords    []string          `json:"keywords,omitempty"`
	License     string            `json:"license"`
	Providers   []*Provider       `json:"providers,omitempty"`
	Extent      *Extent           `json:"extent"`
	Summaries   map[string]any    `json:"summaries,omitempty"`
	Links       []*Link           `json:"links"`
	Assets      map[string]*Asset `json:"assets,omitempty"`

	// AdditionalFields holds foreign members not defined in the STAC spec.
	AdditionalFields map[string]any `json:"-"`
}

var knownCollectionFields = map[string]bool{
	"type": true, "stac_version": true, "stac_extensions": true,
	"id": true, "title": true, "description": true, "keywords": true,
	"license": true, "providers": true, "extent": true, "summaries": true,
	"links": true, "assets": true,
}

// NewCollection returns a Collection with type, version, and container fields
// initialized for authoring.
func NewCollection(id string) *Collection {
	return &Collection{
		Type:    TypeCollection,
		Version: Version,
		Id:      id,
		Links:   []*Link{},
	}
}

// AddLink appends a link, replacing any existing link with the same rel when
// the rel must be unique (self, root, parent).
func (col *Collection) AddLink(link *Link) {
	switch link.Rel {
	case RelSelf, RelRoot, RelParent:
		col.Links = replaceLink(col.Links, link)
	default:
		col.Links = append(col.Links, link)
	}
}

// AddExtension records a STAC extension schema URI on the collection.
func (col *Collection) AddExtension(uri string) {
	col.Extensions = appendExtension(col.Extensions, uri)
}

// SetSummary stores a value in the collection's summaries object.
func (col *Collection) SetSummary(key string, value any) {
	if col.Summaries == nil {
		col.Summaries = make(map[string]any)
	}
	col.Summaries[key] = value
}

// SetField stores a foreign member (e.g. "sci:doi") on the collection.
func (col *Collection) SetField(key string, value any) {
	col.AdditionalFields = setField(col.AdditionalFields, key, value)
}

// GetLink returns the first link with the given rel, or nil.
func (col *Collection) GetLink(rel string) *Link {
	return findLink(col.Links, rel)
}

// SetSelfHref sets the collection's self link to the given href.
func (col *Collection) SetSelfHref(href string) {
	col.AddLink(&Link{Rel: RelSelf, Href: href, Type: MediaTypeJSON})
}

// Validate performs structural checks on the collection before it is written.
func (col *Collection) Validate() error {
	if col.Id == "" {
		return fmt.Errorf("collection: missing id")
	}
	if col.Type != TypeCollection {
		return fmt.Errorf("collection %s: type must be %q, got %q", col.Id, TypeCollection, col.Type)
	}
	if col.Version == "" {
		return fmt.Errorf("collection %s: missing stac_version", col.Id)
	}
	if col.Description == "" {
		return fmt.Errorf("collection %s: missing description", col.Id)
	}
	if col.License == "" {
		return fmt.Errorf("collection %s: missing license", col.Id)
	}
	if col.Extent == nil || col.Extent.Spatial == nil || len(col.Extent.Spatial.Bbox) == 0 {
		return fmt.Errorf("collection %s: missing spatial extent", col.Id)
	}
	if col.Extent.Temporal == nil || len(col.Extent.Temporal.Interval) == 0 {
		return fmt.Errorf("collection %s: missing temporal extent", col.Id)
	}
	return nil
}

// UnmarshalJSON implements custom unmarshaling to capture foreign members.
func (col *Collection) UnmarshalJSON(data []byte) error {
	type collectionAlias Collection
	var aux collectionAlias
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*col = Collection(aux)

	extra, err := decodeExtra(data, knownCollectionFields)
	if err != nil {
		return err
	}
	col.AdditionalFields = extra
	return nil
}

// MarshalJSON implements custom marshaling to include foreign members.
func (col Collection) MarshalJSON() ([]byte, error) {
	type collectionAlias Collection
	return encodeWithExtra(collectionAlias(col), col.AdditionalFields)
}
