package stac

import "encoding/json"

// Asset represents a STAC Asset with support for additional fields.
type Asset struct {
	Href        string   `json:"href"`
	Type        string   `json:"type,omitempty"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Roles       []string `json:"roles,omitempty"`

	// AdditionalFields holds foreign members from extensions (e.g. "raster:bands").
	AdditionalFields map[string]any `json:"-"`
}

var knownAssetFields = map[string]bool{
	"href": true, "type": true, "title": true, "description": true,
	"roles": true,
}

// SetField stores a foreign member (e.g. "raster:bands") on the asset.
func (asset *Asset) SetField(key string, value any) {
	asset.AdditionalFields = setField(asset.AdditionalFields, key, value)
}

// UnmarshalJSON implements custom unmarshaling to capture foreign members.
func (asset *Asset) UnmarshalJSON(data []byte) error {
	type assetAlias Asset
	var aux assetAlias
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*asset = Asset(aux)

	extra, err := decodeExtra(data, knownAssetFields)
	if err != nil {
		return err
	}
	asset.AdditionalFields = extra
	return nil
}

// MarshalJSON implements custom marshaling to include foreign members.
func (asset Asset) MarshalJSON() ([]byte, error) {
	type assetAlias Asset
	return encodeWithExtra(assetAlias(asset), asset.AdditionalFields)
}
