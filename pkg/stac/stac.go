package stac

import "encoding/json"

// Version is the STAC specification version written into every document.
const Version = "1.0.0"

// STAC document types.
const (
	TypeFeature    = "Feature"
	TypeCollection = "Collection"
)

// Common media types for STAC assets and links.
const (
	MediaTypeJSON    = "application/json"
	MediaTypeGeoJSON = "application/geo+json"
	MediaTypeCOG     = "image/tiff; application=geotiff; profile=cloud-optimized"
	MediaTypeGeoTIFF = "image/tiff; application=geotiff"
	MediaTypeHTML    = "text/html"
)

// Link relation types used by this package.
const (
	RelSelf       = "self"
	RelRoot       = "root"
	RelParent     = "parent"
	RelCollection = "collection"
	RelLicense    = "license"
	RelCite       = "cite-as"
)

// decodeExtra extracts foreign members from data: every top-level key not in
// known is decoded into the returned map. Values that fail to decode are
// skipped rather than failing the whole document.
func decodeExtra(data []byte, known map[string]bool) (map[string]any, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	extra := make(map[string]any)
	for key, val := range raw {
		if known[key] {
			continue
		}
		var decoded any
		if err := json.Unmarshal(val, &decoded); err != nil {
			continue
		}
		extra[key] = decoded
	}
	return extra, nil
}

// encodeWithExtra marshals aux and merges the extra foreign members into the
// resulting JSON object. Extra keys never shadow declared struct fields.
func encodeWithExtra(aux any, extra map[string]any) ([]byte, error) {
	data, err := json.Marshal(aux)
	if err != nil {
		return nil, err
	}

	if len(extra) == 0 {
		return data, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}

	for key, val := range extra {
		if _, declared := obj[key]; declared {
			continue
		}
		encoded, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		obj[key] = encoded
	}

	return json.Marshal(obj)
}

// setField stores a key/value pair in a foreign-member map, allocating the map
// when needed. It returns the map so callers can assign it back.
func setField(extra map[string]any, key string, value any) map[string]any {
	if extra == nil {
		extra = make(map[string]any)
	}
	extra[key] = value
	return extra
}

// appendExtension adds uri to the extension list unless it is already present.
func appendExtension(extensions []string, uri string) []string {
	for _, e := range extensions {
		if e == uri {
			return extensions
		}
	}
	return append(extensions, uri)
}

func findLink(links []*Link, rel string) *Link {
	for _, link := range links {
		if link.Rel == rel {
			return link
		}
	}
	return nil
}

// replaceLink swaps the first link with the given rel, or appends when absent.
func replaceLink(links []*Link, link *Link) []*Link {
	for i := range links {
		if links[i].Rel == link.Rel {
			links[i] = link
			return links
		}
	}
	return append(links, link)
}
