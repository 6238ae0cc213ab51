package stac

// Provider represents a STAC Collection provider.
type Provider struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Url         string   `json:"url,omitempty"`
}

// Provider roles defined by the STAC specification.
const (
	RoleLicensor  = "licensor"
	RoleProducer  = "producer"
	RoleProcessor = "processor"
	RoleHost      = "host"
)
