package models

// EntityKind identifies one tracked collection. The string value doubles as
// the local table name and the cloud collection name.
type EntityKind string

const (
	EntityBrewery EntityKind = "breweries"
	EntityBeer    EntityKind = "beers"
)

// EntityKindsOrdered returns all tracked entity kinds in dependency order:
// parent collections come before the collections that reference them.
func EntityKindsOrdered() []EntityKind {
	return []EntityKind{EntityBrewery, EntityBeer}
}

// HasParent reports whether records of the given kind declare a parent id
// that must exist in its parent collection.
func (k EntityKind) HasParent() bool {
	return k == EntityBeer
}

// Valid reports whether k names a known tracked collection.
func (k EntityKind) Valid() bool {
	switch k {
	case EntityBrewery, EntityBeer:
		return true
	}
	return false
}

// Brewery is the parent entity payload of the cellar collection.
type Brewery struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	City    string `json:"city,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// Beer is the child entity payload. BreweryID references the parent brewery;
// LabelImage is either a remote object-store URL or a local file path once
// the image has been downloaded.
type Beer struct {
	ID         string  `json:"id"`
	BreweryID  string  `json:"brewery_id"`
	Name       string  `json:"name"`
	Style      string  `json:"style,omitempty"`
	ABV        float64 `json:"abv,omitempty"`
	Rating     int     `json:"rating,omitempty"`
	Notes      string  `json:"notes,omitempty"`
	LabelImage string  `json:"label_image,omitempty"`
}
