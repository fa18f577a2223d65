package models

// LocationLink relates one location to another, optionally typed ("north
// of", "inside", ...).
type LocationLink struct {
	LocationID string `json:"locationId"`
	Kind       string `json:"kind,omitempty"`
}

// Coords is an optional map position.
type Coords struct {
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
}

type Location struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	SeriesID    string         `json:"seriesId"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Links       []LocationLink `json:"links,omitempty"`
	Coords      *Coords        `json:"coords,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
	CreatedAt   int64          `json:"createdAt"`
	UpdatedAt   int64          `json:"updatedAt"`
}
