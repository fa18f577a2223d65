package models

// Character belongs to a series. Extra is a constrained free-form attribute
// bag (string keys, JSON-representable values).
type Character struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	SeriesID    string         `json:"seriesId"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
	CreatedAt   int64          `json:"createdAt"`
	UpdatedAt   int64          `json:"updatedAt"`
}
