package models

// Event is a free-form series-level happening kept outside any manual
// ordering; chronology comes from its date strings.
type Event struct {
	ID           string   `json:"id"`
	UserID       string   `json:"userId"`
	SeriesID     string   `json:"seriesId"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	LocationID   string   `json:"locationId,omitempty"`
	CharacterIDs []string `json:"characterIds,omitempty"`
	SceneIDs     []string `json:"sceneIds,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	CreatedAt    int64    `json:"createdAt"`
	UpdatedAt    int64    `json:"updatedAt"`
}
