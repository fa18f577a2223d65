package models

// SceneDerived is the read-side cache recomputed from a scene's YAML
// frontmatter on every text write. All fields degrade to absent; a
// malformed block never yields an error.
type SceneDerived struct {
	Title string `json:"title,omitempty"`
	// Chapter is passed through as written in the frontmatter: either a
	// string or a number.
	Chapter      any      `json:"chapter,omitempty"`
	Section      string   `json:"section,omitempty"`
	TimelineIDs  []string `json:"timelineIds,omitempty"`
	LocationID   string   `json:"locationId,omitempty"`
	CharacterIDs []string `json:"characterIds,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	// Free-form date strings; not validated or parsed at this layer.
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// Scene is an ordered item inside a book. Text is free-form user content;
// Derived is recomputed whenever Text changes.
type Scene struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	SeriesID  string       `json:"seriesId"`
	BookID    string       `json:"bookId"`
	Rank      string       `json:"rank"`
	Text      string       `json:"text"`
	Derived   SceneDerived `json:"derived"`
	CreatedAt int64        `json:"createdAt"`
	UpdatedAt int64        `json:"updatedAt"`
}

func (s Scene) OrderID() string   { return s.ID }
func (s Scene) OrderRank() string { return s.Rank }

func (s Scene) WithRank(rank string, updatedAt int64) Scene {
	s.Rank = rank
	s.UpdatedAt = updatedAt
	return s
}
