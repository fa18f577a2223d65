package models

// Timeline names a strand of the story. Timeline views are derived from
// scene frontmatter (startDate/endDate plus timeline membership); a
// timeline record itself is only a title.
type Timeline struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	SeriesID    string `json:"seriesId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}
