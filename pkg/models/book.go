package models

// Book is an ordered item inside a series. Rank is the current order key;
// it changes only through a reorder, never in place.
type Book struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	SeriesID    string `json:"seriesId"`
	Rank        string `json:"rank"`
	Title       string `json:"title"`
	Author      string `json:"author,omitempty"`
	PublishDate string `json:"publishDate,omitempty"`
	ISBN        string `json:"isbn,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

func (b Book) OrderID() string   { return b.ID }
func (b Book) OrderRank() string { return b.Rank }

// WithRank returns a copy carrying the new rank and update time.
func (b Book) WithRank(rank string, updatedAt int64) Book {
	b.Rank = rank
	b.UpdatedAt = updatedAt
	return b
}
