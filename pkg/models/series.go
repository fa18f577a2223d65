package models

// Series is the top-level container a user writes in. Series are listed by
// prefix scan and carry no manual ordering.
type Series struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	// Created/Updated timestamps (ms since epoch)
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}
