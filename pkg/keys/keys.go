// Package keys builds the composite store keys used by every entity.
//
// Records live under "yawt/<entity>/<userID>/<scopeIDs...>/<id>" and order
// index entries under "yawt/<entity>Order/<userID>/<scopeIDs...>/<rank>/<id>".
// Every key is user-scoped, so cross-user interference is prevented by key
// construction rather than runtime checks.
//
// The separator '/' (0x2F) sorts below every rank alphabet character, which
// keeps a prefix scan over an order prefix in rank order even when one rank
// is a strict prefix of another ("A" before "A1...").
package keys

import "strings"

const namespace = "yawt"

// Sep joins key segments. Entity ids are UUIDs and ranks stay inside the
// rank alphabet, so no segment ever contains it.
const Sep = "/"

// Scope identifies one parent-scoped collection, e.g. the books of a series
// or the scenes of a book.
type Scope struct {
	Entity string   // record entity name, e.g. "book", "scene"
	UserID string
	Path   []string // parent ids, outermost first (seriesID, then bookID ...)
}

func join(parts ...string) string { return strings.Join(parts, Sep) }

func (s Scope) base(entity string) []string {
	parts := make([]string, 0, len(s.Path)+3)
	parts = append(parts, namespace, entity, s.UserID)
	parts = append(parts, s.Path...)
	return parts
}

// RecordKey returns the primary record key for id.
func (s Scope) RecordKey(id string) string {
	return join(append(s.base(s.Entity), id)...)
}

// RecordPrefix returns the prefix covering every record in the scope.
func (s Scope) RecordPrefix() string {
	return join(s.base(s.Entity)...) + Sep
}

// OrderKey returns the order index key for (rank, id).
func (s Scope) OrderKey(rank, id string) string {
	return join(append(s.base(s.Entity+"Order"), rank, id)...)
}

// OrderPrefix returns the prefix covering the scope's order index; scanning
// it in key order yields entries in rank order.
func (s Scope) OrderPrefix() string {
	return join(s.base(s.Entity+"Order")...) + Sep
}

// SplitOrderKey extracts (rank, id) from an order index key. ok is false for
// keys that do not carry both trailing segments.
func SplitOrderKey(key string) (rank, id string, ok bool) {
	parts := strings.Split(key, Sep)
	if len(parts) < 2 {
		return "", "", false
	}
	return parts[len(parts)-2], parts[len(parts)-1], true
}

// Series returns the scope for a user's series records (unordered).
func Series(userID string) Scope {
	return Scope{Entity: "series", UserID: userID}
}

// Books returns the ordered scope for a series' books.
func Books(userID, seriesID string) Scope {
	return Scope{Entity: "book", UserID: userID, Path: []string{seriesID}}
}

// Scenes returns the ordered scope for a book's scenes.
func Scenes(userID, seriesID, bookID string) Scope {
	return Scope{Entity: "scene", UserID: userID, Path: []string{seriesID, bookID}}
}

// Characters returns the scope for a series' characters.
func Characters(userID, seriesID string) Scope {
	return Scope{Entity: "character", UserID: userID, Path: []string{seriesID}}
}

// Locations returns the scope for a series' locations.
func Locations(userID, seriesID string) Scope {
	return Scope{Entity: "location", UserID: userID, Path: []string{seriesID}}
}

// Timelines returns the scope for a series' timelines.
func Timelines(userID, seriesID string) Scope {
	return Scope{Entity: "timeline", UserID: userID, Path: []string{seriesID}}
}

// Events returns the scope for a series' free-form events.
func Events(userID, seriesID string) Scope {
	return Scope{Entity: "event", UserID: userID, Path: []string{seriesID}}
}

// Notes returns the scope for a user's notes.
func Notes(userID string) Scope {
	return Scope{Entity: "note", UserID: userID}
}
