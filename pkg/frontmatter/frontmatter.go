// Package frontmatter splits an optional leading YAML block off free-form
// scene text and derives normalized scene metadata from it. Parsing never
// fails: malformed or oversized blocks degrade to empty metadata with the
// original text preserved as body.
package frontmatter

import (
	"regexp"

	"gopkg.in/yaml.v3"

	"yawt/pkg/convert"
	"yawt/pkg/models"
)

// MaxBlockBytes caps the YAML block size; larger blocks are treated as
// plain body text.
const MaxBlockBytes = 64 * 1024

// blockRe matches a leading delimiter line, the block content, and a
// closing delimiter line (optionally at end of input).
var blockRe = regexp.MustCompile(`(?s)\A---[ \t]*\r?\n(.*?)\r?\n---[ \t]*\r?\n?`)

// Result is the outcome of splitting text: the parsed attribute map (empty
// when no valid block was found) and the remaining body.
type Result struct {
	Attributes map[string]any
	Body       string
}

// Extract splits a leading YAML block off text. The whole input is returned
// as body when there is no block, the block exceeds MaxBlockBytes, or the
// YAML is malformed — all-or-nothing, so a bad block never partially
// populates attributes and the raw text round-trips unchanged.
func Extract(text string) Result {
	none := Result{Attributes: map[string]any{}, Body: text}

	m := blockRe.FindStringSubmatchIndex(text)
	if m == nil {
		return none
	}
	block := text[m[2]:m[3]]
	if len(block) > MaxBlockBytes {
		return none
	}

	var parsed any
	if err := yaml.Unmarshal([]byte(block), &parsed); err != nil {
		return none
	}
	attrs, ok := parsed.(map[string]any)
	if !ok {
		attrs = map[string]any{}
	}
	return Result{Attributes: attrs, Body: text[m[1]:]}
}

// first returns the first present attribute among the given alias keys.
func first(attrs map[string]any, names ...string) any {
	for _, n := range names {
		if v, ok := attrs[n]; ok && v != nil {
			return v
		}
	}
	return nil
}

// chapterValue passes a chapter through as written: a string or a number,
// nothing else.
func chapterValue(v any) any {
	switch v.(type) {
	case string, int, int64, float64:
		return v
	default:
		return nil
	}
}

// Derive computes a scene's metadata from its text. It is a pure function:
// same text in, same fields out, no I/O. Date strings are kept free-form;
// chronological consumers deal with unparseable values. Unquoted YAML dates
// decode as timestamps and come back normalized to RFC 3339.
func Derive(text string) models.SceneDerived {
	attrs := Extract(text).Attributes

	return models.SceneDerived{
		Title:        convert.OptionalString(attrs["title"]),
		Chapter:      chapterValue(attrs["chapter"]),
		Section:      convert.OptionalString(attrs["section"]),
		TimelineIDs:  convert.OptionalStringList(first(attrs, "timelineIds", "timelines", "timeline")),
		LocationID:   convert.OptionalString(first(attrs, "locationId", "location_id")),
		CharacterIDs: convert.OptionalStringList(first(attrs, "characterIds", "characters")),
		Tags:         convert.OptionalStringList(first(attrs, "tags", "plotlines")),
		StartDate:    convert.OptionalString(first(attrs, "startDate", "start_date")),
		EndDate:      convert.OptionalString(first(attrs, "endDate", "end_date")),
	}
}
