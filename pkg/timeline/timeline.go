// Package timeline builds the chronological view of a series: every scene
// across every book, filtered to those carrying a derived date, optionally
// narrowed to one timeline, sorted by start date, end date, then title.
package timeline

import (
	"math"
	"sort"
	"time"

	"yawt/pkg/collection"
	"yawt/pkg/keys"
	"yawt/pkg/models"
	"yawt/pkg/store"
)

// SceneEvent is one dated scene as shown on a timeline.
type SceneEvent struct {
	SceneID   string `json:"sceneId"`
	BookID    string `json:"bookId"`
	BookTitle string `json:"bookTitle,omitempty"`
	Title     string `json:"title"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// Sort tiers: parseable dates sort by instant, present-but-unparseable
// strings sort after every parseable date, absent dates sort last of all.
const (
	sortKeyAbsent      = math.MaxInt64
	sortKeyUnparseable = math.MaxInt64 - 1
)

// dateLayouts are tried in order when interpreting a free-form date string.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// dateSortKey maps a free-form date string onto the three-tier sort scale.
func dateSortKey(value string) int64 {
	if value == "" {
		return sortKeyAbsent
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UnixMilli()
		}
	}
	return sortKeyUnparseable
}

// matchesTimeline reports whether a scene belongs on the given timeline. An
// empty membership list means the scene applies to all timelines.
func matchesTimeline(derived models.SceneDerived, timelineID string) bool {
	if len(derived.TimelineIDs) == 0 {
		return true
	}
	for _, id := range derived.TimelineIDs {
		if id == timelineID {
			return true
		}
	}
	return false
}

// ListSceneEvents collects the dated scenes of every book in the series, in
// chronological order. timelineID narrows the result to scenes that name
// that timeline (or name none); pass "" to include all dated scenes.
func ListSceneEvents(st *store.Store, userID, seriesID, timelineID string) ([]SceneEvent, error) {
	books, err := collection.New[models.Book](st, keys.Books(userID, seriesID)).List()
	if err != nil {
		return nil, err
	}

	events := make([]SceneEvent, 0)
	for _, book := range books {
		scenes, err := collection.New[models.Scene](st, keys.Scenes(userID, seriesID, book.ID)).List()
		if err != nil {
			return nil, err
		}
		for _, s := range scenes {
			if s.Derived.StartDate == "" && s.Derived.EndDate == "" {
				continue
			}
			if timelineID != "" && !matchesTimeline(s.Derived, timelineID) {
				continue
			}
			title := s.Derived.Title
			if title == "" {
				title = "Scene " + shortID(s.ID)
			}
			events = append(events, SceneEvent{
				SceneID:   s.ID,
				BookID:    s.BookID,
				BookTitle: book.Title,
				Title:     title,
				StartDate: s.Derived.StartDate,
				EndDate:   s.Derived.EndDate,
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		as, bs := dateSortKey(a.StartDate), dateSortKey(b.StartDate)
		if as != bs {
			return as < bs
		}
		ae, be := dateSortKey(a.EndDate), dateSortKey(b.EndDate)
		if ae != be {
			return ae < be
		}
		return a.Title < b.Title
	})
	return events, nil
}

func shortID(id string) string {
	if len(id) > 6 {
		return id[:6]
	}
	return id
}
