// Package api implements the versioned HTTP surface. Handlers hold an
// injected store handle; nothing in here reaches for process-global state.
package api

import (
	"net/http"
	"time"

	"yawt/pkg/auth"
	"yawt/pkg/store"
	"yawt/pkg/utils"

	"github.com/gorilla/mux"
)

// Server carries the dependencies handlers need.
type Server struct {
	st      *store.Store
	maxBody int64
	now     func() int64
}

// New returns a Server bound to st. maxBody caps JSON request bodies in
// bytes; zero or negative disables the cap.
func New(st *store.Store, maxBody int64) *Server {
	return &Server{
		st:      st,
		maxBody: maxBody,
		now:     func() int64 { return time.Now().UnixMilli() },
	}
}

// Register mounts every /v1 route on r. The router passed in should already
// sit behind the gateway and signature middleware.
func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/me", s.me).Methods(http.MethodGet)

	r.HandleFunc("/series", s.createSeries).Methods(http.MethodPost)
	r.HandleFunc("/series", s.listSeries).Methods(http.MethodGet)
	r.HandleFunc("/series/{seriesID}", s.getSeries).Methods(http.MethodGet)
	r.HandleFunc("/series/{seriesID}", s.updateSeries).Methods(http.MethodPut)
	r.HandleFunc("/series/{seriesID}", s.deleteSeries).Methods(http.MethodDelete)

	r.HandleFunc("/series/{seriesID}/books", s.createBook).Methods(http.MethodPost)
	r.HandleFunc("/series/{seriesID}/books", s.listBooks).Methods(http.MethodGet)
	r.HandleFunc("/series/{seriesID}/books/{bookID}", s.getBook).Methods(http.MethodGet)
	r.HandleFunc("/series/{seriesID}/books/{bookID}", s.updateBook).Methods(http.MethodPut)
	r.HandleFunc("/series/{seriesID}/books/{bookID}", s.deleteBook).Methods(http.MethodDelete)
	r.HandleFunc("/series/{seriesID}/books/{bookID}/reorder", s.reorderBook).Methods(http.MethodPost)

	r.HandleFunc("/series/{seriesID}/books/{bookID}/scenes", s.createScene).Methods(http.MethodPost)
	r.HandleFunc("/series/{seriesID}/books/{bookID}/scenes", s.listScenes).Methods(http.MethodGet)
	r.HandleFunc("/series/{seriesID}/books/{bookID}/scenes/{sceneID}", s.getScene).Methods(http.MethodGet)
	r.HandleFunc("/series/{seriesID}/books/{bookID}/scenes/{sceneID}", s.updateScene).Methods(http.MethodPut)
	r.HandleFunc("/series/{seriesID}/books/{bookID}/scenes/{sceneID}", s.deleteScene).Methods(http.MethodDelete)
	r.HandleFunc("/series/{seriesID}/books/{bookID}/scenes/{sceneID}/reorder", s.reorderScene).Methods(http.MethodPost)

	r.HandleFunc("/series/{seriesID}/characters", s.createCharacter).Methods(http.MethodPost)
	r.HandleFunc("/series/{seriesID}/characters", s.listCharacters).Methods(http.MethodGet)
	r.HandleFunc("/series/{seriesID}/characters/{characterID}", s.getCharacter).Methods(http.MethodGet)
	r.HandleFunc("/series/{seriesID}/characters/{characterID}", s.updateCharacter).Methods(http.MethodPut)
	r.HandleFunc("/series/{seriesID}/characters/{characterID}", s.deleteCharacter).Methods(http.MethodDelete)

	r.HandleFunc("/series/{seriesID}/locations", s.createLocation).Methods(http.MethodPost)
	r.HandleFunc("/series/{seriesID}/locations", s.listLocations).Methods(http.MethodGet)
	r.HandleFunc("/series/{seriesID}/locations/{locationID}", s.getLocation).Methods(http.MethodGet)
	r.HandleFunc("/series/{seriesID}/locations/{locationID}", s.updateLocation).Methods(http.MethodPut)
	r.HandleFunc("/series/{seriesID}/locations/{locationID}", s.deleteLocation).Methods(http.MethodDelete)

	r.HandleFunc("/series/{seriesID}/timelines", s.createTimeline).Methods(http.MethodPost)
	r.HandleFunc("/series/{seriesID}/timelines", s.listTimelines).Methods(http.MethodGet)
	r.HandleFunc("/series/{seriesID}/timelines/{timelineID}", s.getTimeline).Methods(http.MethodGet)
	r.HandleFunc("/series/{seriesID}/timelines/{timelineID}", s.updateTimeline).Methods(http.MethodPut)
	r.HandleFunc("/series/{seriesID}/timelines/{timelineID}", s.deleteTimeline).Methods(http.MethodDelete)
	r.HandleFunc("/series/{seriesID}/timelines/{timelineID}/events", s.listTimelineEvents).Methods(http.MethodGet)
	r.HandleFunc("/series/{seriesID}/timelines/{timelineID}/events", s.rejectTimelineEventWrite).Methods(http.MethodPost, http.MethodPut, http.MethodDelete)
	r.HandleFunc("/series/{seriesID}/timelines/{timelineID}/events/{eventID}", s.rejectTimelineEventWrite).Methods(http.MethodGet, http.MethodPut, http.MethodDelete)

	r.HandleFunc("/series/{seriesID}/events", s.createEvent).Methods(http.MethodPost)
	r.HandleFunc("/series/{seriesID}/events", s.listEvents).Methods(http.MethodGet)
	r.HandleFunc("/series/{seriesID}/events/{eventID}", s.getEvent).Methods(http.MethodGet)
	r.HandleFunc("/series/{seriesID}/events/{eventID}", s.updateEvent).Methods(http.MethodPut)
	r.HandleFunc("/series/{seriesID}/events/{eventID}", s.deleteEvent).Methods(http.MethodDelete)

	r.HandleFunc("/notes", s.createNote).Methods(http.MethodPost)
	r.HandleFunc("/notes", s.listNotes).Methods(http.MethodGet)
	r.HandleFunc("/notes/{noteID}", s.getNote).Methods(http.MethodGet)
	r.HandleFunc("/notes/{noteID}", s.updateNote).Methods(http.MethodPut)
	r.HandleFunc("/notes/{noteID}", s.deleteNote).Methods(http.MethodDelete)
}

// me returns the signature-verified caller identity.
func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		utils.JSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]string{"userId": userID})
}
