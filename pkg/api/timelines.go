package api

import (
	"net/http"

	"yawt/pkg/keys"
	"yawt/pkg/models"
	"yawt/pkg/timeline"
	"yawt/pkg/utils"

	"github.com/gorilla/mux"
)

func (s *Server) createTimeline(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	seriesID := mux.Vars(r)["seriesID"]
	if !s.requireSeries(w, userID, seriesID) {
		return
	}

	var q timelineCreateReq
	if !s.readJSON(w, r, &q) {
		return
	}
	if err := q.Validate(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := s.now()
	t := models.Timeline{
		ID:          utils.GenID(),
		UserID:      userID,
		SeriesID:    seriesID,
		Title:       q.Title,
		Description: q.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := saveRecord(s.st, keys.Timelines(userID, seriesID), t.ID, t); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusCreated, t)
}

func (s *Server) listTimelines(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	seriesID := mux.Vars(r)["seriesID"]
	if !s.requireSeries(w, userID, seriesID) {
		return
	}
	out, err := listRecords[models.Timeline](s.st, keys.Timelines(userID, seriesID))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]any{"timelines": out})
}

func (s *Server) getTimeline(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	t, err := getRecord[models.Timeline](s.st, keys.Timelines(userID, vars["seriesID"]), vars["timelineID"])
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, t)
}

func (s *Server) updateTimeline(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	sc := keys.Timelines(userID, vars["seriesID"])
	t, err := getRecord[models.Timeline](s.st, sc, vars["timelineID"])
	if err != nil {
		writeErr(w, err)
		return
	}

	var q timelineUpdateReq
	if !s.readJSON(w, r, &q) {
		return
	}
	if err := q.Validate(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if q.Title != nil {
		t.Title = *q.Title
	}
	if q.Description != nil {
		t.Description = *q.Description
	}
	t.UpdatedAt = s.now()

	if err := saveRecord(s.st, sc, t.ID, t); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, t)
}

func (s *Server) deleteTimeline(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	sc := keys.Timelines(userID, vars["seriesID"])
	if _, err := s.st.Get(sc.RecordKey(vars["timelineID"])); err != nil {
		writeErr(w, err)
		return
	}
	if err := s.st.Delete(sc.RecordKey(vars["timelineID"])); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listTimelineEvents returns the chronological view derived from scene
// frontmatter across every book in the series.
func (s *Server) listTimelineEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	seriesID, timelineID := vars["seriesID"], vars["timelineID"]
	if !s.requireSeries(w, userID, seriesID) {
		return
	}
	if _, err := s.st.Get(keys.Timelines(userID, seriesID).RecordKey(timelineID)); err != nil {
		writeErr(w, err)
		return
	}

	events, err := timeline.ListSceneEvents(s.st, userID, seriesID, timelineID)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]any{"events": events})
}

// rejectTimelineEventWrite exists because timeline events have no write
// path: they are derived from scene frontmatter, so edits go to the scene.
func (s *Server) rejectTimelineEventWrite(w http.ResponseWriter, r *http.Request) {
	utils.JSONError(w, http.StatusBadRequest, "timeline events are derived from scene frontmatter; edit the scene instead")
}
