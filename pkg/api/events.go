package api

import (
	"net/http"

	"yawt/pkg/convert"
	"yawt/pkg/keys"
	"yawt/pkg/models"
	"yawt/pkg/utils"

	"github.com/gorilla/mux"
)

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	seriesID := mux.Vars(r)["seriesID"]
	if !s.requireSeries(w, userID, seriesID) {
		return
	}

	var q eventCreateReq
	if !s.readJSON(w, r, &q) {
		return
	}
	if err := q.Validate(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := s.now()
	e := models.Event{
		ID:           utils.GenID(),
		UserID:       userID,
		SeriesID:     seriesID,
		Title:        q.Title,
		Description:  q.Description,
		StartDate:    q.StartDate,
		EndDate:      q.EndDate,
		LocationID:   q.LocationID,
		CharacterIDs: convert.OptionalStringList(q.CharacterIDs),
		SceneIDs:     convert.OptionalStringList(q.SceneIDs),
		Tags:         convert.OptionalStringList(q.Tags),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := saveRecord(s.st, keys.Events(userID, seriesID), e.ID, e); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusCreated, e)
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	seriesID := mux.Vars(r)["seriesID"]
	if !s.requireSeries(w, userID, seriesID) {
		return
	}
	out, err := listRecords[models.Event](s.st, keys.Events(userID, seriesID))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]any{"events": out})
}

func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	e, err := getRecord[models.Event](s.st, keys.Events(userID, vars["seriesID"]), vars["eventID"])
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, e)
}

func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	sc := keys.Events(userID, vars["seriesID"])
	e, err := getRecord[models.Event](s.st, sc, vars["eventID"])
	if err != nil {
		writeErr(w, err)
		return
	}

	var q eventUpdateReq
	if !s.readJSON(w, r, &q) {
		return
	}
	if err := q.Validate(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if q.Title != nil {
		e.Title = *q.Title
	}
	if q.Description != nil {
		e.Description = *q.Description
	}
	if q.StartDate != nil {
		e.StartDate = *q.StartDate
	}
	if q.EndDate != nil {
		e.EndDate = *q.EndDate
	}
	if q.LocationID != nil {
		e.LocationID = *q.LocationID
	}
	if q.CharacterIDs != nil {
		e.CharacterIDs = convert.OptionalStringList(q.CharacterIDs)
	}
	if q.SceneIDs != nil {
		e.SceneIDs = convert.OptionalStringList(q.SceneIDs)
	}
	if q.Tags != nil {
		e.Tags = convert.OptionalStringList(q.Tags)
	}
	e.UpdatedAt = s.now()

	if err := saveRecord(s.st, sc, e.ID, e); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, e)
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	sc := keys.Events(userID, vars["seriesID"])
	if _, err := s.st.Get(sc.RecordKey(vars["eventID"])); err != nil {
		writeErr(w, err)
		return
	}
	if err := s.st.Delete(sc.RecordKey(vars["eventID"])); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
