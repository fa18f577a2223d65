package api

import (
	"net/http"

	"yawt/pkg/convert"
	"yawt/pkg/keys"
	"yawt/pkg/models"
	"yawt/pkg/utils"

	"github.com/gorilla/mux"
)

func (s *Server) createLocation(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	seriesID := mux.Vars(r)["seriesID"]
	if !s.requireSeries(w, userID, seriesID) {
		return
	}

	var q locationCreateReq
	if !s.readJSON(w, r, &q) {
		return
	}
	if err := q.Validate(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := s.now()
	l := models.Location{
		ID:          utils.GenID(),
		UserID:      userID,
		SeriesID:    seriesID,
		Name:        q.Name,
		Description: q.Description,
		Tags:        convert.OptionalStringList(q.Tags),
		Links:       q.Links,
		Coords:      q.Coords,
		Extra:       convert.OptionalExtra(q.Extra),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := saveRecord(s.st, keys.Locations(userID, seriesID), l.ID, l); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusCreated, l)
}

func (s *Server) listLocations(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	seriesID := mux.Vars(r)["seriesID"]
	if !s.requireSeries(w, userID, seriesID) {
		return
	}
	out, err := listRecords[models.Location](s.st, keys.Locations(userID, seriesID))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]any{"locations": out})
}

func (s *Server) getLocation(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	l, err := getRecord[models.Location](s.st, keys.Locations(userID, vars["seriesID"]), vars["locationID"])
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, l)
}

func (s *Server) updateLocation(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	sc := keys.Locations(userID, vars["seriesID"])
	l, err := getRecord[models.Location](s.st, sc, vars["locationID"])
	if err != nil {
		writeErr(w, err)
		return
	}

	var q locationUpdateReq
	if !s.readJSON(w, r, &q) {
		return
	}
	if err := q.Validate(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if q.Name != nil {
		l.Name = *q.Name
	}
	if q.Description != nil {
		l.Description = *q.Description
	}
	if q.Tags != nil {
		l.Tags = convert.OptionalStringList(q.Tags)
	}
	if q.Links != nil {
		l.Links = q.Links
	}
	if q.Coords != nil {
		l.Coords = q.Coords
	}
	if q.Extra != nil {
		l.Extra = convert.OptionalExtra(q.Extra)
	}
	l.UpdatedAt = s.now()

	if err := saveRecord(s.st, sc, l.ID, l); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, l)
}

func (s *Server) deleteLocation(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	sc := keys.Locations(userID, vars["seriesID"])
	if _, err := s.st.Get(sc.RecordKey(vars["locationID"])); err != nil {
		writeErr(w, err)
		return
	}
	if err := s.st.Delete(sc.RecordKey(vars["locationID"])); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
