package api

import (
	"net/http"

	"yawt/pkg/apperr"
	"yawt/pkg/keys"
	"yawt/pkg/logger"
	"yawt/pkg/models"
	"yawt/pkg/utils"

	"github.com/gorilla/mux"
)

func (s *Server) createSeries(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	var q seriesCreateReq
	if !s.readJSON(w, r, &q) {
		return
	}
	if err := q.Validate(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := s.now()
	sr := models.Series{
		ID:          utils.GenID(),
		UserID:      userID,
		Title:       q.Title,
		Description: q.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := saveRecord(s.st, keys.Series(userID), sr.ID, sr); err != nil {
		writeErr(w, err)
		return
	}
	logger.Info("series_created", "user", userID, "series", sr.ID)
	_ = utils.JSONWrite(w, http.StatusCreated, sr)
}

func (s *Server) listSeries(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	out, err := listRecords[models.Series](s.st, keys.Series(userID))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]any{"series": out})
}

func (s *Server) getSeries(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["seriesID"]
	sr, err := getRecord[models.Series](s.st, keys.Series(userID), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, sr)
}

func (s *Server) updateSeries(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["seriesID"]
	sr, err := getRecord[models.Series](s.st, keys.Series(userID), id)
	if err != nil {
		writeErr(w, err)
		return
	}

	var q seriesUpdateReq
	if !s.readJSON(w, r, &q) {
		return
	}
	if err := q.Validate(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if q.Title != nil {
		sr.Title = *q.Title
	}
	if q.Description != nil {
		sr.Description = *q.Description
	}
	sr.UpdatedAt = s.now()

	if err := saveRecord(s.st, keys.Series(userID), id, sr); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, sr)
}

// deleteSeries refuses to drop a series that still has books; clients must
// empty it first.
func (s *Server) deleteSeries(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["seriesID"]
	if !s.requireSeries(w, userID, id) {
		return
	}

	hasBooks, err := s.st.HasPrefix(keys.Books(userID, id).OrderPrefix())
	if err != nil {
		writeErr(w, err)
		return
	}
	if hasBooks {
		writeErr(w, apperr.WrapNotEmpty("series still has books"))
		return
	}

	if err := s.st.Delete(keys.Series(userID).RecordKey(id)); err != nil {
		writeErr(w, err)
		return
	}
	logger.Info("series_deleted", "user", userID, "series", id)
	w.WriteHeader(http.StatusNoContent)
}
