package api

import (
	"net/http"

	"yawt/pkg/convert"
	"yawt/pkg/keys"
	"yawt/pkg/models"
	"yawt/pkg/utils"

	"github.com/gorilla/mux"
)

func (s *Server) createCharacter(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	seriesID := mux.Vars(r)["seriesID"]
	if !s.requireSeries(w, userID, seriesID) {
		return
	}

	var q characterCreateReq
	if !s.readJSON(w, r, &q) {
		return
	}
	if err := q.Validate(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := s.now()
	c := models.Character{
		ID:          utils.GenID(),
		UserID:      userID,
		SeriesID:    seriesID,
		Name:        q.Name,
		Description: q.Description,
		Extra:       convert.OptionalExtra(q.Extra),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := saveRecord(s.st, keys.Characters(userID, seriesID), c.ID, c); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusCreated, c)
}

func (s *Server) listCharacters(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	seriesID := mux.Vars(r)["seriesID"]
	if !s.requireSeries(w, userID, seriesID) {
		return
	}
	out, err := listRecords[models.Character](s.st, keys.Characters(userID, seriesID))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]any{"characters": out})
}

func (s *Server) getCharacter(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	c, err := getRecord[models.Character](s.st, keys.Characters(userID, vars["seriesID"]), vars["characterID"])
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, c)
}

func (s *Server) updateCharacter(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	sc := keys.Characters(userID, vars["seriesID"])
	c, err := getRecord[models.Character](s.st, sc, vars["characterID"])
	if err != nil {
		writeErr(w, err)
		return
	}

	var q characterUpdateReq
	if !s.readJSON(w, r, &q) {
		return
	}
	if err := q.Validate(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if q.Name != nil {
		c.Name = *q.Name
	}
	if q.Description != nil {
		c.Description = *q.Description
	}
	if q.Extra != nil {
		c.Extra = convert.OptionalExtra(q.Extra)
	}
	c.UpdatedAt = s.now()

	if err := saveRecord(s.st, sc, c.ID, c); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, c)
}

func (s *Server) deleteCharacter(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	sc := keys.Characters(userID, vars["seriesID"])
	if _, err := s.st.Get(sc.RecordKey(vars["characterID"])); err != nil {
		writeErr(w, err)
		return
	}
	if err := s.st.Delete(sc.RecordKey(vars["characterID"])); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
