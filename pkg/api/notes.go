package api

import (
	"net/http"

	"yawt/pkg/keys"
	"yawt/pkg/models"
	"yawt/pkg/utils"

	"github.com/gorilla/mux"
)

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	var q noteCreateReq
	if !s.readJSON(w, r, &q) {
		return
	}
	if err := q.Validate(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := s.now()
	n := models.Note{
		ID:        utils.GenID(),
		UserID:    userID,
		Title:     q.Title,
		Content:   q.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := saveRecord(s.st, keys.Notes(userID), n.ID, n); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusCreated, n)
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	out, err := listRecords[models.Note](s.st, keys.Notes(userID))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]any{"notes": out})
}

func (s *Server) getNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	n, err := getRecord[models.Note](s.st, keys.Notes(userID), mux.Vars(r)["noteID"])
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, n)
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["noteID"]
	n, err := getRecord[models.Note](s.st, keys.Notes(userID), id)
	if err != nil {
		writeErr(w, err)
		return
	}

	var q noteUpdateReq
	if !s.readJSON(w, r, &q) {
		return
	}
	if err := q.Validate(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if q.Title != nil {
		n.Title = *q.Title
	}
	if q.Content != nil {
		n.Content = *q.Content
	}
	n.UpdatedAt = s.now()

	if err := saveRecord(s.st, keys.Notes(userID), id, n); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, n)
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["noteID"]
	if _, err := s.st.Get(keys.Notes(userID).RecordKey(id)); err != nil {
		writeErr(w, err)
		return
	}
	if err := s.st.Delete(keys.Notes(userID).RecordKey(id)); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
