package api

import (
	"net/http"

	"yawt/pkg/collection"
	"yawt/pkg/frontmatter"
	"yawt/pkg/keys"
	"yawt/pkg/logger"
	"yawt/pkg/models"
	"yawt/pkg/utils"

	"github.com/gorilla/mux"
)

func (s *Server) scenes(userID, seriesID, bookID string) *collection.Manager[models.Scene] {
	return collection.New[models.Scene](s.st, keys.Scenes(userID, seriesID, bookID))
}

// createScene stores the scene text and its frontmatter-derived attributes
// in one write. Empty text is a valid empty scene.
func (s *Server) createScene(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	seriesID, bookID := vars["seriesID"], vars["bookID"]
	if !s.requireSeries(w, userID, seriesID) || !s.requireBook(w, userID, seriesID, bookID) {
		return
	}

	var q sceneCreateReq
	if !s.readJSON(w, r, &q) {
		return
	}

	now := s.now()
	sc := models.Scene{
		ID:        utils.GenID(),
		UserID:    userID,
		SeriesID:  seriesID,
		BookID:    bookID,
		Text:      q.Text,
		Derived:   frontmatter.Derive(q.Text),
		CreatedAt: now,
		UpdatedAt: now,
	}
	sc, err := s.scenes(userID, seriesID, bookID).Create(sc)
	if err != nil {
		writeErr(w, err)
		return
	}
	logger.Info("scene_created", "user", userID, "book", bookID, "scene", sc.ID)
	_ = utils.JSONWrite(w, http.StatusCreated, sc)
}

func (s *Server) listScenes(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	seriesID, bookID := vars["seriesID"], vars["bookID"]
	if !s.requireSeries(w, userID, seriesID) || !s.requireBook(w, userID, seriesID, bookID) {
		return
	}
	out, err := s.scenes(userID, seriesID, bookID).List()
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]any{"scenes": out})
}

func (s *Server) getScene(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	sc, err := s.scenes(userID, vars["seriesID"], vars["bookID"]).Get(vars["sceneID"])
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, sc)
}

// updateScene replaces the text and recomputes the derived attributes; the
// two never go out of sync because they land in the same record write.
func (s *Server) updateScene(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	mgr := s.scenes(userID, vars["seriesID"], vars["bookID"])
	sc, err := mgr.Get(vars["sceneID"])
	if err != nil {
		writeErr(w, err)
		return
	}

	var q sceneUpdateReq
	if !s.readJSON(w, r, &q) {
		return
	}
	if err := q.Validate(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	sc.Text = *q.Text
	sc.Derived = frontmatter.Derive(sc.Text)
	sc.UpdatedAt = s.now()

	if err := mgr.Put(sc); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, sc)
}

func (s *Server) deleteScene(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	mgr := s.scenes(userID, vars["seriesID"], vars["bookID"])
	if err := mgr.Delete(vars["sceneID"]); err != nil {
		writeErr(w, err)
		return
	}
	logger.Info("scene_deleted", "user", userID, "book", vars["bookID"], "scene", vars["sceneID"])
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) reorderScene(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	seriesID, bookID := vars["seriesID"], vars["bookID"]
	if !s.requireSeries(w, userID, seriesID) || !s.requireBook(w, userID, seriesID, bookID) {
		return
	}
	var q reorderReq
	if !s.readJSON(w, r, &q) {
		return
	}
	sc, err := s.scenes(userID, seriesID, bookID).Reorder(vars["sceneID"], q.BeforeID, q.AfterID)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, sc)
}
