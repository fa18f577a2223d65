package api

import (
	"net/http"

	"yawt/pkg/apperr"
	"yawt/pkg/collection"
	"yawt/pkg/keys"
	"yawt/pkg/logger"
	"yawt/pkg/models"
	"yawt/pkg/utils"

	"github.com/gorilla/mux"
)

func (s *Server) books(userID, seriesID string) *collection.Manager[models.Book] {
	return collection.New[models.Book](s.st, keys.Books(userID, seriesID))
}

func (s *Server) createBook(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	seriesID := mux.Vars(r)["seriesID"]
	if !s.requireSeries(w, userID, seriesID) {
		return
	}

	var q bookCreateReq
	if !s.readJSON(w, r, &q) {
		return
	}
	if err := q.Validate(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := s.now()
	b := models.Book{
		ID:          utils.GenID(),
		UserID:      userID,
		SeriesID:    seriesID,
		Title:       q.Title,
		Author:      q.Author,
		PublishDate: q.PublishDate,
		ISBN:        q.ISBN,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	b, err := s.books(userID, seriesID).Create(b)
	if err != nil {
		writeErr(w, err)
		return
	}
	logger.Info("book_created", "user", userID, "series", seriesID, "book", b.ID)
	_ = utils.JSONWrite(w, http.StatusCreated, b)
}

// listBooks returns the series' books in rank order.
func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	seriesID := mux.Vars(r)["seriesID"]
	if !s.requireSeries(w, userID, seriesID) {
		return
	}
	out, err := s.books(userID, seriesID).List()
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]any{"books": out})
}

func (s *Server) getBook(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	b, err := s.books(userID, vars["seriesID"]).Get(vars["bookID"])
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, b)
}

func (s *Server) updateBook(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	mgr := s.books(userID, vars["seriesID"])
	b, err := mgr.Get(vars["bookID"])
	if err != nil {
		writeErr(w, err)
		return
	}

	var q bookUpdateReq
	if !s.readJSON(w, r, &q) {
		return
	}
	if err := q.Validate(); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if q.Title != nil {
		b.Title = *q.Title
	}
	if q.Author != nil {
		b.Author = *q.Author
	}
	if q.PublishDate != nil {
		b.PublishDate = *q.PublishDate
	}
	if q.ISBN != nil {
		b.ISBN = *q.ISBN
	}
	b.UpdatedAt = s.now()

	if err := mgr.Put(b); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, b)
}

// deleteBook refuses when scenes remain inside the book.
func (s *Server) deleteBook(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	seriesID, bookID := vars["seriesID"], vars["bookID"]
	mgr := s.books(userID, seriesID)
	if _, err := mgr.Get(bookID); err != nil {
		writeErr(w, err)
		return
	}

	hasScenes, err := s.st.HasPrefix(keys.Scenes(userID, seriesID, bookID).OrderPrefix())
	if err != nil {
		writeErr(w, err)
		return
	}
	if hasScenes {
		writeErr(w, apperr.WrapNotEmpty("book still has scenes"))
		return
	}

	if err := mgr.Delete(bookID); err != nil {
		writeErr(w, err)
		return
	}
	logger.Info("book_deleted", "user", userID, "series", seriesID, "book", bookID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) reorderBook(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	if !s.requireSeries(w, userID, vars["seriesID"]) {
		return
	}
	var q reorderReq
	if !s.readJSON(w, r, &q) {
		return
	}
	b, err := s.books(userID, vars["seriesID"]).Reorder(vars["bookID"], q.BeforeID, q.AfterID)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, b)
}
