package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"yawt/pkg/apperr"
	"yawt/pkg/auth"
	"yawt/pkg/keys"
	"yawt/pkg/logger"
	"yawt/pkg/store"
	"yawt/pkg/utils"
)

// userID pulls the verified caller from the request context. An empty
// return means the signature middleware did not run; treat as unauthorized.
func (s *Server) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := auth.UserIDFromContext(r.Context())
	if id == "" {
		utils.JSONError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return id, true
}

// readJSON decodes the request body into v, enforcing the body cap and
// rejecting unknown top-level syntax errors with 400.
func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body := r.Body
	if s.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, s.maxBody)
	}
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			utils.JSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// writeErr maps domain errors onto HTTP statuses. Anything unrecognized is
// logged and reported as a 500 without leaking internals.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		utils.JSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		utils.JSONError(w, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrNotEmpty):
		utils.JSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		utils.JSONError(w, http.StatusConflict, "write conflict, retry")
	default:
		logger.Error("internal_error", "error", err)
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
	}
}

// listRecords loads every record under the scope's prefix. Records that no
// longer unmarshal are skipped rather than failing the whole listing.
func listRecords[T any](st *store.Store, sc keys.Scope) ([]T, error) {
	kvs, err := st.ListPrefix(sc.RecordPrefix())
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(kvs))
	for _, kv := range kvs {
		var v T
		if err := json.Unmarshal(kv.Value, &v); err != nil {
			logger.Warn("record_unmarshal_skipped", "key", kv.Key, "error", err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func getRecord[T any](st *store.Store, sc keys.Scope, id string) (T, error) {
	var v T
	data, err := st.Get(sc.RecordKey(id))
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, err
	}
	return v, nil
}

func saveRecord(st *store.Store, sc keys.Scope, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return st.Set(sc.RecordKey(id), data)
}

// requireSeries confirms the caller owns the series before any nested
// operation proceeds.
func (s *Server) requireSeries(w http.ResponseWriter, userID, seriesID string) bool {
	_, err := s.st.Get(keys.Series(userID).RecordKey(seriesID))
	if err != nil {
		writeErr(w, err)
		return false
	}
	return true
}

// requireBook confirms the book exists inside the series.
func (s *Server) requireBook(w http.ResponseWriter, userID, seriesID, bookID string) bool {
	_, err := s.st.Get(keys.Books(userID, seriesID).RecordKey(bookID))
	if err != nil {
		writeErr(w, err)
		return false
	}
	return true
}
