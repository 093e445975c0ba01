package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/alexanderramin/farmquest/internal/repository"
)

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondErr maps service errors onto status codes: validation errors are
// 422 with their code, missing records 404, anything else 500.
func (s *Server) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		respondWithJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": verr.Message,
			"code":  string(verr.Code),
		})
	case errors.Is(err, repository.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	default:
		s.deps.Logger.ErrorContext(r.Context(), "request_failed", "path", r.URL.Path, "error", err.Error())
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
