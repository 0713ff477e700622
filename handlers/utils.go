package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"gorm.io/gorm"

	"github.com/andrewpaige1/tcm-study-api/auth"
	"github.com/andrewpaige1/tcm-study-api/catalog"
	"github.com/andrewpaige1/tcm-study-api/game"
	"github.com/andrewpaige1/tcm-study-api/logger"
	"github.com/andrewpaige1/tcm-study-api/store"
)

const maxBodyBytes = 1 << 20

type DBHandler struct {
	*gorm.DB
	Log     *logger.Logger
	Records *store.CollectionStore
	Catalog *catalog.Loader
	Games   *game.Store
	Tokens  auth.Issuer
}

// apiError is an error that already knows its HTTP status.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string { return e.Message }

func badRequest(format string, args ...any) error {
	return &apiError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps known errors to a status code. Anything unknown is logged
// and reported as a 500 without details.
func (db *DBHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *apiError
	switch {
	case errors.As(err, &apiErr):
		http.Error(w, apiErr.Message, apiErr.Status)
	case errors.Is(err, store.ErrUnknownCollection):
		http.Error(w, "Invalid collection", http.StatusBadRequest)
	case errors.Is(err, store.ErrInvalidDocument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, game.ErrSessionNotFound):
		http.Error(w, "Game not found", http.StatusNotFound)
	case errors.Is(err, game.ErrInsufficientData):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, game.ErrAlreadyAnswered),
		errors.Is(err, game.ErrNotAnswered),
		errors.Is(err, game.ErrFinished):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, game.ErrInvalidOption):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		db.Log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func decodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return badRequest("Invalid request body: %v", err)
	}
	return nil
}

func readBody(r *http.Request) (json.RawMessage, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, badRequest("Invalid request body: %v", err)
	}
	if !json.Valid(body) {
		return nil, badRequest("Invalid request body: malformed JSON")
	}
	return body, nil
}
