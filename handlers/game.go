package handlers

import (
	"errors"
	"net/http"

	"github.com/andrewpaige1/tcm-study-api/catalog"
	"github.com/andrewpaige1/tcm-study-api/game"
	"github.com/andrewpaige1/tcm-study-api/middleware"
	"github.com/andrewpaige1/tcm-study-api/models"
)

type createGameRequest struct {
	Kind          string   `json:"kind"`
	Mode          string   `json:"mode"`
	Categories    []string `json:"categories"`
	Subcategories []string `json:"subcategories"`
	Groups        []string `json:"groups"`
	Rounds        int      `json:"rounds"`
	AutoAdvance   bool     `json:"autoAdvance"`
}

// CreateGame loads the catalog, applies the setup filters and serves the
// first question.
func (db *DBHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decodeJSON(r, &req); err != nil {
		db.writeError(w, r, err)
		return
	}
	kind, err := catalog.ParseKind(req.Kind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	strategy, err := game.StrategyFor(game.Mode(req.Mode))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Rounds < 0 {
		http.Error(w, "rounds must not be negative", http.StatusBadRequest)
		return
	}

	c, ok := db.loadCatalog(w, r, kind)
	if !ok {
		return
	}
	c = c.Filter(req.Categories, req.Subcategories, req.Groups)
	pool := strategy.BuildPool(c)

	settings := game.Settings{
		Kind:          kind,
		Mode:          strategy.Mode(),
		Categories:    req.Categories,
		Subcategories: req.Subcategories,
		Groups:        req.Groups,
		Rounds:        req.Rounds,
		AutoAdvance:   req.AutoAdvance,
	}
	view, err := db.Games.Create(settings, strategy, pool)
	if err != nil {
		if errors.Is(err, game.ErrInsufficientData) {
			db.Log.Info("game setup rejected", "kind", kind, "mode", settings.Mode, "pool", len(pool))
		}
		db.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (db *DBHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	view, err := db.Games.Get(r.PathValue("id"))
	if err != nil {
		db.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (db *DBHandler) AnswerGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Option *int `json:"option"`
	}
	if err := decodeJSON(r, &req); err != nil {
		db.writeError(w, r, err)
		return
	}
	if req.Option == nil {
		http.Error(w, "option is required", http.StatusBadRequest)
		return
	}
	view, err := db.Games.Answer(r.PathValue("id"), *req.Option)
	if err != nil {
		db.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (db *DBHandler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	view, err := db.Games.Next(r.PathValue("id"))
	if err != nil {
		db.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (db *DBHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := db.Games.Delete(r.PathValue("id")); err != nil {
		db.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveGameScore records the current score of a session for the signed in
// user. The session stays playable.
func (db *DBHandler) SaveGameScore(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	view, err := db.Games.Get(r.PathValue("id"))
	if err != nil {
		db.writeError(w, r, err)
		return
	}
	if view.TotalAnswered == 0 {
		http.Error(w, "Answer at least one question before saving a score", http.StatusConflict)
		return
	}

	score := models.QuizScore{
		UserID:          user.ID,
		Kind:            string(view.Settings.Kind),
		Mode:            string(view.Settings.Mode),
		CorrectAnswered: view.CorrectAnswered,
		TotalAnswered:   view.TotalAnswered,
		Percent:         view.Percent,
	}
	if err := db.WithContext(r.Context()).Create(&score).Error; err != nil {
		db.Log.Error("failed to create quiz score", "userID", user.ID, "error", err)
		http.Error(w, "Failed to create quiz score", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, score)
}
