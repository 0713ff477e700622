package handlers

import (
	"net/http"
	"strconv"

	"github.com/andrewpaige1/tcm-study-api/catalog"
	"github.com/andrewpaige1/tcm-study-api/game"
	"github.com/andrewpaige1/tcm-study-api/models"
)

const (
	defaultLeaderboardSize = 20
	maxLeaderboardSize     = 100
)

// GetLeaderboard lists the best recorded scores of a mode, highest
// percentage first, then most questions answered. An optional kind query
// parameter restricts it to herbs or formulas.
func (db *DBHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	mode := game.Mode(r.PathValue("mode"))
	if _, err := game.StrategyFor(mode); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	limit := defaultLeaderboardSize
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxLeaderboardSize)
	}

	query := db.WithContext(r.Context()).Where("mode = ?", string(mode))
	if v := r.URL.Query().Get("kind"); v != "" {
		kind, err := catalog.ParseKind(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		query = query.Where("kind = ?", string(kind))
	}

	scores := []models.QuizScore{}
	result := query.Order("percent desc").Order("total_answered desc").Order("played_at asc").Limit(limit).Find(&scores)
	if result.Error != nil {
		db.writeError(w, r, result.Error)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}
