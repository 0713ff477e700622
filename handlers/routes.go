package handlers

import (
	"net/http"

	"github.com/andrewpaige1/tcm-study-api/middleware"
)

// Routes registers every endpoint. users gates the authenticated routes;
// bearer tokens must already have been validated further out.
func (db *DBHandler) Routes(users *middleware.Users, dataDir string) *http.ServeMux {
	mux := http.NewServeMux()

	// Static catalog trees
	mux.HandleFunc("GET /data/{file}", serveTreeFile(dataDir))

	// Collections
	mux.HandleFunc("GET /api/data/{collection}", db.ListCollection)
	mux.HandleFunc("GET /api/data/{collection}/{id}", db.GetDocument)
	mux.HandleFunc("POST /api/data/{collection}", users.RequireAdmin(db.CreateDocument))
	mux.HandleFunc("PATCH /api/data/{collection}/{id}", users.RequireAdmin(db.PatchDocument))
	mux.HandleFunc("DELETE /api/data/{collection}/{id}", users.RequireAdmin(db.DeleteDocument))

	// Accounts
	mux.HandleFunc("POST /api/auth/register", db.Register)
	mux.HandleFunc("POST /api/auth/login", db.Login)
	mux.HandleFunc("PATCH /api/admin/users/{id}/role", users.RequireAdmin(db.SetUserRole))

	// Catalog
	mux.HandleFunc("GET /api/catalog/{kind}", db.GetCatalog)

	// Games
	mux.HandleFunc("POST /api/games", db.CreateGame)
	mux.HandleFunc("GET /api/games/{id}", db.GetGame)
	mux.HandleFunc("DELETE /api/games/{id}", db.DeleteGame)
	mux.HandleFunc("POST /api/games/{id}/answer", db.AnswerGame)
	mux.HandleFunc("POST /api/games/{id}/next", db.NextQuestion)
	mux.HandleFunc("POST /api/games/{id}/score", users.RequireUser(db.SaveGameScore))

	// Scores
	mux.HandleFunc("GET /api/scores/{mode}", db.GetLeaderboard)

	return mux
}
