package handlers

import (
	"net/http"

	"github.com/andrewpaige1/tcm-study-api/models"
	"github.com/andrewpaige1/tcm-study-api/store"
)

func (db *DBHandler) ListCollection(w http.ResponseWriter, r *http.Request) {
	docs, err := db.Records.Collection(r.Context(), r.PathValue("collection"))
	if err != nil {
		db.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (db *DBHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	rec, err := db.Records.Get(r.Context(), r.PathValue("collection"), r.PathValue("id"))
	if err != nil {
		db.writeError(w, r, err)
		return
	}
	db.writeDocument(w, r, http.StatusOK, rec)
}

func (db *DBHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")
	if !store.ValidCollection(collection) {
		db.writeError(w, r, store.ErrUnknownCollection)
		return
	}
	body, err := readBody(r)
	if err != nil {
		db.writeError(w, r, err)
		return
	}
	rec, err := db.Records.Create(r.Context(), collection, body)
	if err != nil {
		db.writeError(w, r, err)
		return
	}
	db.Log.Info("document created", "collection", collection, "id", rec.PublicID)
	db.writeDocument(w, r, http.StatusCreated, rec)
}

func (db *DBHandler) PatchDocument(w http.ResponseWriter, r *http.Request) {
	collection, id := r.PathValue("collection"), r.PathValue("id")
	if !store.ValidCollection(collection) {
		db.writeError(w, r, store.ErrUnknownCollection)
		return
	}
	body, err := readBody(r)
	if err != nil {
		db.writeError(w, r, err)
		return
	}
	rec, err := db.Records.Patch(r.Context(), collection, id, body)
	if err != nil {
		db.writeError(w, r, err)
		return
	}
	db.writeDocument(w, r, http.StatusOK, rec)
}

func (db *DBHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	collection, id := r.PathValue("collection"), r.PathValue("id")
	if err := db.Records.Delete(r.Context(), collection, id); err != nil {
		db.writeError(w, r, err)
		return
	}
	db.Log.Info("document deleted", "collection", collection, "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (db *DBHandler) writeDocument(w http.ResponseWriter, r *http.Request, status int, rec models.Record) {
	doc, err := store.Document(rec)
	if err != nil {
		db.writeError(w, r, err)
		return
	}
	writeJSON(w, status, doc)
}
