package http

import (
	"embed"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed assets/*
var content embed.FS

// PublicAssets will register /assets/ and serve all assets in the ./assets folder.
func PublicAssets(r chi.Router) {
	r.Handle("/assets/*", http.FileServer(http.FS(content)))
}
