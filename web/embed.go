// Package web embeds the chat page and serves it for every path the API does
// not claim.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed static
var staticFS embed.FS

// Handler serves the embedded static client. Unknown paths get a 404.
func Handler() http.Handler {
	subFS, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("web: failed to create sub filesystem: " + err.Error())
	}

	fileServer := http.FileServer(http.FS(subFS))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}

		f, err := subFS.Open(path)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if closeErr := f.Close(); closeErr != nil {
			log.Debug().Err(closeErr).Str("component", "web").Str("path", path).Msg("failed to close embedded file")
		}
		fileServer.ServeHTTP(w, r)
	})
}
