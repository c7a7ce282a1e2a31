package friendzone

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed assets
var embeddedAssets embed.FS

func assets() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// StaticFS serves files from fsys under prefix. Directory listings are not
// served and return 404.
func (a *App) StaticFS(prefix string, fsys fs.FS) {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	fileServer := http.StripPrefix(prefix, http.FileServerFS(fsys))
	a.mux.HandleFunc("GET "+prefix, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}
