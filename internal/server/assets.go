package server

import (
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/touristique/touristique/assets"
)

// SetupAssets mounts the embedded stylesheet bundle under /assets so the
// binary ships self-contained, with no files to deploy alongside it.
func SetupAssets(r *gin.Engine) error {
	staticFiles, err := fs.Sub(assets.Assets, ".")
	if err != nil {
		return err
	}
	r.StaticFS("/assets", http.FS(staticFiles))
	return nil
}
