// Package web serves the browser UI. Templates and assets are embedded in
// the binary.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"github.com/gin-gonic/gin"

	"voice-analysis-toolkit/web/handlers"
)

//go:embed templates static
var content embed.FS

// Register mounts the UI page at / and its assets under /static
func Register(router gin.IRoutes, page handlers.PageData) error {
	index, err := template.ParseFS(content, "templates/index.html")
	if err != nil {
		return fmt.Errorf("failed to parse UI template: %w", err)
	}
	assets, err := fs.Sub(content, "static")
	if err != nil {
		return err
	}

	h := handlers.NewStaticHandler(index, assets, page)
	router.GET("/", h.ServeIndex)
	router.GET("/static/*filepath", h.ServeStatic)
	return nil
}
