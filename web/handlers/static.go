package handlers

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

// PageData fills the UI template
type PageData struct {
	Title             string
	Description       string
	MaxFileSizeMB     int
	MaxFileLengthMins int
	AllowedExtensions []string
}

// Accept is the value for the file input's accept attribute
func (p PageData) Accept() string {
	return strings.Join(p.AllowedExtensions, ",")
}

// StaticHandler serves the UI page and its assets
type StaticHandler struct {
	index  *template.Template
	assets fs.FS
	page   PageData
}

func NewStaticHandler(index *template.Template, assets fs.FS, page PageData) *StaticHandler {
	return &StaticHandler{index: index, assets: assets, page: page}
}

// ServeIndex renders the main page
func (h *StaticHandler) ServeIndex(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.index.Execute(&buf, h.page); err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, getContentType("index.html"), buf.Bytes())
}

// ServeStatic serves an embedded asset
func (h *StaticHandler) ServeStatic(c *gin.Context) {
	name := strings.TrimPrefix(path.Clean(c.Param("filepath")), "/")
	data, err := fs.ReadFile(h.assets, name)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, getContentType(name), data)
}

// getContentType returns the appropriate content type for a file
func getContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "application/javascript"
	case ".json":
		return "application/json"
	case ".png":
		return "image/png"
	case ".svg":
		return "image/svg+xml"
	case ".ico":
		return "image/x-icon"
	default:
		return "application/octet-stream"
	}
}
