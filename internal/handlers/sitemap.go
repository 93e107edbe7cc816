package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// publicRoutes are the fixed pages exposed to crawlers.
var publicRoutes = []struct {
	Path     string
	Priority string
}{
	{"/", "1.0"},
	{"/ideas", "0.8"},
	{"/match", "0.6"},
	{"/login", "0.3"},
}

func (h *Handlers) baseURL(c *gin.Context) string {
	if h.config.Domain != "" {
		return "https://" + h.config.Domain
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

func (h *Handlers) RobotsTxt(c *gin.Context) {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /api/\n\nSitemap: %s/sitemap.xml\n", h.baseURL(c))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

func (h *Handlers) Sitemap(c *gin.Context) {
	base := h.baseURL(c)

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, route := range publicRoutes {
		fmt.Fprintf(&b, "  <url><loc>%s%s</loc><priority>%s</priority></url>\n", base, route.Path, route.Priority)
	}
	b.WriteString("</urlset>\n")

	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(b.String()))
}
