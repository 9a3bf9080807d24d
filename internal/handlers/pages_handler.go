package handlers

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"quantia/internal/config"
	"quantia/internal/middleware"
)

// PagesHandler serves the static application pages. Pages carry no server
// state beyond the session and portfolio cookies; everything dynamic is
// fetched by the page scripts through the JSON surface.
type PagesHandler struct {
	staticDir string
}

// NewPagesHandler creates a new PagesHandler
func NewPagesHandler(cfg *config.Config) *PagesHandler {
	return &PagesHandler{staticDir: cfg.StaticDir}
}

// page returns a handler that serves one HTML file from the static directory.
func (h *PagesHandler) page(name string) gin.HandlerFunc {
	path := filepath.Join(h.staticDir, name)
	return func(c *gin.Context) {
		c.File(path)
	}
}

// RegisterPublic mounts the pages reachable without a session.
func (h *PagesHandler) RegisterPublic(r gin.IRoutes) {
	r.GET("/", h.page("index.html"))
	r.GET("/login", h.page("login.html"))
	r.GET("/register", h.page("register.html"))
	r.GET("/quiz", h.page("quiz.html"))
}

// RegisterGated mounts the pages behind the session gate.
func (h *PagesHandler) RegisterGated(r gin.IRoutes) {
	r.GET("/balance", h.page("balance.html"))
	r.GET("/port-selector", h.page("port-selector.html"))
	r.GET("/market", h.page("market.html"))
	r.GET("/analyse", h.page("analyse.html"))
	r.GET("/analyse/historic", h.page("analyse-historic.html"))
	r.GET("/portfolio-info", h.page("portfolio-info.html"))
	r.GET("/portfolio/assets/:portfolioId", h.SelectPortfolio)
}

// SelectPortfolio records the portfolio selection in a cookie and sends the
// browser to the portfolio page. The cookie is a UI hint only; the JSON
// surface re-validates ownership on every read.
func (h *PagesHandler) SelectPortfolio(c *gin.Context) {
	portfolioID, err := parsePathID(c, "portfolioId")
	if err != nil {
		c.Redirect(http.StatusFound, "/port-selector")
		return
	}

	c.SetCookie(middleware.PortfolioCookie, strconv.FormatUint(uint64(portfolioID), 10), 0, "/", "", false, false)
	c.Redirect(http.StatusFound, "/portfolio-info")
}
