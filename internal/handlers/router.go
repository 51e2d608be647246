// Package handlers exposes the HTTP surface of the server: the Connect
// services, the WebSocket feeds, health and metrics endpoints and the
// static web client.
package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/reginaldodesouza61/listas-compras/internal/auth"
	"github.com/reginaldodesouza61/listas-compras/internal/metrics"
	"github.com/reginaldodesouza61/listas-compras/internal/middleware"
	"github.com/reginaldodesouza61/listas-compras/internal/scanner"
	"github.com/reginaldodesouza61/listas-compras/internal/service"
	"github.com/reginaldodesouza61/listas-compras/internal/shopping"
	"github.com/reginaldodesouza61/listas-compras/pkg/api/apiconnect"
)

// Mount is a Connect service handler and the path prefix it serves.
type Mount struct {
	Path    string
	Handler http.Handler
}

// NewMount pairs the results of a New<Service>Handler constructor.
func NewMount(path string, h http.Handler) Mount {
	return Mount{Path: path, Handler: h}
}

// Config holds the router's dependencies.
type Config struct {
	JWT      *auth.JWTManager
	Lists    *shopping.ListStore
	Items    *shopping.ItemStore
	Products service.ProductLookup
	Decoder  scanner.Decoder
	Hub      *Hub
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	StaticPath     string
	AllowedOrigins []string
	ScanTimeout    time.Duration

	Services []Mount
}

// Handler serves the WebSocket endpoints.
type Handler struct {
	lists       *shopping.ListStore
	items       *shopping.ItemStore
	products    service.ProductLookup
	decoder     scanner.Decoder
	hub         *Hub
	metrics     *metrics.Metrics
	upgrader    *websocket.Upgrader
	scanTimeout time.Duration
}

// NewRouter builds the gin engine.
func NewRouter(cfg Config) *gin.Engine {
	hub := cfg.Hub
	if hub == nil {
		hub = NewHub()
	}
	h := &Handler{
		lists:       cfg.Lists,
		items:       cfg.Items,
		products:    cfg.Products,
		decoder:     cfg.Decoder,
		hub:         hub,
		metrics:     cfg.Metrics,
		upgrader:    newUpgrader(cfg.AllowedOrigins),
		scanTimeout: cfg.ScanTimeout,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(cfg.Metrics))
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	r.GET("/healthz", HealthCheck)
	if cfg.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(cfg.Gatherer)))
	}

	for _, m := range cfg.Services {
		r.Any(m.Path+"*procedure", gin.WrapH(m.Handler))
	}

	ws := r.Group("/ws", wsAuth(cfg.JWT))
	{
		ws.GET("/lists", h.ListsFeed)
		ws.GET("/lists/:id/items", h.ItemsFeed)
		ws.GET("/scan", h.ScanSession)
	}

	r.NoRoute(staticFiles(cfg.StaticPath))
	return r
}

// HealthCheck reports that the server is up.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Authorization",
			"Connect-Protocol-Version", "Connect-Timeout-Ms",
		},
		ExposeHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

// staticFiles serves the web client, falling back to index.html for
// unknown paths.
func staticFiles(staticPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if staticPath == "" || apiconnect.IsProcedurePath(path) || strings.HasPrefix(path, "/ws/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		if path == "/" {
			path = "/index.html"
		}

		filePath := filepath.Join(staticPath, filepath.Clean("/"+path))
		if info, err := os.Stat(filePath); err != nil || info.IsDir() {
			c.File(filepath.Join(staticPath, "index.html"))
			return
		}
		c.File(filePath)
	}
}
