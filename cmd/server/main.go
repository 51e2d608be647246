package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/reginaldodesouza61/listas-compras/internal/auth"
	"github.com/reginaldodesouza61/listas-compras/internal/config"
	"github.com/reginaldodesouza61/listas-compras/internal/firebaseapp"
	"github.com/reginaldodesouza61/listas-compras/internal/handlers"
	"github.com/reginaldodesouza61/listas-compras/internal/metrics"
	"github.com/reginaldodesouza61/listas-compras/internal/middleware"
	"github.com/reginaldodesouza61/listas-compras/internal/notify"
	"github.com/reginaldodesouza61/listas-compras/internal/products"
	"github.com/reginaldodesouza61/listas-compras/internal/scanner"
	"github.com/reginaldodesouza61/listas-compras/internal/service"
	"github.com/reginaldodesouza61/listas-compras/internal/shopping"
	"github.com/reginaldodesouza61/listas-compras/internal/storage"
	firestorestore "github.com/reginaldodesouza61/listas-compras/internal/storage/firestore"
	"github.com/reginaldodesouza61/listas-compras/internal/storage/sqlite"
	"github.com/reginaldodesouza61/listas-compras/pkg/api/apiconnect"
	"github.com/reginaldodesouza61/listas-compras/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel, cfg.IsDevelopment())

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var fb *firebaseapp.App
	if cfg.FirebaseProjectID != "" {
		var err error
		fb, err = firebaseapp.New(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
		if err != nil {
			return err
		}
	}

	store, err := openStore(ctx, cfg, fb)
	if err != nil {
		return err
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	var provider *auth.ProviderAuthenticator
	if fb != nil {
		authClient, err := fb.Auth(ctx)
		if err != nil {
			return err
		}
		provider = auth.NewProviderAuthenticator(authClient, store)
	}

	lists := shopping.NewListStore(store, shopping.WithCascadeDelete(cfg.CascadeDeleteItems))
	items := shopping.NewItemStore(store)

	hub := handlers.NewHub()
	local := notify.NewLocalNotifier(hub, m)
	var notifier notify.Notifier = local
	if cfg.PushEnabled() {
		messagingClient, err := fb.Messaging(ctx)
		if err != nil {
			return err
		}
		notifier = notify.NewFCMNotifier(messagingClient, store, local, m)
		slog.Info("Push notifications enabled")
	}

	productClient := products.NewClient(products.Config{
		SearchURL:  cfg.ProductSearchURL,
		BarcodeURL: cfg.ProductBarcodeURL,
		PageSize:   cfg.ProductPageSize,
		Timeout:    cfg.ProductTimeout,
		Metrics:    m,
	})
	decoder := scanner.NewZXingDecoder()

	authSvc := service.NewAuthService(auth.NewPasswordAuthenticator(store), provider, jwtManager, store, service.PushConfig{
		Enabled:   cfg.PushEnabled(),
		VAPIDKey:  cfg.FirebaseVAPIDKey,
		ProjectID: cfg.FirebaseProjectID,
	}, slog.Default())

	// Auth runs first so the logging interceptor sees the caller
	optional := connect.WithInterceptors(middleware.OptionalAuth(jwtManager), middleware.LoggingInterceptor(m))
	required := connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor(m))

	staticPath := ""
	if cfg.StaticPath != "" {
		staticPath, err = filepath.Abs(cfg.StaticPath)
		if err != nil {
			return fmt.Errorf("failed to resolve static path: %w", err)
		}
		slog.Info("Serving static files", "path", staticPath)
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(handlers.Config{
		JWT:            jwtManager,
		Lists:          lists,
		Items:          items,
		Products:       productClient,
		Decoder:        decoder,
		Hub:            hub,
		Metrics:        m,
		Gatherer:       reg,
		StaticPath:     staticPath,
		AllowedOrigins: cfg.AllowedOrigins,
		ScanTimeout:    cfg.ScanTimeout,
		Services: []handlers.Mount{
			handlers.NewMount(apiconnect.NewAuthServiceHandler(authSvc, optional)),
			handlers.NewMount(apiconnect.NewListServiceHandler(service.NewListService(lists, notifier, m), required)),
			handlers.NewMount(apiconnect.NewItemServiceHandler(service.NewItemService(lists, items, m), required)),
			handlers.NewMount(apiconnect.NewProductServiceHandler(service.NewProductService(productClient, decoder, m), required)),
		},
	})

	server := newServer(ctx, fmt.Sprintf(":%d", cfg.Port), router)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr), "env", cfg.Env)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newServer serves handler over h2c so gRPC clients can use HTTP/2 without
// TLS. Request contexts derive from ctx, so streams and WebSockets end when
// ctx does instead of holding Shutdown open.
func newServer(ctx context.Context, addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
}

func openStore(ctx context.Context, cfg *config.Config, fb *firebaseapp.App) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendFirestore:
		if fb == nil {
			return nil, errors.New("firestore backend requires FIREBASE_PROJECT_ID")
		}
		client, err := fb.Firestore(ctx)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "backend", cfg.StorageBackend, "project_id", cfg.FirebaseProjectID)
		return firestorestore.New(client), nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		slog.Info("Storage initialized", "backend", config.BackendSQLite, "database", cfg.DBPath)
		return store, nil
	}
}
