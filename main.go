package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	auth "Gaspipe/internal/auth"
	gas "Gaspipe/internal/calc/gas"
	batch "Gaspipe/internal/calc/premium/batch"
	importer "Gaspipe/internal/calc/premium/importer"
	recommend "Gaspipe/internal/calc/premium/recommend"
	report "Gaspipe/internal/calc/report"
	config "Gaspipe/internal/config"
	log "Gaspipe/internal/log"
	profile "Gaspipe/internal/profile"
	repo "Gaspipe/internal/repo"
	sizing "Gaspipe/internal/sizing"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func HandleList(mux *mux.Router, cfg config.Config, db *sql.DB) {
	users := repo.NewUserStore(cfg.DBDriver, db)
	authEnv := &auth.Authenv{JWTkey: cfg.TokenKey, Repo: users}
	segments := repo.NewSegmentStore(cfg.DBDriver, db)

	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}).Methods("GET")

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	secure := api.PathPrefix("/profile").Subrouter()
	secure.Use(authEnv.AuthMiddleware)
	profileH := &profile.ProfileHandler{Repo: users}
	secure.HandleFunc("", profileH.GetProfile).Methods("GET")
	secure.HandleFunc("", profileH.UpdateProfile).Methods("PUT")

	tools := api.PathPrefix("/tools/gas").Subrouter()
	tools.Use(authEnv.AuthMiddleware)

	gasH := &gas.Handler{}
	batchH := &batch.Handler{}
	importH := &importer.Handler{}
	capacityH := &recommend.Handler{}
	reportH := &report.Handler{}
	sizingH := &sizing.Handler{Service: sizing.NewService(segments)}

	tools.HandleFunc("/calc", gasH.Calc).Methods("POST")
	tools.HandleFunc("/batch", batchH.Gas).Methods("POST")
	tools.HandleFunc("/import", importH.Gas).Methods("POST")
	tools.HandleFunc("/capacity", capacityH.Capacity).Methods("POST")
	tools.HandleFunc("/report/pdf", reportH.Generate).Methods("POST")
	tools.HandleFunc("/report/xlsx", reportH.Export).Methods("POST")
	tools.HandleFunc("/systems/size", sizingH.Size).Methods("POST")
}

func migrate(ctx context.Context, cfg config.Config, db *sql.DB) error {
	if err := repo.NewSegmentStore(cfg.DBDriver, db).Migrate(ctx); err != nil {
		return err
	}
	return repo.NewUserStore(cfg.DBDriver, db).Migrate(ctx)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := log.Init(cfg.Debug); err != nil {
		panic(err)
	}
	defer log.Sync()
	if err := cfg.RequireToken(); err != nil {
		log.Fatalf("%v", err)
	}

	db, err := repo.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := migrate(ctx, cfg, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	mux := mux.NewRouter()
	HandleList(mux, cfg, db)
	handler := CORS(mux)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Infow("starting server", "addr", cfg.ListenAddr, "tls", cfg.TLS(), "db", cfg.DBDriver)
		var err error
		if cfg.TLS() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("server error: %v", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Infof("shutdown signal received, closing active connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server shutdown: %v", err)
	}
	wg.Wait()
	log.Infof("server stopped")
}
