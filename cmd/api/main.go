package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/dukanx/vaani/internal/config"
	"github.com/dukanx/vaani/internal/handler"
	"github.com/dukanx/vaani/internal/middleware"
	"github.com/dukanx/vaani/internal/service/catalog"
	"github.com/dukanx/vaani/internal/service/dialogue"
	"github.com/dukanx/vaani/internal/service/nlu"
	"github.com/dukanx/vaani/internal/service/query"
	"github.com/dukanx/vaani/internal/service/speech"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// The assistant cannot function without the language model.
	if !cfg.AI.Enabled() {
		log.Fatal("Ark credentials not configured, set ARK_API_KEY + Model or the AK/SK pair")
	}

	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		log.Fatalf("failed to initialize chat model: %v", err)
	}

	extractor, err := nlu.NewExtractor(ctx, chatModel)
	if err != nil {
		log.Fatalf("failed to initialize extractor: %v", err)
	}

	validator, err := nlu.NewValidator(ctx, chatModel)
	if err != nil {
		log.Printf("warning: failed to initialize validator: %v", err)
		log.Println("continuing without the secondary completeness check")
		validator = nil
	}

	// The shop database is optional. Without it, catalog price lookups and
	// business queries degrade gracefully.
	var db *sql.DB
	if cfg.Database.Enabled() {
		db, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		if err := db.PingContext(ctx); err != nil {
			log.Printf("warning: database unreachable: %v", err)
			log.Println("continuing without business queries and catalog prices")
			db.Close()
			db = nil
		} else {
			defer db.Close()
			log.Println("shop database connected")
		}
	} else {
		log.Println("POSTGRES_DSN not set, business queries disabled")
	}

	var queryEngine *query.Engine
	if db != nil {
		queryEngine, err = query.NewEngine(ctx, chatModel, db)
		if err != nil {
			log.Printf("warning: failed to initialize query engine: %v", err)
			queryEngine = nil
		}
	}

	store := dialogue.NewMemoryStore(cfg.Dialogue.SessionTimeout)
	manager := dialogue.NewManager(store, extractor, validatorOrNil(validator), catalog.NewStore(db))

	// No speech transducers ship in this build; voice routes report
	// unavailable until a Transcriber implementation is plugged in.
	var transcriber speech.Transcriber
	var synthesizer speech.Synthesizer

	limiter := middleware.NewRateLimiter(cfg.Dialogue.RateLimit, cfg.Dialogue.RateWindow)
	router := handler.NewRouter(manager, queryEngine, transcriber, synthesizer, limiter)

	startServer(ctx, cfg.Server, router)
}

// validatorOrNil avoids storing a typed nil behind the Validator interface.
func validatorOrNil(v *nlu.Validator) dialogue.Validator {
	if v == nil {
		return nil
	}
	return v
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Vaani assistant listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
