package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/invoclear/go-extract-server/access"
	"github.com/invoclear/go-extract-server/extraction"
	"github.com/invoclear/go-extract-server/internal/config"
	"github.com/invoclear/go-extract-server/internal/storage"
	"github.com/invoclear/go-extract-server/server"
	"github.com/invoclear/go-extract-server/sessions"
	"github.com/invoclear/go-extract-server/trial"
	"github.com/invoclear/go-extract-server/users"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()
	c := config.New()
	displayAppname(c.GetAppName())

	srv, err := buildServer(c)
	if err != nil {
		return fmt.Errorf("buildServer: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func buildServer(c config.Config) (*server.Server, error) {
	ctx := context.Background()

	db, err := storage.Open(ctx, c.GetDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("storage.Open: %w", err)
	}

	sessionStore, err := sessions.NewStore(sessions.NewSqliteRepo(db), c.GetSessionTTL())
	if err != nil {
		return nil, fmt.Errorf("sessions.NewStore: %w", err)
	}
	trialCodec, err := trial.NewCodec(c.GetTrialSecret(), c.GetTrialTTL(), c.GetTrialLimit())
	if err != nil {
		return nil, fmt.Errorf("trial.NewCodec: %w", err)
	}
	guard, err := access.NewGuard(sessionStore, trialCodec, c.GetMaxPages())
	if err != nil {
		return nil, fmt.Errorf("access.NewGuard: %w", err)
	}

	// Expired sessions are checked logically on every lookup; this purge
	// just keeps the table from growing without bound.
	if err := sessionStore.PurgeExpired(ctx); err != nil {
		log.Warn().Err(err).Msg("session purge failed")
	}

	return server.New(c, server.Deps{
		Credentials: users.NewSqliteRepo(db),
		Sessions:    sessionStore,
		Trial:       trialCodec,
		Guard:       guard,
		Gateway:     extraction.NewClient(c),
	})
}

func listenAndServe(srv *http.Server) {
	log.Info().Str("addr", srv.Addr).Msg("server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
