//go:build !integration

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bitbucket.org/crgw/booking-widget/internal/catalog"
	"bitbucket.org/crgw/booking-widget/internal/gateway"
	"bitbucket.org/crgw/booking-widget/internal/photos"
	"bitbucket.org/crgw/booking-widget/internal/search"
	"bitbucket.org/crgw/booking-widget/internal/tools/caching"
	"bitbucket.org/crgw/booking-widget/internal/tools/logging"
	"bitbucket.org/crgw/booking-widget/internal/tools/redisfactory"
	"bitbucket.org/crgw/booking-widget/internal/web"
	"bitbucket.org/crgw/booking-widget/internal/widget"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func serverApp(httpServer *http.Server, logger *zerolog.Logger) int {
	shutdown := false
	done := make(chan error, 1)
	stop := make(chan os.Signal, 1)
	go func() {
		logger.
			Info().
			Msg("Listening on address " + httpServer.Addr)
		done <- httpServer.ListenAndServe()
	}()
	go func() {
		// Wait for stop
		<-stop
		shutdown = true
		logger.Info().Msg("Shutting down server...")
		_ = httpServer.Shutdown(context.Background())
	}()

	// Notify stop channel if SIGINT or SIGTERM is received
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	err := <-done
	if err != nil && !shutdown {
		logger.
			Error().
			Err(err).
			Msg("Server failed")
		return 1
	}
	return 0
}

func main() {
	_ = godotenv.Load(".env")
	log := logging.New(os.Getenv("LOG_LEVEL"))

	redisFactory := redisfactory.New()

	store := gateway.New(os.Getenv("REMOTE_API_URL"), log)

	catalogCache := catalog.New(store, log)
	if err := catalogCache.Load(context.Background()); err != nil {
		// without the catalog there is nothing to render
		log.Fatal().Err(err).Msg("Unable to load the company catalog")
	}

	services := &widget.Services{
		Catalog: catalogCache,
		Search:  search.New(store, log),
		Photos: photos.New(
			store,
			caching.NewRedisCache(redisFactory.ResponsesCacheClient()),
			log,
		),
		Sessions: widget.NewSessions(store, log),
	}

	appRouter := web.SetupRouter(log, redisFactory, services)

	var host string
	if os.Getenv("TEST") == "true" {
		host = "localhost"
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", host, os.Getenv("PORT")),
		Handler: appRouter,
	}

	os.Exit(serverApp(httpServer, log))
}
