package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-portal-session/activity"
	"github.com/jrsteele09/go-portal-session/apiclient"
	"github.com/jrsteele09/go-portal-session/auth"
	"github.com/jrsteele09/go-portal-session/credentials"
	"github.com/jrsteele09/go-portal-session/internal/config"
	"github.com/jrsteele09/go-portal-session/redirect"
	"github.com/jrsteele09/go-portal-session/server"
	"github.com/jrsteele09/go-portal-session/sessions"
	"github.com/jrsteele09/go-portal-session/sessions/boltstore"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running session agent")
	}
	log.Info().Msg("Session agent stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	store, err := boltstore.Open(filepath.Join(c.GetDataFolder(), "session.db"), "")
	if err != nil {
		return fmt.Errorf("boltstore.Open: %w", err)
	}
	defer store.Close()

	controller, monitor, urls, navigator := wire(c, store)
	defer controller.Close()
	defer monitor.Stop()

	if err := monitor.Start(controller.OnActivity); err != nil {
		return fmt.Errorf("monitor.Start: %w", err)
	}
	controller.Init(context.Background())

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           server.New(c, controller, monitor, urls, navigator),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- listenAndServe(httpServer) }()

	select {
	case err := <-errCh:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func wire(c config.Config, store sessions.Storage) (*auth.Controller, *activity.Monitor, *redirect.Builder, *server.PendingNavigator) {
	api := apiclient.New(c.GetAPIBaseURL(), c.GetRegion())
	bridge := credentials.NewBridge(
		credentials.NewCognitoIdentityClient(c.GetRegion()),
		credentials.PoolConfig{
			IdentityPoolID: c.GetIdentityPoolID(),
			UserPoolID:     c.GetUserPoolID(),
			Region:         c.GetRegion(),
		},
		api,
		api,
	)

	urls := redirect.NewBuilder(c.GetPortalOrigin(), c.GetCognitoDomain(), c.GetClientID())
	navigator := server.NewPendingNavigator()
	controller := auth.NewController(auth.Deps{
		State:       sessions.NewState(),
		Storage:     store,
		StorageKey:  c.GetUserPoolID(),
		Refresher:   bridge,
		Credentials: api,
		URLs:        urls,
		Navigator:   navigator,
	}, auth.WithSessionTimeout(c.GetSessionTimeout()))

	var throttle activity.Throttle
	if c.GetActivityThrottle() == config.ThrottleWindow {
		throttle = activity.NewWindowThrottle(c.GetActivityWindow())
	} else {
		throttle = activity.NewFrameThrottle(activity.IntervalFrames(c.GetActivityWindow()))
	}

	return controller, activity.NewMonitor(throttle), urls, navigator
}

func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Session agent listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
