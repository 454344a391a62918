package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"textshelf/handlers/texts"
	appmiddleware "textshelf/middleware"
	"textshelf/stores"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func setupRouter(store stores.Store) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(appmiddleware.Sessions(store))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		render.HTML(w, r, "Index HI!")
	})
	r.Get("/text", texts.HandleIndex(store))
	r.Get("/text/add", texts.HandleAdd(store))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusNotFound)
		render.HTML(w, r, "Nooo 404!")
	})

	return r
}

func waitForShutdown(srv *http.Server, store stores.Store) {
	signalC := make(chan os.Signal, 1)
	signal.Notify(signalC, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-signalC

	logrus.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
	}
	if err := store.Close(); err != nil {
		logrus.WithError(err).Error("Store close failed")
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found")
	}

	logLevel := flag.String("loglevel", "info", "Set the logging level: debug, info, warn, error, fatal, panic")
	listenAddr := flag.String("listen", ":8080", "Set the server listen address")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		os.Exit(1)
	}
	if os.Getenv("DEBUG") == "true" {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)

	store := stores.GetStore()
	r := setupRouter(store)

	srv := &http.Server{Addr: *listenAddr, Handler: r}

	logrus.WithField("addr", *listenAddr).Info("starting server")
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	waitForShutdown(srv, store)
}
