package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"kuanb/gosm-navigator/locale"
	"kuanb/gosm-navigator/navigation"
	"kuanb/gosm-navigator/osm"
	"kuanb/gosm-navigator/routing"
	"kuanb/gosm-navigator/speech"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// newLogger writes JSON to a rotated file when file is set and text to stderr
// otherwise.
func newLogger(file, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if file == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	var w io.Writer = &lumberjack.Logger{
		Filename:   file,
		MaxSize:    64, // MB
		MaxBackups: 3,
		MaxAge:     14,
		Compress:   true,
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// configFromEnv applies the NAV_* overrides to the default thresholds.
func configFromEnv() navigation.Config {
	cfg := navigation.DefaultConfig()
	cfg.Imperial = getEnvBool("NAV_IMPERIAL", cfg.Imperial)
	cfg.Delay = getEnvInt("NAV_DELAY", cfg.Delay)
	cfg.TellStreetName = getEnvBool("NAV_TELL_STREET_NAME", cfg.TellStreetName)
	return cfg
}

// main is the composition root: it loads the graph and serves navigation
// over HTTP.
func main() {
	pbfFile := flag.String("pbf", "", "PBF extract to load; overrides PBF_PATH")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}
	logger := newLogger(getEnv("LOG_FILE", ""), getEnv("LOG_LEVEL", "info"))

	if err := run(*pbfFile, logger); err != nil {
		logger.Error("navigator stopped", "err", err)
		os.Exit(1)
	}
}

func run(pbfFile string, logger *slog.Logger) error {
	if pbfFile == "" {
		pbfFile = getEnv("PBF_PATH", "data/example.osm.pbf")
	}
	phrases, err := locale.Parse(getEnv("NAV_LANG", "en"))
	if err != nil {
		return err
	}
	sessions, err := newSessionStore(getEnvInt("SESSION_CACHE_SIZE", 1024))
	if err != nil {
		return err
	}

	logger.Info("loading graph", "path", pbfFile)
	graph, err := osm.LoadOsmFile(pbfFile, logger)
	if err != nil {
		return fmt.Errorf("load graph: %w", err)
	}
	logger.Info("loaded graph", "nodes", len(graph.Nodes), "segments", len(graph.Ways))

	cps, _ := strconv.ParseFloat(getEnv("SPEECH_CPS", "0"), 64)
	server := &Server{
		graph:    graph,
		matcher:  routing.NewHMMMapMatcher(graph),
		phrases:  phrases,
		cfg:      configFromEnv(),
		speech:   speech.Estimator{CPS: cps},
		sessions: sessions,
		logger:   logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	server.startMetricsLogger(30*time.Second, ctx.Done())

	srv := &http.Server{
		Addr:              getEnv("ADDR", ":8080"),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "language", phrases.Language().String())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdown)
}
