package main

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/bookmarker"
	"github.com/prometheus/client_golang/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Service  bookmarker.MetadataService
	Registry *prometheus.Registry
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB            string        `name:"db" env:"BOOKMARKER_DB" default:"${default_db}" help:"SQLite database path"`
	Cache         string        `enum:"sqlite,redis" default:"sqlite" env:"BOOKMARKER_CACHE" help:"Cache backend (sqlite, redis)"`
	RedisAddr     string        `name:"redis-addr" env:"REDIS_ADDRESS" default:"localhost:6379" help:"Redis address"`
	RedisPassword string        `name:"redis-password" env:"REDIS_PASSWORD" help:"Redis password"`
	RedisDB       int           `name:"redis-db" env:"REDIS_DB" default:"0" help:"Redis database number"`
	CacheTTL      time.Duration `name:"cache-ttl" help:"Expire Redis entries after this long (0 keeps them)"`

	Fetcher        string        `enum:"http,browser" default:"http" env:"BOOKMARKER_FETCHER" help:"Page fetcher (http, browser)"`
	Extractor      string        `enum:"heuristic,readability,trafilatura,gemini,openai" default:"heuristic" env:"BOOKMARKER_EXTRACTOR" help:"Metadata extractor (heuristic, readability, trafilatura, gemini, openai)"`
	Model          string        `help:"Model for generative extractors"`
	Markdown       bool          `help:"Convert pages to Markdown before prompting"`
	MaxInputBytes  int           `name:"max-input-bytes" default:"200000" help:"Cap on page bytes sent to generative extractors"`
	FetchTimeout   time.Duration `name:"fetch-timeout" default:"10s" help:"Page fetch timeout"`
	ExtractTimeout time.Duration `name:"extract-timeout" default:"60s" help:"Extraction timeout"`

	GeminiAPIKey  string `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	OpenAIAPIKey  string `name:"openai-api-key" env:"OPENAI_API_KEY" help:"OpenAI API key"`
	OpenAIBaseURL string `name:"openai-base-url" env:"OPENAI_BASE_URL" help:"OpenAI-compatible API base URL"`

	Verbose bool `short:"v" help:"Enable debug logging"`

	Extract   ExtractCmd   `cmd:"" help:"Extract metadata for one or more URLs"`
	Normalize NormalizeCmd `cmd:"" help:"Print the cache key for a URL"`
	Serve     ServeCmd     `cmd:"" help:"Serve the metadata API over HTTP"`
}

// logLevel returns the log level for the selected command.
func (c *CLI) logLevel(command string) slog.Level {
	switch {
	case c.Verbose:
		return slog.LevelDebug
	case strings.HasPrefix(command, "serve"):
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URLs        []string `arg:"" name:"url" help:"Page URLs"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent extraction limit"`
}

// NormalizeCmd is the "normalize" subcommand.
type NormalizeCmd struct {
	URL string `arg:"" help:"Page URL"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" env:"BOOKMARKER_ADDR" help:"Listen address"`
}
