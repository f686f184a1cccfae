package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fwojciec/bookmarker"
	"github.com/fwojciec/bookmarker/gemini"
	"github.com/fwojciec/bookmarker/goquery"
	"github.com/fwojciec/bookmarker/htmltomarkdown"
	bmhttp "github.com/fwojciec/bookmarker/http"
	bmopenai "github.com/fwojciec/bookmarker/openai"
	"github.com/fwojciec/bookmarker/readability"
	bmredis "github.com/fwojciec/bookmarker/redis"
	"github.com/fwojciec/bookmarker/rod"
	"github.com/fwojciec/bookmarker/scrape"
	bmslog "github.com/fwojciec/bookmarker/slog"
	"github.com/fwojciec/bookmarker/sqlite"
	"github.com/fwojciec/bookmarker/trafilatura"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"google.golang.org/genai"
)

// buildService wires cache, fetcher and extractor into the scrape pipeline.
func (m *Main) buildService(ctx context.Context, cli *CLI, logger *slog.Logger, stderr io.Writer) (bookmarker.MetadataService, error) {
	cache, err := m.openCache(cli, stderr)
	if err != nil {
		return nil, err
	}

	fetcher, err := m.openFetcher(cli, stderr)
	if err != nil {
		return nil, err
	}

	extractor, err := newExtractor(ctx, cli, stderr)
	if err != nil {
		return nil, err
	}

	return &scrape.Service{
		Cache:          bmslog.NewLoggingMetadataCache(cache, logger),
		Fetcher:        bmslog.NewLoggingFetcher(fetcher, logger),
		Extractor:      bmslog.NewLoggingExtractor(extractor, logger),
		FetchTimeout:   cli.FetchTimeout,
		ExtractTimeout: cli.ExtractTimeout,
		Logger:         logger,
	}, nil
}

func (m *Main) openCache(cli *CLI, stderr io.Writer) (bookmarker.MetadataCache, error) {
	switch cli.Cache {
	case "redis":
		client, err := bmredis.NewClient(bmredis.Config{
			Address:  cli.RedisAddr,
			Password: cli.RedisPassword,
			DB:       cli.RedisDB,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Set REDIS_ADDRESS to point at a running Redis server")
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		m.closers = append(m.closers, client)
		return bmredis.NewMetadataCache(client, bmredis.WithTTL(cli.CacheTTL)), nil
	default:
		if cli.DB != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cli.DB), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		db := sqlite.NewDB(cli.DB)
		if err := db.Open(); err != nil {
			fmt.Fprintln(stderr, "Hint: Set BOOKMARKER_DB to use a different database path")
			return nil, fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		m.closers = append(m.closers, db)
		return sqlite.NewMetadataCache(db), nil
	}
}

func (m *Main) openFetcher(cli *CLI, stderr io.Writer) (bookmarker.Fetcher, error) {
	var fetcher bookmarker.Fetcher
	switch cli.Fetcher {
	case "browser":
		f, err := rod.NewFetcher(rod.WithFetchTimeout(cli.FetchTimeout))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = f
	default:
		fetcher = bmhttp.NewFetcher(bmhttp.WithTimeout(cli.FetchTimeout))
	}
	m.closers = append(m.closers, fetcher)
	return fetcher, nil
}

func newExtractor(ctx context.Context, cli *CLI, stderr io.Writer) (bookmarker.Extractor, error) {
	var converter bookmarker.Converter
	if cli.Markdown {
		converter = htmltomarkdown.NewConverter()
	}

	switch cli.Extractor {
	case "readability":
		return readability.NewExtractor(), nil

	case "trafilatura":
		return trafilatura.NewExtractor(goquery.NewExtractor()), nil

	case "gemini":
		if cli.GeminiAPIKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return nil, fmt.Errorf("GEMINI_API_KEY not set")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cli.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewExtractor(client,
			gemini.WithModel(cli.Model),
			gemini.WithConverter(converter),
			gemini.WithMaxInputBytes(cli.MaxInputBytes),
		), nil

	case "openai":
		if cli.OpenAIAPIKey == "" {
			fmt.Fprintln(stderr, "OPENAI_API_KEY environment variable not set")
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		opts := []option.RequestOption{option.WithAPIKey(cli.OpenAIAPIKey)}
		if cli.OpenAIBaseURL != "" {
			opts = append(opts, option.WithBaseURL(cli.OpenAIBaseURL))
		}
		return bmopenai.NewExtractor(openai.NewClient(opts...),
			bmopenai.WithModel(cli.Model),
			bmopenai.WithConverter(converter),
			bmopenai.WithMaxInputBytes(cli.MaxInputBytes),
		), nil

	default:
		return goquery.NewExtractor(), nil
	}
}
