package main

import (
	"fmt"

	bmhttp "github.com/fwojciec/bookmarker/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// Run executes the serve command. It blocks until the context is canceled,
// then shuts the server down gracefully.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s := bmhttp.NewServer()
	s.Addr = c.Addr
	s.MetadataService = deps.Service
	s.Logger = deps.Logger
	if deps.Registry != nil {
		s.MetricsHandler = promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})
	}

	if err := s.Open(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", s.URL())

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.Go(func() error {
		<-ctx.Done()
		deps.Logger.Info("shutting down")
		return s.Close()
	})
	return g.Wait()
}
