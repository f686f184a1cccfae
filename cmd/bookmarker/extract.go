package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/bookmarker"
	"golang.org/x/sync/errgroup"
)

// Run executes the extract command. A single URL prints its result as
// indented JSON; several URLs print one JSON line per URL in input order.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	if len(c.URLs) == 1 {
		result, err := deps.Service.ExtractMetadata(deps.Ctx, c.URLs[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]*bookmarker.Result, len(c.URLs))
	errs := make([]error, len(c.URLs))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, url := range c.URLs {
		g.Go(func() error {
			results[i], errs[i] = deps.Service.ExtractMetadata(deps.Ctx, url)
			return nil
		})
	}
	_ = g.Wait()

	enc := json.NewEncoder(deps.Stdout)
	var failed int
	for i, url := range c.URLs {
		if errs[i] != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", url, bookmarker.ErrorMessage(errs[i]))
			continue
		}
		if err := enc.Encode(results[i]); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d URLs failed", failed, len(c.URLs))
	}
	return nil
}
