package main

import (
	"fmt"

	"github.com/fwojciec/bookmarker"
)

// Run executes the normalize command.
func (c *NormalizeCmd) Run(deps *Dependencies) error {
	if err := bookmarker.ValidateURL(c.URL); err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, bookmarker.NormalizeURL(c.URL))
	return nil
}
