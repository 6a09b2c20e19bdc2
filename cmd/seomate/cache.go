package main

import (
	"fmt"

	"github.com/fwojciec/seomate"
)

// Run executes the cache clear command.
func (c *CacheClearCmd) Run(deps *Dependencies) error {
	groups := []string{seomate.CacheGroupAI, seomate.CacheGroupSEO}
	if c.Group != "" && c.Group != "all" {
		groups = []string{c.Group}
	}

	for _, g := range groups {
		if err := deps.Cache.DeleteGroup(deps.Ctx, g); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", seomate.ErrorMessage(err))
			return err
		}
	}

	fmt.Fprintf(deps.Stdout, "Cleared cache groups: %v\n", groups)
	return nil
}
