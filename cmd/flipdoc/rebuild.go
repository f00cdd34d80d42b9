package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/flipdoc"
)

// Run executes the rebuild command.
func (c *RebuildCmd) Run(deps *Dependencies) error {
	progress := func(e flipdoc.ProgressEvent) {
		if e.Stage != flipdoc.StageFetch || e.Completed == 0 {
			return
		}
		if e.Error != nil {
			fmt.Fprintf(deps.Stderr, "skip page %d: %v\n", e.Index, e.Error)
		}
		fmt.Fprintf(deps.Stdout, "\r[%d/%d] page %d", e.Completed, e.Total, e.Index)
	}

	result, err := deps.Rebuilder.Rebuild(deps.Ctx, c.Input, c.Output, progress)

	// Clear progress line
	fmt.Fprintf(deps.Stdout, "\r%80s\r", "")

	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	saved := result.Fetched - result.Dropped
	fmt.Fprintf(deps.Stdout, "Saved %d pages to %s\n", saved, result.Output)
	if missing := result.Failed + result.Skipped + result.Dropped; missing > 0 {
		fmt.Fprintf(deps.Stdout, "Missing %d pages (%d failed, %d skipped, %d unreadable)\n",
			missing, result.Failed, result.Skipped, result.Dropped)
	}
	if result.DocumentPages > 0 && result.DocumentPages != saved {
		fmt.Fprintf(deps.Stderr, "warning: document has %d pages, expected %d\n", result.DocumentPages, saved)
	}
	return nil
}

// errorText returns the message shown to the user for err. Domain errors
// carry their own message; anything else is shown in full.
func errorText(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "interrupted"
	case flipdoc.ErrorCode(err) == flipdoc.EINTERNAL:
		return err.Error()
	default:
		return flipdoc.ErrorMessage(err)
	}
}
