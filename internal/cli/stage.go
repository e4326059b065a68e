package cli

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// runStage runs one screen's controller alongside a stdin forwarder. The
// forwarder stops as soon as the controller returns, whatever the outcome, so
// a finished screen never leaves the stage blocked on input.
func runStage(ctx context.Context, run func(context.Context) error, input <-chan string, onLine func(string)) error {
	stageCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, groupCtx := errgroup.WithContext(stageCtx)
	group.Go(func() error {
		defer cancel()
		return run(groupCtx)
	})
	group.Go(func() error {
		for {
			select {
			case <-groupCtx.Done():
				return nil
			case line, ok := <-input:
				if !ok {
					return nil
				}
				onLine(line)
			}
		}
	})
	return group.Wait()
}
