package main

import (
	"context"
	"io"

	"syntex/internal/driver"
	"syntex/internal/ui"
)

type batchOutcome struct {
	result *driver.BatchResult
	err    error
}

// runBatchWithUI drives the progress view while the batch runs in the
// background. The event channel is closed once the batch returns.
func runBatchWithUI(ctx context.Context, out io.Writer, title string, files []string, opts driver.Options) (*driver.BatchResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.ExpandFiles(ctx, files, optsCopy)
		outcomeCh <- batchOutcome{result: res, err: err}
		close(events)
	}()

	uiErr := ui.RunProgress(title, files, events, out)
	if uiErr != nil {
		// программа завершилась раньше, дочитываем события чтобы не блокировать воркеры
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
