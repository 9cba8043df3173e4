// Command vecbench builds flat nearest-neighbour indexes over directories of
// .npy embeddings and measures top-1 self-retrieval accuracy against them.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/viant/vecbench/corpus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, diagnostic(err))
		os.Exit(1)
	}
}

// noQueryFilesError marks an evaluate run whose query directory held no rows.
type noQueryFilesError struct {
	err error
}

func (e *noQueryFilesError) Error() string { return "no query files found: " + e.err.Error() }

func (e *noQueryFilesError) Unwrap() error { return e.err }

// noQueryFiles tags an empty query directory error from evaluate so it gets
// its fixed diagnostic; other errors pass through.
func noQueryFiles(err error) error {
	if errors.Is(err, corpus.ErrNoFiles) {
		return &noQueryFilesError{err: err}
	}
	return err
}

// diagnostic renders err for the terminal. The empty query directory case
// gets a fixed message so scripts can match it.
func diagnostic(err error) string {
	var nq *noQueryFilesError
	if errors.As(err, &nq) {
		return errorStyle.Render("no query files found") + ": " + nq.err.Error()
	}
	return errorStyle.Render("error") + ": " + err.Error()
}
