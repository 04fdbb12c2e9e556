package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/julianstephens/refscan/pkg/catalog"
	"github.com/julianstephens/refscan/pkg/refscan"
)

type WatchCmd struct {
	ScopeFlags `embed:""`
}

func (c *WatchCmd) Run(cli *CLI, cat *catalog.Catalog, ex *refscan.Extractor, logger *slog.Logger) error {
	if cli.Catalog == "" {
		return fmt.Errorf("watch needs a catalog file (--catalog or REFSCAN_CATALOG)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	current := &atomic.Pointer[catalog.Catalog]{}
	current.Store(cat)

	w, err := catalog.NewWatcher(cli.Catalog, func(next *catalog.Catalog) {
		current.Store(next)
		if ex.Rebuild(next.ScanBooks()) {
			logger.Info("catalog reloaded", "books", len(next.Books), "fingerprint", ex.Fingerprint())
		}
	}, catalog.WithWatchLogger(logger))
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop() // nolint: errcheck

	return scanLines(ctx, os.Stdin, os.Stdout, ex, current.Load, c.Scope())
}

// scanLines extracts references from each input line and writes one JSON
// array per line.
func scanLines(ctx context.Context, r io.Reader, w io.Writer, ex *refscan.Extractor, cat func() *catalog.Catalog, scope refscan.Scope) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()

	enc := json.NewEncoder(w)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					if err != nil {
						return fmt.Errorf("failed to read input: %w", err)
					}
				default:
				}
				return nil
			}
			if err := enc.Encode(annotate(cat(), ex.Extract(line, scope))); err != nil {
				return err
			}
		}
	}
}
