package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/tdollar/host"
	"github.com/chrisuehlinger/tdollar/markup"
)

func render(markupFile, stylesFile string, w io.Writer) error {
	_, root, err := buildTree(host.NewMemory(), markupFile, stylesFile)
	if err != nil {
		return err
	}
	return markup.Dump(w, root)
}

// watchAndRender renders once, then again whenever the markup or stylesheet
// is written, until interrupted.
func watchAndRender(ctx context.Context, markupFile, stylesFile string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch directories: editors often replace files instead of writing
	// them in place.
	files := map[string]bool{}
	for _, f := range []string{markupFile, stylesFile} {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		files[abs] = true
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return err
		}
	}

	rerender := func() {
		fmt.Fprintf(w, "--- %s\n", time.Now().Format(time.TimeOnly))
		if err := render(markupFile, stylesFile, w); err != nil {
			logger.Warn("render failed", zap.Error(err))
		}
	}
	rerender()

	const debounce = 100 * time.Millisecond
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !files[ev.Name] || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		case <-pending:
			pending = nil
			rerender()
		}
	}
}
