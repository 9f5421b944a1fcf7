package main

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// runWatch runs the script once, then re-runs it in full every time the
// script file changes on disk, letting a designer iterate on a .qsf
// without restarting the host. Each re-run goes through runScript, so it
// builds a fresh server and reloads the worlds, projects and init
// actions from scratch; nothing carries over from the previous run.
func runWatch(opts runOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(opts.scriptPath); err != nil {
		return fmt.Errorf("watch %s: %w", opts.scriptPath, err)
	}

	opts.logger.Info("watching script for changes", zap.String("path", opts.scriptPath))
	if err := runScript(opts); err != nil {
		opts.logger.Error("initial run failed", zap.Error(err))
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			opts.logger.Info("script changed, re-running", zap.String("path", opts.scriptPath))
			if err := runScript(opts); err != nil {
				opts.logger.Error("re-run failed", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			opts.logger.Error("watcher error", zap.Error(err))
		}
	}
}
