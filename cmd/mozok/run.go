package main

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"mozok/internal/config"
	"mozok/internal/fs"
	"mozok/internal/parser"
	"mozok/internal/server"
)

type runOptions struct {
	scriptPath     string
	cfg            *config.Config
	pauseOnError   bool
	disableInit    bool
	exportTimeline string
	waitTimeout    time.Duration
	logger         *zap.Logger
}

// runScript loads opts.scriptPath, applies it to a fresh server, drives
// the worker thread for opts.waitTimeout, then reports. Returns an
// error iff something the CLI cannot recover from happened; per-world
// engine errors are reported as messages, not as a returned error.
func runScript(opts runOptions) error {
	srv := server.CreateServer(opts.cfg.Server.Name)
	fileSystem := fs.OS{}
	loader := parser.NewLoader(fileSystem)

	src, res := fileSystem.GetTextFile(opts.scriptPath)
	if res.IsError() {
		return fmt.Errorf("read script: %s", res.Description())
	}
	header, res := parser.ParseScriptHeader(opts.scriptPath, src)
	if res.IsError() {
		return fmt.Errorf("parse script: %s", res.Description())
	}

	sourceDir := filepath.Dir(opts.scriptPath)

	for _, w := range header.Worlds {
		if res := srv.CreateWorld(w); res.IsError() {
			return fmt.Errorf("create world %q: %s", w, res.Description())
		}
	}

	for _, proj := range header.Projects {
		targets := targetWorlds(proj.World, header.Worlds)
		for _, w := range targets {
			if res := srv.AddProject(loader, w, proj.Path, sourceDir); res.IsError() {
				opts.logger.Error("project load failed", zap.String("world", w), zap.String("path", proj.Path), zap.String("error", res.Description()))
				if opts.pauseOnError {
					return fmt.Errorf("add project %q to world %q: %s", proj.Path, w, res.Description())
				}
			}
		}
	}

	var rec *timelineRecorder
	if opts.exportTimeline != "" {
		var err error
		rec, err = newTimelineRecorder(opts.exportTimeline)
		if err != nil {
			return fmt.Errorf("open timeline export: %w", err)
		}
		defer rec.Close()
	}

	if !opts.disableInit {
		if err := applyInitActions(srv, header, opts); err != nil {
			return err
		}
	}

	if res := srv.StartWorkerThread(); res.IsError() {
		return fmt.Errorf("start worker: %s", res.Description())
	}
	time.Sleep(opts.waitTimeout)
	srv.StopWorkerThread()

	if rec != nil {
		srv.ProcessAllMessages(rec)
	} else {
		srv.ProcessAllMessages(&consoleProcessor{logger: opts.logger})
	}

	for _, w := range header.Worlds {
		save, res := srv.GenerateSaveFile(w)
		if res.IsError() {
			continue
		}
		opts.logger.Debug("final save file", zap.String("world", w), zap.Int("bytes", len(save)))
	}

	return nil
}

func applyInitActions(srv *server.Server, header *parser.ScriptHeader, opts runOptions) error {
	for _, act := range header.InitActions {
		for _, w := range targetWorlds(act.World, header.Worlds) {
			res, actionErr := srv.ApplyAction(w, act.Action, act.Arguments)
			if res.IsError() {
				opts.logger.Warn("init action failed",
					zap.String("world", w), zap.String("action", act.Action), zap.String("error", res.Description()))
				if opts.pauseOnError {
					return fmt.Errorf("init action %q on world %q failed (%s): %s", act.Action, w, actionErr, res.Description())
				}
			}
		}
	}
	return nil
}

// targetWorlds expands a .qsf file's optional bracketed world prefix:
// an empty prefix applies to every declared world.
func targetWorlds(prefix string, all []string) []string {
	if prefix != "" {
		return []string{prefix}
	}
	return all
}
