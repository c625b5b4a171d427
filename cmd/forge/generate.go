package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/compiler/load"
	"github.com/apiforge/forge/compiler/targets"
)

var (
	schemaPath string
	outDir     string
	zipPath    string
	targetName string
	watch      bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a project tree from the schema and config",
	RunE: func(cmd *cobra.Command, args []string) error {
		if watch {
			return watchLoop(cmd.Context())
		}
		return runOnce(cmd.Context())
	},
}

func init() {
	generateCmd.Flags().StringVarP(&schemaPath, "schema", "s", "schema.yaml", "schema document")
	generateCmd.Flags().StringVarP(&outDir, "out", "o", "out", "output directory")
	generateCmd.Flags().StringVar(&zipPath, "zip", "", "write a zip archive instead of a directory tree")
	generateCmd.Flags().StringVarP(&targetName, "target", "t", "", "target backend (overrides the config)")
	generateCmd.Flags().BoolVarP(&watch, "watch", "w", false, "regenerate when the schema or config changes")
	rootCmd.AddCommand(generateCmd)
}

func runOnce(ctx context.Context) error {
	run := uuid.NewString()
	log := slog.Default().With("run", run)
	start := time.Now()

	s, err := load.SchemaFile(schemaPath)
	if err != nil {
		return err
	}
	c, cfgTarget, err := load.ConfigFile(configPath())
	if err != nil {
		return err
	}
	name := cfgTarget
	if targetName != "" {
		name = targetName
	}
	target, err := targets.Lookup(name)
	if err != nil {
		return err
	}
	o, err := gen.NewOrchestrator(target)
	if err != nil {
		return err
	}

	res, err := o.Generate(s, c)
	if err != nil {
		return err
	}
	for _, f := range res.IgnoredFeatures {
		log.Warn("feature not supported by target, skipped", "target", name, "feature", f)
	}

	if zipPath != "" {
		f, err := os.Create(zipPath)
		if err != nil {
			return fmt.Errorf("create archive: %w", err)
		}
		defer f.Close()
		if err := gen.WriteZip(f, res.Files); err != nil {
			return err
		}
		log.Info("archive written", "target", name, "files", len(res.Files),
			"path", zipPath, "elapsed", time.Since(start))
		return nil
	}

	w := gen.NewWriter(outDir)
	if err := w.WriteTree(ctx, res.Files); err != nil {
		return err
	}
	m := w.Metrics()
	log.Info("project generated", "target", name, "files", m.FilesWritten,
		"bytes", m.TotalBytes, "out", outDir, "elapsed", time.Since(start))
	return nil
}

// watchLoop regenerates on every change to the schema or config file.
// Editors replace files rather than writing in place, so the paths are
// re-added after each event and events are debounced.
func watchLoop(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := []string{schemaPath, configPath()}
	for _, p := range watched {
		if err := watcher.Add(filepath.Dir(p)); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
	}

	if err := runOnce(ctx); err != nil {
		slog.Error("generation failed", "err", err)
	}
	slog.Info("watching for changes", "paths", watched)

	var timer *time.Timer
	debounced := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-watcher.Errors:
			slog.Error("watch error", "err", err)
		case ev := <-watcher.Events:
			if !relevant(ev, watched) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(200*time.Millisecond, func() {
				select {
				case debounced <- struct{}{}:
				default:
				}
			})
		case <-debounced:
			if err := runOnce(ctx); err != nil {
				slog.Error("generation failed", "err", err)
			}
		}
	}
}

func relevant(ev fsnotify.Event, watched []string) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	for _, p := range watched {
		if filepath.Clean(ev.Name) == filepath.Clean(p) {
			return true
		}
	}
	return false
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return "forge.yaml"
}
