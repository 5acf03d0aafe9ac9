// Hanna Terminal console
//
// Runs the terminal locally on a TTY:
//
//	hannaterm [-snapshot name] [-save] [-v]
//
// With -snapshot the filesystem is loaded from the configured snapshot store
// (SNAPSHOT_BACKEND) instead of the seed tree; -save writes it back on exit.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/skairipa/hannaterm/internal/config"
	"github.com/skairipa/hannaterm/internal/logging"
	"github.com/skairipa/hannaterm/internal/session"
	"github.com/skairipa/hannaterm/internal/snapshot"
)

func main() {
	snapshotName := flag.String("snapshot", "", "Load the filesystem from this snapshot")
	save := flag.Bool("save", false, "Save the filesystem back to -snapshot on exit")
	verbose := flag.Bool("v", false, "Log debug output to stderr")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	if err := logging.Init(logging.Config{Level: level, Format: "console", OutputPath: "stderr"}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	opts, err := cfg.ControllerOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	ctrl := session.New(opts...)

	ctx := context.Background()
	var store snapshot.Store
	if *snapshotName != "" {
		store, err = openSnapshot(ctx, cfg, ctrl, *snapshotName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	if err := newConsole(ctrl, os.Stdout).run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *save && store != nil {
		data, err := ctrl.SaveFilesystem()
		if err == nil {
			err = store.Save(ctx, *snapshotName, data)
		}
		if err != nil {
			logging.Error("snapshot save failed", zap.String("name", *snapshotName), zap.Error(err))
			os.Exit(1)
		}
		fmt.Printf("Saved filesystem to snapshot %q\n", *snapshotName)
	}
}

// openSnapshot loads name into ctrl. A missing snapshot keeps the seed tree
// so that -save can create it.
func openSnapshot(ctx context.Context, cfg *config.Config, ctrl *session.Controller, name string) (snapshot.Store, error) {
	store, err := snapshot.New(ctx, cfg.Snapshot())
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("-snapshot needs SNAPSHOT_BACKEND to be set")
	}

	data, err := store.Load(ctx, name)
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
		logging.Warn("snapshot not found, using seed tree", zap.String("name", name))
		return store, nil
	case err != nil:
		store.Close()
		return nil, err
	}
	if err := ctrl.LoadFilesystem(data); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
