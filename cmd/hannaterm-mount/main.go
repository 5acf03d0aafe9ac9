// Hanna Terminal FUSE export
//
// Mounts a terminal filesystem read-only so it can be inspected with
// ordinary tools:
//
//	hannaterm-mount -mount /mnt/hanna [-snapshot name]
//
// Without -snapshot the seed tree is mounted. Snapshots are read from the
// store selected by SNAPSHOT_BACKEND.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/skairipa/hannaterm/internal/config"
	"github.com/skairipa/hannaterm/internal/fusemount"
	"github.com/skairipa/hannaterm/internal/logging"
	"github.com/skairipa/hannaterm/internal/snapshot"
	"github.com/skairipa/hannaterm/internal/vfs"
)

func main() {
	mountPoint := flag.String("mount", "", "Mount point for the filesystem (required)")
	snapshotName := flag.String("snapshot", "", "Snapshot to mount instead of the seed tree")
	flag.Parse()

	if *mountPoint == "" {
		fmt.Fprintf(os.Stderr, "Error: -mount is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logging.Init(logging.Config{Level: cfg.LogLevel, Format: "console"}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	tree, err := loadTree(context.Background(), cfg, *snapshotName)
	if err != nil {
		logging.Fatal("load filesystem", zap.Error(err))
	}

	server, err := fusemount.New(tree).Mount(*mountPoint)
	if err != nil {
		logging.Fatal("mount failed", zap.Error(err))
	}

	logging.Info("press Ctrl+C to unmount and exit", zap.String("mount_point", *mountPoint))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logging.Info("unmounting...")
	if err := server.Unmount(); err != nil {
		logging.Error("unmount failed", zap.Error(err))
		os.Exit(1)
	}
}

func loadTree(ctx context.Context, cfg *config.Config, name string) (*vfs.FS, error) {
	tree := vfs.NewSeeded()
	if name == "" {
		return tree, nil
	}

	store, err := snapshot.New(ctx, cfg.Snapshot())
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("-snapshot needs SNAPSHOT_BACKEND to be set")
	}
	defer store.Close()

	data, err := store.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("snapshot %q: %w", name, err)
	}
	if err := tree.Import(data); err != nil {
		return nil, err
	}
	return tree, nil
}
