package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/franzsee/collectune/internal/catalog"
	"github.com/franzsee/collectune/internal/query"
	"github.com/franzsee/collectune/internal/scan"
	"github.com/franzsee/collectune/internal/util"
)

func run(cmd *cobra.Command, args []string) error {
	util.SetVerbose(verbose)
	util.SetQuiet(quiet)

	collectionPath := args[0]
	if err := validateCollectionPath(collectionPath); err != nil {
		return err
	}

	dbPath := filepath.Join(collectionPath, catalog.FileName)
	util.InfoLog("opening catalog: %s", dbPath)

	store, err := catalog.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !noScan {
		util.InfoLog("scanning %s", collectionPath)
		if err := scan.Run(ctx, store, collectionPath); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
	} else {
		util.InfoLog("skipping scan (--no-scan)")
	}

	addr := fmt.Sprintf(":%d", port)
	util.SuccessLog("listening on %s", addr)
	return http.ListenAndServe(addr, query.NewRouter(store))
}

// validateCollectionPath mirrors original_source's get_collection_path:
// the path must exist and be a directory (§6).
func validateCollectionPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %q does not exist", util.ErrUnsupportedPath, path)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %q is not a directory", util.ErrUnsupportedPath, path)
	}
	return nil
}
