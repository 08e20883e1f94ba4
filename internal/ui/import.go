package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayflow/internal/db"
	"github.com/javiermolinar/dayflow/internal/schedule"
)

func (a *App) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [database_path]",
		Short: "Import items from another database",
		Long: `Import all items from another dayflow database into the current one.

Items get new IDs; recurring instances stay linked to their imported template.

Example:
  dayflow import /path/to/other.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			destPath, err := resolvePath(a.config.Storage.DBPath)
			if err != nil {
				return err
			}

			if sourcePath == destPath {
				return fmt.Errorf("source database matches current database")
			}

			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("source database does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking source database: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("source database path is a directory: %s", sourcePath)
			}

			count, err := importItems(cmd.Context(), a.repo, sourcePath)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(a.out, "Imported %d items from %s\n", count, sourcePath)
			return nil
		},
	}

	return cmd
}

// importItems copies every item of the database at sourcePath into dest in
// one batch. Parent links are rewritten to the new template IDs.
func importItems(ctx context.Context, dest schedule.Repository, sourcePath string) (int, error) {
	sourceRepo, err := db.New(sourcePath)
	if err != nil {
		return 0, fmt.Errorf("opening source database: %w", err)
	}
	defer func() { _ = sourceRepo.Close() }()

	items, err := sourceRepo.ListAllItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing source items: %w", err)
	}

	idMap := make(map[string]string, len(items))
	copies := make([]*schedule.Item, 0, len(items))
	for _, it := range items {
		c := it.Clone()
		c.ID = schedule.NewID()
		idMap[it.ID] = c.ID
		copies = append(copies, c)
	}
	for _, c := range copies {
		if c.ParentID == "" {
			continue
		}
		newID, ok := idMap[c.ParentID]
		if !ok {
			// Template deleted in the source; the instance stands alone.
			c.ParentID = ""
			continue
		}
		c.ParentID = newID
	}

	if err := dest.CreateItems(ctx, copies); err != nil {
		return 0, fmt.Errorf("importing items: %w", err)
	}
	return len(copies), nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
