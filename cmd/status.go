package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/padasch/french-nfi-dashboard/internal/catalog"
	"github.com/padasch/french-nfi-dashboard/internal/resolver"
	"github.com/padasch/french-nfi-dashboard/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show figure coverage and dataset state",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := loadLists()
		if err != nil {
			return err
		}

		cov, err := catalog.Build(resolver.New(os.DirFS(assetsDir), l), l)
		if err != nil {
			return err
		}

		fmt.Printf("Figure Coverage (%s)\n", assetsDir)
		fmt.Printf("===============\n")
		for _, kc := range cov.Kinds {
			fmt.Printf("  %-22s groups: %3d  figures: %4d / %4d (%5.1f%%)  facets: %4d / %4d\n",
				kc.Kind.Label(), kc.Groups, kc.Found, kc.Selections, kc.Percent(),
				kc.CompanionsFound, kc.CompanionsTotal)
			for _, p := range kc.Missing {
				logVerbose("      missing %s", p)
			}
		}
		fmt.Printf("Total figures found: %d, missing: %d\n", cov.Found, cov.NotFound)
		if cov.Invalid > 0 {
			fmt.Printf("Selections refused: %d\n", cov.Invalid)
		}

		s, err := store.New(dataDir)
		if err != nil {
			return err
		}
		defer s.Close()

		fmt.Printf("\nDataset\n")
		fmt.Printf("-------\n")
		n, err := s.RowCount()
		if errors.Is(err, store.ErrNoDataset) {
			fmt.Printf("  not imported (run import)\n")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("  rows: %d\n", n)
		info, err := s.LastImport()
		if err != nil {
			fmt.Printf("  import metadata unreadable: %v\n", err)
			return nil
		}
		fmt.Printf("  source: %s\n", info.Source)
		fmt.Printf("  imported: %s\n", info.ImportedAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
