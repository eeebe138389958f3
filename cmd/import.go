package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/padasch/french-nfi-dashboard/internal/model"
	"github.com/padasch/french-nfi-dashboard/internal/store"
)

var importForce bool

var importCmd = &cobra.Command{
	Use:   "import [csv]",
	Short: "Load the tree dataset CSV into the dataset store",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		csvPath := cfg.Dataset.CSV
		if len(args) == 1 {
			csvPath = args[0]
		}

		s, err := store.New(dataDir)
		if err != nil {
			return err
		}
		defer s.Close()

		if importForce {
			if err := s.ForgetImport(); err != nil {
				return fmt.Errorf("clearing import metadata: %w", err)
			}
		}

		fmt.Printf("Importing %s...\n", csvPath)
		imported, err := s.ImportDataset(csvPath)
		if err != nil {
			return fmt.Errorf("importing dataset: %w", err)
		}
		if !imported {
			fmt.Println("Dataset unchanged since last import.")
		}

		n, err := s.RowCount()
		if err != nil {
			return err
		}
		fmt.Printf("Dataset holds %d rows\n", n)

		missing, err := s.MissingColumns(model.DatasetColumnNames())
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			logger.Warn("dataset lacks documented columns", "missing", missing)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importForce, "force", false, "Re-import even if the file is unchanged")
	rootCmd.AddCommand(importCmd)
}
