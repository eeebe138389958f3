package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/padasch/french-nfi-dashboard/internal/model"
	"github.com/padasch/french-nfi-dashboard/internal/resolver"
)

var (
	resolveKind   string
	resolveGroup  string
	resolveMetric string
	resolveMap    string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the figure paths for one selection and whether they exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := loadLists()
		if err != nil {
			return err
		}

		kind, err := model.ParseGroupKind(resolveKind)
		if err != nil {
			return err
		}
		metric, err := model.ParseMetric(resolveMetric)
		if err != nil {
			return err
		}
		mapKind, err := model.ParseMapKind(resolveMap)
		if err != nil {
			return err
		}

		group := resolveGroup
		if group == "" {
			group = l.First(kind)
		}

		r := resolver.New(os.DirFS(assetsDir), l)
		res, err := r.Resolve(model.Selection{
			GroupKind:  kind,
			GroupValue: group,
			Metric:     metric,
			MapKind:    mapKind,
		})
		if err != nil {
			return err
		}

		fmt.Println(res.Caption)
		printAsset(res.Primary)
		for _, c := range res.Companions {
			printAsset(c)
		}
		return nil
	},
}

func printAsset(a model.Asset) {
	full := filepath.Join(assetsDir, filepath.FromSlash(a.Path))
	if a.Found() {
		fmt.Printf("  %-22s %s\n", a.Facet, full)
		return
	}
	fmt.Printf("  %-22s not yet available: %s\n", a.Facet, full)
}

func init() {
	resolveCmd.Flags().StringVar(&resolveKind, "kind", "species", "Group kind (species, treeheight, gre, reg)")
	resolveCmd.Flags().StringVar(&resolveGroup, "group", "", "Group value (defaults to the first list entry)")
	resolveCmd.Flags().StringVar(&resolveMetric, "metric", "absolute", "Metric (absolute, relative, change, relative-change)")
	resolveCmd.Flags().StringVar(&resolveMap, "map", "hex", "Map kind (hex, gre, ser, reg, dep)")
	rootCmd.AddCommand(resolveCmd)
}
