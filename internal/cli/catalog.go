package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"shortorder/internal/catalog"
	"shortorder/internal/models"
)

// NewCatalogCommand creates the catalog command group
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and import ingredient catalogs",
	}

	cmd.AddCommand(newCatalogCheckCommand())
	cmd.AddCommand(newCatalogImportCommand())
	return cmd
}

func newCatalogCheckCommand() *cobra.Command {
	var (
		path   string
		format string
		cards  bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a catalog and report what it contains",
		Long: `Load the catalog from --path (or the configured source when no path is
given), resolve every reference and check each course has a food group.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log := current.cfg, current.log
			if path != "" {
				cfg.Catalog.Source = SourceFile
				cfg.Catalog.Path = path
				cfg.Catalog.Format = format
			}

			cat, err := loadCatalog(cfg, log)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "✓ Catalog is valid")
			fmt.Fprintf(out, "  Ingredients: %d\n", len(cat.Ingredients()))
			for _, course := range models.Courses {
				foods := cat.FoodsByCourse(course)
				recipes := 0
				for _, f := range foods {
					recipes += len(f.Recipes)
				}
				fmt.Fprintf(out, "  %-7s %d food groups, %d recipes\n", course, len(foods), recipes)
			}

			if !cards {
				return nil
			}
			for _, f := range cat.Foods() {
				for _, r := range f.Recipes {
					lines, err := cat.RecipeCard(r)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "\n%s\n", r.Name)
					for _, line := range lines {
						fmt.Fprintf(out, "  %s\n", line)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "Catalog file (yaml) or directory (xml)")
	cmd.Flags().StringVarP(&format, "format", "f", catalog.FormatYAML, "Catalog format: yaml or xml")
	cmd.Flags().BoolVar(&cards, "cards", false, "Print every recipe card")
	return cmd
}

func newCatalogImportCommand() *cobra.Command {
	var (
		path   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Write a catalog into the configured database",
		Long: `Decode the catalog at --path, check it resolves, then replace the catalog
stored in the configured database with it. Without --path the embedded catalog is
imported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log := current.cfg, current.log

			var doc *models.CatalogDocument
			var err error
			if path == "" {
				doc, err = catalog.DefaultDocument()
			} else {
				doc, err = catalog.LoadFile(path, format)
			}
			if err != nil {
				return err
			}
			if _, err := catalog.Build(doc); err != nil {
				return err
			}

			store, closeDB, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := store.Save(doc); err != nil {
				return err
			}

			log.Info().Str("driver", cfg.Database.Driver).Int("ingredients", len(doc.Ingredients)).Msg("Catalog imported")
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d ingredients, %d recipes, %d food groups\n",
				len(doc.Ingredients), len(doc.Recipes), len(doc.Foods))
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "Catalog file (yaml) or directory (xml)")
	cmd.Flags().StringVarP(&format, "format", "f", catalog.FormatYAML, "Catalog format: yaml or xml")
	return cmd
}
