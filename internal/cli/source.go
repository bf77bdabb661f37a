package cli

import (
	"fmt"

	"github.com/rs/zerolog"

	"shortorder/internal/catalog"
	"shortorder/internal/config"
	"shortorder/internal/database"
	"shortorder/internal/generator"
	"shortorder/internal/models"
)

// Catalog sources.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceDatabase = "database"
)

// loadDocument reads the catalog document from the configured source. An empty
// database is seeded with the embedded catalog first.
func loadDocument(cfg *config.Config, log zerolog.Logger) (*models.CatalogDocument, error) {
	switch cfg.Catalog.Source {
	case SourceEmbedded:
		return catalog.DefaultDocument()
	case SourceFile:
		return catalog.LoadFile(cfg.Catalog.Path, cfg.Catalog.Format)
	case SourceDatabase:
		store, closeDB, err := openStore(cfg)
		if err != nil {
			return nil, err
		}
		defer closeDB()

		seed, err := catalog.DefaultDocument()
		if err != nil {
			return nil, err
		}
		seeded, err := store.Seed(seed)
		if err != nil {
			return nil, fmt.Errorf("seed catalog store: %w", err)
		}
		if seeded {
			log.Info().Str("driver", cfg.Database.Driver).Msg("Seeded empty catalog store")
		}
		return store.Load()
	}
	return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
}

// loadCatalog builds the catalog and checks every course can be generated.
func loadCatalog(cfg *config.Config, log zerolog.Logger) (*catalog.Catalog, error) {
	doc, err := loadDocument(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	c, err := catalog.Build(doc)
	if err != nil {
		return nil, err
	}
	if err := c.RequireCourses(); err != nil {
		return nil, err
	}

	log.Info().
		Str("source", cfg.Catalog.Source).
		Int("ingredients", len(doc.Ingredients)).
		Int("recipes", len(doc.Recipes)).
		Int("foods", len(doc.Foods)).
		Msg("Catalog loaded")
	return c, nil
}

func openStore(cfg *config.Config) (*database.CatalogStore, func(), error) {
	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}
	store := database.NewCatalogStore(db)
	if err := store.Migrate(); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, func() { db.Close() }, nil
}

func newGenerator(cat *catalog.Catalog, cfg *config.Config, log zerolog.Logger) *generator.Generator {
	day := generator.Config{
		MaxOrdersPerDay: cfg.Simulation.MaxOrdersPerDay,
		MaxRequests:     cfg.Simulation.MaxRequests,
		SideChance:      cfg.Simulation.SideChance,
		DrinkChance:     cfg.Simulation.DrinkChance,
	}
	return generator.New(cat, day,
		generator.WithSeed(cfg.Simulation.Seed),
		generator.WithLogger(log.With().Str("component", "generator").Logger()),
	)
}
