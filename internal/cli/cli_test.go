package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortorder/internal/catalog"
	"shortorder/internal/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func absentConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "none.yaml")
}

func TestGeneratePrintsTickets(t *testing.T) {
	out, err := run(t, "generate", "--config", absentConfig(t), "--orders", "3", "--seed", "7")
	require.NoError(t, err)

	assert.Contains(t, out, "#1  ")
	assert.Contains(t, out, "#3  ")
	assert.NotContains(t, out, "#4  ")
	assert.Equal(t, 3, strings.Count(out, "ENTREE "))
}

func TestGenerateSeedIsReproducible(t *testing.T) {
	type order struct {
		Tickets []json.RawMessage `json:"tickets"`
	}
	day := func() []order {
		out, err := run(t, "generate", "--config", absentConfig(t), "-n", "10", "--seed", "99", "--json")
		require.NoError(t, err)
		var queue []order
		require.NoError(t, json.Unmarshal([]byte(out), &queue))
		return queue
	}

	first, second := day(), day()
	require.Len(t, first, 10)
	assert.Equal(t, first, second)
}

func TestCatalogCheckWithCards(t *testing.T) {
	out, err := run(t, "catalog", "check", "--config", absentConfig(t), "--cards")
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Catalog is valid")
	assert.Contains(t, out, "ENTREE  2 food groups, 4 recipes")
	assert.Contains(t, out, "SANDWICHED BETWEEN A SESAME BUN")
}

func TestCatalogCheckRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ingredients:
  - {id: bun, name: Bun, type: BUN, station: TOPPING, max_per_order: 1}
recipes:
  - {id: plain, name: Plain, type: burger, ingredients: [{ingredient_id: patty, amount: 1, occurrence: 1}]}
foods:
  - {id: burger, type: ENTREE, ingredients: [BUN], recipes: [plain]}
`), 0o600))

	_, err := run(t, "catalog", "check", "--config", absentConfig(t), "--path", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrUnknownIngredient)
}

func TestCatalogImportThenServeFromDatabase(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "catalog.db")
	cfgPath := writeConfig(t, fmt.Sprintf("database:\n  driver: sqlite3\n  dsn: %s\ncatalog:\n  source: database\n", dsn))

	out, err := run(t, "catalog", "import", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Imported 19 ingredients")

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	c, err := loadCatalog(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, c.Ingredients(), 19)
}

func TestLoadDocumentSeedsEmptyDatabase(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog.Source = SourceDatabase
	cfg.Database.DSN = filepath.Join(t.TempDir(), "fresh.db")

	doc, err := loadDocument(cfg, zerolog.Nop())
	require.NoError(t, err)

	want, err := catalog.DefaultDocument()
	require.NoError(t, err)
	assert.Len(t, doc.Recipes, len(want.Recipes))
}

func TestLoadDocumentUnknownSource(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog.Source = "ftp"
	_, err := loadDocument(cfg, zerolog.Nop())
	assert.Error(t, err)
}
