package cli

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales_dashboard/internal/sales"
	"sales_dashboard/internal/spreadsheet"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "import", "export", "insights", "seed"})
}

func TestExport_UnknownFormat(t *testing.T) {
	_, err := run(t, "export", "--format", "pdf")
	assert.ErrorContains(t, err, "unknown format")
}

func TestImport_MissingFile(t *testing.T) {
	_, err := run(t, "import", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestImport_NoValidRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendas.csv")
	require.NoError(t, os.WriteFile(path, []byte("h\nid,2024-05-10,Ana,João,Automóvel,abc,Aprovado\n"), 0o600))

	_, err := run(t, "import", path)
	assert.ErrorContains(t, err, "1 rows skipped")
}

func TestImport_DemoMode(t *testing.T) {
	t.Setenv("DEMO_MODE", "true")
	t.Setenv("BACKEND", "")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("VITE_SUPABASE_URL", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")

	path := filepath.Join(t.TempDir(), "vendas.csv")
	require.NoError(t, os.WriteFile(path, []byte("h\nid,2024-05-10,Ana,João,Automóvel,10,Aprovado\n"), 0o600))

	out, err := run(t, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 vendas importadas")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendas.csv")
	list := []sales.Sale{{ID: "a", Date: "2024-05-10", ConsultantName: "Ana", ClientName: "João", Type: sales.Automobile, Status: sales.Approved}}

	require.NoError(t, writeFile(path, list, spreadsheet.WriteCSV))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `a,2024-05-10,"Ana","João"`)

	boom := errors.New("disk full")
	err = writeFile(path, list, func(io.Writer, []sales.Sale) error { return boom })
	assert.ErrorIs(t, err, boom)

	err = writeFile(filepath.Join(t.TempDir(), "missing", "out.csv"), list, spreadsheet.WriteCSV)
	assert.Error(t, err)
}
