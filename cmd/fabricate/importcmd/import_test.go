package importcmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/daniacca/fabricate/internal/fabricate"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCmd()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestImport(t *testing.T) {
	out, err := run(t,
		"--essences", filepath.Join("..", "testdata", "essences.json"),
		filepath.Join("..", "testdata", "items.json"))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	var cfg fabricate.CatalogConfig
	if err := json.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("Expected catalog JSON, got %v: %s", err, out)
	}
	if cfg.Name != "items" {
		t.Errorf("Expected name from file, got '%s'", cfg.Name)
	}
	if len(cfg.Components) != 3 {
		t.Errorf("Expected 3 components, got %d", len(cfg.Components))
	}
	if len(cfg.Recipes) != 1 || cfg.Recipes[0].Results["glowing-ash"] != 1 {
		t.Errorf("Expected spark recipe producing glowing-ash, got %+v", cfg.Recipes)
	}
	if _, err := fabricate.BuildCatalogFromConfig(cfg); err != nil {
		t.Errorf("Expected imported catalog to build, got %v", err)
	}
}

func TestImportName(t *testing.T) {
	out, err := run(t,
		"--essences", filepath.Join("..", "testdata", "essences.json"),
		"--name", "foundry",
		filepath.Join("..", "testdata", "items.json"))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	var cfg fabricate.CatalogConfig
	if err := json.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "foundry" {
		t.Errorf("Expected name 'foundry', got '%s'", cfg.Name)
	}
}

func TestImportErrors(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(broken, []byte(`{"items": 3}`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{name: "no file", args: nil},
		{name: "missing file", args: []string{filepath.Join(dir, "missing.json")}},
		{name: "not an array", args: []string{broken}},
		{name: "unknown essences", args: []string{filepath.Join("..", "testdata", "items.json")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Error("Expected error")
			}
		})
	}
}
