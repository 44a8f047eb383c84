package cmdutil

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/daniacca/fabricate/internal/fabricate"
)

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    fabricate.Record
		wantErr bool
	}{
		{name: "empty", pairs: nil, want: fabricate.Record{}},
		{name: "pairs", pairs: []string{"fire=3", "air=1"}, want: fabricate.Record{"fire": 3, "air": 1}},
		{name: "bare id", pairs: []string{"fire"}, want: fabricate.Record{"fire": 1}},
		{name: "repeated ids accumulate", pairs: []string{"fire=2", "fire=1"}, want: fabricate.Record{"fire": 3}},
		{name: "spaces", pairs: []string{" fire = 2 "}, want: fabricate.Record{"fire": 2}},
		{name: "empty id", pairs: []string{"=2"}, wantErr: true},
		{name: "zero", pairs: []string{"fire=0"}, wantErr: true},
		{name: "not a number", pairs: []string{"fire=lots"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecord(tt.pairs)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgs) {
					t.Errorf("Expected ErrInvalidArgs, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for id, qty := range tt.want {
				if got[id] != qty {
					t.Errorf("Expected %s=%d, got %d", id, qty, got[id])
				}
			}
		})
	}
}

func TestFormatRecord(t *testing.T) {
	if got := FormatRecord(nil); got != "(none)" {
		t.Errorf("Expected '(none)', got '%s'", got)
	}
	if got := FormatRecord(fabricate.Record{"c7": 1, "c2": 2}); got != "c2=2 c7=1" {
		t.Errorf("Expected 'c2=2 c7=1', got '%s'", got)
	}
}

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog(filepath.Join("..", "testdata", "alchemy.json"))
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if catalog.Name != "alchemy" {
		t.Errorf("Expected catalog 'alchemy', got '%s'", catalog.Name)
	}
	if _, ok := catalog.Recipe("storm"); !ok {
		t.Error("Expected recipe 'storm' to be loaded")
	}

	if _, err := LoadCatalog(""); !errors.Is(err, ErrInvalidArgs) {
		t.Errorf("Expected ErrInvalidArgs for empty path, got %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"name": ""}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalog(bad); err == nil {
		t.Error("Expected error for invalid catalog")
	}
}

func TestLoadInventory(t *testing.T) {
	record, err := LoadInventory(filepath.Join("..", "testdata", "satchel.json"))
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if record["c5"] != 3 || len(record) != 4 {
		t.Errorf("Expected plain record to load, got %v", record)
	}

	snapshot, err := LoadInventory(filepath.Join("..", "testdata", "workbench.json"))
	if err != nil {
		t.Fatalf("LoadInventory failed for snapshot: %v", err)
	}
	if snapshot["c3"] != 2 || len(snapshot) != 5 {
		t.Errorf("Expected snapshot contents, got %v", snapshot)
	}

	if _, err := LoadInventory(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestNewLoggerHonoursVerbose(t *testing.T) {
	var stderr bytes.Buffer
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Bool("verbose", false, "")
	cmd.SetErr(&stderr)

	NewLogger(cmd).Debugf("hidden %d", 1)
	if stderr.Len() != 0 {
		t.Errorf("Expected no debug output by default, got '%s'", stderr.String())
	}

	if err := cmd.Flags().Set("verbose", "true"); err != nil {
		t.Fatal(err)
	}
	NewLogger(cmd).Debugf("shown %d", 2)
	if !strings.Contains(stderr.String(), "shown 2") {
		t.Errorf("Expected debug output with --verbose, got '%s'", stderr.String())
	}
}
