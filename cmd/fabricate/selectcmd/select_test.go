package selectcmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

var (
	catalogFile = filepath.Join("..", "testdata", "alchemy.json")
	satchelFile = filepath.Join("..", "testdata", "satchel.json")
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestSelectText(t *testing.T) {
	out, err := run(t, "-c", catalogFile, "-i", satchelFile, "-e", "fire=3", "-e", "air=1")
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	for _, want := range []string{
		"components: c2=2 c7=1",
		"essences: air=1 fire=4",
		"sufficient: true",
		"deficit: 0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain '%s', got:\n%s", want, out)
		}
	}
}

func TestSelectJSON(t *testing.T) {
	out, err := run(t, "--catalog", catalogFile, "--inventory", satchelFile, "--essence", "water=1", "--json")
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	var got result
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("Expected JSON output, got %v: %s", err, out)
	}
	if got.Sufficient {
		t.Error("Expected insufficient selection without any water source")
	}
	if len(got.Components) != 0 {
		t.Errorf("Expected empty selection, got %v", got.Components)
	}
	if got.Deficit != 1 {
		t.Errorf("Expected deficit 1, got %d", got.Deficit)
	}
}

func TestSelectNodeLimit(t *testing.T) {
	out, err := run(t, "-c", catalogFile, "-i", satchelFile, "-e", "fire=3", "-e", "air=1", "--node-limit", "5")
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if !strings.Contains(out, "search truncated after 5 nodes") {
		t.Errorf("Expected truncation notice, got:\n%s", out)
	}
}

func TestSelectErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no essences", args: []string{"-c", catalogFile, "-i", satchelFile}, want: "at least one --essence"},
		{name: "unknown essence", args: []string{"-c", catalogFile, "-i", satchelFile, "-e", "fier=1"}, want: "cannot resolve \"fier\""},
		{name: "missing catalog", args: []string{"-i", satchelFile, "-e", "fire=1"}, want: "--catalog is required"},
		{name: "negative limit", args: []string{"-c", catalogFile, "-i", satchelFile, "-e", "fire=1", "--node-limit", "-1"}, want: "must not be negative"},
		{name: "positional args", args: []string{"extra"}, want: "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing '%s', got '%v'", tt.want, err)
			}
		})
	}
}
