package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{
			name:     "select",
			args:     []string{"select", "-c", filepath.Join("testdata", "alchemy.json"), "-i", filepath.Join("testdata", "satchel.json"), "-e", "fire=3", "-e", "air=1"},
			wantCode: ReturnCodeSuccess,
			wantOut:  "components: c2=2 c7=1",
		},
		{
			name:     "verbose select logs diagnostics",
			args:     []string{"-v", "select", "-c", filepath.Join("testdata", "alchemy.json"), "-i", filepath.Join("testdata", "satchel.json"), "-e", "earth=1"},
			wantCode: ReturnCodeSuccess,
			wantErr:  "essence selection",
		},
		{
			name:     "check",
			args:     []string{"check", "-c", filepath.Join("testdata", "alchemy.json"), "-i", filepath.Join("testdata", "workbench.json"), "-r", "torch"},
			wantCode: ReturnCodeSuccess,
			wantOut:  "recipe torch is craftable",
		},
		{
			name:     "unknown command",
			args:     []string{"brew"},
			wantCode: ReturnCodeError,
			wantErr:  "unknown command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout := &bytes.Buffer{}
			stderr := &bytes.Buffer{}
			code := Run(t.Context(), &bytes.Buffer{}, stdout, stderr, tt.args)
			if code != tt.wantCode {
				t.Errorf("Expected exit code %d, got %d (stderr: %s)", tt.wantCode, code, stderr.String())
			}
			if !strings.Contains(stdout.String(), tt.wantOut) {
				t.Errorf("Expected stdout to contain '%s', got:\n%s", tt.wantOut, stdout.String())
			}
			if !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("Expected stderr to contain '%s', got:\n%s", tt.wantErr, stderr.String())
			}
		})
	}
}
