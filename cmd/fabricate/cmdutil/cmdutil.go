// Package cmdutil holds helpers shared by the fabricate subcommands.
package cmdutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/daniacca/fabricate/internal/fabricate"
)

// ErrInvalidArgs is returned when command arguments or flags are unusable.
var ErrInvalidArgs = errors.New("invalid arguments")

// NewLogger returns a console logger writing to the command's error stream.
// Debug output is enabled by the root --verbose flag.
func NewLogger(cmd *cobra.Command) *zap.SugaredLogger {
	level := zapcore.WarnLevel
	if verbose, err := cmd.Flags().GetBool("verbose"); err == nil && verbose {
		level = zapcore.DebugLevel
	}
	encoder := zap.NewDevelopmentEncoderConfig()
	encoder.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoder),
		zapcore.AddSync(cmd.ErrOrStderr()),
		level,
	)
	return zap.New(core).Sugar()
}

// LoadCatalog reads and builds a catalog from a JSON CatalogConfig file.
func LoadCatalog(path string) (*fabricate.Catalog, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: --catalog is required", ErrInvalidArgs)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var cfg fabricate.CatalogConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	catalog, err := fabricate.BuildCatalogFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("building catalog %s: %w", path, err)
	}
	return catalog, nil
}

// LoadInventory reads an inventory file. Both a plain {"id": qty} record
// and an inventory snapshot document are accepted.
func LoadInventory(path string) (fabricate.Record, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: --inventory is required", ErrInvalidArgs)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading inventory: %w", err)
	}
	if snap, err := fabricate.DecodeSnapshotJSON(data); err == nil && snap.Contents != nil {
		return snap.Contents, nil
	}
	var record fabricate.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parsing inventory %s: %w", path, err)
	}
	return record, nil
}

// ParseRecord parses id=qty pairs. A bare id counts as one unit and
// repeated ids accumulate.
func ParseRecord(pairs []string) (fabricate.Record, error) {
	record := make(fabricate.Record, len(pairs))
	for _, pair := range pairs {
		id, qty, found := strings.Cut(pair, "=")
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("%w: empty id in %q", ErrInvalidArgs, pair)
		}
		n := 1
		if found {
			var err error
			n, err = strconv.Atoi(strings.TrimSpace(qty))
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("%w: quantity in %q must be a positive integer", ErrInvalidArgs, pair)
			}
		}
		record[id] += n
	}
	return record, nil
}

// FormatRecord renders a record as "id=qty" pairs sorted by id.
func FormatRecord(record fabricate.Record) string {
	if len(record) == 0 {
		return "(none)"
	}
	ids := make([]string, 0, len(record))
	for id := range record {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s=%d", id, record[id])
	}
	return strings.Join(parts, " ")
}

// WriteJSON writes v as indented JSON to the command's output stream.
func WriteJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
