package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/daniacca/fabricate/internal/fabricate"
)

// ServerConfig holds the server configuration
type ServerConfig struct {
	Addr        string
	CatalogFile string

	StoreDriver string // memory, sqlite or postgres
	StoreDSN    string

	SnapshotDriver string // none, fs or s3
	SnapshotDir    string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3PathStyle    bool

	MaxCandidateTypes int
	NodeLimit         int
	LogLevel          string
}

// SelectionOptions returns the search bounds configured for the server.
func (c ServerConfig) SelectionOptions() fabricate.SelectionOptions {
	return fabricate.SelectionOptions{
		MaxCandidateTypes: c.MaxCandidateTypes,
		NodeLimit:         c.NodeLimit,
	}
}

// configResolver defines how to resolve a single configuration value
type configResolver struct {
	flagName    string
	envVarName  string
	defaultVal  string
	description string
	setter      func(*ServerConfig, string) error
}

func intSetter(name string, set func(*ServerConfig, int)) func(*ServerConfig, string) error {
	return func(c *ServerConfig, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid value for %s: %q (want a non-negative integer)", name, v)
		}
		set(c, n)
		return nil
	}
}

func oneOf(name string, allowed []string, set func(*ServerConfig, string)) func(*ServerConfig, string) error {
	return func(c *ServerConfig, v string) error {
		v = strings.ToLower(v)
		for _, a := range allowed {
			if v == a {
				set(c, v)
				return nil
			}
		}
		return fmt.Errorf("invalid value for %s: %q (want one of %s)", name, v, strings.Join(allowed, ", "))
	}
}

func serverResolvers() []configResolver {
	return []configResolver{
		{
			flagName:    "addr",
			envVarName:  "FABRICATE_ADDR",
			defaultVal:  ":8080",
			description: "HTTP listen address (e.g. :8080, 0.0.0.0:8080)",
			setter:      func(c *ServerConfig, v string) error { c.Addr = v; return nil },
		},
		{
			flagName:    "catalog-file",
			envVarName:  "FABRICATE_CATALOG_FILE",
			defaultVal:  "",
			description: "optional path to a JSON catalog config file to load at startup",
			setter:      func(c *ServerConfig, v string) error { c.CatalogFile = v; return nil },
		},
		{
			flagName:    "store-driver",
			envVarName:  "FABRICATE_STORE_DRIVER",
			defaultVal:  "memory",
			description: "Where catalogs and inventories are persisted: memory, sqlite, postgres",
			setter: oneOf("store-driver", []string{"memory", "sqlite", "postgres"},
				func(c *ServerConfig, v string) { c.StoreDriver = v }),
		},
		{
			flagName:    "store-dsn",
			envVarName:  "FABRICATE_STORE_DSN",
			defaultVal:  "",
			description: "Database file (sqlite) or connection string (postgres)",
			setter:      func(c *ServerConfig, v string) error { c.StoreDSN = v; return nil },
		},
		{
			flagName:    "snapshot-driver",
			envVarName:  "FABRICATE_SNAPSHOT_DRIVER",
			defaultVal:  "none",
			description: "Where inventory snapshots are written: none, fs, s3",
			setter: oneOf("snapshot-driver", []string{"none", "fs", "s3"},
				func(c *ServerConfig, v string) { c.SnapshotDriver = v }),
		},
		{
			flagName:    "snapshot-dir",
			envVarName:  "FABRICATE_SNAPSHOT_DIR",
			defaultVal:  "./data",
			description: "Directory where inventory snapshots are stored (fs driver)",
			setter:      func(c *ServerConfig, v string) error { c.SnapshotDir = v; return nil },
		},
		{
			flagName:    "s3-bucket",
			envVarName:  "FABRICATE_S3_BUCKET",
			defaultVal:  "",
			description: "Bucket for inventory snapshots (s3 driver)",
			setter:      func(c *ServerConfig, v string) error { c.S3Bucket = v; return nil },
		},
		{
			flagName:    "s3-region",
			envVarName:  "FABRICATE_S3_REGION",
			defaultVal:  "us-east-1",
			description: "Region of the snapshot bucket",
			setter:      func(c *ServerConfig, v string) error { c.S3Region = v; return nil },
		},
		{
			flagName:    "s3-endpoint",
			envVarName:  "FABRICATE_S3_ENDPOINT",
			defaultVal:  "",
			description: "Custom S3 endpoint, e.g. a MinIO URL",
			setter:      func(c *ServerConfig, v string) error { c.S3Endpoint = v; return nil },
		},
		{
			flagName:    "s3-path-style",
			envVarName:  "FABRICATE_S3_PATH_STYLE",
			defaultVal:  "false",
			description: "Use path-style S3 addressing",
			setter: func(c *ServerConfig, v string) error {
				b, err := strconv.ParseBool(v)
				if err != nil {
					return fmt.Errorf("invalid value for s3-path-style: %q", v)
				}
				c.S3PathStyle = b
				return nil
			},
		},
		{
			flagName:    "max-candidate-types",
			envVarName:  "FABRICATE_MAX_CANDIDATE_TYPES",
			defaultVal:  "0",
			description: "Cap on distinct component types searched per selection; 0 means unbounded",
			setter:      intSetter("max-candidate-types", func(c *ServerConfig, n int) { c.MaxCandidateTypes = n }),
		},
		{
			flagName:    "node-limit",
			envVarName:  "FABRICATE_NODE_LIMIT",
			defaultVal:  "0",
			description: "Cap on search tree nodes per selection; 0 means unbounded",
			setter:      intSetter("node-limit", func(c *ServerConfig, n int) { c.NodeLimit = n }),
		},
		{
			flagName:    "log-level",
			envVarName:  "FABRICATE_LOG_LEVEL",
			defaultVal:  "info",
			description: "Log level: debug, info, warn, error",
			setter:      func(c *ServerConfig, v string) error { c.LogLevel = v; return nil },
		},
	}
}

// loadServerConfig resolves every option from args, then the environment,
// then its default. A flag set explicitly on the command line always wins.
func loadServerConfig(args []string, getenv func(string) string) (ServerConfig, error) {
	cfg := ServerConfig{}
	resolvers := serverResolvers()

	flags := pflag.NewFlagSet("fabricate-server", pflag.ContinueOnError)
	flagVars := make(map[string]*string)
	for _, resolver := range resolvers {
		flagVars[resolver.flagName] = flags.String(resolver.flagName, resolver.defaultVal, resolver.description)
	}
	if err := flags.Parse(args); err != nil {
		return ServerConfig{}, err
	}

	for _, resolver := range resolvers {
		var value string
		if flags.Changed(resolver.flagName) {
			value = *flagVars[resolver.flagName]
		} else if envValue := getenv(resolver.envVarName); envValue != "" {
			value = envValue
		} else {
			value = resolver.defaultVal
		}
		if err := resolver.setter(&cfg, value); err != nil {
			return ServerConfig{}, err
		}
	}

	if cfg.SnapshotDriver == "s3" && cfg.S3Bucket == "" {
		return ServerConfig{}, fmt.Errorf("s3-bucket is required when snapshot-driver is s3")
	}
	if cfg.StoreDriver == "postgres" && cfg.StoreDSN == "" {
		return ServerConfig{}, fmt.Errorf("store-dsn is required when store-driver is postgres")
	}
	if cfg.StoreDriver == "sqlite" && cfg.StoreDSN == "" {
		cfg.StoreDSN = "fabricate.db"
	}
	return cfg, nil
}

// loadCatalogFromFile loads a catalog configuration from a JSON file.
// Returns the CatalogConfig and the built Catalog, or an error.
func loadCatalogFromFile(path string) (fabricate.CatalogConfig, *fabricate.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fabricate.CatalogConfig{}, nil, err
	}

	var cfg fabricate.CatalogConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fabricate.CatalogConfig{}, nil, fmt.Errorf("parse %s: %w", path, err)
	}

	catalog, err := fabricate.BuildCatalogFromConfig(cfg)
	if err != nil {
		return fabricate.CatalogConfig{}, nil, err
	}
	return cfg, catalog, nil
}
