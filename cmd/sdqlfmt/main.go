// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package main is sdqlfmt, a thin cobra CLI around the sdql facade: it reads
// a schema config file and a JSON query file from disk and prints the
// compiled SQL, or a diagnostic on failure.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	sdql "github.com/hashicorp/go-sdql"
	"github.com/hashicorp/go-sdql/compile"
	"github.com/hashicorp/go-sdql/schema"
	"github.com/hashicorp/go-sdql/schema/configfile"
)

type buildFlags struct {
	configPath string
	queryPath  string
	kind       string
	audit      bool
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "sdqlfmt",
		Short: "Compile SDQL JSON queries to SQL",
	}

	rootCmd.AddCommand(buildCmd())
	rootCmd.AddCommand(checkCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildCmd() *cobra.Command {
	flags := &buildFlags{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile a query file against a config file and print {sql, params}",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBuild(flags)
		},
	}
	addBuildFlags(cmd, flags)
	return cmd
}

func checkCmd() *cobra.Command {
	flags := &buildFlags{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compile a query file and only report success/failure plus the identifier audit",
		RunE: func(_ *cobra.Command, _ []string) error {
			flags.audit = true
			return runBuild(flags)
		},
	}
	addBuildFlags(cmd, flags)
	return cmd
}

func addBuildFlags(cmd *cobra.Command, flags *buildFlags) {
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "path to a .toml or .yaml schema config file (required)")
	cmd.Flags().StringVarP(&flags.queryPath, "query", "q", "", "path to a JSON query file (required)")
	cmd.Flags().StringVarP(&flags.kind, "kind", "k", "select", "query kind: select, aggregate, insert, update, delete")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("query")
}

func runBuild(flags *buildFlags) error {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}

	raw, err := loadQuery(flags.queryPath)
	if err != nil {
		return err
	}

	sql, params, err := compileQuery(flags.kind, raw, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sdqlfmt: %v\n", err)
		return err
	}

	if flags.audit {
		if bad := compile.Audit(cfg, sql); bad != "" {
			err := fmt.Errorf("identifier audit failed: unrecognized identifier %q", bad)
			fmt.Fprintf(os.Stderr, "sdqlfmt: %v\n", err)
			return err
		}
		fmt.Println("OK")
		return nil
	}

	out := map[string]any{"sql": sql}
	if params != nil {
		out["params"] = params
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func loadConfig(path string) (schema.Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return configfile.LoadTOML(path)
	case ".yaml", ".yml":
		return configfile.LoadYAML(path)
	default:
		return schema.Config{}, fmt.Errorf("sdqlfmt: unrecognized config extension %q (want .toml/.yaml/.yml)", path)
	}
}

func loadQuery(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sdqlfmt: read query file %q: %w", path, err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("sdqlfmt: decode query file %q: %w", path, err)
	}
	return raw, nil
}

func compileQuery(kind string, raw map[string]any, cfg schema.Config) (string, []any, error) {
	switch kind {
	case "select":
		res, err := sdql.BuildSelect(raw, cfg, sdql.WithStrictDiagnostics())
		if err != nil {
			return "", nil, err
		}
		return res.SQL, res.Params, nil
	case "aggregate":
		res, err := sdql.BuildAggregation(raw, cfg, sdql.WithStrictDiagnostics())
		if err != nil {
			return "", nil, err
		}
		return res.SQL, res.Params, nil
	case "insert":
		sql, err := sdql.BuildInsert(raw, cfg, sdql.WithStrictDiagnostics())
		return sql, nil, err
	case "update":
		sql, err := sdql.BuildUpdate(raw, cfg, sdql.WithStrictDiagnostics())
		return sql, nil, err
	case "delete":
		sql, err := sdql.BuildDelete(raw, cfg, sdql.WithStrictDiagnostics())
		return sql, nil, err
	default:
		return "", nil, fmt.Errorf("sdqlfmt: unknown query kind %q (want select/aggregate/insert/update/delete)", kind)
	}
}
