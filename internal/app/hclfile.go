package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/sockmount/sockmount/internal/ctxlog"
	"github.com/sockmount/sockmount/internal/ctyutil"
)

// fileConfig mirrors the on-disk shape of the optional config file:
//
//	addr    = ":8080"
//	root    = "/srv/handlers"
//	verbose = true
//
//	mount "chat" {}
//	mount "admin" {}
//
//	extras = ["greetings from config", 42]
type fileConfig struct {
	Addr            string       `hcl:"addr,optional"`
	Root            string       `hcl:"root,optional"`
	Verbose         bool         `hcl:"verbose,optional"`
	ContinueOnError bool         `hcl:"continue_on_error,optional"`
	Mounts          []mountBlock `hcl:"mount,block"`
	Extras          cty.Value    `hcl:"extras,optional"`
}

// mountBlock names one handler directory to scan, relative to the root.
type mountBlock struct {
	Dir string `hcl:"dir,label"`
}

// applyFileConfig loads cfg.ConfigPath and merges it into cfg. Values the
// command line set explicitly win: the file only fills addr and root when
// they are still at their defaults. Mount directories concatenate with the
// file's entries first, so file-declared handlers dispatch before
// flag-declared ones. Extras can only come from the file.
func applyFileConfig(ctx context.Context, cfg *Config) error {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	var file *hcl.File
	var diags hcl.Diagnostics
	if strings.EqualFold(filepath.Ext(cfg.ConfigPath), ".json") {
		file, diags = parser.ParseJSONFile(cfg.ConfigPath)
	} else {
		file, diags = parser.ParseHCLFile(cfg.ConfigPath)
	}
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse config file %s: %w", cfg.ConfigPath, diags)
	}

	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		return fmt.Errorf("failed to decode config file %s: %w", cfg.ConfigPath, diags)
	}

	if cfg.Addr == DefaultAddr && fc.Addr != "" {
		cfg.Addr = fc.Addr
	}
	if cfg.Root == "" && fc.Root != "" {
		cfg.Root = fc.Root
	}
	cfg.Verbose = cfg.Verbose || fc.Verbose
	cfg.ContinueOnError = cfg.ContinueOnError || fc.ContinueOnError

	if len(fc.Mounts) > 0 {
		mounts := make([]string, 0, len(fc.Mounts)+len(cfg.Mounts))
		for _, m := range fc.Mounts {
			mounts = append(mounts, m.Dir)
		}
		cfg.Mounts = append(mounts, cfg.Mounts...)
	}

	extras, err := ctyutil.ToNativeSlice(fc.Extras)
	if err != nil {
		return fmt.Errorf("invalid extras in config file %s: %w", cfg.ConfigPath, err)
	}
	cfg.Extras = append(cfg.Extras, extras...)

	logger.Debug("Config file applied.", "file", cfg.ConfigPath, "mounts", len(fc.Mounts), "extras", len(extras))
	return nil
}
