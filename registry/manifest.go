package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/sockmount/sockmount"
	"github.com/sockmount/sockmount/internal/ctxlog"
)

// manifestFile mirrors the on-disk shape of a module manifest.
type manifestFile struct {
	Modules []manifestBlock `hcl:"module,block"`
}

// manifestBlock selects one registered module. An omitted or empty exports
// list selects the module's full table.
type manifestBlock struct {
	Name    string   `hcl:"name,label"`
	Exports []string `hcl:"exports,optional"`
}

// Resolve implements sockmount.Resolver: it parses the manifest at path and
// projects the selected modules' export tables into one ordered list. Every
// failure is hard, mirroring a module that cannot be loaded: a manifest
// that does not parse, a module name nobody registered, or an export name
// the module does not provide.
func (r *Registry) Resolve(ctx context.Context, path string) ([]sockmount.Export, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	var file *hcl.File
	var diags hcl.Diagnostics
	if strings.EqualFold(filepath.Ext(path), ".json") {
		file, diags = parser.ParseJSONFile(path)
	} else {
		file, diags = parser.ParseHCLFile(path)
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest: %w", diags)
	}

	var manifest manifestFile
	if diags := gohcl.DecodeBody(file.Body, nil, &manifest); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest: %w", diags)
	}

	var exports []sockmount.Export
	for _, block := range manifest.Modules {
		table, ok := r.tables[block.Name]
		if !ok {
			return nil, fmt.Errorf("module %q is not registered (known modules: %s)",
				block.Name, strings.Join(r.names, ", "))
		}
		if len(block.Exports) == 0 {
			exports = append(exports, table...)
			continue
		}
		for _, want := range block.Exports {
			exp, ok := findExport(table, want)
			if !ok {
				return nil, fmt.Errorf("module %q does not provide export %q", block.Name, want)
			}
			exports = append(exports, exp)
		}
	}

	logger.Debug("Manifest resolved.", "file", filepath.Base(path), "modules", len(manifest.Modules), "exports", len(exports))
	return exports, nil
}

func findExport(table []sockmount.Export, name string) (sockmount.Export, bool) {
	for _, exp := range table {
		if exp.Name == name {
			return exp, true
		}
	}
	return sockmount.Export{}, false
}
