package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"
	"github.com/specialistvlad/pathfinder/internal/ctxlog"
	"github.com/specialistvlad/pathfinder/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

const profileExt = ".hcl"

// fileRoot is the top-level schema of a profile file.
type fileRoot struct {
	Service *Service `hcl:"service,block"`
	Search  *Search  `hcl:"search,block"`
}

// Load decodes every profile file found under paths and merges them in
// order, later files overriding earlier ones. A path may be a single .hcl
// file or a directory that is searched recursively. Paths that do not exist
// are skipped.
func Load(ctx context.Context, paths ...string) (*Profile, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Profile loader started.", "path_count", len(paths))

	files, err := findProfileFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered profile files.", "count", len(files))

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": envObject(os.Environ())},
	}
	parser := hclparse.NewParser()
	profile := &Profile{}

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		var decoded Profile
		if root.Service != nil {
			decoded.Service = *root.Service
		}
		if root.Search != nil {
			decoded.Search = *root.Search
		}
		profile.merge(decoded)
		logger.Debug("Profile file decoded.", "file", file, "service", root.Service != nil, "search", root.Search != nil)
	}

	return profile, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set keep their value. A missing file is not an
// error. It reports whether a file was loaded.
func LoadDotEnv(ctx context.Context, path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("error accessing %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("failed to load %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Debug("Environment file loaded.", "path", path)
	return true, nil
}

// envObject exposes environ as a cty object so profiles can say env.NAME.
func envObject(environ []string) cty.Value {
	vars := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}

// findProfileFiles expands paths into a de-duplicated list of .hcl files.
func findProfileFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			all = append(all, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) != profileExt {
				return nil, fmt.Errorf("profile %s: expected a %s file", path, profileExt)
			}
			add(path)
			continue
		}

		found, err := fsutil.FindFilesByExtension(path, profileExt)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	return all, nil
}
