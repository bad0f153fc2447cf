package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"esc/internal/buildpipeline"
	"esc/internal/codegen"
	"esc/internal/config"
)

// loadManifest finds the esc.toml governing path; nil when there is none.
func loadManifest(path string) (*config.Manifest, error) {
	m, _, err := config.Discover(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	return m, nil
}

// compileRequest builds the shared front-end settings for path. --no-std
// overrides [prelude].no_std only when given explicitly.
func compileRequest(cmd *cobra.Command, path string, target codegen.Target, m *config.Manifest) (buildpipeline.CompileRequest, error) {
	req := buildpipeline.CompileRequest{
		Path:    path,
		Target:  target,
		Display: displayName(path),
	}
	if m != nil {
		req.NoStd = m.Config.Prelude.NoStd
		req.PreludePaths = m.Config.Prelude.Paths
	}
	flag := cmd.Root().PersistentFlags().Lookup("no-std")
	if flag != nil && flag.Changed {
		noStd, err := cmd.Root().PersistentFlags().GetBool("no-std")
		if err != nil {
			return req, fmt.Errorf("failed to get no-std flag: %w", err)
		}
		req.NoStd = noStd
	}
	return req, nil
}

func displayName(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	return buildpipeline.DisplayName(path, wd)
}

func targetFor(wasm bool) codegen.Target {
	if wasm {
		return codegen.WASM
	}
	return codegen.Native
}
