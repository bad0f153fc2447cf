package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

func write(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	be.Err(t, os.WriteFile(path, []byte(body), 0o600), nil)
	return path
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	write(t, root, `
[prelude]
paths = ["lib", "/opt/es"]
no_std = true

[native]
cc = "clang"
ldflags = ["-lm"]

[wasm]
initial_memory = 131072
max_memory = 262144
`)
	nested := filepath.Join(root, "src", "app")
	be.Err(t, os.MkdirAll(nested, 0o750), nil)

	m, ok, err := Discover(nested)
	be.Err(t, err, nil)
	be.True(t, ok)
	be.Equal(t, m.Root, root)
	be.Equal(t, m.Config.Prelude.Paths, []string{filepath.Join(root, "lib"), "/opt/es"})
	be.True(t, m.Config.Prelude.NoStd)
	be.Equal(t, m.Config.Native.CC, "clang")
	be.Equal(t, m.Config.Native.LDFlags, []string{"-lm"})
	be.Equal(t, m.Config.WASM.InitialMemory, uint64(131072))
	be.Equal(t, m.Config.WASM.MaxMemory, uint64(262144))
}

func TestDiscoverNone(t *testing.T) {
	m, ok, err := Discover(t.TempDir())
	be.Err(t, err, nil)
	be.True(t, !ok)
	be.True(t, m == nil)
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[prelude\n", "failed to parse TOML"},
		{"unknown key", "[native]\nlinker = \"ld\"\n", "unknown keys: native.linker"},
		{"memory", "[wasm]\ninitial_memory = 1048576\nmax_memory = 65536\n", "exceeds max_memory"},
		{"empty path", "[prelude]\npaths = [\"\"]\n", "empty entry"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := write(t, t.TempDir(), tc.body)
			_, err := Load(path)
			be.Err(t, err, tc.want)
		})
	}
}
