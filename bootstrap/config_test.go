// Copyright 2025 The Shinobi Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinobi-build/shinobi/pathtools"
)

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	cmd := NewCommand()
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd.Flags()
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := workspace(t, nil)

	cfg, err := LoadConfig(LoadOptions{SearchDir: dir, Flags: testFlags(t)})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)

	seps, err := cfg.Separators()
	require.NoError(t, err)
	assert.Equal(t, pathtools.DefaultSeparators(), seps)
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := workspace(t, map[string]string{
		ConfigFileName + ".yaml": `out: file.ninja
depfile: file.ninja.d
builddir: file-build
api_path_separator: \
`,
	})

	t.Run("file", func(t *testing.T) {
		cfg, err := LoadConfig(LoadOptions{SearchDir: dir, Flags: testFlags(t)})
		require.NoError(t, err)
		assert.Equal(t, "file.ninja", cfg.Out)
		assert.Equal(t, "file.ninja.d", cfg.Depfile)
		assert.Equal(t, "file-build", cfg.BuildDir)
		assert.Equal(t, `\`, cfg.APIPathSeparator)
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("SHINOBI_OUT", "env.ninja")
		t.Setenv("BUILDDIR", "env-build")
		cfg, err := LoadConfig(LoadOptions{SearchDir: dir, Flags: testFlags(t)})
		require.NoError(t, err)
		assert.Equal(t, "env.ninja", cfg.Out)
		assert.Equal(t, "file.ninja.d", cfg.Depfile)
		assert.Equal(t, "env-build", cfg.BuildDir)
	})

	t.Run("prefixed env wins over BUILDDIR", func(t *testing.T) {
		t.Setenv("BUILDDIR", "env-build")
		t.Setenv("SHINOBI_BUILDDIR", "prefixed-build")
		cfg, err := LoadConfig(LoadOptions{SearchDir: dir, Flags: testFlags(t)})
		require.NoError(t, err)
		assert.Equal(t, "prefixed-build", cfg.BuildDir)
	})

	t.Run("flags", func(t *testing.T) {
		t.Setenv("SHINOBI_OUT", "env.ninja")
		cfg, err := LoadConfig(LoadOptions{
			SearchDir: dir,
			Flags:     testFlags(t, "-o", "flag.ninja", "--api-path-separator", "/", "-v"),
		})
		require.NoError(t, err)
		assert.Equal(t, "flag.ninja", cfg.Out)
		assert.Equal(t, "/", cfg.APIPathSeparator)
		assert.True(t, cfg.Verbose)
	})
}

func TestLoadConfigExplicitFile(t *testing.T) {
	dir := workspace(t, map[string]string{
		ConfigFileName + ".yaml": "out: searched.ninja\n",
		"conf/shinobi.yaml":      "out: explicit.ninja\nverbose: true\n",
	})

	cfg, err := LoadConfig(LoadOptions{
		ConfigFile: filepath.Join(dir, "conf", "shinobi.yaml"),
		SearchDir:  dir,
	})
	require.NoError(t, err)
	assert.Equal(t, "explicit.ninja", cfg.Out)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := workspace(t, map[string]string{
		ConfigFileName + ".yaml": "out: [unterminated\n",
	})

	_, err := LoadConfig(LoadOptions{SearchDir: dir})
	assert.ErrorContains(t, err, "reading config file")

	_, err = LoadConfig(LoadOptions{ConfigFile: filepath.Join(dir, "missing.yaml")})
	assert.ErrorContains(t, err, "missing.yaml")
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name string
		cfg  Config
		err  string
	}{
		{
			name: "defaults",
			cfg:  DefaultConfig(),
		},
		{
			name: "depfile with out",
			cfg:  Config{Out: "build.ninja", Depfile: "build.ninja.d", FSPathSeparator: "/", APIPathSeparator: "/"},
		},
		{
			name: "depfile without out",
			cfg:  Config{Depfile: "build.ninja.d"},
			err:  "--depfile requires --out",
		},
		{
			name: "bad separator",
			cfg:  Config{FSPathSeparator: "/", APIPathSeparator: ":"},
			err:  `invalid path separator ":"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.err == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tc.err)
			}
		})
	}
}
