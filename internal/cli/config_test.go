package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlsafe/internal/ident"
)

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", "text", "")
	flags.Bool("verbose", false, "")
	flags.Bool("parenthesize-groups", false, "")
	flags.StringSlice("extra-keywords", nil, "")
	require.NoError(t, flags.Parse(args))
	return flags
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", testFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Format)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.ParenthesizeGroups)
	assert.Empty(t, cfg.ExtraKeywords)
	assert.Empty(t, cfg.File)
	assert.Empty(t, cfg.BuilderOptions())
}

func TestLoadConfig_DefaultFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeConfig(t, dir, "sqlsafe.yaml", "format: json\nparenthesize_groups: true\nextra_keywords: [tenant]\n")

	cfg, err := LoadConfig("", testFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "sqlsafe.yaml", cfg.File)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.ParenthesizeGroups)
	assert.Equal(t, []string{"tenant"}, cfg.ExtraKeywords)
	assert.Len(t, cfg.BuilderOptions(), 1)
}

func TestLoadConfig_YMLExtension(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeConfig(t, dir, "sqlsafe.yml", "verbose: true\n")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlsafe.yml", cfg.File)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, t.TempDir(), "custom.yaml", "format: json\n")

	cfg, err := LoadConfig(path, testFlags(t))
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), testFlags(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeConfig(t, dir, "sqlsafe.yaml", "format: text\nextra_keywords: [tenant]\n")
	t.Setenv("SQLSAFE_FORMAT", "json")
	t.Setenv("SQLSAFE_EXTRA_KEYWORDS", "tenant, region ,")

	cfg, err := LoadConfig("", testFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, []string{"tenant", "region"}, cfg.ExtraKeywords)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SQLSAFE_FORMAT", "json")

	cfg, err := LoadConfig("", testFlags(t, "--format", "text", "--parenthesize-groups", "--extra-keywords", "a,b"))
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Format)
	assert.True(t, cfg.ParenthesizeGroups)
	assert.Equal(t, []string{"a", "b"}, cfg.ExtraKeywords)
}

func TestLoadConfig_UnchangedFlagsDoNotOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SQLSAFE_FORMAT", "json")

	cfg, err := LoadConfig("", testFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoadConfig_InvalidFormat(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SQLSAFE_FORMAT", "xml")

	_, err := LoadConfig("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestConfig_Validator(t *testing.T) {
	assert.Same(t, ident.Default(), (&Config{}).Validator())

	v := (&Config{ExtraKeywords: []string{"tenant"}}).Validator()
	assert.Error(t, v.Validate("tenant", ident.KindTable))
	assert.Error(t, v.Validate("select", ident.KindTable))
	assert.NoError(t, v.Validate("users", ident.KindTable))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(""))
}
