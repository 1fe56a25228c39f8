package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/roach88/sqlsafe/internal/ident"
	"github.com/roach88/sqlsafe/internal/query"
)

// EnvPrefix starts every environment variable the CLI reads.
const EnvPrefix = "SQLSAFE_"

// configFileNames are looked up in the working directory when --config is
// not given.
var configFileNames = []string{"sqlsafe.yaml", "sqlsafe.yml"}

// Config is the resolved CLI configuration.
type Config struct {
	Format             string   `koanf:"format"`
	Verbose            bool     `koanf:"verbose"`
	ParenthesizeGroups bool     `koanf:"parenthesize_groups"`
	ExtraKeywords      []string `koanf:"extra_keywords"`

	// File is the config file that was loaded, or "".
	File string `koanf:"-"`
}

// Validator returns the identifier validator the config describes.
func (c *Config) Validator() ident.Validator {
	if len(c.ExtraKeywords) == 0 {
		return ident.Default()
	}
	return ident.New(ident.WithExtraKeywords(c.ExtraKeywords...))
}

// BuilderOptions returns the query options the config describes.
func (c *Config) BuilderOptions() []query.Option {
	var opts []query.Option
	if c.ParenthesizeGroups {
		opts = append(opts, query.WithParenthesizedGroups())
	}
	return opts
}

// findConfigFile returns explicit, or the first default config file present.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// LoadConfig resolves configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"format":              "text",
		"verbose":             false,
		"parenthesize_groups": false,
		"extra_keywords":      []string{},
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: SQLSAFE_EXTRA_KEYWORDS=a,b -> extra_keywords: [a b]
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if key == "extra_keywords" {
			return key, splitList(value)
		}
		return key, value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used

	if !isValidFormat(cfg.Format) {
		return nil, fmt.Errorf("invalid format %q: must be one of %v", cfg.Format, ValidFormats)
	}
	return &cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
