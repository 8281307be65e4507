package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	Encoding          string `mapstructure:"encoding" yaml:"encoding"`
	OutputDecimal     string `mapstructure:"output_decimal" yaml:"output_decimal"`
	OutputSuffix      string `mapstructure:"output_suffix" yaml:"output_suffix"`
	SampleChars       int    `mapstructure:"sample_chars" yaml:"sample_chars"`
	DecimalSampleRows int    `mapstructure:"decimal_sample_rows" yaml:"decimal_sample_rows"`
	CRLF              bool   `mapstructure:"crlf" yaml:"crlf"`
	PreviewRows       int    `mapstructure:"preview_rows" yaml:"preview_rows"`

	// Output column names
	BMIColumn      string `mapstructure:"bmi_column" yaml:"bmi_column"`
	CategoryColumn string `mapstructure:"category_column" yaml:"category_column"`

	// Extra header synonyms on top of the built-in sets
	WeightSynonyms []string `mapstructure:"weight_synonyms" yaml:"weight_synonyms"`
	HeightSynonyms []string `mapstructure:"height_synonyms" yaml:"height_synonyms"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// DefaultPath returns ~/.bmicsv/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".bmicsv", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.bmicsv/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = p
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("encoding", "utf-8-sig")
	v.SetDefault("output_decimal", ".")
	v.SetDefault("output_suffix", "_com_imc")
	v.SetDefault("sample_chars", 5000)
	v.SetDefault("decimal_sample_rows", 200)
	v.SetDefault("crlf", false)
	v.SetDefault("preview_rows", 0)
	v.SetDefault("bmi_column", "bmi")
	v.SetDefault("category_column", "category")
	v.SetDefault("weight_synonyms", []string{})
	v.SetDefault("height_synonyms", []string{})
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	return v
}

// Defaults returns the built-in configuration, ignoring files and env.
func Defaults() *Global {
	var c Global
	_ = newViper().Unmarshal(&c)
	return &c
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := newViper()
	v.SetEnvPrefix("BMICSV")
	v.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(p))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
