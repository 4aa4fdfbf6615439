// Package config loads telugubpe configuration from defaults, an optional
// config file, environment variables (TELUGUBPE_ prefix), and CLI flags,
// in increasing precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	LogLevel string       `mapstructure:"log_level"`
	Paths    PathsConfig  `mapstructure:"paths"`
	Train    TrainConfig  `mapstructure:"train"`
	Server   ServerConfig `mapstructure:"server"`
}

type PathsConfig struct {
	VocabPath  string `mapstructure:"vocab_path"`
	MergesPath string `mapstructure:"merges_path"`
}

type TrainConfig struct {
	VocabSize        int `mapstructure:"vocab_size"`
	MinPairFrequency int `mapstructure:"min_pair_frequency"`
	Workers          int `mapstructure:"workers"`
	MaxIterations    int `mapstructure:"max_iterations"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	MaxTextBytes    int    `mapstructure:"max_text_bytes"`
	RequestTimeout  int    `mapstructure:"request_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Paths: PathsConfig{
			VocabPath:  "models/telugu_tokenizer_vocab.json",
			MergesPath: "models/telugu_tokenizer_merges.json",
		},
		Train: TrainConfig{
			VocabSize:        5000,
			MinPairFrequency: 2,
			Workers:          0,
			MaxIterations:    0,
		},
		Server: ServerConfig{
			ListenAddr:      ":8001",
			MaxTextBytes:    4096,
			RequestTimeout:  30,
			ShutdownTimeout: 30,
		},
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
	fs.String("paths-vocab-path", defaults.Paths.VocabPath, "Path to vocabulary JSON file")
	fs.String("paths-merges-path", defaults.Paths.MergesPath, "Path to merges JSON file")
	fs.Int("train-vocab-size", defaults.Train.VocabSize, "Target vocabulary size for training")
	fs.Int("train-min-pair-frequency", defaults.Train.MinPairFrequency, "Lowest pair frequency that may still merge")
	fs.Int("train-workers", defaults.Train.Workers, "Worker count for pair counting (0 = all CPUs)")
	fs.Int("train-max-iterations", defaults.Train.MaxIterations, "Upper bound on merges (0 = unbounded)")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("server-max-text-bytes", defaults.Server.MaxTextBytes, "Maximum request text size in bytes")
	fs.Int("server-request-timeout", defaults.Server.RequestTimeout, "Per-request timeout in seconds")
	fs.Int("server-shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown drain period in seconds")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	v.SetEnvPrefix("TELUGUBPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("telugubpe")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("paths.vocab_path", c.Paths.VocabPath)
	v.SetDefault("paths.merges_path", c.Paths.MergesPath)
	v.SetDefault("train.vocab_size", c.Train.VocabSize)
	v.SetDefault("train.min_pair_frequency", c.Train.MinPairFrequency)
	v.SetDefault("train.workers", c.Train.Workers)
	v.SetDefault("train.max_iterations", c.Train.MaxIterations)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("server.request_timeout", c.Server.RequestTimeout)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
}

// bindFlags binds each CLI flag to its canonical dotted config key, so a
// changed flag overrides the config file while an untouched flag default
// does not shadow it. Flags absent from fs are skipped.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for key, name := range map[string]string{
		"log_level":                "log-level",
		"paths.vocab_path":         "paths-vocab-path",
		"paths.merges_path":        "paths-merges-path",
		"train.vocab_size":         "train-vocab-size",
		"train.min_pair_frequency": "train-min-pair-frequency",
		"train.workers":            "train-workers",
		"train.max_iterations":     "train-max-iterations",
		"server.listen_addr":       "server-listen-addr",
		"server.max_text_bytes":    "server-max-text-bytes",
		"server.request_timeout":   "server-request-timeout",
		"server.shutdown_timeout":  "server-shutdown-timeout",
	} {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}
