package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Corpus struct {
	Root string `mapstructure:"root"`
}

type Corpora struct {
	ICSI Corpus `mapstructure:"icsi"`
	AMI  Corpus `mapstructure:"ami"`
}

type Segmentation struct {
	// MinSegmentSize is the minimum utterance-count distance enforced
	// between surviving ground-truth boundaries.
	MinSegmentSize  int   `mapstructure:"min_segment_size"`
	TimedUtterances bool  `mapstructure:"timed_utterances"`
	Restricted      bool  `mapstructure:"restricted"`
	Seed            int64 `mapstructure:"seed"`
}

type Embeddings struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
}

type Root struct {
	Pipeline struct {
		Name    string `mapstructure:"name"`
		Version string `mapstructure:"version"`
		LogLvl  string `mapstructure:"log_level"`
	} `mapstructure:"pipeline"`
	Corpora      Corpora      `mapstructure:"corpora"`
	Segmentation Segmentation `mapstructure:"segmentation"`
	Embeddings   Embeddings   `mapstructure:"embeddings"`
	Paths        struct {
		Outputs   string `mapstructure:"outputs"`
		ResultsDB string `mapstructure:"results_db"`
	} `mapstructure:"paths"`
}

// Load reads config.yaml from config/<CONFIG_ENV>/ or the working
// directory, with TOPICSEG_* environment overrides and defaults for every
// knob. A missing config file is fine; a malformed one is not.
func Load() (*Root, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join("config", env))
	v.AddConfigPath(".")
	v.SetEnvPrefix("TOPICSEG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("pipeline.name", "topicseg")
	v.SetDefault("pipeline.version", "0.1.0")
	v.SetDefault("pipeline.log_level", "info")
	v.SetDefault("corpora.icsi.root", "data/ICSI")
	v.SetDefault("corpora.ami.root", "data/AMI")
	v.SetDefault("segmentation.min_segment_size", 10)
	v.SetDefault("segmentation.timed_utterances", false)
	v.SetDefault("segmentation.restricted", false)
	v.SetDefault("segmentation.seed", 0)
	v.SetDefault("embeddings.endpoint", "https://api.openai.com/v1/embeddings")
	v.SetDefault("embeddings.model", "text-embedding-3-small")
	v.SetDefault("embeddings.api_key", "")
	v.SetDefault("paths.outputs", "outputs")
	v.SetDefault("paths.results_db", filepath.Join("outputs", "results.db"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
