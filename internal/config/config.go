package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"phishguard/internal/models"
)

// EnvPrefix is prepended to environment overrides, e.g. PHISHGUARD_SERVER_PORT.
const EnvPrefix = "PHISHGUARD"

type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
		Port string `mapstructure:"port"`
		Mode string `mapstructure:"mode"` // gin mode: debug, release or test
	} `mapstructure:"server"`

	Models struct {
		Dir         string            `mapstructure:"dir"`
		Vectorizer  string            `mapstructure:"vectorizer"`
		Classifiers map[string]string `mapstructure:"classifiers"`
	} `mapstructure:"models"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // text or json
	} `mapstructure:"log"`
}

// defaultClassifierFiles mirrors the file names the training pipeline exports.
var defaultClassifierFiles = map[string]string{
	models.KeyNaiveBayes:         "best_nb_model.json",
	models.KeySVM:                "best_svm_model.json",
	models.KeyRandomForest:       "best_rf_model.json",
	models.KeyXGBoost:            "best_xgb_model.json",
	models.KeyLogisticRegression: "best_lr_model.json",
}

// SetDefaults registers every known key so environment overrides apply to them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")

	v.SetDefault("models.dir", "models")
	v.SetDefault("models.vectorizer", "vectorizer.json")
	for key, file := range defaultClassifierFiles {
		v.SetDefault("models.classifiers."+key, file)
	}

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig reads config.yaml from the working directory (or configFile when
// set) into the global viper instance, so flags bound with viper.BindPFlag
// take part in the merge.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.GetViper()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	return Load(v)
}

// Load merges defaults, the config file (if any) and the environment.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env vars still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return &cfg, nil
}
