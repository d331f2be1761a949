package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Addr)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "models", cfg.Models.Dir)
	assert.Equal(t, "vectorizer.json", cfg.Models.Vectorizer)
	assert.Equal(t, "best_rf_model.json", cfg.Models.Classifiers["rf"])
	assert.Len(t, cfg.Models.Classifiers, 5)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
server:
  port: "9090"
models:
  dir: /srv/models
  classifiers:
    xgb: /opt/xgb.json
log:
  format: json
`), 0o600))
	t.Setenv("PHISHGUARD_LOG_LEVEL", "debug")

	v := viper.New()
	v.SetConfigFile(file)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/opt/xgb.json", cfg.Models.Classifiers["xgb"])
	assert.Equal(t, "best_nb_model.json", cfg.Models.Classifiers["nb"])
	require.NoError(t, cfg.Validate())

	classifiers, vectorizer := cfg.ArtifactPaths()
	assert.Equal(t, filepath.Join("/srv/models", "vectorizer.json"), vectorizer)
	assert.Equal(t, "/opt/xgb.json", classifiers["xgb"])
	assert.Equal(t, filepath.Join("/srv/models", "best_lr_model.json"), classifiers["lr"])
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load(v)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"bad port", func(c *Config) { c.Server.Port = "http" }, "server.port"},
		{"port range", func(c *Config) { c.Server.Port = "70000" }, "server.port"},
		{"mode", func(c *Config) { c.Server.Mode = "prod" }, "server.mode"},
		{"vectorizer", func(c *Config) { c.Models.Vectorizer = "" }, "models.vectorizer"},
		{"missing classifier", func(c *Config) { delete(c.Models.Classifiers, "svm") }, "models.classifiers.svm"},
		{"extra classifier", func(c *Config) { c.Models.Classifiers["knn"] = "knn.json" }, "unknown keys [knn]"},
		{"level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(viper.New())
			require.NoError(t, err)
			tc.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}
