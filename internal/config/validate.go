package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"phishguard/internal/models"
)

func (c *Config) Validate() error {
	// Server config
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("server.port must be a number between 1 and 65535, got %q", c.Server.Port)
	}
	switch c.Server.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("server.mode must be one of debug, release, test, got %q", c.Server.Mode)
	}

	// Model artifacts
	if c.Models.Vectorizer == "" {
		return errors.New("models.vectorizer is required")
	}
	for _, key := range models.ModelKeys() {
		if c.Models.Classifiers[key] == "" {
			return fmt.Errorf("models.classifiers.%s is required", key)
		}
	}
	if len(c.Models.Classifiers) != len(models.ModelKeys()) {
		var extra []string
		for key := range c.Models.Classifiers {
			if models.ModelName(key) == key {
				extra = append(extra, key)
			}
		}
		sort.Strings(extra)
		return fmt.Errorf("models.classifiers has unknown keys %v", extra)
	}

	// Logging
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}
