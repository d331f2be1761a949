package app

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"phishguard/internal/config"
	"phishguard/internal/registry"
	"phishguard/internal/services"
)

type App struct {
	Config   *config.Config
	Registry *registry.Registry

	ScoringService *services.ScoringService
}

// NewApp validates the config and loads every model artifact. A failure here
// must stop the process before it serves anything.
func NewApp(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	app := &App{Config: cfg}
	if err := app.initRegistry(); err != nil {
		return nil, err
	}
	app.ScoringService = services.NewScoringService(app.Registry)

	log.WithField("models", len(app.Registry.Keys())).Info("Models and vectorizer loaded successfully")
	return app, nil
}

func (a *App) initRegistry() error {
	classifiers, vectorizer := a.Config.ArtifactPaths()
	reg, err := registry.Load(classifiers, vectorizer)
	if err != nil {
		return fmt.Errorf("init model registry: %w", err)
	}
	a.Registry = reg
	return nil
}
