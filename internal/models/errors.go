package models

import (
	"errors"
)

var (
	ErrArtifactNotFound  = errors.New("artifact not found")
	ErrArtifactFormat    = errors.New("malformed artifact")
	ErrArtifactVersion   = errors.New("unsupported artifact version")
	ErrArtifactKind      = errors.New("unexpected artifact kind")
	ErrDimensionMismatch = errors.New("feature dimension mismatch")

	ErrRegistryKeys = errors.New("registry model keys mismatch")
	ErrInvalidLabel = errors.New("classifier returned a non-binary label")
	ErrInvalidInput = errors.New("invalid input")
)
