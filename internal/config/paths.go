package config

import "path/filepath"

// ArtifactPaths resolves the configured artifact file names. Absolute names are
// used as is; relative ones are joined onto models.dir.
func (c *Config) ArtifactPaths() (classifiers map[string]string, vectorizer string) {
	classifiers = make(map[string]string, len(c.Models.Classifiers))
	for key, name := range c.Models.Classifiers {
		classifiers[key] = c.resolve(name)
	}
	return classifiers, c.resolve(c.Models.Vectorizer)
}

func (c *Config) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Models.Dir, name)
}
