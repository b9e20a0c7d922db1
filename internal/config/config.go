// Package config loads optional default CLI flag values from a YAML
// file, purely as an operability convenience; nothing in the reduction
// core requires it.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Defaults holds flag defaults that a .lithium.yaml file may override.
// Every field mirrors a CLI flag; a zero value means "not set, use the
// built-in default".
type Defaults struct {
	Strategy  string `yaml:"strategy"`
	TempDir   string `yaml:"tempdir"`
	Min       int    `yaml:"min"`
	Max       int    `yaml:"max"`
	Repeat    string `yaml:"repeat"`
	ChunkSize int    `yaml:"chunk_size"`
}

// Load reads and parses path. A missing file is not an error: it returns
// a zero-valued Defaults, since the config file is entirely optional.
func Load(path string) (Defaults, error) {
	var d Defaults
	if path == "" {
		return d, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return d, errors.Wrapf(err, "reading config %q", path)
	}
	if err := yaml.Unmarshal(content, &d); err != nil {
		return d, errors.Wrapf(err, "parsing config %q", path)
	}
	return d, nil
}
