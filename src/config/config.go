package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFiles are tried in order when no config path is given.
var DefaultConfigFiles = []string{".ciplugin.yml", ".ciplugin.yaml", ".ciplugin.toml"}

// SchemaVersion is the current project file schema.
const SchemaVersion = 1

// Config is the project file: project coordinates plus the ci settings block.
type Config struct {
	Version int           `yaml:"version"`
	Project ProjectConfig `yaml:"project"`

	// CI holds the extension object values keyed by configuration key name.
	// An explicit null clears the built-in default.
	CI map[string]*string `yaml:"ci"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

// ProjectConfig holds the coordinates used for artifact and image naming.
type ProjectConfig struct {
	Group   string `yaml:"group" toml:"group"`
	Name    string `yaml:"name" toml:"name"`
	Version string `yaml:"version" toml:"version"`
}

// tomlConfig mirrors Config for TOML files, which have no null.
type tomlConfig struct {
	Version int               `toml:"version"`
	Project ProjectConfig     `toml:"project"`
	CI      map[string]string `toml:"ci"`
}

// Load reads the project file. If path is empty the default files are tried
// in dir; when none exists defaults are returned.
func Load(dir, path string) (*Config, error) {
	if path == "" {
		for _, name := range DefaultConfigFiles {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return defaults(dir), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file %s does not exist", path)
		}
		return nil, err
	}

	cfg, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	if cfg.Project.Name == "" {
		cfg.Project.Name = defaultProjectName(dir)
	}
	return cfg, nil
}

// Parse decodes project file data. The format is picked from the file
// extension of path; anything but .toml is YAML.
func Parse(data []byte, path string) (*Config, error) {
	cfg := &Config{Path: path}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var tc tomlConfig
		if err := toml.Unmarshal(data, &tc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		cfg.Version = tc.Version
		cfg.Project = tc.Project
		if len(tc.CI) > 0 {
			cfg.CI = make(map[string]*string, len(tc.CI))
			for name, v := range tc.CI {
				cfg.CI[name] = &v
			}
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if cfg.Version == 0 {
		cfg.Version = SchemaVersion
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Extension returns a defaults-seeded extension object with the ci block
// applied. Call Validate first; unknown names are ignored here.
func (c *Config) Extension() *Extension {
	ext := NewExtension()
	values := make(map[Key]*string, len(c.CI))
	for name, v := range c.CI {
		if k, ok := KeyByName(name); ok {
			values[k] = v
		}
	}
	ext.apply(values)
	return ext
}

// ApplyProjectDefaults fills values that depend on the project coordinates.
// dockerArtifactFile defaults to the jar name "<name>-<version>.jar" unless
// it already holds a value.
func ApplyProjectDefaults(ext *Extension, p ProjectConfig) {
	if ext.Present(DockerArtifactFile) || p.Name == "" {
		return
	}
	jar := p.Name + ".jar"
	if p.Version != "" {
		jar = p.Name + "-" + p.Version + ".jar"
	}
	ext.Set(DockerArtifactFile, StripPlain(jar))
}

// StripPlain maps the thin "-plain.jar" archive name onto the runnable jar
// produced alongside it.
func StripPlain(artifact string) string {
	return strings.ReplaceAll(artifact, "-plain.jar", ".jar")
}

func defaults(dir string) *Config {
	return &Config{
		Version: SchemaVersion,
		Project: ProjectConfig{Name: defaultProjectName(dir)},
	}
}

func defaultProjectName(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	name := filepath.Base(abs)
	if name == string(filepath.Separator) || name == "." {
		return ""
	}
	return name
}
