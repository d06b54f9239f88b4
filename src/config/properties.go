package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"dario.cat/mergo"
	"github.com/magiconair/properties"
)

// DefaultPropertiesFile is read from the project directory when present.
const DefaultPropertiesFile = "gradle.properties"

// EnvPropertyPrefix marks environment variables that act as properties,
// e.g. ORG_GRADLE_PROJECT_mavenUser=alice.
const EnvPropertyPrefix = "ORG_GRADLE_PROJECT_"

// Properties is the merged property store. Command line entries win over
// properties file entries, which win over the environment.
type Properties struct {
	values map[string]string
}

// NewProperties merges layers given from lowest to highest precedence.
func NewProperties(layers ...map[string]string) (*Properties, error) {
	merged, err := MergeLayers(layers...)
	if err != nil {
		return nil, err
	}
	return &Properties{values: merged}, nil
}

// MergeLayers merges string maps; entries of later layers override earlier
// ones, including empty values.
func MergeLayers(layers ...map[string]string) (map[string]string, error) {
	merged := map[string]string{}
	for _, layer := range layers {
		if len(layer) == 0 {
			continue
		}
		if err := mergo.Merge(&merged, layer, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merging properties: %w", err)
		}
	}
	return merged, nil
}

// Lookup returns the property value and whether it is set.
func (p *Properties) Lookup(name string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p.values[name]
	return v, ok
}

// Set defines a property on the merged view. The zero Properties is an
// empty store.
func (p *Properties) Set(name, value string) {
	if p.values == nil {
		p.values = map[string]string{}
	}
	p.values[name] = value
}

// Delete removes a property from the merged view.
func (p *Properties) Delete(name string) {
	delete(p.values, name)
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.values)
}

// LoadPropertiesFile reads a Java-style properties file. A missing file
// yields an empty map. Values are taken literally, ${} is not expanded.
func LoadPropertiesFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	loader := &properties.Loader{Encoding: properties.ISO_8859_1, DisableExpansion: true}
	p, err := loader.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return p.Map(), nil
}

// LoadPropertiesFiles reads each file in order; later files override earlier ones.
func LoadPropertiesFiles(paths ...string) (map[string]string, error) {
	layers := make([]map[string]string, 0, len(paths))
	for _, path := range paths {
		m, err := LoadPropertiesFile(path)
		if err != nil {
			return nil, err
		}
		layers = append(layers, m)
	}
	return MergeLayers(layers...)
}

// EnvProperties extracts properties from environment entries in KEY=VALUE
// form (as returned by os.Environ).
func EnvProperties(environ []string) map[string]string {
	props := map[string]string{}
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPropertyPrefix) {
			continue
		}
		name = strings.TrimPrefix(name, EnvPropertyPrefix)
		if name == "" {
			continue
		}
		props[name] = value
	}
	return props
}

// ParseProperty splits a command line definition "name=value". A bare
// "name" defines an empty property.
func ParseProperty(def string) (string, string, error) {
	name, value, _ := strings.Cut(def, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", fmt.Errorf("invalid property %q: missing name", def)
	}
	return name, value, nil
}
