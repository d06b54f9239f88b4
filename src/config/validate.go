package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Validate checks a decoded project file and reports every problem at once.
func Validate(cfg *Config) error {
	var result *multierror.Error

	if cfg.Version != SchemaVersion {
		result = multierror.Append(result, fmt.Errorf("version: unknown config version %d (latest supported: %d)", cfg.Version, SchemaVersion))
	}

	names := make([]string, 0, len(cfg.CI))
	for name := range cfg.CI {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := KeyByName(name); !ok {
			result = multierror.Append(result, fmt.Errorf("ci.%s: unknown setting (supported: %s)", name, strings.Join(keyNames(), ", ")))
		}
	}

	if strings.ContainsAny(cfg.Project.Name, "/: ") {
		result = multierror.Append(result, fmt.Errorf("project.name: %q must not contain '/', ':' or spaces", cfg.Project.Name))
	}
	if strings.ContainsAny(cfg.Project.Group, "/: ") {
		result = multierror.Append(result, fmt.Errorf("project.group: %q must not contain '/', ':' or spaces", cfg.Project.Group))
	}

	return result.ErrorOrNil()
}

func keyNames() []string {
	names := make([]string, 0, len(keyInfos))
	for _, info := range keyInfos {
		names = append(names, info.Name)
	}
	return names
}
