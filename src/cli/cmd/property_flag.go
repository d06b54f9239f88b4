package cmd

import (
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/staticnoiselog/ciplugin/src/config"
)

// propertyFlag collects repeated -P name=value definitions. A later
// definition of the same name wins.
type propertyFlag map[string]string

var _ pflag.Value = propertyFlag(nil)

func (p propertyFlag) Set(def string) error {
	name, value, err := config.ParseProperty(def)
	if err != nil {
		return err
	}
	p[name] = value
	return nil
}

func (p propertyFlag) String() string {
	defs := make([]string, 0, len(p))
	for name, value := range p {
		defs = append(defs, name+"="+value)
	}
	sort.Strings(defs)
	return "[" + strings.Join(defs, ",") + "]"
}

func (p propertyFlag) Type() string {
	return "name=value"
}
