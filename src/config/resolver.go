package config

import (
	"github.com/rs/zerolog"
)

// Source names the tier that supplied a resolved value.
type Source string

const (
	SourceStandard  Source = "standard property"
	SourceLegacy    Source = "legacy property"
	SourceExtension Source = "extension object"
	SourceNone      Source = "unset"
)

// source is one tier of the resolution chain.
type source struct {
	tier   Source
	lookup func(k Key) (name, value string, ok bool)
}

// Resolver computes the effective value of a Key. It keeps no state besides
// references to the property store and extension object, so changes to
// either are visible on the next lookup.
type Resolver struct {
	props   *Properties
	ext     *Extension
	log     zerolog.Logger
	sources []source
}

// NewResolver builds the chain: standard property, legacy property,
// extension object.
func NewResolver(props *Properties, ext *Extension, log zerolog.Logger) *Resolver {
	r := &Resolver{props: props, ext: ext, log: log}
	r.sources = []source{
		{tier: SourceStandard, lookup: r.standardProperty},
		{tier: SourceLegacy, lookup: r.legacyProperty},
		{tier: SourceExtension, lookup: r.extensionValue},
	}
	return r
}

// Value returns the effective value of k, or "" when no tier supplies one.
func (r *Resolver) Value(k Key) string {
	v, _ := r.Lookup(k)
	return v
}

// Lookup returns the effective value of k together with the tier it came from.
func (r *Resolver) Lookup(k Key) (string, Source) {
	for _, src := range r.sources {
		name, value, ok := src.lookup(k)
		if !ok {
			continue
		}
		r.log.Debug().Str("source", string(src.tier)).Msgf("%s: %s", name, value)
		return value, src.tier
	}
	return "", SourceNone
}

func (r *Resolver) standardProperty(k Key) (string, string, bool) {
	name := k.PropertyName()
	v, ok := r.props.Lookup(name)
	return name, v, ok
}

func (r *Resolver) legacyProperty(k Key) (string, string, bool) {
	name, ok := k.LegacyPropertyName()
	if !ok {
		return "", "", false
	}
	v, ok := r.props.Lookup(name)
	return name, v, ok
}

func (r *Resolver) extensionValue(k Key) (string, string, bool) {
	v := r.ext.Get(k)
	if v == nil {
		return "", "", false
	}
	return k.Name(), *v, true
}
