package config

import (
	"fmt"
	"io"
)

// PasswordMaskedText replaces a non-empty sensitive value in normal output.
const PasswordMaskedText = "A password is set (only shown with --debug)"

// Entry is one line of the configuration listing.
type Entry struct {
	Key    Key
	Name   string
	Value  string
	Source Source
}

// Display lists every key in declaration order. Sensitive values are masked
// unless verbose is set; an empty sensitive value is shown as empty.
func (r *Resolver) Display(verbose bool) []Entry {
	keys := Keys()
	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		value, src := r.Lookup(k)
		if k.Sensitive() && !verbose && value != "" {
			value = PasswordMaskedText
		}
		entries = append(entries, Entry{Key: k, Name: k.Name(), Value: value, Source: src})
	}
	return entries
}

// WriteDisplay renders entries as "name: value" lines. With withSource the
// supplying tier is appended in brackets.
func WriteDisplay(w io.Writer, entries []Entry, withSource bool) error {
	for _, e := range entries {
		var err error
		if withSource {
			_, err = fmt.Fprintf(w, "%s: %s [%s]\n", e.Name, e.Value, e.Source)
		} else {
			_, err = fmt.Fprintf(w, "%s: %s\n", e.Name, e.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
