// Package maven renders a Maven settings.xml that declares the configured
// repository for dependency resolution and publishing.
package maven

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/staticnoiselog/ciplugin/src/config"
)

const settingsNamespace = "http://maven.apache.org/SETTINGS/1.0.0"

// ProfileID is the profile that carries the repository declarations.
const ProfileID = "ciplugin"

// Settings is the subset of settings.xml the tool writes.
type Settings struct {
	XMLName        xml.Name  `xml:"settings"`
	Xmlns          string    `xml:"xmlns,attr"`
	Servers        []Server  `xml:"servers>server"`
	Mirrors        []Mirror  `xml:"mirrors>mirror"`
	Profiles       []Profile `xml:"profiles>profile"`
	ActiveProfiles []string  `xml:"activeProfiles>activeProfile"`
}

// Server holds repository credentials.
type Server struct {
	ID       string `xml:"id"`
	Username string `xml:"username,omitempty"`
	Password string `xml:"password,omitempty"`
}

// Mirror routes every repository through the configured one.
type Mirror struct {
	ID       string `xml:"id"`
	Name     string `xml:"name,omitempty"`
	URL      string `xml:"url"`
	MirrorOf string `xml:"mirrorOf"`
}

// Profile declares repositories.
type Profile struct {
	ID                 string       `xml:"id"`
	Repositories       []Repository `xml:"repositories>repository"`
	PluginRepositories []Repository `xml:"pluginRepositories>pluginRepository"`
}

// Repository is a remote repository declaration.
type Repository struct {
	ID   string `xml:"id"`
	Name string `xml:"name,omitempty"`
	URL  string `xml:"url"`
}

var nonIDChars = regexp.MustCompile(`[^a-z0-9]+`)

// RepositoryID derives a server id from the repository name.
func RepositoryID(name string) string {
	id := strings.Trim(nonIDChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if id == "" {
		return "ci-repository"
	}
	return id
}

// NewSettings builds settings from the resolved repository configuration.
func NewSettings(r *config.Resolver) (*Settings, error) {
	url := r.Value(config.MavenRepositoryURL)
	if url == "" {
		return nil, fmt.Errorf("%s is empty", config.MavenRepositoryURL.Name())
	}
	name := r.Value(config.MavenRepositoryName)
	id := RepositoryID(name)

	repo := Repository{ID: id, Name: name, URL: url}
	return &Settings{
		Xmlns: settingsNamespace,
		Servers: []Server{{
			ID:       id,
			Username: r.Value(config.MavenRepositoryUsername),
			Password: r.Value(config.MavenRepositoryPassword),
		}},
		Mirrors: []Mirror{{ID: id, Name: name, URL: url, MirrorOf: "*"}},
		Profiles: []Profile{{
			ID:                 ProfileID,
			Repositories:       []Repository{repo},
			PluginRepositories: []Repository{repo},
		}},
		ActiveProfiles: []string{ProfileID},
	}, nil
}

// Write encodes s as an indented XML document.
func (s *Settings) Write(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
