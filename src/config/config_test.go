package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "orders")
	mkdir(t, dir)

	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Project.Name != "orders" {
		t.Errorf("project name = %q, want orders", cfg.Project.Name)
	}
	if cfg.Path != "" {
		t.Errorf("path = %q, want empty", cfg.Path)
	}

	ext := cfg.Extension()
	if got := ext.Get(DockerRepository); got == nil || *got != DockerRepository.Default() {
		t.Errorf("dockerRepository = %v, want default", got)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".ciplugin.yml", `version: 1
project:
  group: com.example
  name: orders
  version: 1.4.0
ci:
  dockerRepository: registry.example.com
  mavenRepositoryUrl: ~
`)

	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Project != (ProjectConfig{Group: "com.example", Name: "orders", Version: "1.4.0"}) {
		t.Errorf("project = %+v", cfg.Project)
	}

	ext := cfg.Extension()
	if got := ext.Get(DockerRepository); got == nil || *got != "registry.example.com" {
		t.Errorf("dockerRepository = %v, want registry.example.com", got)
	}
	if ext.Present(MavenRepositoryURL) {
		t.Errorf("mavenRepositoryUrl should be cleared by explicit null")
	}
	if got := ext.Get(MavenRepositoryName); got == nil || *got != MavenRepositoryName.Default() {
		t.Errorf("mavenRepositoryName = %v, want default", got)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ci.toml", `version = 1

[project]
group = "com.example"
name = "billing"

[ci]
dockerRepository = "registry.example.com"
mavenRepositoryUsername = "deployer"
`)

	cfg, err := Load(dir, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Project.Name != "billing" || cfg.Project.Group != "com.example" {
		t.Errorf("project = %+v", cfg.Project)
	}
	ext := cfg.Extension()
	if got := ext.Get(MavenRepositoryUsername); got == nil || *got != "deployer" {
		t.Errorf("mavenRepositoryUsername = %v, want deployer", got)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(t.TempDir(), "nope.yml")
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestParseValidation(t *testing.T) {
	_, err := Parse([]byte(`version: 2
project:
  name: "my app"
ci:
  dockerRepo: x
  alsoWrong: y
`), "bad.yml")
	if err == nil {
		t.Fatal("expected validation error")
	}

	msg := err.Error()
	for _, want := range []string{"unknown config version 2", "ci.alsoWrong", "ci.dockerRepo", "project.name"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error missing %q:\n%s", want, msg)
		}
	}
}

func TestLoadNamelessProjectUsesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "billing")
	mkdir(t, dir)
	writeFile(t, dir, ".ciplugin.yml", `project:
  group: com.example
`)

	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Project.Name != "billing" {
		t.Errorf("project name = %q, want billing", cfg.Project.Name)
	}
	if err := Validate(&Config{Version: SchemaVersion}); err != nil {
		t.Errorf("Validate rejected an empty project name: %v", err)
	}
}

func TestApplyProjectDefaults(t *testing.T) {
	tests := []struct {
		name    string
		project ProjectConfig
		preset  *string
		want    string
		present bool
	}{
		{name: "name and version", project: ProjectConfig{Name: "orders", Version: "1.2.3"}, want: "orders-1.2.3.jar", present: true},
		{name: "no version", project: ProjectConfig{Name: "orders"}, want: "orders.jar", present: true},
		{name: "plain suffix stripped", project: ProjectConfig{Name: "orders", Version: "1.0.0-plain"}, want: "orders-1.0.0.jar", present: true},
		{name: "explicit value kept", project: ProjectConfig{Name: "orders", Version: "1"}, preset: strPtr("custom.jar"), want: "custom.jar", present: true},
		{name: "explicit empty kept", project: ProjectConfig{Name: "orders", Version: "1"}, preset: strPtr(""), want: "", present: true},
		{name: "no project name", project: ProjectConfig{}, present: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := NewExtension()
			if tt.preset != nil {
				ext.Set(DockerArtifactFile, *tt.preset)
			}
			ApplyProjectDefaults(ext, tt.project)

			got := ext.Get(DockerArtifactFile)
			if (got != nil) != tt.present {
				t.Fatalf("present = %v, want %v", got != nil, tt.present)
			}
			if got != nil && *got != tt.want {
				t.Errorf("dockerArtifactFile = %q, want %q", *got, tt.want)
			}
		})
	}
}

func TestStripPlain(t *testing.T) {
	if got := StripPlain("my-artifact-plain.jar"); got != "my-artifact.jar" {
		t.Errorf("StripPlain = %q", got)
	}
	if got := StripPlain("my-artifact.jar"); got != "my-artifact.jar" {
		t.Errorf("StripPlain = %q", got)
	}
	if got := StripPlain(""); got != "" {
		t.Errorf("StripPlain = %q", got)
	}
}

func strPtr(s string) *string { return &s }

func mkdir(t *testing.T, dir string) {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
}
