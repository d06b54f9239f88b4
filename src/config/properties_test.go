package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadPropertiesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "gradle.properties", `# comment
plugin.ci.dockerRepository=registry.example.com
mavenUser = bob
plugin.ci.mavenRepositoryUrl=https://repo.example.com/${notExpanded}
`)

	props, err := LoadPropertiesFile(path)
	if err != nil {
		t.Fatalf("LoadPropertiesFile: %v", err)
	}

	want := map[string]string{
		"plugin.ci.dockerRepository":   "registry.example.com",
		"mavenUser":                    "bob",
		"plugin.ci.mavenRepositoryUrl": "https://repo.example.com/${notExpanded}",
	}
	for k, v := range want {
		if props[k] != v {
			t.Errorf("%s = %q, want %q", k, props[k], v)
		}
	}
}

func TestLoadPropertiesFileMissing(t *testing.T) {
	props, err := LoadPropertiesFile(filepath.Join(t.TempDir(), "absent.properties"))
	if err != nil {
		t.Fatalf("LoadPropertiesFile: %v", err)
	}
	if len(props) != 0 {
		t.Fatalf("got %d properties, want 0", len(props))
	}
}

func TestLoadPropertiesFilesLaterWins(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.properties", "x=1\ny=1\n")
	b := writeFile(t, dir, "b.properties", "y=2\n")

	props, err := LoadPropertiesFiles(a, b)
	if err != nil {
		t.Fatalf("LoadPropertiesFiles: %v", err)
	}
	if props["x"] != "1" || props["y"] != "2" {
		t.Fatalf("got %v, want x=1 y=2", props)
	}
}

func TestEnvProperties(t *testing.T) {
	props := EnvProperties([]string{
		"PATH=/usr/bin",
		"ORG_GRADLE_PROJECT_mavenUser=alice",
		"ORG_GRADLE_PROJECT_plugin.ci.dockerRepository=r.example.com",
		"ORG_GRADLE_PROJECT_=ignored",
		"ORG_GRADLE_PROJECT_withEquals=a=b",
	})

	want := map[string]string{
		"mavenUser":                  "alice",
		"plugin.ci.dockerRepository": "r.example.com",
		"withEquals":                 "a=b",
	}
	if len(props) != len(want) {
		t.Fatalf("got %v, want %v", props, want)
	}
	for k, v := range want {
		if props[k] != v {
			t.Errorf("%s = %q, want %q", k, props[k], v)
		}
	}
}

func TestParseProperty(t *testing.T) {
	tests := []struct {
		def       string
		name      string
		value     string
		wantError bool
	}{
		{def: "mavenUser=alice", name: "mavenUser", value: "alice"},
		{def: "plugin.ci.x=a=b", name: "plugin.ci.x", value: "a=b"},
		{def: "flag", name: "flag", value: ""},
		{def: "=value", wantError: true},
		{def: "", wantError: true},
	}

	for _, tt := range tests {
		name, value, err := ParseProperty(tt.def)
		if tt.wantError {
			if err == nil {
				t.Errorf("ParseProperty(%q) expected error", tt.def)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseProperty(%q): %v", tt.def, err)
			continue
		}
		if name != tt.name || value != tt.value {
			t.Errorf("ParseProperty(%q) = (%q, %q), want (%q, %q)", tt.def, name, value, tt.name, tt.value)
		}
	}
}

func TestMergeLayersDoesNotMutateInputs(t *testing.T) {
	low := map[string]string{"a": "low"}
	high := map[string]string{"a": "high", "b": "high"}

	merged, err := MergeLayers(low, high)
	if err != nil {
		t.Fatalf("MergeLayers: %v", err)
	}
	if merged["a"] != "high" || merged["b"] != "high" {
		t.Fatalf("merged = %v", merged)
	}
	if low["a"] != "low" || len(low) != 1 {
		t.Fatalf("input mutated: %v", low)
	}
}
