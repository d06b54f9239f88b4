package config

// PropertyPrefix is prepended to a key name to form its standard property name.
const PropertyPrefix = "plugin.ci."

// Legacy property names still honoured for the repository credentials.
const (
	MavenUserLegacyProperty     = "mavenUser"
	MavenPasswordLegacyProperty = "mavenPassword"
)

// Key identifies one user-overridable setting.
type Key int

// Configuration keys in declaration order. Display output follows this order.
const (
	MavenRepositoryURL Key = iota
	MavenRepositoryName
	MavenRepositoryUsername
	MavenRepositoryPassword
	DockerRepository
	DockerArtifactSourceDirectory
	DockerArtifactFile
)

// KeyInfo is the static metadata attached to a Key.
type KeyInfo struct {
	Name      string
	Default   string
	Sensitive bool
}

var keyInfos = [...]KeyInfo{
	MavenRepositoryURL:            {Name: "mavenRepositoryUrl", Default: "https://repo.maven.apache.org/maven2/"},
	MavenRepositoryName:           {Name: "mavenRepositoryName", Default: "CI Plugin Maven Repository"},
	MavenRepositoryUsername:       {Name: "mavenRepositoryUsername"},
	MavenRepositoryPassword:       {Name: "mavenRepositoryPassword", Sensitive: true},
	DockerRepository:              {Name: "dockerRepository", Default: "docker.io"},
	DockerArtifactSourceDirectory: {Name: "dockerArtifactSourceDirectory", Default: "build/libs"},
	// derived from the project name and version once the project is loaded
	DockerArtifactFile: {Name: "dockerArtifactFile"},
}

// legacyProperties maps the two credential keys to their pre-prefix property names.
var legacyProperties = map[Key]string{
	MavenRepositoryUsername: MavenUserLegacyProperty,
	MavenRepositoryPassword: MavenPasswordLegacyProperty,
}

// Keys returns every configuration key in declaration order.
func Keys() []Key {
	keys := make([]Key, len(keyInfos))
	for i := range keyInfos {
		keys[i] = Key(i)
	}
	return keys
}

// KeyByName looks a key up by its name.
func KeyByName(name string) (Key, bool) {
	for i, info := range keyInfos {
		if info.Name == name {
			return Key(i), true
		}
	}
	return 0, false
}

// Info returns the key's metadata.
func (k Key) Info() KeyInfo { return keyInfos[k] }

// Name returns the key's name, e.g. "dockerRepository".
func (k Key) Name() string { return keyInfos[k].Name }

// Default returns the built-in default value.
func (k Key) Default() string { return keyInfos[k].Default }

// Sensitive reports whether the value must be masked in normal output.
func (k Key) Sensitive() bool { return keyInfos[k].Sensitive }

// PropertyName returns the standard property name, e.g. "plugin.ci.dockerRepository".
func (k Key) PropertyName() string { return PropertyPrefix + keyInfos[k].Name }

// LegacyPropertyName returns the legacy property name for the credential keys.
func (k Key) LegacyPropertyName() (string, bool) {
	name, ok := legacyProperties[k]
	return name, ok
}

func (k Key) String() string { return k.Name() }
