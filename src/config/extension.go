package config

// Extension is the declarative settings object of a project: one optional
// value per Key. A nil value means the key was never set or was explicitly
// cleared.
type Extension struct {
	values map[Key]*string
}

// NewExtension returns an extension seeded with every key's built-in default.
// Keys derived from the project (dockerArtifactFile) start out absent.
func NewExtension() *Extension {
	e := &Extension{values: make(map[Key]*string, len(keyInfos))}
	for _, k := range Keys() {
		if k == DockerArtifactFile {
			continue
		}
		e.Set(k, k.Default())
	}
	return e
}

// Get returns the stored value, or nil when the key holds no value.
func (e *Extension) Get(k Key) *string {
	if e == nil {
		return nil
	}
	return e.values[k]
}

// Present reports whether the key holds a value.
func (e *Extension) Present(k Key) bool {
	return e.Get(k) != nil
}

// Set stores value for k.
func (e *Extension) Set(k Key, value string) {
	v := value
	e.init()
	e.values[k] = &v
}

// Clear removes the value for k.
func (e *Extension) Clear(k Key) {
	e.init()
	e.values[k] = nil
}

// init allocates the value map so the zero Extension, which holds no
// defaults, is usable.
func (e *Extension) init() {
	if e.values == nil {
		e.values = map[Key]*string{}
	}
}

// apply merges the values read from a project file. A nil entry clears the
// key, mirroring an explicit null in YAML.
func (e *Extension) apply(values map[Key]*string) {
	for k, v := range values {
		if v == nil {
			e.Clear(k)
			continue
		}
		e.Set(k, *v)
	}
}
