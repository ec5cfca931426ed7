package manifest

// Top-level keys recognized in Cargo.toml.
const (
	KeyPackage         = "package"
	KeyWorkspace       = "workspace"
	KeyDependencies    = "dependencies"
	KeyDevDependencies = "dev-dependencies"
)

// Manifest is a parsed Cargo.toml. The document is kept generic; only a
// few top-level keys carry meaning here.
type Manifest struct {
	Path string
	doc  map[string]any
}

// IsWorkspace reports whether the manifest has a [workspace] table.
func (m *Manifest) IsWorkspace() bool {
	return m.Has(KeyWorkspace)
}

// HasDependencies reports whether the manifest declares [dependencies] or
// [dev-dependencies].
func (m *Manifest) HasDependencies() bool {
	return m.Has(KeyDependencies) || m.Has(KeyDevDependencies)
}

// Name returns package.name, or empty string for virtual manifests.
func (m *Manifest) Name() string {
	pkg, ok := m.doc[KeyPackage].(map[string]any)
	if !ok {
		return ""
	}
	name, _ := pkg["name"].(string)
	return name
}

// Members returns workspace.members in declaration order.
func (m *Manifest) Members() []string {
	ws, ok := m.doc[KeyWorkspace].(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := ws["members"].([]any)
	if !ok {
		return nil
	}
	members := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			members = append(members, s)
		}
	}
	return members
}

// Has reports whether a top-level key is present.
func (m *Manifest) Has(key string) bool {
	_, ok := m.doc[key]
	return ok
}
