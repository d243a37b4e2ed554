package manifest

import "fmt"

// Format version and key constants for manifest processing.
const (
	// VersionV1 is the single-build-chain manifest format.
	VersionV1 = "1"

	// VersionV2 is the named-pipeline-list manifest format.
	VersionV2 = "2"

	// ImportKey is the directive that imports a pipeline from another file.
	ImportKey = "mpp-import-pipeline"

	// FilesSource is the URL-keyed file source kind used by v1 manifests.
	FilesSource = "org.osbuild.files"
)

// SupportedVersions lists all manifest format versions that can be resolved.
var SupportedVersions = []string{VersionV1, VersionV2}

// Manifest is a decoded manifest document. The recognized shape (version,
// sources, pipeline/pipelines) is accessed through typed helpers; everything
// else rides along untouched so unknown fields survive the round trip.
type Manifest map[string]any

// Version returns the manifest's declared format version, defaulting to "1".
func (m Manifest) Version() string {
	if v, ok := m["version"].(string); ok && v != "" {
		return v
	}
	return VersionV1
}

// Pipelines returns the v2 named-pipeline list, or nil if absent.
func (m Manifest) Pipelines() []any {
	list, _ := m["pipelines"].([]any)
	return list
}

// Enter returns m[key], first inserting def when the key is absent. The only
// side effect is that insertion, so callers can treat optional structure as
// always present.
func Enter(m map[string]any, key string, def any) any {
	if v, ok := m[key]; ok {
		return v
	}
	m[key] = def
	return def
}

// enterMap is Enter specialized to nested mappings. A present value of any
// other type is a shape violation.
func enterMap(m map[string]any, key string) (map[string]any, error) {
	v := Enter(m, key, map[string]any{})
	nested, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a mapping", ErrMalformedManifest, key)
	}
	return nested, nil
}
