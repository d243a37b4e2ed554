package manifest

import (
	"errors"
	"fmt"
)

// Resolution errors.
var (
	// ErrUnsupportedVersion indicates an unknown manifest format version.
	ErrUnsupportedVersion = errors.New("unsupported manifest version")

	// ErrMalformedImport indicates an imported manifest has an unexpected
	// source-kind set or unexpected top-level keys.
	ErrMalformedImport = errors.New("malformed import")

	// ErrMalformedManifest indicates the manifest deviates from the
	// recognized shape where the resolver needs it.
	ErrMalformedManifest = errors.New("malformed manifest")

	// ErrPipelineNotFound indicates an import directive names a pipeline id
	// absent from the referenced manifest.
	ErrPipelineNotFound = errors.New("pipeline not found")

	// ErrMissingField indicates an import directive lacks a required field.
	ErrMissingField = errors.New("missing directive field")
)

// validateImportV1 checks the shape invariants for a v1 imported manifest:
// its sources must contain exactly the file source kind, and its top-level
// keys must be exactly {pipeline, sources}.
func validateImportV1(imp Manifest, sources map[string]any) error {
	if len(sources) != 1 {
		return fmt.Errorf("%w: sources must contain exactly %q, got %d kinds", ErrMalformedImport, FilesSource, len(sources))
	}
	if _, ok := sources[FilesSource]; !ok {
		return fmt.Errorf("%w: sources must contain exactly %q", ErrMalformedImport, FilesSource)
	}

	if len(imp) != 2 {
		return fmt.Errorf("%w: top-level keys must be exactly {pipeline, sources}", ErrMalformedImport)
	}
	for _, key := range []string{"pipeline", "sources"} {
		if _, ok := imp[key]; !ok {
			return fmt.Errorf("%w: top-level keys must be exactly {pipeline, sources}", ErrMalformedImport)
		}
	}

	return nil
}

// ValidateDirectives checks that every import directive in the manifest is
// well-formed without resolving anything. It reports all problems found, one
// error per directive, and validates the declared version.
func ValidateDirectives(m Manifest) []error {
	var problems []error

	version := m.Version()
	switch version {
	case VersionV1:
		node, err := findImportNode(m)
		if err != nil {
			return append(problems, err)
		}
		if node == nil {
			return nil
		}
		if err := checkDirective(node, false); err != nil {
			problems = append(problems, err)
		}
	case VersionV2:
		for i, entry := range m.Pipelines() {
			node, ok := entry.(map[string]any)
			if !ok {
				problems = append(problems, fmt.Errorf("%w: pipelines[%d] is not a mapping", ErrMalformedManifest, i))
				continue
			}
			if _, ok := node[ImportKey]; !ok {
				continue
			}
			if err := checkDirective(node, true); err != nil {
				problems = append(problems, fmt.Errorf("pipelines[%d]: %w", i, err))
			}
		}
	default:
		problems = append(problems, fmt.Errorf("%w: %q (supported: %v)", ErrUnsupportedVersion, version, SupportedVersions))
	}

	return problems
}

// checkDirective validates the directive held by node. The id field is
// required for v2 directives only.
func checkDirective(node map[string]any, needID bool) error {
	directive, ok := node[ImportKey].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: %q is not a mapping", ErrMalformedManifest, ImportKey)
	}

	if path, ok := directive["path"].(string); !ok || path == "" {
		return fmt.Errorf("%w: %q directive requires a path", ErrMissingField, ImportKey)
	}
	if needID {
		if id, ok := directive["id"].(string); !ok || id == "" {
			return fmt.Errorf("%w: %q directive requires an id", ErrMissingField, ImportKey)
		}
	}

	return nil
}
