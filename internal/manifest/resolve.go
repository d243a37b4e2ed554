package manifest

import (
	"fmt"
	"path/filepath"
)

// maxChainDepth bounds the v1 build-chain walk. Nodes in a decoded document
// cannot alias each other, so a longer chain means the manifest was mutated
// into something pathological.
const maxChainDepth = 1000

// A Resolver resolves every pipeline-import directive for one manifest
// format version. The manifest is mutated in place.
type Resolver interface {
	Resolve(m Manifest) error
}

// ResolverFor returns the resolver for the given declared format version.
// The dir is the base directory for relative import paths.
func ResolverFor(version, dir string) (Resolver, error) {
	switch version {
	case VersionV1:
		return &v1Resolver{dir: dir}, nil
	case VersionV2:
		return &v2Resolver{dir: dir}, nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: %v)", ErrUnsupportedVersion, version, SupportedVersions)
	}
}

// resolvePath resolves an import path against the base directory. Absolute
// paths are taken as-is.
func resolvePath(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// directivePath extracts the required path field from the directive held by
// node, resolved against dir.
func directivePath(node map[string]any, dir string) (string, error) {
	directive, ok := node[ImportKey].(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a mapping", ErrMalformedManifest, ImportKey)
	}
	path, ok := directive["path"].(string)
	if !ok || path == "" {
		return "", fmt.Errorf("%w: %q directive requires a path", ErrMissingField, ImportKey)
	}
	return resolvePath(dir, path), nil
}

// v1Resolver handles single-build-chain manifests. At most one directive is
// significant: the first one found walking down the chain, since an import
// at that position overrides everything a descendant import could produce.
type v1Resolver struct {
	dir string
}

// findImportNode walks the build-dependency chain from the root and returns
// the first node holding an import directive, or nil when none exists.
func findImportNode(m Manifest) (map[string]any, error) {
	current := map[string]any(m)
	for depth := 0; current != nil; depth++ {
		if depth > maxChainDepth {
			return nil, fmt.Errorf("%w: build chain exceeds %d levels", ErrMalformedManifest, maxChainDepth)
		}
		if _, ok := current[ImportKey]; ok {
			return current, nil
		}
		pipeline, _ := current["pipeline"].(map[string]any)
		build, _ := pipeline["build"].(map[string]any)
		current = build
	}
	return nil, nil
}

func (r *v1Resolver) Resolve(m Manifest) error {
	// Establish sources.org.osbuild.files.urls on the root so the merge has
	// a destination regardless of the input shape.
	sources, err := enterMap(m, "sources")
	if err != nil {
		return err
	}
	files, err := enterMap(sources, FilesSource)
	if err != nil {
		return err
	}
	urls, err := enterMap(files, "urls")
	if err != nil {
		return err
	}

	node, err := findImportNode(m)
	if err != nil {
		return err
	}
	if node == nil {
		return nil
	}

	path, err := directivePath(node, r.dir)
	if err != nil {
		return err
	}

	imp, err := Load(path)
	if err != nil {
		return fmt.Errorf("load import: %w", err)
	}

	impSources, err := enterMap(imp, "sources")
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	impFiles, err := enterMap(impSources, FilesSource)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	impURLs, err := enterMap(impFiles, "urls")
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	impPipeline := Enter(imp, "pipeline", map[string]any{})

	if err := validateImportV1(imp, impSources); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	// Merge the URLs into the pinned root mapping, override any pipeline at
	// the directive's position, and drop the directive itself.
	MergeURLs(urls, impURLs)
	node["pipeline"] = impPipeline
	delete(node, ImportKey)

	return nil
}

// v2Resolver handles named-pipeline-list manifests. Each pipeline entry may
// carry its own directive, and every one is resolved independently.
type v2Resolver struct {
	dir string
}

func (r *v2Resolver) Resolve(m Manifest) error {
	sources, err := enterMap(m, "sources")
	if err != nil {
		return err
	}

	for i, entry := range m.Pipelines() {
		node, ok := entry.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: pipelines[%d] is not a mapping", ErrMalformedManifest, i)
		}
		if _, ok := node[ImportKey]; !ok {
			continue
		}
		if err := r.resolveEntry(node, sources); err != nil {
			return fmt.Errorf("pipelines[%d]: %w", i, err)
		}
	}

	return nil
}

func (r *v2Resolver) resolveEntry(node, sources map[string]any) error {
	path, err := directivePath(node, r.dir)
	if err != nil {
		return err
	}

	directive := node[ImportKey].(map[string]any)
	id, ok := directive["id"].(string)
	if !ok || id == "" {
		return fmt.Errorf("%w: %q directive requires an id", ErrMissingField, ImportKey)
	}

	imp, err := Load(path)
	if err != nil {
		return fmt.Errorf("load import: %w", err)
	}

	if impSources, ok := imp["sources"].(map[string]any); ok {
		if err := MergeSources(sources, impSources); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	var target map[string]any
	for _, candidate := range imp.Pipelines() {
		pipeline, ok := candidate.(map[string]any)
		if !ok {
			continue
		}
		if name, _ := pipeline["name"].(string); name == id {
			target = pipeline
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %q in %s", ErrPipelineNotFound, id, path)
	}

	// Overlay the imported pipeline's fields onto the importing entry, then
	// drop the directive. Fields only the importing entry has are kept.
	for k, v := range target {
		node[k] = deepCopy(v)
	}
	delete(node, ImportKey)

	return nil
}
