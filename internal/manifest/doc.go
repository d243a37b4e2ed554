// Package manifest implements the pipeline-import engine for build
// manifests.
//
// A manifest may reference another manifest file through an
// mpp-import-pipeline directive. Resolving a manifest loads each referenced
// file, merges its declared sources into the importing manifest, and splices
// its pipeline in at the position of the directive. The resolution pipeline
// includes:
//
//   - Format-version dispatch (versions "1" and "2")
//   - Source merging with overlay-wins semantics
//   - Pipeline substitution at the directive's position
//   - Deterministic URL ordering for stable output
//
// # Manifest Structure
//
// A version "1" manifest nests a single build chain:
//
//	{
//	  "pipeline": {
//	    "build": {
//	      "pipeline": {"mpp-import-pipeline": {"path": "./build.json"}}
//	    }
//	  },
//	  "sources": {"org.osbuild.files": {"urls": {...}}}
//	}
//
// A version "2" manifest holds an ordered list of named pipelines:
//
//	{
//	  "version": "2",
//	  "pipelines": [
//	    {"name": "build", "mpp-import-pipeline": {"path": "./base.json", "id": "build"}}
//	  ]
//	}
package manifest
