// Package cmd provides the CLI commands for rigger.
package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"github.com/spf13/cobra"

	"github.com/cameronsjo/rigger/internal/fileutil"
	"github.com/cameronsjo/rigger/internal/manifest"
	"github.com/cameronsjo/rigger/internal/ui"
)

const version = "0.1.0"

var (
	rootCwd    string
	rootFile   string
	rootOutput string
	rootTo     string
	rootDiff   bool
)

// rootCmd is the preprocessor itself: a stdin-to-stdout pipe filter.
var rootCmd = &cobra.Command{
	Use:   "rigger",
	Short: "Resolve pipeline imports in build manifests",
	Long: `rigger - manifest pre-processor for pipeline imports

Reads a build manifest, resolves every mpp-import-pipeline directive by
splicing in the referenced manifest's pipeline and merging its sources,
and writes the fully resolved manifest.

Manifest format versions "1" and "2" are supported. Import paths are
resolved relative to the working directory given with --cwd.

Examples:
  rigger < manifest.json              # Resolve stdin to stdout
  rigger --cwd ./manifests < in.json  # Resolve imports against a directory
  rigger -f manifest.yaml --to yaml   # YAML in, YAML out
  rigger -d < manifest.json           # Show what resolution would change`,
	Version:       version,
	Args:          cobra.NoArgs,
	RunE:          runResolve,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and maps failures to exit codes: 2 for an
// unsupported manifest version, 1 for everything else.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.Error("%v", err)
		if errors.Is(err, manifest.ErrUnsupportedVersion) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&rootCwd, "cwd", ".", "Base directory for relative import paths")
	rootCmd.Flags().StringVarP(&rootFile, "file", "f", "", "Read the manifest from a file instead of stdin (.yaml/.yml decoded as YAML)")
	rootCmd.Flags().StringVarP(&rootOutput, "output", "o", "", "Write the resolved manifest to a file instead of stdout")
	rootCmd.Flags().StringVar(&rootTo, "to", "json", "Output encoding: json or yaml")
	rootCmd.Flags().BoolVarP(&rootDiff, "diff", "d", false, "Show a unified diff of input vs resolved instead of the manifest")

	rootCmd.SetVersionTemplate("rigger version {{.Version}}\n")
}

func runResolve(cmd *cobra.Command, args []string) error {
	m, err := readManifest(cmd)
	if err != nil {
		return err
	}

	resolver, err := manifest.ResolverFor(m.Version(), rootCwd)
	if err != nil {
		return err
	}

	// Snapshot the input in canonical form first so diff mode has a
	// like-for-like before side.
	var before bytes.Buffer
	if rootDiff {
		if err := encodeManifest(&before, m); err != nil {
			return err
		}
	}

	if err := resolver.Resolve(m); err != nil {
		return err
	}
	if m.Version() == manifest.VersionV1 {
		manifest.SortURLs(m)
	}

	// Encode fully before writing so a failure never leaves partial output.
	var out bytes.Buffer
	if err := encodeManifest(&out, m); err != nil {
		return err
	}

	if rootDiff {
		return writeOutput(cmd, []byte(unifiedDiff(before.String(), out.String())))
	}
	return writeOutput(cmd, out.Bytes())
}

// readManifest reads the input manifest from --file or stdin.
func readManifest(cmd *cobra.Command) (manifest.Manifest, error) {
	if rootFile != "" {
		return manifest.Load(rootFile)
	}
	return manifest.Decode(cmd.InOrStdin())
}

// encodeManifest serializes per the --to flag.
func encodeManifest(buf *bytes.Buffer, m manifest.Manifest) error {
	switch rootTo {
	case "json":
		return manifest.Encode(buf, m)
	case "yaml":
		return manifest.EncodeYAML(buf, m)
	default:
		return fmt.Errorf("unknown output encoding %q (supported: json, yaml)", rootTo)
	}
}

// writeOutput writes the result to --output or stdout.
func writeOutput(cmd *cobra.Command, data []byte) error {
	if rootOutput != "" {
		if err := fileutil.WriteFileAtomic(rootOutput, data, 0644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// unifiedDiff renders a unified diff between the canonical input and the
// resolved manifest.
func unifiedDiff(before, after string) string {
	edits := myers.ComputeEdits(span.URIFromPath("manifest"), before, after)
	return fmt.Sprint(gotextdiff.ToUnified("manifest", "resolved", before, edits))
}
