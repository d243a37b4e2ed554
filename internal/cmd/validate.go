package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/rigger/internal/manifest"
	"github.com/cameronsjo/rigger/internal/ui"
)

var validateFile string

// validateCmd checks manifest shape without resolving anything.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate manifest shape without resolving",
	Long: `Validate a manifest's declared version and import directives.

This checks that the format version is supported and that every
mpp-import-pipeline directive carries the fields resolution would need
(path, and id for version "2" manifests). Referenced files are not
loaded and nothing is resolved.

Examples:
  rigger validate < manifest.json
  rigger validate -f manifest.yaml`,
	Args:          cobra.NoArgs,
	RunE:          runValidate,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Read the manifest from a file instead of stdin")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	var m manifest.Manifest
	var err error
	if validateFile != "" {
		m, err = manifest.Load(validateFile)
	} else {
		m, err = manifest.Decode(cmd.InOrStdin())
	}
	if err != nil {
		return err
	}

	problems := manifest.ValidateDirectives(m)
	if len(problems) == 0 {
		ui.Success("manifest OK (version %s)", m.Version())
		return nil
	}

	if len(problems) == 1 {
		return problems[0]
	}
	for _, problem := range problems {
		ui.Error("%v", problem)
	}
	return fmt.Errorf("%d problems found", len(problems))
}
