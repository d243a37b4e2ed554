// Command rigger resolves pipeline-import directives in build manifests.
package main

import "github.com/cameronsjo/rigger/internal/cmd"

func main() {
	cmd.Execute()
}
