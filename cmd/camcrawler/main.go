// The main package for the camcrawler executable.
package main

import (
	"github.com/opencamdb/camcrawler/cmd"
)

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
