// The main package for the camcrawler executable.
package main

import (
	"github.com/opencamdb/camcrawler/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
