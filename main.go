// The main package for the indiescraper executable.
package main

import (
	"github.com/indieweb-atlas/indiescraper/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
