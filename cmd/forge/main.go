// Command forge turns a parsed schema document and a project
// configuration into a complete backend project tree for one of the
// registered targets.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
