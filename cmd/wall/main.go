// Command wall is a terminal client for the Freedom Wall. It keeps the
// anonymous client token and local posting state in a badger directory so a
// user gets the same identity across runs.
package main

import (
	"fmt"
	"os"
)

func main() {
	root, app := newRootCmd()
	err := root.Execute()
	if cerr := app.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
