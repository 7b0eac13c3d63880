// openapi2rust generates a Rust client module from an OpenAPI 3.0 or 3.1
// document.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/openapi2rust/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
