// Command grnq runs commands and typed queries against a Groonga server.
//
// Usage:
//
//	grnq status
//	grnq exec 'select --table Site --limit 3'
//	grnq select --table Site --query groonga --match-columns title --limit 5
//	grnq schema plan --file schema.toml
//	grnq schema apply --file schema.toml
//	grnq schema dump
//
// Connection settings come from $XDG_CONFIG_HOME/grnq/config.toml and can be
// overridden with --address, --protocol, --output-type and --timeout.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		os.Exit(1)
	}
}
