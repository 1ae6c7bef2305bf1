// Command actorkitd runs actorkit's example pipeline task alongside its
// introspection server, and doubles as a thin client for querying a
// running instance.
package main

import (
	"fmt"
	"os"

	"github.com/lguibr/actorkit/cmd/actorkitd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
