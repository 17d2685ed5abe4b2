package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/macropower/versync/cmd/versync/commands"
)

const (
	cmdName = "versync"

	shortDesc = "The versync Command Line Interface (CLI)."
	longDesc  = `The versync (version synchronizer) Command Line Interface (CLI).

versync keeps the version declarations of a multi-manifest project in lockstep.
It rewrites the version line of every registered manifest (Cargo.toml,
pyproject.toml, and so on) to a single requested version, writing each file
atomically, and can report which manifests have drifted.
`
)

func main() {
	cmd := commands.NewRootCmd(cmdName, shortDesc, longDesc)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimLeft(err.Error(), "\n"))
		os.Exit(1)
	}
}
