package main

import (
	"os"

	"github.com/picklejar/pickleback/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
