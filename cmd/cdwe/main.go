package main

import (
	"fmt"
	"os"

	"github.com/hbjs97/cdwe/internal/cli"
)

func main() {
	app, err := cli.NewApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(int(cli.MapExitCode(err)))
	}

	cmd := app.NewRootCmd()
	err = cmd.Execute()
	app.Sync()
	if err != nil {
		os.Exit(int(cli.MapExitCode(err)))
	}
}
