package main

import (
	"fmt"
	"os"

	"github.com/chaisql/packstream/cmd/packcli/commands"
)

func main() {
	app := commands.NewApp()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
}
