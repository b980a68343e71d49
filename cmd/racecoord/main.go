package main

import (
	"context"
	"os"

	"github.com/agbru/racecoord/internal/app"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if !app.IsHelpError(err) {
			os.Stderr.WriteString("Error: " + err.Error() + "\n")
		}
		os.Exit(app.ExitCodeForError(err))
	}

	exitCode := application.Run(context.Background(), os.Stdout)
	os.Exit(exitCode)
}
