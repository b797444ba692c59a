package main

import (
	"context"
	"fmt"

	"github.com/trezcool/rollcall/core/preference"
)

func (cli *commandLine) darkMode(ctx context.Context, action string) error {
	var (
		enabled bool
		err     error
	)
	switch action {
	case "status":
		enabled, err = cli.prefSvc.DarkMode(ctx)
	case "on", "off":
		if _, err = cli.prefSvc.SetDarkMode(ctx, action == "on"); err == nil {
			enabled = action == "on"
		}
	case "toggle":
		enabled, err = cli.prefSvc.ToggleDarkMode(ctx)
	default:
		cli.printUsage()
		return errHelp
	}
	if err != nil {
		return err
	}

	val := preference.ValueDisabled
	if enabled {
		val = preference.ValueEnabled
	}
	fmt.Fprintf(cli.out, "dark mode: %s\n", cli.clr.Bold(val))
	return nil
}
