package main

import (
	"context"
	"fmt"

	"github.com/trezcool/rollcall/core/attendance"
)

func (cli *commandLine) report(ctx context.Context, section string) error {
	stats, err := cli.attSvc.Aggregate(ctx, section)
	if err != nil {
		return err
	}
	view, err := cli.attSvc.SelectView(ctx, attendance.ViewState{Status: attendance.FilterAll, Section: section})
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "Section %s: %d students\n", cli.clr.Bold(section), stats.Total)
	fmt.Fprintf(cli.out, "  %s %d (%d%%)\n", cli.clr.Green("present"), stats.Present, stats.PresentPct)
	fmt.Fprintf(cli.out, "  %s  %d (%d%%)\n", cli.clr.Red("absent"), stats.Absent, stats.AbsentPct)
	fmt.Fprintf(cli.out, "  %s    %d (%d%%)\n", cli.clr.Yellow("late"), stats.Late, stats.LatePct)
	for _, rec := range view {
		fmt.Fprintf(cli.out, "%4d  %-20s %-8s %s\n", rec.ID, rec.Name, rec.Status, rec.Time)
	}
	return nil
}
