package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
	"github.com/tartampluch/go-calendar/internal/seed"
)

func newGridCmd(app *App, opts *Options) *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   config.CmdGridUse,
		Short: config.CmdGridShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := app.Clock.Now()
			if year == 0 {
				year = now.Year()
			}
			// The flag is 1-12 for humans; the engine counts from 0.
			m := engine.ZeroBasedMonth(now)
			if month != 0 {
				m = month - 1
			}

			inputs, err := seed.Load(cmd.Context(), opts.Seed, now, app.Fetcher)
			if err != nil {
				return err
			}
			store := engine.NewStore()
			seed.Populate(store, inputs)

			slog.Debug(config.MsgGridServed,
				config.LogKeyComponent, config.CompCLI,
				config.LogKeyYear, year,
				config.LogKeyMonth, m,
			)

			RenderGrid(cmd.OutOrStdout(), year, m, store.Grid(year, m, now), engine.DefaultLocale())
			return nil
		},
	}

	cmd.Flags().IntVar(&year, config.FlagYear, 0, config.FlagDescYear)
	cmd.Flags().IntVar(&month, config.FlagMonth, 0, config.FlagDescMonth)
	return cmd
}

// RenderGrid prints a month grid followed by the agenda of its days.
// Colors follow color.NoColor, so redirected output stays plain.
func RenderGrid(w io.Writer, year, month int, grid []engine.Day, loc engine.Locale) {
	headerColor := color.New(color.FgCyan, color.Bold).SprintFunc()
	todayColor := color.New(color.FgGreen, color.Bold).SprintFunc()
	subtle := color.New(color.FgHiBlack).SprintFunc()
	marker := color.New(color.FgYellow).SprintFunc()

	year, month = engine.NormalizeMonth(year, month)
	fmt.Fprint(w, headerColor(fmt.Sprintf(config.CLIHeaderFormat, loc.MonthName(month), year)))

	names := make([]string, 0, config.GridColumns)
	for _, name := range loc.ShortWeekdays {
		names = append(names, fmt.Sprintf(config.CLIWeekdayFormat, name))
	}
	fmt.Fprintln(w, subtle(strings.Join(names, config.CLICellSeparator)))

	for row := range config.GridRows {
		cells := make([]string, 0, config.GridColumns)
		for col := range config.GridColumns {
			d := grid[row*config.GridColumns+col]

			mark := config.CLIEmptyCell
			if len(d.Events) > 0 {
				mark = marker(config.CLIEventMarker)
			}
			num := fmt.Sprintf(config.CLICellFormat, d.Date.Day())

			switch {
			case d.IsToday:
				num = todayColor(num)
			case !d.IsCurrentMonth:
				num = subtle(num)
			}
			cells = append(cells, num+mark)
		}
		fmt.Fprintln(w, strings.Join(cells, config.CLICellSeparator))
	}

	for _, d := range grid {
		if !d.IsCurrentMonth || len(d.Events) == 0 {
			continue
		}
		fmt.Fprintf(w, config.CLIAgendaHeader, headerColor(engine.FormatFullDate(d.Date, loc)))
		for _, e := range engine.EventsOn(d.Events, d.Date) {
			fmt.Fprintf(w, config.CLIAgendaLine,
				engine.FormatTimeOfDay(e.Start, loc),
				engine.FormatTimeOfDay(e.End, loc),
				e.Title,
			)
			if e.Location != "" {
				fmt.Fprintf(w, config.CLIAgendaLocation, e.Location)
			}
		}
	}
}
