package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
)

func newParseCmd(app *App) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   config.CmdParseUse,
		Short: config.CmdParseShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := app.NewParser(cmd.Context(), model)
			draft, err := parser.Parse(cmd.Context(), strings.Join(args, " "), app.Clock.Now())
			if err != nil {
				return err
			}
			printDraft(cmd.OutOrStdout(), draft)
			return nil
		},
	}

	cmd.Flags().StringVar(&model, config.FlagModel, config.DefaultAIModel, config.FlagDescModel)
	return cmd
}

func printDraft(w io.Writer, d engine.Draft) {
	fmt.Fprintf(w, config.MsgCLIDraft, config.CLILabelTitle, d.Title)
	fmt.Fprintf(w, config.MsgCLIDraft, config.CLILabelStart, d.Start.Format(config.LayoutRFC3339))
	fmt.Fprintf(w, config.MsgCLIDraft, config.CLILabelEnd, d.End.Format(config.LayoutRFC3339))
	if d.Location != "" {
		fmt.Fprintf(w, config.MsgCLIDraft, config.CLILabelLocation, d.Location)
	}
	if d.Description != "" {
		fmt.Fprintf(w, config.MsgCLIDraft, config.CLILabelDesc, d.Description)
	}
}
