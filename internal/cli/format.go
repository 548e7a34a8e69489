package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/encounterlog/internal/display"
	"github.com/mcoot/encounterlog/internal/model"
)

func newFormatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format",
		Short: "Apply the display rules locally",
		Long:  `Apply the name and text display rules without contacting the server.`,
	}

	cmd.AddCommand(newFormatNameCmd())
	cmd.AddCommand(newFormatTruncateCmd())
	cmd.AddCommand(newFormatSanitizeCmd())

	return cmd
}

func newFormatNameCmd() *cobra.Command {
	var (
		class     string
		dead      bool
		hideNames bool
	)

	cmd := &cobra.Command{
		Use:   "name <name>",
		Short: "Format a player name for display",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := &model.Entity{
				Name:       args[0],
				EntityType: model.EntityTypePlayer,
				Class:      class,
				IsDead:     dead,
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(FormatResult{
				Input:  args[0],
				Result: display.FormatPlayerName(e, hideNames),
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&class, "class", "", "Class shown when the name is hidden or invalid")
	cmd.Flags().BoolVar(&dead, "dead", false, "Mark the player as dead")
	cmd.Flags().BoolVar(&hideNames, "hide-names", false, "Show the class instead of the name")

	return cmd
}

func newFormatTruncateCmd() *cobra.Command {
	var length int

	cmd := &cobra.Command{
		Use:   "truncate <text>",
		Short: "Truncate text, appending an ellipsis when shortened",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(FormatResult{
				Input:  args[0],
				Result: display.TruncateString(args[0], length),
			})
			return nil
		},
	}

	cmd.Flags().IntVarP(&length, "length", "n", display.DefaultTruncateLength, "Number of UTF-16 code units to keep")

	return cmd
}

func newFormatSanitizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sanitize <text>",
		Short: "Replace unknown tooltip tags with placeholders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(FormatResult{
				Input:  args[0],
				Result: display.RemoveUnknownHTMLTags(args[0]),
			})
			return nil
		},
	}
}
