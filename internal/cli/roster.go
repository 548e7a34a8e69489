package cli

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/encounterlog/internal/api/response"
)

func newRosterCmd() *cobra.Command {
	var hideNames bool

	cmd := &cobra.Command{
		Use:   "roster <id>",
		Short: "Show the player roster of an encounter",
		Long: `Show the players of an encounter, highest damage first.

Names are shortened for display. Unless --hide-names is given the server's
default decides whether other players' names are replaced by their class.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEncounterID(args[0])
			if err != nil {
				return err
			}

			path := encounterPath(id) + "/roster"
			if cmd.Flags().Changed("hide-names") {
				path += "?" + url.Values{"hide_names": {strconv.FormatBool(hideNames)}}.Encode()
			}

			var result response.Roster
			if err := client.Get(path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&hideNames, "hide-names", false, "Replace other players' names with their class")

	return cmd
}

func newSkillsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skills <id> <name>",
		Short: "Show an entity's skill breakdown",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEncounterID(args[0])
			if err != nil {
				return err
			}

			var result response.SkillList
			if err := client.Get(encounterPath(id)+"/entities/"+url.PathEscape(args[1])+"/skills", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
