package cli

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/encounterlog/internal/api/request"
	"github.com/mcoot/encounterlog/internal/api/response"
)

func newEncountersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "encounters",
		Aliases: []string{"enc"},
		Short:   "Encounter management commands",
	}

	cmd.AddCommand(newEncountersListCmd())
	cmd.AddCommand(newEncountersGetCmd())
	cmd.AddCommand(newEncountersDeleteCmd())
	cmd.AddCommand(newEncountersFavoriteCmd())
	cmd.AddCommand(newEncountersIngestCmd())

	return cmd
}

func encounterPath(id int64) string {
	return "/api/v1/encounters/" + strconv.FormatInt(id, 10)
}

func parseEncounterID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid encounter id %q", raw)
	}
	return id, nil
}

func newEncountersListCmd() *cobra.Command {
	var (
		boss      string
		search    string
		favorites bool
		limit     int
		offset    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored encounters, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if boss != "" {
				q.Set("boss", boss)
			}
			if search != "" {
				q.Set("q", search)
			}
			if favorites {
				q.Set("favorites", "true")
			}
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}
			if offset > 0 {
				q.Set("offset", strconv.Itoa(offset))
			}

			path := "/api/v1/encounters"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var result response.EncounterList
			if err := client.Get(path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&boss, "boss", "", "Only show encounters against this boss")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show encounters whose boss or a player name contains this text")
	cmd.Flags().BoolVar(&favorites, "favorites", false, "Only show favorite encounters")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of encounters (default: server maximum)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of encounters to skip")

	return cmd
}

func newEncountersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get an encounter with all its entities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEncounterID(args[0])
			if err != nil {
				return err
			}

			var result response.Encounter
			if err := client.Get(encounterPath(id), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newEncountersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an encounter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEncounterID(args[0])
			if err != nil {
				return err
			}

			if err := client.Delete(encounterPath(id)); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage(fmt.Sprintf("Deleted encounter %d", id))
			return nil
		},
	}
}

func newEncountersFavoriteCmd() *cobra.Command {
	var unset bool

	cmd := &cobra.Command{
		Use:   "favorite <id>",
		Short: "Mark an encounter as a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEncounterID(args[0])
			if err != nil {
				return err
			}

			var result response.EncounterPreview
			req := request.SetFavoriteRequest{Favorite: !unset}
			if err := client.Put(encounterPath(id)+"/favorite", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&unset, "unset", false, "Remove the favorite mark instead")

	return cmd
}

func newEncountersIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>",
		Short: "Upload a recorded encounter from a JSON file ('-' for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read encounter: %w", err)
			}

			var result response.Encounter
			if err := client.DoRaw(http.MethodPost, "/api/v1/encounters", data, &result); err != nil {
				return err
			}

			if cfg.Verbose {
				NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
				return nil
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result.EncounterPreview)
			return nil
		},
	}
}
