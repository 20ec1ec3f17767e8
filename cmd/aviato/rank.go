package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aviato-app/aviato-match/internal/application/query"
	"github.com/aviato-app/aviato-match/internal/domain/matching"
	"github.com/aviato-app/aviato-match/internal/domain/selection"
	"github.com/aviato-app/aviato-match/internal/infrastructure/persistence/memory"
	"github.com/aviato-app/aviato-match/pkg/logger"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank candidates for a user",
	Long: "Prints the match list a user would see. With fewer than five interests candidates are ordered " +
		"by approval rating; with five or more they are ordered by shared interests.",
	RunE: runRank,
}

var (
	rankUser      string
	rankInterests []string
	rankJSON      bool
)

func init() {
	rankCmd.Flags().StringVarP(&rankUser, "user", "u", "", "Acting user ID or demo handle (e.g. alex) (required)")
	rankCmd.Flags().StringSliceVarP(&rankInterests, "interest", "i", nil, "Interest to select; repeat or comma-separate. Defaults to the user's committed selection")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "Print the result as JSON")

	if err := rankCmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark user flag as required: %v", err))
	}

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	// Консольный вывод не должен смешиваться с info-логами.
	if !cfg.App.Debug {
		log = logger.Nop()
	}

	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	userID := resolveUserID(rankUser)

	selections := a.selections
	if len(rankInterests) > 0 {
		for _, tag := range rankInterests {
			if !selection.IsKnownInterest(tag) {
				return fmt.Errorf("unknown interest %q", tag)
			}
		}
		// Явный выбор из флагов не фиксируется в хранилище.
		override := memory.NewSelectionStore()
		if err := override.Commit(ctx, userID, selection.NewSet(rankInterests...)); err != nil {
			return err
		}
		selections = override
	}

	result, err := query.NewGetMatchesHandler(a.users, selections, nil, log).
		Handle(ctx, query.GetMatchesQuery{UserID: userID})
	if err != nil {
		return err
	}

	if rankJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return printMatches(cmd.OutOrStdout(), result)
}

// resolveUserID maps demo handles to their seed IDs; anything else is an ID.
func resolveUserID(s string) string {
	for _, u := range memory.SeedUsers() {
		handle, _, _ := strings.Cut(strings.ToLower(u.Name), " ")
		if handle == strings.ToLower(s) {
			return memory.SeedID(handle).String()
		}
	}
	return s
}

func printMatches(w io.Writer, res *query.MatchListResult) error {
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, "mode: %s (%d/%d interests selected)\n\n", res.Mode, res.SelectionSize, res.MatchThreshold)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tAPPROVAL\tREVIEWS\tMATCH\tSTATUS\tMESSAGE")
	for i, c := range res.Cards {
		match := "-"
		if c.MatchPercentage != nil {
			match = fmt.Sprintf("%d%% %s", *c.MatchPercentage, matching.Percentage(*c.MatchPercentage).Quality())
		}
		msg := "no"
		if c.CanMessage {
			msg = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, c.Name, c.ApprovalLabel, c.ReviewLabel, match, c.StatusText, msg)
	}
	return tw.Flush()
}
