package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/okian/cancha/internal/config"
	"github.com/okian/cancha/internal/domain/balance"
	"github.com/okian/cancha/internal/domain/model"
	"github.com/okian/cancha/internal/rosterfile"
	"github.com/okian/cancha/pkg/logger"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// balanceReport is the json output of the balance command.
type balanceReport struct {
	Format        string           `json:"format"`
	Strategy      string           `json:"strategy"`
	TeamA         model.TeamRecord `json:"team_a"`
	TeamB         model.TeamRecord `json:"team_b"`
	OvrDifference int              `json:"ovr_difference"`
	Balance       model.Balance    `json:"balance"`
	Benched       []string         `json:"benched,omitempty"`
}

func newBalanceCommand(s *settings) *cobra.Command {
	var (
		playersPath string
		format      string
		ids         []string
		naming      string
		seed        uint64
		strategy    string
		output      string
	)
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Split players into two balanced teams",
		Long: `Balance sorts the selected players by OVR and keeps the best two teams'
worth; the rest sit out. The draft strategy deals them in alternate order
(A B A B ...), a full side passing its turn. The positional strategy splits
keepers first, alternates within each line, fills the rest toward the weaker
side and then swaps like-for-like players while that narrows the gap.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output != "text" && output != "json" {
				return fmt.Errorf("unsupported output %q: must be text or json", output)
			}
			names, err := nameProvider(s.cfg, naming, seed)
			if err != nil {
				return err
			}
			formats, err := s.cfg.FormatTable()
			if err != nil {
				return err
			}
			k, err := formats.PlayersPerSide(format)
			if err != nil {
				return err
			}
			st, err := s.cfg.Strategy()
			if strategy != "" {
				st, err = balance.ParseStrategy(strategy)
			}
			if err != nil {
				return err
			}
			roster, err := rosterfile.LoadRoster(playersPath)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", playersPath, err)
			}
			pool, err := roster.Select(ids)
			if err != nil {
				return err
			}

			setup, err := balance.NewBalancer(balance.WithNameProvider(names), balance.WithStrategy(st)).Balance(pool, k)
			if err != nil {
				return err
			}
			report := balanceReport{
				Format:        strings.ToLower(format),
				Strategy:      string(st),
				TeamA:         setup.TeamA.Record(),
				TeamB:         setup.TeamB.Record(),
				OvrDifference: setup.OvrDifference,
				Balance:       balance.Assess(setup),
				Benched:       benched(pool, setup),
			}
			logger.Named("balance").Debug(cmd.Context(), "teams balanced",
				logger.String("format", report.Format),
				logger.String("strategy", report.Strategy),
				logger.Int("players", len(pool)),
				logger.Int("ovrDifference", report.OvrDifference),
			)

			if output == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return printBalance(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&playersPath, "players", "", "Roster YAML file")
	cmd.Flags().StringVarP(&format, "format", "f", "5v5", "Match format, e.g. 5v5, 7v7, 11v11")
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "Player ids to include (default: whole roster)")
	cmd.Flags().StringVar(&naming, "names", "", "Team naming: fixed or random (default: config team_naming)")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Seed for random team names")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "Balancing strategy: draft or positional (default: config balance_strategy)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text or json")
	_ = cmd.MarkFlagRequired("players")

	return cmd
}

func nameProvider(cfg *config.Config, naming string, seed uint64) (balance.NameProvider, error) {
	switch naming {
	case "":
		return cfg.NameProvider(), nil
	case "fixed":
		return balance.FixedNames{"Team A", "Team B"}, nil
	case "random":
		return balance.NewRandomNames(seed, nil), nil
	}
	return nil, fmt.Errorf("unsupported naming %q: must be fixed or random", naming)
}

// benched lists the ids of pool members left out of both teams.
func benched(pool []*model.Player, setup model.MatchSetup) []string {
	playing := make(map[string]struct{}, 2*setup.PlayersPerSide)
	for _, p := range slices.Concat(setup.TeamA.Players, setup.TeamB.Players) {
		playing[p.ID] = struct{}{}
	}
	return lo.FilterMap(pool, func(p *model.Player, _ int) (string, bool) {
		_, ok := playing[p.ID]
		return p.ID, !ok
	})
}

func printBalance(w io.Writer, r balanceReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s %s\tdifference %d\t%s (%d)\n", r.Format, r.Strategy, r.OvrDifference, r.Balance.Label, r.Balance.Score)
	for _, team := range []model.TeamRecord{r.TeamA, r.TeamB} {
		fmt.Fprintf(tw, "\n%s\tavg %d\ttotal %d\n", team.Name, team.AverageOvr, team.TotalOvr)
		for _, e := range team.Roster {
			fmt.Fprintf(tw, "  %s\t%s\t%d\n", e.Position.Code(), e.Name, e.Ovr)
		}
	}
	if len(r.Benched) > 0 {
		fmt.Fprintf(tw, "\nbenched\t%s\n", strings.Join(r.Benched, ", "))
	}
	return tw.Flush()
}
