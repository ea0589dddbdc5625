package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/okian/cancha/internal/domain/evaluation"
	"github.com/okian/cancha/internal/domain/improvement"
	"github.com/okian/cancha/internal/domain/model"
	"github.com/okian/cancha/internal/rosterfile"
	"github.com/okian/cancha/pkg/logger"
	"github.com/spf13/cobra"
)

// growthLine is one evaluated player in the command output.
type growthLine struct {
	player   *model.Player
	delta    model.Delta
	total    int
	previous int
}

func newEvaluateCommand(s *settings) *cobra.Command {
	var (
		playersPath string
		perfPath    string
		mode        string
		outPath     string
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Apply post-match growth from a performances file",
		Long: `Evaluate reads one match worth of performance records and grows every
listed player. Either every record is applied or none is. With --out the
updated roster is written back as YAML.

The mode is --mode, else the file's mode, else the configured
evaluation_mode. Tags resolve against the configured catalog.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			roster, err := rosterfile.LoadRoster(playersPath)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", playersPath, err)
			}
			perf, err := rosterfile.LoadPerformances(perfPath)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", perfPath, err)
			}

			var m evaluation.Mode
			switch {
			case strings.TrimSpace(mode) != "":
				m, err = evaluation.ParseMode(mode)
			case perf.Mode != "":
				m, err = evaluation.ParseMode(perf.Mode)
			default:
				m, err = s.cfg.Mode()
			}
			if err != nil {
				return err
			}
			catalog, err := s.cfg.Catalog()
			if err != nil {
				return err
			}

			lines, err := evaluate(evaluation.NewEngine(catalog), roster, perf.Records, m)
			if err != nil {
				return err
			}
			log := logger.Named("evaluate")
			for _, l := range lines {
				log.Debug(cmd.Context(), "player grew",
					logger.String("player", l.player.ID),
					logger.Int("totalImprovement", l.total),
					logger.Int("previousOvr", l.previous),
					logger.Int("newOvr", l.player.Ovr),
				)
			}

			if err := printGrowth(cmd.OutOrStdout(), m, perf, lines); err != nil {
				return err
			}
			if outPath == "" {
				return nil
			}
			if err := rosterfile.SaveRoster(outPath, roster); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nwrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&playersPath, "players", "", "Roster YAML file")
	cmd.Flags().StringVar(&perfPath, "performances", "", "Performances YAML file")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Evaluation mode: tags or rating (default: file mode, then tags)")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the updated roster here")
	_ = cmd.MarkFlagRequired("players")
	_ = cmd.MarkFlagRequired("performances")

	return cmd
}

// evaluate grows the roster players named in records. Growth is computed on
// copies and committed only when every record succeeds.
func evaluate(engine *evaluation.Engine, roster *rosterfile.Roster, records []evaluation.PerformanceRecord, mode evaluation.Mode) ([]growthLine, error) {
	for _, rec := range records {
		if _, ok := roster.Lookup(rec.PlayerID); !ok {
			return nil, fmt.Errorf("%w: unknown player %s", rosterfile.ErrInvalidPerformances, rec.PlayerID)
		}
	}
	results, err := engine.EvaluateAll(mode, roster.Positions(), records)
	if err != nil {
		return nil, err
	}

	lines := make([]growthLine, 0, len(results))
	for _, res := range results {
		p, _ := roster.Lookup(res.PlayerID)
		grown := *p
		out, err := improvement.Apply(&grown, res.Delta)
		if err != nil {
			return nil, err
		}
		lines = append(lines, growthLine{player: &grown, delta: res.Delta, total: res.TotalImprovement, previous: out.PreviousOvr})
	}
	for _, l := range lines {
		p, _ := roster.Lookup(l.player.ID)
		*p = *l.player
	}
	return lines, nil
}

func printGrowth(w io.Writer, mode evaluation.Mode, perf *rosterfile.Performances, lines []growthLine) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "mode %s\n", mode)
	if score, ok := perf.Score(); ok {
		fmt.Fprintf(tw, "score %s\n", score)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "PLAYER\tPAC\tSHO\tPAS\tDRI\tDEF\tPHY\tTOTAL\tOVR")
	for _, l := range lines {
		d := l.delta
		fmt.Fprintf(tw, "%s\t+%d\t+%d\t+%d\t+%d\t+%d\t+%d\t%d\t%d -> %d\n",
			l.player.Name, d[model.Pace], d[model.Shooting], d[model.Passing], d[model.Dribbling], d[model.Defending], d[model.Physical],
			l.total, l.previous, l.player.Ovr)
	}
	return tw.Flush()
}
