package main

import (
	"fmt"

	"github.com/okian/cancha/internal/domain/model"
	"github.com/okian/cancha/internal/domain/rating"
	"github.com/spf13/cobra"
)

func newOvrCommand() *cobra.Command {
	var (
		position string
		attrs    model.AttributeSet
	)
	cmd := &cobra.Command{
		Use:     "ovr",
		Short:   "Compute a player's OVR from position and attributes",
		Example: `  roster ovr --position DEL --pac 80 --sho 85 --pas 60 --dri 75 --def 40 --phy 70`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pos := model.ParsePosition(position)
			ovr, err := rating.Calculate(attrs, pos)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OVR %d (%s)\n", ovr, pos)
			return nil
		},
	}

	cmd.Flags().StringVarP(&position, "position", "p", "", "Position: POR, DEF, MED or DEL")
	cmd.Flags().IntVar(&attrs.Pac, "pac", 0, "Pace (1-99)")
	cmd.Flags().IntVar(&attrs.Sho, "sho", 0, "Shooting (1-99)")
	cmd.Flags().IntVar(&attrs.Pas, "pas", 0, "Passing (1-99)")
	cmd.Flags().IntVar(&attrs.Dri, "dri", 0, "Dribbling (1-99)")
	cmd.Flags().IntVar(&attrs.Def, "def", 0, "Defending (1-99)")
	cmd.Flags().IntVar(&attrs.Phy, "phy", 0, "Physical (1-99)")
	_ = cmd.MarkFlagRequired("position")

	return cmd
}
