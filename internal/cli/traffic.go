package cli

import (
	"time"

	"github.com/spf13/cobra"

	"ease/internal/modules/horizon"
	"ease/internal/modules/offer"
	"ease/internal/modules/traffic"
)

type trafficOutput struct {
	At             time.Time               `json:"at"`
	Density        float64                 `json:"density"`
	Level          traffic.Level           `json:"level"`
	Reasoning      string                  `json:"reasoning"`
	Recommendation *horizon.Recommendation `json:"recommendation,omitempty"`
}

func newTrafficCmd(a *app) *cobra.Command {
	var (
		at, horizonFlag string
		miles           float64
	)

	cmd := &cobra.Command{
		Use:   "traffic",
		Short: "Estimate congestion at a time and optionally scan a horizon for the quietest start",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := a.cfg.Location
			now := time.Now().In(loc)
			when := now
			if at != "" {
				t, err := offer.ParseArrival(at, loc)
				if err != nil {
					return err
				}
				when = t.In(loc)
			}
			mode, err := horizon.ParseMode(horizonFlag)
			if err != nil {
				return err
			}

			est := traffic.Estimate(traffic.Input{At: when, TripMiles: miles})
			return writeJSON(cmd, trafficOutput{
				At:             when,
				Density:        est.Density,
				Level:          est.Level,
				Reasoning:      est.Reasoning(),
				Recommendation: horizon.Search(mode, now, when, miles),
			})
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "time to estimate (defaults to now)")
	cmd.Flags().Float64Var(&miles, "miles", 0, "trip length in miles")
	cmd.Flags().StringVar(&horizonFlag, "horizon", "", "scan HOURS, DAY, WEEK or MONTH for the lowest density")
	return cmd
}
