package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ease/internal/modules/horizon"
	"ease/internal/modules/offer"
)

type offersOutput struct {
	Offers  *offer.OfferSet `json:"offers"`
	Ranking offer.Ranking   `json:"ranking"`
}

func newOffersCmd(a *app) *cobra.Command {
	var (
		origin, dest, arrival, horizonFlag string
		miles, exitMiles                   float64
		flexMin, flexMax                   int
		noFlex, useAI                      bool
	)

	cmd := &cobra.Command{
		Use:   "offers",
		Short: "Print the offer set for one trip as JSON",
		Example: `  ease offers --origin "Union Station" --dest "O'Hare" --arrival 2025-06-02T08:30 --miles 18
  ease offers --origin A --dest B --arrival 2025-06-02T17:00 --horizon DAY --no-flex`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := a.cfg.Location
			desired, err := offer.ParseArrival(arrival, loc)
			if err != nil {
				return err
			}
			mode, err := horizon.ParseMode(horizonFlag)
			if err != nil {
				return err
			}
			req := offer.Request{
				Origin:         origin,
				Destination:    dest,
				DesiredArrival: desired,
				TripMiles:      miles,
				Flex:           offer.Flex{On: !noFlex, MinShift: flexMin, MaxShift: flexMax},
				Horizon:        mode,
			}
			if cmd.Flags().Changed("exit-miles") {
				req.ExitMiles = &exitMiles
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			var src offer.Source = offer.NewEngine(time.Now, loc)
			if useAI {
				aiSrc, closeAI, err := newAISource(ctx, a.cfg)
				defer closeAI()
				if err != nil {
					return err
				}
				src = offer.NewFallback(aiSrc, src, a.cfg.AI.Timeout)
			}

			set, err := src.Generate(ctx, req)
			if err != nil {
				return err
			}
			return writeJSON(cmd, offersOutput{Offers: set, Ranking: offer.RankSet(set)})
		},
	}

	f := cmd.Flags()
	f.StringVar(&origin, "origin", "", "trip origin")
	f.StringVar(&dest, "dest", "", "trip destination")
	f.StringVar(&arrival, "arrival", "", "desired arrival, RFC 3339 or local YYYY-MM-DDTHH:MM")
	f.Float64Var(&miles, "miles", 0, "trip length in miles")
	f.Float64Var(&exitMiles, "exit-miles", offer.DefaultExitMiles, "distance to the nearest motorway entrance")
	f.StringVar(&horizonFlag, "horizon", "", "search horizon: HOURS, DAY, WEEK or MONTH")
	f.IntVar(&flexMin, "flex-min", offer.DefaultFlex.MinShift, "smallest shift in minutes")
	f.IntVar(&flexMax, "flex-max", offer.DefaultFlex.MaxShift, "largest shift in minutes")
	f.BoolVar(&noFlex, "no-flex", false, "only return the on-time window")
	f.BoolVar(&useAI, "ai", false, "ask the configured AI provider first, falling back to the engine")
	_ = cmd.MarkFlagRequired("origin")
	_ = cmd.MarkFlagRequired("dest")
	_ = cmd.MarkFlagRequired("arrival")
	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
