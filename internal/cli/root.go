// README: Command tree for the ease binary (serve, offers, traffic).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ease/internal/config"
	"ease/internal/infra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
)

// app carries state resolved once by the root command for every subcommand.
type app struct {
	cfg config.Config
}

func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "ease",
		Short:         "travelEase offer engine: flexible arrival windows, traffic estimates and grace tokens",
		Version:       fmt.Sprintf("%s (%s)", Version, CommitSHA),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			infra.SetupLogger(cfg.Log.Level, cfg.Log.Console)
			a.cfg = cfg
			return nil
		},
	}

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newOffersCmd(a))
	root.AddCommand(newTrafficCmd(a))
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
