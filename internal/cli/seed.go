package cli

import (
	"github.com/spf13/cobra"

	"github.com/parisxmas/oxidocs/internal/events"
	"github.com/parisxmas/oxidocs/internal/service"
)

func newSeedCommand(a *app) *cobra.Command {
	var sample bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Install the admin account and optionally the sample template",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			opts := a.seedOptions()
			if cmd.Flags().Changed("sample") {
				opts.Sample = sample
			}
			templates := service.NewTemplateService(store.Templates, store.Documents, events.Nop{}, service.DeleteOrphan)
			return service.Seed(ctx, service.NewUserService(store.Users), templates, opts)
		},
	}
	cmd.Flags().BoolVar(&sample, "sample", false, "install the sample marriage contract template")
	return cmd
}
