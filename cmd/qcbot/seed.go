package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the catalog's initial users if none are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, kv, err := ctx.newService(cmd.Context())
			if err != nil {
				return err
			}
			defer kv.Close()
			seeded, err := svc.SeedUsers(cmd.Context())
			if err != nil {
				return err
			}
			if seeded {
				fmt.Fprintln(cmd.OutOrStdout(), "initial users written")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "users already present, nothing to do")
			}
			return nil
		},
	}
}
