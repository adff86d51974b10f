package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"luxestate/internal/repository"
	"luxestate/internal/service"
)

func newReconcileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Repair property statuses that disagree with active bookings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reconciler := service.NewReconciler(
				repository.NewTxManager(a.db),
				repository.NewPropertyRepository(a.db),
				repository.NewBookingRepository(a.db),
				service.NewAvailabilitySynchronizer(nil),
			)
			result, err := reconciler.Reconcile(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checked %d properties, repaired %d (%d booked, %d released)\n",
				result.Checked, result.Repaired(), result.Booked, result.Released)
			return nil
		},
	}
}
