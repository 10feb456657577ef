package main

import (
	"fmt"
	"time"

	"aiqr-api/integrity"
	"aiqr-api/store"

	"github.com/spf13/cobra"
)

func sweepCmd() *cobra.Command {
	var minAge time.Duration
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete tables, categories and menu items no restaurant references",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer closeDB(db, log)

			age := cfg.SweepMinAge
			if cmd.Flags().Changed("min-age") {
				age = minAge
			}
			res, err := integrity.NewSweeper(store.NewGormStore(db), log, age).Sweep(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d tables, %d categories, %d menu items\n",
				res.Tables, res.Categories, res.MenuItems)
			return nil
		},
	}
	cmd.Flags().DurationVar(&minAge, "min-age", 0, "only remove records older than this (overrides SWEEP_MIN_AGE)")
	return cmd
}
