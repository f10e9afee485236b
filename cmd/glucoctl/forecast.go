package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pageza/glucowise/backend/internal/service"
	"github.com/pageza/glucowise/backend/internal/store"
)

func init() {
	var email string
	var values []float64
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Call the forecasting service and print the normalized points without storing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			pc := e.cfg.Prediction
			forecaster := service.NewHTTPForecaster(pc.ForecastURL, pc.ForecastTimeout, pc.DefaultHorizon)

			userID := uuid.Nil
			if len(values) == 0 {
				if email == "" {
					return fmt.Errorf("--email or --values required")
				}
				user, err := store.NewUserStore(e.db).FindUserByEmail(ctx, email)
				if err != nil {
					return err
				}
				if user == nil {
					return fmt.Errorf("no user with email %s", email)
				}
				userID = user.ID
				window, err := store.NewReadingStore(e.db).RecentWindow(ctx, user.ID, pc.WindowSize)
				if err != nil {
					return err
				}
				for _, r := range window {
					values = append(values, r.Value)
				}
			}
			return dryRunForecast(ctx, forecaster, userID, values, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Use this account's recent readings")
	cmd.Flags().Float64SliceVar(&values, "values", nil, "Explicit input values, oldest first")
	rootCmd.AddCommand(cmd)
}

func dryRunForecast(ctx context.Context, f service.Forecaster, userID uuid.UUID, values []float64, out io.Writer) error {
	if len(values) == 0 {
		return fmt.Errorf("no input values")
	}
	points, err := f.Forecast(ctx, userID, values)
	if err != nil {
		return err
	}
	type point struct {
		Value        float64   `json:"value"`
		PredictedFor time.Time `json:"predicted_for"`
	}
	printed := make([]point, len(points))
	for i, p := range points {
		printed[i] = point{Value: p.Value, PredictedFor: p.PredictedFor}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]interface{}{
		"input":  values,
		"points": printed,
	})
}
