package main

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pageza/glucowise/backend/internal/database"
	"github.com/pageza/glucowise/backend/internal/service"
	"github.com/pageza/glucowise/backend/internal/store"
	"github.com/pageza/glucowise/backend/internal/types"
)

//go:embed sample_foods.json
var sampleFoods []byte

func init() {
	var file, migrationsDir string
	cmd := &cobra.Command{
		Use:   "seed-foods",
		Short: "Load a JSON food catalog (defaults to the built-in sample)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			if err := database.RunMigrations(e.db, migrationsDir, e.log); err != nil {
				return err
			}

			var src io.Reader = bytes.NewReader(sampleFoods)
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				src = f
			}

			svc := service.NewFoodService(store.NewFoodStore(e.db), e.log)
			n, err := seedFoods(ctx, svc, src)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d foods\n", n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON array of foods")
	cmd.Flags().StringVar(&migrationsDir, "migrations", "migrations", "Migrations directory")
	rootCmd.AddCommand(cmd)
}

// seedFoods creates every entry in a JSON array of catalog requests,
// stopping at the first invalid one.
func seedFoods(ctx context.Context, svc service.IFoodService, r io.Reader) (int, error) {
	var reqs []types.CreateFoodRequest
	if err := json.NewDecoder(r).Decode(&reqs); err != nil {
		return 0, fmt.Errorf("decode catalog: %w", err)
	}
	for i := range reqs {
		if _, err := svc.CreateFood(ctx, &reqs[i]); err != nil {
			return i, fmt.Errorf("food %d (%s): %w", i, reqs[i].Name, err)
		}
	}
	return len(reqs), nil
}
