package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pageza/glucowise/backend/config"
	"github.com/pageza/glucowise/backend/internal/service"
	"github.com/pageza/glucowise/backend/internal/store"
)

func init() {
	var foodID, file string
	cmd := &cobra.Command{
		Use:   "attach-image",
		Short: "Upload an image to object storage and attach it to a food",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(foodID)
			if err != nil {
				return fmt.Errorf("invalid --food-id: %w", err)
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			s3Cfg, err := config.NewS3Config(ctx, e.cfg)
			if err != nil {
				return err
			}
			if s3Cfg == nil {
				return fmt.Errorf("S3_BUCKET_NAME is not set")
			}

			svc := service.NewFoodService(store.NewFoodStore(e.db), e.log)
			ref, err := svc.AttachImage(ctx, id, s3Cfg, filepath.Base(file), data)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ref)
			return nil
		},
	}
	cmd.Flags().StringVar(&foodID, "food-id", "", "Food ID (required)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Image file (required)")
	_ = cmd.MarkFlagRequired("food-id")
	_ = cmd.MarkFlagRequired("file")
	rootCmd.AddCommand(cmd)
}
