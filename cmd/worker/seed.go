package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/address-verifier/app/bootstrap"
	"github.com/address-verifier/app/models"
	"github.com/address-verifier/internal/county"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	seedFile   string
	seedDryRun bool
)

var seedCmd = &cobra.Command{
	Use:   "seed-counties",
	Short: "Validate rồi upsert bảng county provider vào MongoDB",
	RunE: func(cmd *cobra.Command, _ []string) error {
		records, err := loadSeedRecords(seedFile)
		if err != nil {
			return err
		}

		if problems := county.Validate(records); len(problems) > 0 {
			for _, p := range problems {
				logger.Error("County provider không hợp lệ", zap.String("problem", p))
			}
			return fmt.Errorf("%d lỗi validate", len(problems))
		}

		if seedDryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "dry run: %d providers hợp lệ\n", len(records))
			return nil
		}

		if cfg.Mongo.URL == "" {
			return errors.New("MONGO_URL chưa cấu hình")
		}
		container, err := bootstrap.Build(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer container.Close(cmd.Context()) //nolint:errcheck

		result, err := container.Admin.SeedCountyProviders(cmd.Context(), records)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "inserted=%d updated=%d (%dms)\n", result.Inserted, result.Updated, result.ProcessingTimeMs)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "file yaml providers (mặc định bảng nhúng)")
	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "chỉ validate, không ghi MongoDB")
}

func loadSeedRecords(path string) ([]models.CountyProviderRecord, error) {
	if path == "" {
		return county.LoadEmbedded()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lỗi đọc %s: %w", path, err)
	}
	return county.Parse(data)
}
