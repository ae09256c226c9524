package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/address-verifier/app/bootstrap"
	"github.com/address-verifier/app/services"
	"github.com/address-verifier/helpers/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	resolveFile        string
	resolveConcurrency int
	resolveGeocode     bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Chuẩn hoá từng dòng địa chỉ từ file hoặc stdin, ghi NDJSON ra stdout",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		in := io.Reader(os.Stdin)
		if resolveFile != "" && resolveFile != "-" {
			f, err := os.Open(resolveFile)
			if err != nil {
				return fmt.Errorf("lỗi mở file: %w", err)
			}
			defer f.Close() //nolint:errcheck
			in = f
		}

		lines, err := readLines(in)
		if err != nil {
			return err
		}

		if resolveConcurrency > 0 {
			cfg.Batch.Concurrency = resolveConcurrency
		}
		container, err := bootstrap.Build(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer container.Close(context.Background()) //nolint:errcheck

		batchID := utils.GenerateShortID()
		start := time.Now()
		failed, err := runResolve(ctx, container, lines, cmd.OutOrStdout(), resolveGeocode)
		if err != nil {
			return err
		}

		logger.Info("Batch resolve completed",
			zap.String("batch_id", batchID),
			zap.Int("lines", len(lines)),
			zap.Int("failed", failed),
			zap.Duration("processing_time", time.Since(start)))
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveFile, "file", "f", "", "file đầu vào, mỗi dòng một địa chỉ (mặc định stdin)")
	resolveCmd.Flags().IntVarP(&resolveConcurrency, "concurrency", "c", 0, "số dòng xử lý đồng thời (mặc định batch.concurrency)")
	resolveCmd.Flags().BoolVar(&resolveGeocode, "geocode", false, "chạy thêm HERE geocode cho mỗi dòng")
}

// resolveRecord một dòng NDJSON
type resolveRecord struct {
	Line        int    `json:"line"`
	AddressLine string `json:"addressLine"`
	Status      int    `json:"status"`
	Body        any    `json:"body"`
}

// readLines đọc các dòng không rỗng
func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("lỗi đọc input: %w", err)
	}
	return lines, nil
}

// runResolve xử lý toàn bộ dòng rồi ghi NDJSON theo thứ tự input, trả về số dòng lỗi
func runResolve(ctx context.Context, c *bootstrap.Container, lines []string, out io.Writer, geocode bool) (int, error) {
	records := make([]resolveRecord, len(lines))

	if geocode {
		limit := c.Config.Batch.Concurrency
		if limit <= 0 {
			limit = services.DefaultBatchConcurrency
		}
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(limit)
		for i, line := range lines {
			g.Go(func() error {
				v := c.Verify.VerifyLine(gctx, line)
				status := v.USPSStatus
				if status == http.StatusOK {
					status = v.HereStatus
				}
				records[i] = resolveRecord{Line: i + 1, AddressLine: line, Status: status, Body: v}
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, r := range c.Resolution.StandardizeLines(ctx, lines) {
			records[i] = resolveRecord{Line: i + 1, AddressLine: lines[i], Status: r.Status, Body: r.Body}
		}
	}

	enc := json.NewEncoder(out)
	failed := 0
	for _, rec := range records {
		if rec.Status != http.StatusOK {
			failed++
		}
		if err := enc.Encode(rec); err != nil {
			return failed, fmt.Errorf("lỗi ghi output: %w", err)
		}
	}
	return failed, nil
}
