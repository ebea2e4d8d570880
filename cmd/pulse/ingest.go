package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pulsebit/pulsebot/internal/config"
	"github.com/pulsebit/pulsebot/internal/core"
	"github.com/pulsebit/pulsebot/internal/storage/sqlite"
	"github.com/pulsebit/pulsebot/pkg/log"
	"github.com/spf13/cobra"
)

// ingestRecord is one JSONL line of exported ring data.
type ingestRecord struct {
	UserID     string          `json:"user_id"`
	Domain     string          `json:"domain"`
	Day        string          `json:"day"`
	Value      float64         `json:"value"`
	Detail     json.RawMessage `json:"detail"`
	RecordedAt string          `json:"recorded_at"`
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <file.jsonl>",
	Short: "Import ring data from a JSONL export",
	Long: `Reads one health sample per line and stores it in the local database.

Each line is a JSON object:

  {"domain": "sleep", "day": "2026-08-20", "value": 7.4,
   "detail": {"deep_sleep_minutes": 92}, "recorded_at": "2026-08-21T07:02:11Z"}

domain, day and value are required. recorded_at defaults to the day and
user_id defaults to PULSE_PRIMARY_USER. Malformed lines are skipped.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}
		appCfg := config.NewAppConfig(ctx)

		db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		health := sqlite.NewHealthRepo(db)

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		var stored, skipped int
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for lineNo := 1; scanner.Scan(); lineNo++ {
			line := scanner.Bytes()
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			sample, err := parseSample(line, appCfg.PrimaryUser)
			if err != nil {
				logger.Warn().Err(err).Int("line", lineNo).Msg("skipping sample")
				skipped++
				continue
			}
			if err := health.InsertSample(ctx, sample); err != nil {
				logger.Warn().Err(err).Int("line", lineNo).Msg("failed to store sample")
				skipped++
				continue
			}
			stored++
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		logger.Info().Int("stored", stored).Int("skipped", skipped).Msg("ingest finished")
		return nil
	},
}

func parseSample(line []byte, defaultUser string) (core.HealthSample, error) {
	var rec ingestRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return core.HealthSample{}, fmt.Errorf("invalid json: %w", err)
	}

	domain := core.Domain(rec.Domain)
	if !core.ValidDomain(domain) {
		return core.HealthSample{}, fmt.Errorf("unknown domain %q", rec.Domain)
	}

	day, err := time.Parse(time.DateOnly, rec.Day)
	if err != nil {
		return core.HealthSample{}, fmt.Errorf("invalid day %q: %w", rec.Day, err)
	}

	recordedAt := day
	if rec.RecordedAt != "" {
		recordedAt, err = time.Parse(time.RFC3339, rec.RecordedAt)
		if err != nil {
			return core.HealthSample{}, fmt.Errorf("invalid recorded_at %q: %w", rec.RecordedAt, err)
		}
	}

	detail := "{}"
	if len(rec.Detail) > 0 && string(rec.Detail) != "null" {
		detail = string(rec.Detail)
	}

	user := rec.UserID
	if user == "" {
		user = defaultUser
	}

	return core.HealthSample{
		UserID:     user,
		Domain:     domain,
		Day:        day,
		Value:      rec.Value,
		Detail:     detail,
		RecordedAt: recordedAt,
	}, nil
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
