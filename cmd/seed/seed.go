package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/kestrelhq/model-registry/internal/core/domain"
	"github.com/kestrelhq/model-registry/internal/store/model"
	"github.com/kestrelhq/model-registry/internal/store/sqlite"
)

// Seeds the request log with a few days of synthetic traffic so the usage
// endpoints have something to aggregate during local development.
func main() {
	dsn := flag.String("dsn", "file:model-registry.db?_journal_mode=WAL&_busy_timeout=5000", "SQLite DSN")
	days := flag.Int("days", 7, "Number of trailing days to backfill")
	perDay := flag.Int("per-day", 40, "Approximate entries per day")
	flag.Parse()

	repo, err := sqlite.NewSQLiteStorage(*dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	models := []struct {
		provider domain.Provider
		id       string
		inRate   float64
		outRate  float64
	}{
		{domain.ProviderOpenAI, "gpt-4o", 2.5, 10},
		{domain.ProviderOpenAI, "gpt-4o-mini", 0.15, 0.6},
		{domain.ProviderAnthropic, "claude-sonnet-4-20250514", 3, 15},
	}
	scopes := []string{
		"default",
		domain.FingerprintAPIKey("seed-scope-a"),
		domain.FingerprintAPIKey("seed-scope-b"),
	}

	ctx := context.Background()
	total := 0

	for day := 0; day < *days; day++ {
		dayStart := time.Now().AddDate(0, 0, -day).Truncate(24 * time.Hour)
		n := *perDay/2 + rand.Intn(*perDay)

		for i := 0; i < n; i++ {
			m := models[rand.Intn(len(models))]
			in := 200 + rand.Intn(4000)
			out := 50 + rand.Intn(1500)
			cost := (float64(in)*m.inRate + float64(out)*m.outRate) / 1_000_000

			entry := &model.RequestLog{
				ID:               uuid.NewString(),
				Provider:         string(m.provider),
				ModelID:          m.id,
				ScopeFingerprint: scopes[rand.Intn(len(scopes))],
				InputTokens:      in,
				OutputTokens:     out,
				TotalCostUSD:     cost,
				LatencyMS:        int64(300 + rand.Intn(2500)),
				IsStreamed:       rand.Intn(2) == 0,
				CreatedAt:        dayStart.Add(time.Duration(rand.Intn(86400)) * time.Second),
			}
			if rand.Intn(25) == 0 {
				entry.ErrorKind = "rate_limit"
			}

			if err := repo.Requests().Log(ctx, entry); err != nil {
				log.Fatal(err)
			}
			total++
		}
	}

	fmt.Printf("Seeded %d request logs across %d days\n", total, *days)
}
