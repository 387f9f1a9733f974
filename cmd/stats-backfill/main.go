// stats-backfill rebuilds daily_stats from the raw activity rows. Per
// (date, site) grain: revenue = report revenue + Recette transactions,
// expenses = report expenses + Dépense transactions, interventions = report
// count. Existing rows are overwritten with the recomputed totals.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//     go run ./cmd/stats-backfill [-from YYYY-MM-DD] [-to YYYY-MM-DD] [-site Abidjan|Bouaké]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"bitbucket.org/ebfdigital/manager_backend/config"
	"bitbucket.org/ebfdigital/manager_backend/models"
)

type grainKey struct {
	date string
	site models.Site
}

type grainTotals struct {
	revenue       decimal.Decimal
	expenses      decimal.Decimal
	interventions int
}

func main() {
	from := flag.String("from", "", "Optional: start date (YYYY-MM-DD). If empty, all history.")
	to := flag.String("to", "", "Optional: end date (YYYY-MM-DD). If empty, up to today.")
	site := flag.String("site", "", "Optional: backfill only one site. If empty, both.")
	flag.Parse()

	if strings.TrimSpace(*site) != "" && !models.Site(*site).IsValid() {
		fmt.Fprintf(os.Stderr, "invalid site %q\n", *site)
		os.Exit(1)
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	totals := map[grainKey]*grainTotals{}
	bump := func(date string, recSite models.Site) *grainTotals {
		key := grainKey{date: date, site: recSite}
		t, ok := totals[key]
		if !ok {
			t = &grainTotals{revenue: decimal.Zero, expenses: decimal.Zero}
			totals[key] = t
		}
		return t
	}
	inRange := func(date string, recSite models.Site) bool {
		if date == "" || !recSite.IsValid() {
			return false
		}
		if *from != "" && date < *from {
			return false
		}
		if *to != "" && date > *to {
			return false
		}
		if strings.TrimSpace(*site) != "" && recSite != models.Site(*site) {
			return false
		}
		return true
	}

	var reports []models.DailyReport
	if err := db.WithContext(ctx).Find(&reports).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to load reports: %v\n", err)
		os.Exit(1)
	}
	for _, r := range reports {
		if !inRange(r.Date, r.Site) {
			continue
		}
		t := bump(r.Date, r.Site)
		t.revenue = t.revenue.Add(r.Revenue)
		t.expenses = t.expenses.Add(r.Expenses)
		t.interventions++
	}

	var transactions []models.Transaction
	if err := db.WithContext(ctx).Find(&transactions).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to load transactions: %v\n", err)
		os.Exit(1)
	}
	for _, tr := range transactions {
		if !inRange(tr.Date, tr.Site) {
			continue
		}
		t := bump(tr.Date, tr.Site)
		switch tr.Type {
		case models.TransactionTypeRevenue:
			t.revenue = t.revenue.Add(tr.Amount)
		case models.TransactionTypeExpense:
			t.expenses = t.expenses.Add(tr.Amount)
		}
	}

	if len(totals) == 0 {
		fmt.Println("No activity found in range; nothing to backfill")
		return
	}

	for key, t := range totals {
		if _, err := models.ReplaceDailyStat(ctx, key.date, key.site, t.revenue, t.expenses, t.interventions); err != nil {
			fmt.Fprintf(os.Stderr, "failed to rebuild %s/%s: %v\n", key.date, key.site, err)
			os.Exit(1)
		}
		fmt.Printf("Rebuilt daily_stats %s %s: revenue=%s expenses=%s interventions=%d\n",
			key.date, key.site, t.revenue.String(), t.expenses.String(), t.interventions)
	}

	fmt.Println("Backfill complete")
}
