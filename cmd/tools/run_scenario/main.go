package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"farmbudget/pkg/core/budget"
	"farmbudget/pkg/core/refdata"
	"farmbudget/pkg/core/scenario"
	"farmbudget/pkg/core/sensitivity"
	"farmbudget/pkg/core/store"
	"farmbudget/pkg/models"
)

func main() {
	godotenv.Load()

	grid := flag.Bool("grid", false, "run the full price/yield sensitivity grid")
	metric := flag.String("metric", "cashflow", "grid metric: revenue, title, indemnity, cost, cashflow")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: run_scenario [-grid] [-metric name] <scenario.yaml|scenario.hjson>")
		os.Exit(2)
	}

	fy, err := scenario.Load(flag.Arg(0))
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[SCENARIO] %s, crop year %d, run date %s\n",
		fy.FarmName, fy.CropYear, fy.ModelRunDate.Format("2006-01-02"))

	ctx := context.Background()
	var provider refdata.Provider = refdata.NewStatic()
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(ctx); err != nil {
			fmt.Printf("[FATAL] Database init failed: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		repo := store.NewRatingRepo(fy.CropYear)
		provider = repo
		refreshPrices(ctx, repo, fy)
	}
	eng := budget.New(provider)

	if !*grid {
		point, err := eng.Run(ctx, fy)
		if err != nil {
			fmt.Printf("[FATAL] Budget run failed: %v\n", err)
			os.Exit(1)
		}
		for _, cp := range point.Crops {
			fmt.Printf("%-10s revenue %12.0f  title %10.0f  indemnity %10.0f  cost %12.0f  cash flow %12.0f\n",
				cp.Crop, cp.Revenue(), cp.Title, cp.Indemnity, cp.Cost(), cp.CashFlow())
		}
		fmt.Printf("%-10s revenue %12.0f  %*s  cost %12.0f  cash flow %12.0f\n",
			"Farm", point.TotalRevenue(), 35, "", point.TotalCost(), point.TotalCashFlow())
		return
	}

	res, err := sensitivity.Compute(ctx, eng, fy, nil, nil)
	if err != nil {
		fmt.Printf("[FATAL] Sensitivity run failed: %v\n", err)
		os.Exit(1)
	}
	m := sensitivity.CashFlow
	switch *metric {
	case "revenue":
		m = sensitivity.Revenue
	case "title":
		m = sensitivity.Title
	case "indemnity":
		m = sensitivity.Indemnity
	case "cost":
		m = sensitivity.Cost
	case "cashflow":
	default:
		fmt.Printf("[FATAL] Unknown metric %q\n", *metric)
		os.Exit(1)
	}
	fmt.Print(sensitivity.Format(res, m))
}

// refreshPrices replaces scenario price fields with the current stored
// quotes where available. Scenario values stand when a lookup misses.
func refreshPrices(ctx context.Context, repo *store.RatingRepo, fy *models.FarmYear) {
	runDate := fy.ModelRunDate.Time
	for _, fsa := range fy.FsaCrops {
		if mya, err := repo.MYAPrice(ctx, fsa.Name, runDate); err == nil {
			fsa.MYAPrice = mya
		} else {
			fmt.Printf("[WARNING] MYA refresh for %s: %v\n", fsa.Name, err)
		}
		for _, mc := range fsa.MarketCrops {
			price, err := repo.HarvestFuturesPrice(ctx, fy.State, fy.County, mc.Name, runDate)
			if err != nil {
				fmt.Printf("[WARNING] Futures refresh for %s: %v\n", mc.Name, err)
				continue
			}
			mc.HarvestFuturesPrice = price
		}
	}
}
