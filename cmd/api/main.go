package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"farmbudget/pkg/api/report"
	"farmbudget/pkg/core/refdata"
	"farmbudget/pkg/core/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	cropYear := 2023
	if v := os.Getenv("CROP_YEAR"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			fmt.Printf("[FATAL] Invalid CROP_YEAR %q: %v\n", v, err)
			os.Exit(1)
		}
		cropYear = y
	}

	// Reference data comes from Postgres when DATABASE_URL is set.
	var provider refdata.Provider
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(context.Background()); err != nil {
			fmt.Printf("[FATAL] Database init failed: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		provider = store.NewRatingRepo(cropYear)
		fmt.Printf("[STORE] Rating data from Postgres, crop year %d\n", cropYear)
	} else {
		fmt.Println("[WARNING] DATABASE_URL not set; serving without rating data")
		provider = refdata.NewStatic()
	}

	report.InitHandler(provider)
	http.HandleFunc("/api/budget", report.HandleBudget)
	http.HandleFunc("/api/sensitivity", report.HandleSensitivity)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("API server starting on :%s...\n", port)
	fmt.Println("  - POST /api/budget")
	fmt.Println("  - POST /api/sensitivity")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
