package report

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"farmbudget/pkg/core/budget"
	"farmbudget/pkg/core/refdata"
	"farmbudget/pkg/core/sensitivity"
	"farmbudget/pkg/core/validate"
	"farmbudget/pkg/models"
)

var engine *budget.Engine

// InitHandler wires the budget engine with its reference data source.
func InitHandler(data refdata.Provider) {
	engine = budget.New(data)
}

type BudgetRequest struct {
	FarmYear *models.FarmYear `json:"farm_year"`
}

type BudgetResponse struct {
	RunID  string            `json:"run_id"`
	Result *budget.FarmPoint `json:"result"`
}

type SensitivityRequest struct {
	FarmYear     *models.FarmYear `json:"farm_year"`
	PriceFactors []float64        `json:"price_factors"`
	YieldFactors []float64        `json:"yield_factors"`
}

type SensitivityResponse struct {
	RunID  string              `json:"run_id"`
	Result *sensitivity.Result `json:"result"`
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// checkFarmYear decodes and validates the farm year, writing the HTTP
// error itself on failure.
func checkFarmYear(w http.ResponseWriter, fy *models.FarmYear) bool {
	if fy == nil {
		http.Error(w, "farm_year is required", http.StatusBadRequest)
		return false
	}
	if errs := validate.FarmYear(fy); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		body, _ := json.Marshal(map[string]interface{}{"errors": msgs})
		http.Error(w, string(body), http.StatusUnprocessableEntity)
		return false
	}
	return true
}

// HandleBudget runs the farm budget at the scenario's own price and
// yield factors.
func HandleBudget(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req BudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !checkFarmYear(w, req.FarmYear) {
		return
	}

	runID := uuid.New().String()
	fmt.Printf("[BUDGET] Run %s: %s crop year %d\n", runID, req.FarmYear.FarmName, req.FarmYear.CropYear)

	result, err := engine.Run(r.Context(), req.FarmYear)
	if err != nil {
		fmt.Printf("[BUDGET] Run %s failed: %v\n", runID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(BudgetResponse{RunID: runID, Result: result})
}

// HandleSensitivity runs the budget over the full price/yield grid.
func HandleSensitivity(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req SensitivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !checkFarmYear(w, req.FarmYear) {
		return
	}

	runID := uuid.New().String()
	fmt.Printf("[SENSITIVITY] Run %s: %s, %dx%d grid\n", runID, req.FarmYear.FarmName,
		len(req.PriceFactors), len(req.YieldFactors))

	result, err := sensitivity.Compute(r.Context(), engine, req.FarmYear,
		req.PriceFactors, req.YieldFactors)
	if err != nil {
		fmt.Printf("[SENSITIVITY] Run %s failed: %v\n", runID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SensitivityResponse{RunID: runID, Result: result})
}
