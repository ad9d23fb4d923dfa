package report

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"farmbudget/pkg/core/refdata"
)

const requestBody = `{
	"farm_year": {
		"farm_name": "Prairie Farm",
		"crop_year": 2023,
		"eligible_persons_for_cap": 1,
		"price_factor": 1,
		"yield_factor": 1,
		"model_run_date": "2023-04-15",
		"fsa_crops": [{
			"name": "corn",
			"market_crops": [{
				"name": "corn",
				"harvest_futures_price": 4.50,
				"assumed_basis_for_new": -0.25,
				"farm_crops": [{
					"type": 0,
					"planted_acres": 100,
					"ta_aph_yield": 190,
					"prot_factor": 1,
					"budget": {"farm_yield": 200, "fertilizers": 300}
				}]
			}]
		}]
	}
}`

func TestHandleBudget(t *testing.T) {
	InitHandler(refdata.NewStatic())

	req := httptest.NewRequest("POST", "/api/budget", strings.NewReader(requestBody))
	w := httptest.NewRecorder()
	HandleBudget(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp BudgetResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.RunID == "" {
		t.Error("missing run id")
	}
	if len(resp.Result.Crops) != 1 {
		t.Fatalf("got %d crops, want 1", len(resp.Result.Crops))
	}
	// 20000 bu at 4.25 cash less 30000 growing cost.
	if got := resp.Result.Crops[0].CashFlow(); got != 55000 {
		t.Errorf("cash flow = %v, want 55000", got)
	}
}

func TestHandleBudgetRejectsBadConfig(t *testing.T) {
	InitHandler(refdata.NewStatic())

	body := strings.Replace(requestBody, `"prot_factor": 1,`, `"prot_factor": 2,`, 1)
	req := httptest.NewRequest("POST", "/api/budget", strings.NewReader(body))
	w := httptest.NewRecorder()
	HandleBudget(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422", w.Code)
	}
}

func TestHandleSensitivity(t *testing.T) {
	InitHandler(refdata.NewStatic())

	body := strings.TrimSuffix(strings.TrimSpace(requestBody), "}") +
		`, "price_factors": [1], "yield_factors": [1]}`
	req := httptest.NewRequest("POST", "/api/sensitivity", strings.NewReader(body))
	w := httptest.NewRecorder()
	HandleSensitivity(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp SensitivityResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Result.Planes[0]) != 2 {
		t.Errorf("got %d planes, want crop plus farm total", len(resp.Result.Planes[0]))
	}
}

func TestCORSPreflight(t *testing.T) {
	InitHandler(refdata.NewStatic())

	req := httptest.NewRequest("OPTIONS", "/api/budget", nil)
	w := httptest.NewRecorder()
	HandleBudget(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}
