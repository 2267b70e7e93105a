package integration

import (
	"net/http"
	"testing"
)

func TestDealFlow_CreateAndAdvancePipeline(t *testing.T) {
	app := setupApp(t)

	token, _, _ := app.registerUser(t, "deals@lender.com", "password123")
	borrowerID := app.createBorrower(t, "Acme Manufacturing LLC", token)
	dealID := app.createDeal(t, borrowerID, "Acme expansion loan", token)

	// New deals start in draft
	rec := app.request("GET", "/api/v1/deals/"+dealID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get deal failed: %d %s", rec.Code, rec.Body.String())
	}
	deal := parseJSON(t, rec)["deal"].(map[string]interface{})
	if deal["status"] != "draft" {
		t.Fatalf("expected draft status, got %v", deal["status"])
	}

	// Advance draft -> intake
	rec = app.request("PATCH", "/api/v1/deals/"+dealID+"/status", `{"status":"intake"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status change failed: %d %s", rec.Code, rec.Body.String())
	}
	deal = parseJSON(t, rec)["deal"].(map[string]interface{})
	if deal["status"] != "intake" {
		t.Errorf("expected intake status, got %v", deal["status"])
	}

	// Draft-only transitions are rejected: intake cannot go back to draft
	rec = app.request("PATCH", "/api/v1/deals/"+dealID+"/status", `{"status":"draft"}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for backward transition, got %d", rec.Code)
	}

	// Decline is terminal
	rec = app.request("PATCH", "/api/v1/deals/"+dealID+"/status", `{"status":"declined"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("decline failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("PATCH", "/api/v1/deals/"+dealID+"/status", `{"status":"intake"}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 reopening a declined deal, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	errObj := result["error"].(map[string]interface{})
	if errObj["code"] != "INVALID_STATUS_CHANGE" {
		t.Errorf("expected INVALID_STATUS_CHANGE, got %v", errObj["code"])
	}
}

func TestDealFlow_StatusFilter(t *testing.T) {
	app := setupApp(t)

	token, _, _ := app.registerUser(t, "filter@lender.com", "password123")
	borrowerID := app.createBorrower(t, "Filter Holdings LLC", token)
	dealA := app.createDeal(t, borrowerID, "Deal A", token)
	app.createDeal(t, borrowerID, "Deal B", token)

	rec := app.request("PATCH", "/api/v1/deals/"+dealA+"/status", `{"status":"intake"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status change failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/deals?status=intake", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list deals failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	data := result["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("expected 1 intake deal, got %d", len(data))
	}
	deal := data[0].(map[string]interface{})
	if deal["name"] != "Deal A" {
		t.Errorf("expected Deal A, got %v", deal["name"])
	}
}

func TestDealFlow_OwnershipIsolation(t *testing.T) {
	app := setupApp(t)

	ownerToken, _, _ := app.registerUser(t, "owner@lender.com", "password123")
	otherToken, _, _ := app.registerUser(t, "other@lender.com", "password123")

	borrowerID := app.createBorrower(t, "Private Borrower LLC", ownerToken)
	dealID := app.createDeal(t, borrowerID, "Private deal", ownerToken)

	// Another user cannot read the deal or the borrower
	rec := app.request("GET", "/api/v1/deals/"+dealID, "", otherToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign deal, got %d", rec.Code)
	}
	rec = app.request("GET", "/api/v1/borrowers/"+borrowerID, "", otherToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign borrower, got %d", rec.Code)
	}

	// Nor create a deal against someone else's borrower
	rec = app.request("POST", "/api/v1/deals",
		`{"borrower_id":"`+borrowerID+`","name":"Hijack","deal_type":"term_loan",
		  "terms":{"loan_amount":100000,"amortization_months":120}}`, otherToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 creating deal on foreign borrower, got %d: %s", rec.Code, rec.Body.String())
	}
}
