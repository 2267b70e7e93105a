package integration

import (
	"net/http"
	"testing"
)

const underwriteBody = `{
	"financial_data": {
		"business_revenue": 1200000,
		"business_net_income": 150000,
		"depreciation": 20000,
		"one_time_expenses": 5000,
		"personal_agi": 80000,
		"personal_debt_annual": 30000
	},
	"liquidity_months": 4,
	"stress_test": true
}`

func TestUnderwriteFlow_FullPipeline(t *testing.T) {
	app := setupApp(t)

	// Register, create borrower and deal, collect intake documents
	token, _, _ := app.registerUser(t, "underwrite@lender.com", "password123")
	borrowerID := app.createBorrower(t, "Acme Manufacturing LLC", token)
	dealID := app.createDeal(t, borrowerID, "Acme expansion loan", token)

	rec := app.request("PATCH", "/api/v1/deals/"+dealID+"/status", `{"status":"intake"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status change failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.uploadFile(t, dealID, "tax_return_business", "acme-2025.pdf", "fake tax return body", token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload failed: %d %s", rec.Code, rec.Body.String())
	}

	// Run underwriting
	rec = app.request("POST", "/api/v1/deals/"+dealID+"/underwrite", underwriteBody, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("underwrite failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["record_id"] == "" || result["record_id"] == nil {
		t.Fatal("expected record_id in response")
	}
	body := result["result"].(map[string]interface{})
	if body["dscr_base"] != 5.03 {
		t.Errorf("expected base DSCR 5.03, got %v", body["dscr_base"])
	}
	if body["ltv"] != 0.5 {
		t.Errorf("expected LTV 0.5, got %v", body["ltv"])
	}
	if body["recommendation"] != "APPROVE" {
		t.Errorf("expected APPROVE, got %v", body["recommendation"])
	}
	if body["dscr_stressed"] == nil {
		t.Error("expected stressed DSCR when stress_test is set")
	}

	// The deal moves to complete once underwritten
	rec = app.request("GET", "/api/v1/deals/"+dealID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get deal failed: %d %s", rec.Code, rec.Body.String())
	}
	deal := parseJSON(t, rec)["deal"].(map[string]interface{})
	if deal["status"] != "complete" {
		t.Errorf("expected complete status after underwriting, got %v", deal["status"])
	}

	// The latest result is retrievable
	rec = app.request("GET", "/api/v1/deals/"+dealID+"/underwriting", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get underwriting failed: %d %s", rec.Code, rec.Body.String())
	}
	latest := parseJSON(t, rec)["result"].(map[string]interface{})
	if latest["recommendation"] != "APPROVE" {
		t.Errorf("expected persisted APPROVE, got %v", latest["recommendation"])
	}
}

func TestUnderwriteFlow_NotUnderwrittenYet(t *testing.T) {
	app := setupApp(t)

	token, _, _ := app.registerUser(t, "empty@lender.com", "password123")
	borrowerID := app.createBorrower(t, "Empty Pipeline LLC", token)
	dealID := app.createDeal(t, borrowerID, "Fresh deal", token)

	rec := app.request("GET", "/api/v1/deals/"+dealID+"/underwriting", "", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before underwriting, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	errObj := result["error"].(map[string]interface{})
	if errObj["code"] != "NO_UNDERWRITING_RESULT" {
		t.Errorf("expected NO_UNDERWRITING_RESULT, got %v", errObj["code"])
	}
}

func TestUnderwriteFlow_ForeignDeal(t *testing.T) {
	app := setupApp(t)

	ownerToken, _, _ := app.registerUser(t, "uwowner@lender.com", "password123")
	otherToken, _, _ := app.registerUser(t, "uwother@lender.com", "password123")

	borrowerID := app.createBorrower(t, "Owner Borrower LLC", ownerToken)
	dealID := app.createDeal(t, borrowerID, "Owner deal", ownerToken)

	rec := app.request("POST", "/api/v1/deals/"+dealID+"/underwrite", underwriteBody, otherToken)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 underwriting a foreign deal, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDocumentFlow_UploadAndList(t *testing.T) {
	app := setupApp(t)

	token, _, _ := app.registerUser(t, "docs@lender.com", "password123")
	borrowerID := app.createBorrower(t, "Paper Trail LLC", token)
	dealID := app.createDeal(t, borrowerID, "Documented deal", token)

	rec := app.uploadFile(t, dealID, "financial_statement", "q2-financials.xlsx", "spreadsheet bytes", token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload failed: %d %s", rec.Code, rec.Body.String())
	}
	doc := parseJSON(t, rec)["document"].(map[string]interface{})
	if doc["file_name"] != "q2-financials.xlsx" {
		t.Errorf("expected original file name, got %v", doc["file_name"])
	}

	// Unknown document types are rejected
	rec = app.uploadFile(t, dealID, "selfie", "me.jpg", "jpeg bytes", token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown document type, got %d", rec.Code)
	}

	rec = app.request("GET", "/api/v1/deals/"+dealID+"/documents", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list documents failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	data := result["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("expected 1 document, got %d", len(data))
	}
}
