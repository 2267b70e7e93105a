package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"underwritepro/internal/cache"
	"underwritepro/internal/handlers"
	"underwritepro/internal/logger"
	"underwritepro/internal/middleware"
	"underwritepro/internal/models"
	"underwritepro/internal/services"
	"underwritepro/internal/underwriting"
	"underwritepro/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Borrower{},
		&models.Deal{},
		&models.Document{},
		&models.UnderwritingRecord{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	calculator := underwriting.NewCalculator(underwriting.DefaultPolicy())
	userService := services.NewUserService(db)
	borrowerService := services.NewBorrowerService(db)
	dealService := services.NewDealService(db)
	documentService := services.NewDocumentService(db, t.TempDir(), 1<<20)
	underwritingService := services.NewUnderwritingService(db, calculator, cache.NewMemory())
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	borrowerHandler := handlers.NewBorrowerHandler(borrowerService, auditService)
	dealHandler := handlers.NewDealHandler(dealService, auditService)
	documentHandler := handlers.NewDocumentHandler(documentService, auditService)
	underwritingHandler := handlers.NewUnderwritingHandler(underwritingService, auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	borrowers := protected.Group("/borrowers")
	borrowers.POST("", borrowerHandler.CreateBorrower)
	borrowers.GET("", borrowerHandler.GetUserBorrowers)
	borrowers.GET("/:id", borrowerHandler.GetBorrowerByID)
	borrowers.PUT("/:id", borrowerHandler.UpdateBorrower)

	deals := protected.Group("/deals")
	deals.POST("", dealHandler.CreateDeal)
	deals.GET("", dealHandler.GetUserDeals)
	deals.GET("/:id", dealHandler.GetDealByID)
	deals.PUT("/:id", dealHandler.UpdateDealTerms)
	deals.PATCH("/:id/status", dealHandler.ChangeStatus)
	deals.POST("/:id/documents", documentHandler.UploadDocument)
	deals.GET("/:id/documents", documentHandler.GetDealDocuments)
	deals.POST("/:id/underwrite", underwritingHandler.UnderwriteDeal)
	deals.GET("/:id/underwriting", underwritingHandler.GetUnderwriting)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// uploadFile posts a multipart document upload against a deal.
func (app *testApp) uploadFile(t *testing.T, dealID, docType, fileName, contents, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("document_type", docType); err != nil {
		t.Fatalf("failed to write form field: %v", err)
	}
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(contents)); err != nil {
		t.Fatalf("failed to write file contents: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/v1/deals/"+dealID+"/documents", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"Officer"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// createBorrower creates a borrower and returns its ID.
func (app *testApp) createBorrower(t *testing.T, name, token string) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"entity_type":"llc","industry":"manufacturing","years_in_business":8,"annual_revenue":1200000,"credit_score":720}`, name)
	rec := app.request("POST", "/api/v1/borrowers", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create borrower failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	borrower := result["borrower"].(map[string]interface{})
	return borrower["id"].(string)
}

// createDeal creates a term loan deal with standard terms and returns its ID.
func (app *testApp) createDeal(t *testing.T, borrowerID, name, token string) string {
	t.Helper()
	body := fmt.Sprintf(`{"borrower_id":%q,"name":%q,"deal_type":"term_loan",
		"terms":{"loan_amount":500000,"interest_rate":0.065,"amortization_months":240,"appraised_value":1000000}}`,
		borrowerID, name)
	rec := app.request("POST", "/api/v1/deals", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create deal failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	deal := result["deal"].(map[string]interface{})
	return deal["id"].(string)
}
