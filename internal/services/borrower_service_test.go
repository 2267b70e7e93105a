package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"underwritepro/internal/models"
	"underwritepro/internal/pagination"
	"underwritepro/internal/testutil"
)

func TestCreateBorrower(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBorrowerService(db)
		user := testutil.CreateTestUser(t, db)

		borrower, err := svc.CreateBorrower(user.ID, "Acme Manufacturing LLC", models.EntityTypeLLC, "12-3456789", "manufacturing", 8, decimal.NewFromInt(2400000), 735)
		testutil.AssertNoError(t, err)

		if borrower.ID == "" {
			t.Fatal("expected non-empty borrower ID")
		}
		if borrower.Name != "Acme Manufacturing LLC" {
			t.Errorf("expected borrower name, got %s", borrower.Name)
		}
		if borrower.EntityType != models.EntityTypeLLC {
			t.Errorf("expected entity type llc, got %s", borrower.EntityType)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBorrowerService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBorrower(user.ID, "", models.EntityTypeLLC, "", "", 0, decimal.Zero, 0)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative_revenue", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBorrowerService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBorrower(user.ID, "Acme", models.EntityTypeLLC, "", "", 0, decimal.NewFromInt(-1), 0)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserBorrowers(t *testing.T) {
	t.Run("returns_user_borrowers_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBorrowerService(db)

		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		testutil.CreateTestBorrower(t, db, user1.ID)
		testutil.CreateTestBorrower(t, db, user1.ID)
		testutil.CreateTestBorrower(t, db, user2.ID)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserBorrowers(user1.ID, page)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 borrowers for user1, got %d", result.TotalItems)
		}
		if len(result.Data) != 2 {
			t.Errorf("expected 2 borrowers in data, got %d", len(result.Data))
		}
	})
}

func TestGetBorrowerByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBorrowerService(db)
		user := testutil.CreateTestUser(t, db)
		borrower := testutil.CreateTestBorrower(t, db, user.ID)

		got, err := svc.GetBorrowerByID(user.ID, borrower.ID)
		testutil.AssertNoError(t, err)
		if got.ID != borrower.ID {
			t.Errorf("expected borrower %s, got %s", borrower.ID, got.ID)
		}
	})

	t.Run("other_users_borrower", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBorrowerService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		borrower := testutil.CreateTestBorrower(t, db, user1.ID)

		_, err := svc.GetBorrowerByID(user2.ID, borrower.ID)
		testutil.AssertAppError(t, err, "BORROWER_NOT_FOUND")
	})
}

func TestUpdateBorrower(t *testing.T) {
	t.Run("partial_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBorrowerService(db)
		user := testutil.CreateTestUser(t, db)
		borrower := testutil.CreateTestBorrower(t, db, user.ID)

		newName := "Renamed Holdings LLC"
		newScore := 780
		updated, err := svc.UpdateBorrower(user.ID, borrower.ID, BorrowerFields{Name: &newName, CreditScore: &newScore})
		testutil.AssertNoError(t, err)

		if updated.Name != newName {
			t.Errorf("expected updated name, got %s", updated.Name)
		}
		if updated.CreditScore != newScore {
			t.Errorf("expected credit score %d, got %d", newScore, updated.CreditScore)
		}
		if updated.EntityType != borrower.EntityType {
			t.Errorf("expected entity type unchanged, got %s", updated.EntityType)
		}
	})

	t.Run("negative_revenue_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBorrowerService(db)
		user := testutil.CreateTestUser(t, db)
		borrower := testutil.CreateTestBorrower(t, db, user.ID)

		bad := decimal.NewFromInt(-100)
		_, err := svc.UpdateBorrower(user.ID, borrower.ID, BorrowerFields{AnnualRevenue: &bad})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
