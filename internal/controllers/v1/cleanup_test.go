package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	v1 "github.com/wfrancescons/openmonetis-backend/internal/controllers/v1"
	"github.com/wfrancescons/openmonetis-backend/test"
)

func (suite *TestSuiteStandard) TestCleanup() {
	account := createTestAccount(suite.T(), v1.AccountEditable{Name: "TestCleanup"})
	card := createTestCard(suite.T(), v1.CardEditable{AccountID: account.Data.ID})
	_ = createTestCategory(suite.T(), v1.CategoryEditable{})
	_ = createTestPayee(suite.T(), v1.PayeeEditable{})
	_ = createTestMatchRule(suite.T(), v1.MatchRuleEditable{Match: "Delete me"})
	_ = createTestCommitment(suite.T(), v1.TransactionEditable{
		Amount: decimal.NewFromFloat(17.32),
		CardID: &card.Data.ID,
	})

	tests := []string{
		"http://example.com/v1/accounts",
		"http://example.com/v1/cards",
		"http://example.com/v1/categories",
		"http://example.com/v1/payees",
		"http://example.com/v1/match-rules",
		"http://example.com/v1/transactions",
		"http://example.com/v1/invoices",
		"http://example.com/v1/anticipations",
	}

	// Delete
	recorder := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1?confirm=yes-please-delete-everything", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	// Verify
	for _, tt := range tests {
		suite.T().Run(tt, func(t *testing.T) {
			recorder := test.Request(suite.T(), http.MethodGet, tt, "")
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

			var response struct {
				Data []any `json:"data"`
			}

			test.DecodeResponse(t, &recorder, &response)
			assert.Len(t, response.Data, 0, "There are resources left for type %s", tt)
		})
	}
}

func (suite *TestSuiteStandard) TestCleanupFails() {
	tests := []struct {
		name string
		path string
	}{
		{"Invalid path", "confirm=2"},
		{"Confirmation wrong", "confirm=invalid-confirmation"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodDelete, fmt.Sprintf("http://example.com/v1?%s", tt.path), "")
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestCleanupDBError() {
	suite.CloseDB()

	recorder := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1?confirm=yes-please-delete-everything", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)
}
