package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	v1 "github.com/wfrancescons/openmonetis-backend/internal/controllers/v1"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
	"github.com/wfrancescons/openmonetis-backend/test"
)

func (suite *TestSuiteStandard) TestAccountsCreate() {
	account := createTestAccount(suite.T(), v1.AccountEditable{
		Name:           "Checking",
		InitialBalance: decimal.NewFromFloat(100),
	})

	assert.Equal(suite.T(), "Checking", account.Data.Name)
	assert.Equal(suite.T(), "BRL", account.Data.Currency)
	assert.True(suite.T(), account.Data.Balance.Equal(decimal.NewFromFloat(100)), account.Data.Balance.String())
}

func (suite *TestSuiteStandard) TestAccountsCreateDuplicateName() {
	_ = createTestAccount(suite.T(), v1.AccountEditable{Name: "Unique"})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/accounts", []v1.AccountEditable{{Name: "Unique"}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.AccountCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), models.ErrAccountNameNotUnique.Error(), *response.Data[0].Error)
}

func (suite *TestSuiteStandard) TestAccountsBalanceReflectsSettlement() {
	account := createTestAccount(suite.T(), v1.AccountEditable{
		InitialBalance: decimal.NewFromFloat(100),
	})

	_ = createTestCommitment(suite.T(), v1.TransactionEditable{
		Amount:    decimal.NewFromFloat(25),
		AccountID: &account.Data.ID,
	})

	// Pending expenses do not move the balance
	r := test.Request(suite.T(), http.MethodGet, account.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AccountResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.True(suite.T(), response.Data.Balance.Equal(decimal.NewFromFloat(100)), response.Data.Balance.String())
}

func (suite *TestSuiteStandard) TestAccountsGetFilter() {
	_ = createTestAccount(suite.T(), v1.AccountEditable{Name: "Emergency fund", Currency: "EUR"})
	_ = createTestAccount(suite.T(), v1.AccountEditable{Name: "Wallet"})
	_ = createTestAccount(suite.T(), v1.AccountEditable{Name: "Salary account"})

	tests := []struct {
		name  string
		query string
		count int
	}{
		{"Currency", "currency=EUR", 1},
		{"Fuzzy name", "name=account", 1},
		{"Search", "search=fund", 1},
		{"Limit", "limit=2", 2},
		{"No match", "name=doesnotexist", 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/accounts?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.AccountListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.count)
		})
	}
}

func (suite *TestSuiteStandard) TestAccountsUpdate() {
	account := createTestAccount(suite.T(), v1.AccountEditable{Name: "Before"})

	r := test.Request(suite.T(), http.MethodPatch, account.Data.Links.Self, map[string]any{
		"name": "After",
		"note": "Updated",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AccountResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), "After", response.Data.Name)
	assert.Equal(suite.T(), "Updated", response.Data.Note)
}

func (suite *TestSuiteStandard) TestAccountsDelete() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})

	r := test.Request(suite.T(), http.MethodDelete, account.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, account.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestAccountsGetNotFound() {
	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/accounts/%s", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestAccountsInvalidUUID() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/accounts/not-a-uuid", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestAccountsDBClosed() {
	tests := []struct {
		name string
		test func(t *testing.T)
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestAccount(t, v1.AccountEditable{}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/accounts", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v1.AccountListResponse
				test.DecodeResponse(t, &recorder, &response)
				assert.Contains(t, *response.Error, models.ErrGeneral.Error())
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.CloseDB()

			tt.test(t)
		})
	}
}

func (suite *TestSuiteStandard) TestAccountsInitialBalanceDate() {
	date := time.Date(2024, 12, 7, 0, 0, 0, 0, time.UTC)
	account := createTestAccount(suite.T(), v1.AccountEditable{
		InitialBalance:     decimal.NewFromFloat(250),
		InitialBalanceDate: &date,
	})

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions?account=%s&origin=INITIAL_BALANCE", account.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	if assert.Len(suite.T(), response.Data, 1) {
		assert.True(suite.T(), response.Data[0].Amount.Equal(decimal.NewFromFloat(250)))
		assert.Equal(suite.T(), models.SettlementSettled, response.Data[0].Settlement)
		assert.True(suite.T(), date.Equal(response.Data[0].Date))
	}
}
