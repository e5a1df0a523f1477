package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	v1 "github.com/wfrancescons/openmonetis-backend/internal/controllers/v1"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
	"github.com/wfrancescons/openmonetis-backend/test"
)

func (suite *TestSuiteStandard) TestTransactionsCreateOneOff() {
	commitment := createTestCommitment(suite.T(), v1.TransactionEditable{
		Name:   "Groceries",
		Amount: decimal.NewFromFloat(53.12),
	})

	require.Len(suite.T(), commitment.Data, 1)
	transaction := commitment.Data[0]

	assert.Equal(suite.T(), "Groceries", transaction.Name)
	assert.True(suite.T(), transaction.Amount.Equal(decimal.NewFromFloat(-53.12)), transaction.Amount.String())
	assert.Equal(suite.T(), models.ConditionOneOff, transaction.Condition)
	assert.Equal(suite.T(), models.OriginUser, transaction.Origin)
	assert.Equal(suite.T(), models.SettlementPending, transaction.Settlement)
	assert.Nil(suite.T(), transaction.SeriesID)
}

func (suite *TestSuiteStandard) TestTransactionsCreateInstallments() {
	card := createTestCard(suite.T(), v1.CardEditable{})

	commitment := createTestCommitment(suite.T(), v1.TransactionEditable{
		Name:             "Washing machine",
		Amount:           decimal.NewFromFloat(1000),
		Condition:        models.ConditionInstallment,
		InstallmentCount: 3,
		CardID:           &card.Data.ID,
		Date:             time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	})

	require.Len(suite.T(), commitment.Data, 3)

	sum := decimal.Zero
	for i, transaction := range commitment.Data {
		assert.Equal(suite.T(), uint(i+1), transaction.InstallmentIndex)
		assert.Equal(suite.T(), uint(3), transaction.InstallmentCount)
		assert.Equal(suite.T(), models.SettlementNotApplicable, transaction.Settlement)
		require.NotNil(suite.T(), transaction.SeriesID)
		assert.Equal(suite.T(), *commitment.Data[0].SeriesID, *transaction.SeriesID)
		sum = sum.Add(transaction.Amount)
	}

	assert.True(suite.T(), sum.Equal(decimal.NewFromFloat(-1000)), sum.String())
}

func (suite *TestSuiteStandard) TestTransactionsCreateInvalid() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Broken body", `{ "amount": 5 }`, http.StatusBadRequest},
		{"No body", "", http.StatusBadRequest},
		{
			"Zero amount",
			[]v1.TransactionEditable{{AccountID: &account.Data.ID, PaymentMethod: models.PaymentPix}},
			http.StatusBadRequest,
		},
		{
			"Too many installments",
			[]v1.TransactionEditable{{
				Amount:           decimal.NewFromFloat(100),
				AccountID:        &account.Data.ID,
				PaymentMethod:    models.PaymentPix,
				Condition:        models.ConditionInstallment,
				InstallmentCount: 61,
			}},
			http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/transactions", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsGetFilter() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})
	card := createTestCard(suite.T(), v1.CardEditable{})

	_ = createTestCommitment(suite.T(), v1.TransactionEditable{
		Name:      "Rent",
		Amount:    decimal.NewFromFloat(1500),
		AccountID: &account.Data.ID,
		Date:      time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
	})

	series := createTestCommitment(suite.T(), v1.TransactionEditable{
		Name:             "New phone",
		Amount:           decimal.NewFromFloat(1200),
		Condition:        models.ConditionInstallment,
		InstallmentCount: 4,
		CardID:           &card.Data.ID,
		Date:             time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	})

	tests := []struct {
		name  string
		query string
		count int
	}{
		{"Account", fmt.Sprintf("account=%s", account.Data.ID), 1},
		{"Card", fmt.Sprintf("card=%s", card.Data.ID), 4},
		{"Series", fmt.Sprintf("series=%s", series.Data[0].SeriesID), 4},
		{"Period", "period=2025-03", 2},
		{"Condition", "condition=INSTALLMENT", 4},
		{"Fuzzy name", "name=phone", 4},
		{"From date", "fromDate=2025-03-08", 4},
		{"Until date", "untilDate=2025-03-08", 1},
		{"Limit", "limit=3", 3},
		{"No match", "name=doesnotexist", 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.TransactionListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.count, "Response: %s", r.Body.String())
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsUpdateSettle() {
	commitment := createTestCommitment(suite.T(), v1.TransactionEditable{
		Amount: decimal.NewFromFloat(25),
	})
	transaction := commitment.Data[0]

	r := test.Request(suite.T(), http.MethodPatch, transaction.Links.Self, map[string]any{
		"settlement": "SETTLED",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.T(), http.MethodGet, transaction.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), models.SettlementSettled, response.Data.Settlement)
}

func (suite *TestSuiteStandard) TestTransactionsUpdateCardAmountRefreshesInvoice() {
	card := createTestCard(suite.T(), v1.CardEditable{})

	commitment := createTestCommitment(suite.T(), v1.TransactionEditable{
		Amount: decimal.NewFromFloat(100),
		CardID: &card.Data.ID,
		Date:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	transaction := commitment.Data[0]

	r := test.Request(suite.T(), http.MethodPatch, transaction.Links.Self, map[string]any{
		"amount": "-150",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/invoices?card=%s", card.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var invoices v1.InvoiceListResponse
	test.DecodeResponse(suite.T(), &r, &invoices)

	if assert.Len(suite.T(), invoices.Data, 1) {
		assert.True(suite.T(), invoices.Data[0].Total.Equal(decimal.NewFromFloat(-150)), invoices.Data[0].Total.String())
	}
}

func (suite *TestSuiteStandard) TestTransactionsDelete() {
	card := createTestCard(suite.T(), v1.CardEditable{})

	commitment := createTestCommitment(suite.T(), v1.TransactionEditable{
		Amount: decimal.NewFromFloat(100),
		CardID: &card.Data.ID,
		Date:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	transaction := commitment.Data[0]

	r := test.Request(suite.T(), http.MethodDelete, transaction.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, transaction.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	// The invoice follows the deletion
	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/invoices?card=%s", card.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var invoices v1.InvoiceListResponse
	test.DecodeResponse(suite.T(), &r, &invoices)

	if assert.Len(suite.T(), invoices.Data, 1) {
		assert.True(suite.T(), invoices.Data[0].Total.IsZero(), invoices.Data[0].Total.String())
	}
}

func (suite *TestSuiteStandard) TestTransactionsMatchRuleAppliesCategory() {
	category := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Streaming"})
	_ = createTestMatchRule(suite.T(), v1.MatchRuleEditable{
		Priority:   1,
		Match:      "Netflix*",
		CategoryID: category.Data.ID,
	})

	commitment := createTestCommitment(suite.T(), v1.TransactionEditable{
		Name:   "Netflix Premium",
		Amount: decimal.NewFromFloat(55.90),
	})

	require.Len(suite.T(), commitment.Data, 1)
	if assert.NotNil(suite.T(), commitment.Data[0].CategoryID) {
		assert.Equal(suite.T(), category.Data.ID, *commitment.Data[0].CategoryID)
	}
}
