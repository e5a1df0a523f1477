package v1_test

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	v1 "github.com/wfrancescons/openmonetis-backend/internal/controllers/v1"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
	"github.com/wfrancescons/openmonetis-backend/test"
)

func (suite *TestSuiteStandard) TestSeriesGet() {
	card := createTestCard(suite.T(), v1.CardEditable{})

	commitment := createTestCommitment(suite.T(), v1.TransactionEditable{
		Name:             "New phone",
		Amount:           decimal.NewFromFloat(1200),
		Condition:        models.ConditionInstallment,
		InstallmentCount: 12,
		CardID:           &card.Data.ID,
		Date:             time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	})

	// One off transactions are not part of the projection
	_ = createTestCommitment(suite.T(), v1.TransactionEditable{
		Amount: decimal.NewFromFloat(50),
	})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/series", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.SeriesListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.Len(suite.T(), response.Data, 1)
	series := response.Data[0]

	assert.Equal(suite.T(), *commitment.Data[0].SeriesID, series.SeriesID)
	assert.Equal(suite.T(), "New phone", series.Name)
	assert.Equal(suite.T(), uint(0), series.PaidCount)
	assert.Equal(suite.T(), uint(12), series.PendingCount)
	assert.True(suite.T(), series.PendingTotal.Equal(decimal.NewFromFloat(-1200)), series.PendingTotal.String())
}

func (suite *TestSuiteStandard) TestSeriesGetAfterInvoicePayment() {
	account := createTestAccount(suite.T(), v1.AccountEditable{InitialBalance: decimal.NewFromFloat(5000)})
	card := createTestCard(suite.T(), v1.CardEditable{AccountID: account.Data.ID})

	_ = createTestCommitment(suite.T(), v1.TransactionEditable{
		Name:             "Flight tickets",
		Amount:           decimal.NewFromFloat(1200),
		Condition:        models.ConditionInstallment,
		InstallmentCount: 12,
		CardID:           &card.Data.ID,
		Date:             time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	})

	// Pay the first invoice
	r := test.Request(suite.T(), http.MethodGet, card.Data.Links.Invoices, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var invoices v1.InvoiceListResponse
	test.DecodeResponse(suite.T(), &r, &invoices)
	require.NotEmpty(suite.T(), invoices.Data)

	r = test.Request(suite.T(), http.MethodPatch, invoices.Data[0].Links.Self, v1.InvoiceUpdateable{
		Status: models.InvoicePaid,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/series", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.SeriesListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.Len(suite.T(), response.Data, 1)
	series := response.Data[0]

	assert.Equal(suite.T(), uint(1), series.PaidCount)
	assert.Equal(suite.T(), uint(11), series.PendingCount)
	assert.True(suite.T(), series.PendingTotal.Equal(decimal.NewFromFloat(-1100)), series.PendingTotal.String())
}

func (suite *TestSuiteStandard) TestSeriesGetEmpty() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/series", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.SeriesListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Len(suite.T(), response.Data, 0)
}
