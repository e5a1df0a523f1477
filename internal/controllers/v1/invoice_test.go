package v1_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	v1 "github.com/wfrancescons/openmonetis-backend/internal/controllers/v1"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
	"github.com/wfrancescons/openmonetis-backend/test"
)

// createCardWithInvoices creates a card on an account with an initial
// balance and a three part installment plan on it.
func (suite *TestSuiteStandard) createCardWithInvoices() (v1.AccountResponse, v1.CardResponse, []v1.InvoiceObject) {
	account := createTestAccount(suite.T(), v1.AccountEditable{
		InitialBalance: decimal.NewFromFloat(1000),
	})

	card := createTestCard(suite.T(), v1.CardEditable{AccountID: account.Data.ID})

	_ = createTestCommitment(suite.T(), v1.TransactionEditable{
		Name:             "New couch",
		Amount:           decimal.NewFromFloat(600),
		Condition:        models.ConditionInstallment,
		InstallmentCount: 3,
		CardID:           &card.Data.ID,
		Date:             time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	})

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/invoices?card=%s", card.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.InvoiceListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Data, 3)

	return account, card, response.Data
}

func (suite *TestSuiteStandard) TestInvoicesList() {
	_, _, invoices := suite.createCardWithInvoices()

	for _, invoice := range invoices {
		assert.Equal(suite.T(), models.InvoicePending, invoice.Status)
		assert.True(suite.T(), invoice.Total.Equal(decimal.NewFromFloat(-200)), invoice.Total.String())
	}
}

func (suite *TestSuiteStandard) TestInvoicesGetWithTransactions() {
	_, _, invoices := suite.createCardWithInvoices()

	r := test.Request(suite.T(), http.MethodGet, invoices[0].Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.InvoiceResponse
	test.DecodeResponse(suite.T(), &r, &response)

	if assert.Len(suite.T(), response.Data.Transactions, 1) {
		assert.Equal(suite.T(), uint(1), response.Data.Transactions[0].InstallmentIndex)
	}
}

func (suite *TestSuiteStandard) TestInvoicesPay() {
	account, _, invoices := suite.createCardWithInvoices()

	r := test.Request(suite.T(), http.MethodPatch, invoices[0].Links.Self, v1.InvoiceUpdateable{
		Status: models.InvoicePaid,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.InvoiceResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), models.InvoicePaid, response.Data.Status)

	// Paying creates a settled payment transaction on the account
	r = test.Request(suite.T(), http.MethodGet, account.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var accountResponse v1.AccountResponse
	test.DecodeResponse(suite.T(), &r, &accountResponse)
	assert.True(suite.T(), accountResponse.Data.Balance.Equal(decimal.NewFromFloat(800)), accountResponse.Data.Balance.String())

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions?account=%s&origin=INVOICE_PAYMENT", account.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var transactions v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &r, &transactions)

	if assert.Len(suite.T(), transactions.Data, 1) {
		assert.Equal(suite.T(), models.SettlementSettled, transactions.Data[0].Settlement)
		assert.True(suite.T(), transactions.Data[0].Amount.Equal(decimal.NewFromFloat(-200)))
	}

	// Paying again does not create another payment transaction
	r = test.Request(suite.T(), http.MethodPatch, invoices[0].Links.Self, v1.InvoiceUpdateable{
		Status: models.InvoicePaid,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions?account=%s&origin=INVOICE_PAYMENT", account.Data.ID), "")
	test.DecodeResponse(suite.T(), &r, &transactions)
	assert.Len(suite.T(), transactions.Data, 1)
}

func (suite *TestSuiteStandard) TestInvoicesUnpay() {
	account, _, invoices := suite.createCardWithInvoices()

	r := test.Request(suite.T(), http.MethodPatch, invoices[0].Links.Self, v1.InvoiceUpdateable{
		Status: models.InvoicePaid,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.T(), http.MethodPatch, invoices[0].Links.Self, v1.InvoiceUpdateable{
		Status: models.InvoicePending,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.InvoiceResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), models.InvoicePending, response.Data.Status)

	// The payment transaction is removed and the balance restored
	r = test.Request(suite.T(), http.MethodGet, account.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var accountResponse v1.AccountResponse
	test.DecodeResponse(suite.T(), &r, &accountResponse)
	assert.True(suite.T(), accountResponse.Data.Balance.Equal(decimal.NewFromFloat(1000)), accountResponse.Data.Balance.String())
}

func (suite *TestSuiteStandard) TestInvoicesUpdateInvalidStatus() {
	_, _, invoices := suite.createCardWithInvoices()

	r := test.Request(suite.T(), http.MethodPatch, invoices[0].Links.Self, map[string]string{
		"status": "OVERDUE",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestInvoicesRecalculate() {
	_, card, invoices := suite.createCardWithInvoices()

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/invoices", v1.InvoiceEditable{
		CardID: card.Data.ID,
		Month:  invoices[0].Month,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.InvoiceResponse
	test.DecodeResponse(suite.T(), &r, &response)

	// Recalculating with unchanged transactions changes nothing
	assert.Equal(suite.T(), invoices[0].ID, response.Data.ID)
	assert.True(suite.T(), response.Data.Total.Equal(invoices[0].Total))
}

func (suite *TestSuiteStandard) TestInvoicesFilterStatus() {
	_, card, invoices := suite.createCardWithInvoices()

	r := test.Request(suite.T(), http.MethodPatch, invoices[0].Links.Self, v1.InvoiceUpdateable{
		Status: models.InvoicePaid,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/invoices?card=%s&status=PENDING", card.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.InvoiceListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Len(suite.T(), response.Data, 2)
}
