package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	v1 "github.com/wfrancescons/openmonetis-backend/internal/controllers/v1"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
	"github.com/wfrancescons/openmonetis-backend/test"
)

func (suite *TestSuiteStandard) TestCardsCreate() {
	limit := decimal.NewFromFloat(1000)
	card := createTestCard(suite.T(), v1.CardEditable{
		Name:  "Platinum",
		Limit: &limit,
	})

	assert.Equal(suite.T(), "Platinum", card.Data.Name)
	assert.Equal(suite.T(), 25, card.Data.ClosingDay)
	assert.Equal(suite.T(), 5, card.Data.DueDay)

	if assert.NotNil(suite.T(), card.Data.Usage.Available) {
		assert.True(suite.T(), card.Data.Usage.Available.Equal(limit))
	}
}

func (suite *TestSuiteStandard) TestCardsCreateInvalidCycle() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/cards", []v1.CardEditable{{
		Name:       "Broken",
		AccountID:  createTestAccount(suite.T(), v1.AccountEditable{}).Data.ID,
		ClosingDay: 32,
		DueDay:     5,
	}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.CardCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), models.ErrCardCycleDay.Error(), *response.Data[0].Error)
}

func (suite *TestSuiteStandard) TestCardsCreateUnknownAccount() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/cards", []v1.CardEditable{{
		Name:       "Orphan",
		AccountID:  uuid.New(),
		ClosingDay: 25,
		DueDay:     5,
	}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestCardsUsage() {
	limit := decimal.NewFromFloat(1000)
	card := createTestCard(suite.T(), v1.CardEditable{Limit: &limit})

	_ = createTestCommitment(suite.T(), v1.TransactionEditable{
		Amount: decimal.NewFromFloat(150),
		CardID: &card.Data.ID,
	})

	r := test.Request(suite.T(), http.MethodGet, card.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.CardResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.True(suite.T(), response.Data.Usage.InUse.Equal(decimal.NewFromFloat(150)), response.Data.Usage.InUse.String())
	if assert.NotNil(suite.T(), response.Data.Usage.Available) {
		assert.True(suite.T(), response.Data.Usage.Available.Equal(decimal.NewFromFloat(850)), response.Data.Usage.Available.String())
	}
}

func (suite *TestSuiteStandard) TestCardsGetFilter() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})
	_ = createTestCard(suite.T(), v1.CardEditable{Name: "Gold card", AccountID: account.Data.ID})
	_ = createTestCard(suite.T(), v1.CardEditable{Name: "Black card"})

	tests := []struct {
		name  string
		query string
		count int
	}{
		{"Account", fmt.Sprintf("account=%s", account.Data.ID), 1},
		{"Fuzzy name", "name=card", 2},
		{"No match", "name=doesnotexist", 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/cards?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.CardListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.count)
		})
	}
}

func (suite *TestSuiteStandard) TestCardsUpdate() {
	card := createTestCard(suite.T(), v1.CardEditable{})

	r := test.Request(suite.T(), http.MethodPatch, card.Data.Links.Self, map[string]any{
		"closingDay": 20,
		"dueDay":     28,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.CardResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), 20, response.Data.ClosingDay)
	assert.Equal(suite.T(), 28, response.Data.DueDay)
}

func (suite *TestSuiteStandard) TestCardsDelete() {
	card := createTestCard(suite.T(), v1.CardEditable{})

	r := test.Request(suite.T(), http.MethodDelete, card.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, card.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
