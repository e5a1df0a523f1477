package models_test

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
)

func (suite *TestSuiteStandard) TestMatchRuleRequiresCategory() {
	err := models.DB.Create(&models.MatchRule{
		Priority:   1,
		Match:      "Something*",
		CategoryID: uuid.New(),
	}).Error
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestMatchRulePriority() {
	account := suite.createTestAccount(models.Account{})
	subscriptions := suite.createTestCategory(models.Category{Name: "Subscriptions"})
	entertainment := suite.createTestCategory(models.Category{Name: "Entertainment"})

	// The broader rule has the lower priority
	_ = suite.createTestMatchRule(models.MatchRule{
		Priority:   10,
		Match:      "*",
		CategoryID: entertainment.ID,
	})
	_ = suite.createTestMatchRule(models.MatchRule{
		Priority:   1,
		Match:      "Spotify*",
		CategoryID: subscriptions.ID,
	})

	rows := suite.createTestCommitment(models.Commitment{
		Name:          "Spotify Family",
		TotalAmount:   decimal.NewFromFloat(-34.9),
		PaymentMethod: models.PaymentDebitCard,
		AccountID:     &account.ID,
	})

	suite.Require().Len(rows, 1)
	suite.Require().NotNil(rows[0].CategoryID)
	suite.Assert().Equal(subscriptions.ID, *rows[0].CategoryID)
}

func (suite *TestSuiteStandard) TestMatchRuleNoMatch() {
	account := suite.createTestAccount(models.Account{})
	category := suite.createTestCategory(models.Category{Name: "Groceries"})
	_ = suite.createTestMatchRule(models.MatchRule{
		Priority:   1,
		Match:      "Supermarket*",
		CategoryID: category.ID,
	})

	rows := suite.createTestCommitment(models.Commitment{
		Name:          "Hairdresser",
		TotalAmount:   decimal.NewFromFloat(-60),
		PaymentMethod: models.PaymentCash,
		AccountID:     &account.ID,
	})

	suite.Require().Len(rows, 1)
	suite.Assert().Nil(rows[0].CategoryID)
}

func (suite *TestSuiteStandard) TestMatchRuleExplicitCategoryWins() {
	account := suite.createTestAccount(models.Account{})
	matched := suite.createTestCategory(models.Category{Name: "Matched"})
	explicit := suite.createTestCategory(models.Category{Name: "Explicit"})
	_ = suite.createTestMatchRule(models.MatchRule{
		Priority:   1,
		Match:      "*",
		CategoryID: matched.ID,
	})

	rows := suite.createTestCommitment(models.Commitment{
		Name:          "Anything",
		TotalAmount:   decimal.NewFromFloat(-10),
		PaymentMethod: models.PaymentPix,
		AccountID:     &account.ID,
		CategoryID:    &explicit.ID,
	})

	suite.Require().Len(rows, 1)
	suite.Require().NotNil(rows[0].CategoryID)
	suite.Assert().Equal(explicit.ID, *rows[0].CategoryID)
}
