package models_test

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
	"github.com/wfrancescons/openmonetis-backend/internal/types"
)

func (suite *TestSuiteStandard) TestTransactionOwner() {
	account := suite.createTestAccount(models.Account{})
	card := suite.createTestCard(models.Card{})

	err := models.DB.Create(&models.Transaction{
		Name:          "No owner",
		Amount:        decimal.NewFromFloat(10),
		PaymentMethod: models.PaymentPix,
	}).Error
	suite.Assert().ErrorIs(err, models.ErrTransactionOwner)

	err = models.DB.Create(&models.Transaction{
		Name:          "Two owners",
		Amount:        decimal.NewFromFloat(10),
		PaymentMethod: models.PaymentCreditCard,
		AccountID:     &account.ID,
		CardID:        &card.ID,
	}).Error
	suite.Assert().ErrorIs(err, models.ErrTransactionOwner)
}

func (suite *TestSuiteStandard) TestTransactionSignNormalization() {
	account := suite.createTestAccount(models.Account{})

	expense := suite.createTestTransaction(models.Transaction{
		Name:          "Groceries",
		Amount:        decimal.NewFromFloat(53.12),
		Kind:          models.KindExpense,
		PaymentMethod: models.PaymentDebitCard,
		AccountID:     &account.ID,
	})
	suite.Assert().True(expense.Amount.Equal(decimal.NewFromFloat(-53.12)), "Expense amount is %s, should be -53.12", expense.Amount)

	income := suite.createTestTransaction(models.Transaction{
		Name:          "Salary",
		Amount:        decimal.NewFromFloat(-2500),
		Kind:          models.KindIncome,
		PaymentMethod: models.PaymentBankTransfer,
		AccountID:     &account.ID,
	})
	suite.Assert().True(income.Amount.Equal(decimal.NewFromFloat(2500)), "Income amount is %s, should be 2500", income.Amount)
}

func (suite *TestSuiteStandard) TestTransactionDefaults() {
	account := suite.createTestAccount(models.Account{})

	transaction := suite.createTestTransaction(models.Transaction{
		Name:          "Defaulted",
		Amount:        decimal.NewFromFloat(17.5),
		PaymentMethod: models.PaymentCash,
		AccountID:     &account.ID,
	})

	suite.Assert().Equal(models.KindExpense, transaction.Kind)
	suite.Assert().Equal(models.ConditionOneOff, transaction.Condition)
	suite.Assert().Equal(models.OriginUser, transaction.Origin)
	suite.Assert().Equal(models.SettlementPending, transaction.Settlement)
}

func (suite *TestSuiteStandard) TestTransactionCardSettlement() {
	card := suite.createTestCard(models.Card{})

	// Settlement on card rows is driven by the invoice, the row itself can
	// not be settled directly
	transaction := suite.createTestTransaction(models.Transaction{
		Name:          "Cinema",
		Amount:        decimal.NewFromFloat(40),
		PaymentMethod: models.PaymentCreditCard,
		Settlement:    models.SettlementSettled,
		CardID:        &card.ID,
	})

	suite.Assert().Equal(models.SettlementNotApplicable, transaction.Settlement)
}

func (suite *TestSuiteStandard) TestTransactionInstallmentFields() {
	account := suite.createTestAccount(models.Account{})

	err := models.DB.Create(&models.Transaction{
		Name:             "Index out of range",
		Amount:           decimal.NewFromFloat(10),
		Condition:        models.ConditionInstallment,
		PaymentMethod:    models.PaymentBankSlip,
		InstallmentIndex: 5,
		InstallmentCount: 3,
		AccountID:        &account.ID,
	}).Error
	suite.Assert().ErrorIs(err, models.ErrTransactionInstallmentRange)

	err = models.DB.Create(&models.Transaction{
		Name:             "Installments on a one-off",
		Amount:           decimal.NewFromFloat(10),
		PaymentMethod:    models.PaymentPix,
		InstallmentIndex: 1,
		InstallmentCount: 3,
		AccountID:        &account.ID,
	}).Error
	suite.Assert().ErrorIs(err, models.ErrTransactionNoInstallments)
}

func (suite *TestSuiteStandard) TestTransactionPeriodDefault() {
	account := suite.createTestAccount(models.Account{})
	card := suite.createTestCard(models.Card{ClosingDay: 25, DueDay: 5})

	onAccount := suite.createTestTransaction(models.Transaction{
		Name:          "Rent",
		Amount:        decimal.NewFromFloat(1200),
		PaymentMethod: models.PaymentBankTransfer,
		Date:          time.Date(2025, 8, 31, 12, 0, 0, 0, time.UTC),
		AccountID:     &account.ID,
	})
	suite.Assert().True(onAccount.Period.Equal(types.NewMonth(2025, 8)), "Period is %s, should be 2025-08", onAccount.Period)

	// A purchase after the closing day rolls into the next billing period
	onCard := suite.createTestTransaction(models.Transaction{
		Name:          "Late purchase",
		Amount:        decimal.NewFromFloat(99),
		PaymentMethod: models.PaymentCreditCard,
		Date:          time.Date(2025, 8, 26, 0, 0, 0, 0, time.UTC),
		CardID:        &card.ID,
	})
	suite.Assert().True(onCard.Period.Equal(types.NewMonth(2025, 9)), "Period is %s, should be 2025-09", onCard.Period)
}
