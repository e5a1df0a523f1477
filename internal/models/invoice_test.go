package models_test

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
	"github.com/wfrancescons/openmonetis-backend/internal/types"
)

func (suite *TestSuiteStandard) TestUpsertInvoiceIdempotent() {
	card := suite.createTestCard(models.Card{ClosingDay: 25, DueDay: 5})
	month := types.NewMonth(2025, 7)

	_ = suite.createTestTransaction(models.Transaction{
		Name:          "Fuel",
		Amount:        decimal.NewFromFloat(-120),
		PaymentMethod: models.PaymentCreditCard,
		Date:          time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC),
		CardID:        &card.ID,
	})

	first, err := models.UpsertInvoice(models.DB, card.ID, month)
	suite.Require().NoError(err)
	suite.Assert().True(first.Total.Equal(decimal.NewFromFloat(-120)), "Total is %s, should be -120", first.Total)

	second, err := models.UpsertInvoice(models.DB, card.ID, month)
	suite.Require().NoError(err)
	suite.Assert().Equal(first.ID, second.ID)

	var count int64
	err = models.DB.Model(&models.Invoice{}).Where(&models.Invoice{CardID: card.ID}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Assert().Equal(int64(1), count)

	// Another row in the same period moves the cached total
	_ = suite.createTestTransaction(models.Transaction{
		Name:          "Pharmacy",
		Amount:        decimal.NewFromFloat(-30),
		PaymentMethod: models.PaymentCreditCard,
		Date:          time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC),
		CardID:        &card.ID,
	})

	third, err := models.UpsertInvoice(models.DB, card.ID, month)
	suite.Require().NoError(err)
	suite.Assert().True(third.Total.Equal(decimal.NewFromFloat(-150)), "Total is %s, should be -150", third.Total)
}

func (suite *TestSuiteStandard) TestInvoicePay() {
	account := suite.createTestAccount(models.Account{InitialBalance: decimal.NewFromFloat(500)})
	card := suite.createTestCard(models.Card{AccountID: account.ID, ClosingDay: 25, DueDay: 5})

	_ = suite.createTestTransaction(models.Transaction{
		Name:          "Headphones",
		Amount:        decimal.NewFromFloat(-200),
		PaymentMethod: models.PaymentCreditCard,
		Date:          time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
		CardID:        &card.ID,
	})

	invoice, err := models.UpsertInvoice(models.DB, card.ID, types.NewMonth(2025, 4))
	suite.Require().NoError(err)

	suite.Require().NoError(invoice.Pay(models.DB))
	suite.Assert().Equal(models.InvoicePaid, invoice.Status)

	var payment models.Transaction
	err = models.DB.
		Where(&models.Transaction{Origin: models.OriginInvoicePayment, OriginCardID: &card.ID}).
		First(&payment).Error
	suite.Require().NoError(err)

	suite.Assert().True(payment.Amount.Equal(decimal.NewFromFloat(-200)), "Payment is %s, should be -200", payment.Amount)
	suite.Assert().Equal(models.SettlementSettled, payment.Settlement)
	suite.Assert().Equal(time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC), payment.Date)
	suite.Require().NotNil(payment.AccountID)
	suite.Assert().Equal(account.ID, *payment.AccountID)

	balance, err := account.Balance(models.DB)
	suite.Require().NoError(err)
	suite.Assert().True(balance.Equal(decimal.NewFromFloat(300)), "Balance is %s, should be 300", balance)

	// Paying again is a no-op, there is still exactly one balancing row
	suite.Require().NoError(invoice.Pay(models.DB))

	var count int64
	err = models.DB.Model(&models.Transaction{}).
		Where(&models.Transaction{Origin: models.OriginInvoicePayment, OriginCardID: &card.ID}).
		Count(&count).Error
	suite.Require().NoError(err)
	suite.Assert().Equal(int64(1), count)
}

func (suite *TestSuiteStandard) TestInvoiceUnpay() {
	account := suite.createTestAccount(models.Account{InitialBalance: decimal.NewFromFloat(500)})
	card := suite.createTestCard(models.Card{AccountID: account.ID, ClosingDay: 25, DueDay: 5})

	_ = suite.createTestTransaction(models.Transaction{
		Name:          "Flight",
		Amount:        decimal.NewFromFloat(-350),
		PaymentMethod: models.PaymentCreditCard,
		Date:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CardID:        &card.ID,
	})

	invoice, err := models.UpsertInvoice(models.DB, card.ID, types.NewMonth(2025, 6))
	suite.Require().NoError(err)
	suite.Require().NoError(invoice.Pay(models.DB))

	suite.Require().NoError(invoice.Unpay(models.DB))
	suite.Assert().Equal(models.InvoicePending, invoice.Status)

	// The balancing row is gone and the account balance is restored
	var count int64
	err = models.DB.Model(&models.Transaction{}).
		Where(&models.Transaction{Origin: models.OriginInvoicePayment, OriginCardID: &card.ID}).
		Count(&count).Error
	suite.Require().NoError(err)
	suite.Assert().Equal(int64(0), count)

	balance, err := account.Balance(models.DB)
	suite.Require().NoError(err)
	suite.Assert().True(balance.Equal(decimal.NewFromFloat(500)), "Balance is %s, should be 500", balance)

	// Unpaying a pending invoice is a no-op
	suite.Require().NoError(invoice.Unpay(models.DB))
}

func (suite *TestSuiteStandard) TestInvoiceUnpayWithoutPayment() {
	card := suite.createTestCard(models.Card{ClosingDay: 25, DueDay: 5})

	invoice, err := models.UpsertInvoice(models.DB, card.ID, types.NewMonth(2025, 9))
	suite.Require().NoError(err)

	// Flip the status without booking a payment
	err = models.DB.Model(&invoice).Update("status", models.InvoicePaid).Error
	suite.Require().NoError(err)
	invoice.Status = models.InvoicePaid

	err = invoice.Unpay(models.DB)
	suite.Assert().ErrorIs(err, models.ErrInvoiceNoPayment)
}

func (suite *TestSuiteStandard) TestPendingInvoices() {
	card := suite.createTestCard(models.Card{ClosingDay: 25, DueDay: 5})

	for _, month := range []types.Month{
		types.NewMonth(2025, 3),
		types.NewMonth(2025, 1),
		types.NewMonth(2025, 2),
	} {
		_, err := models.UpsertInvoice(models.DB, card.ID, month)
		suite.Require().NoError(err)
	}

	var paid models.Invoice
	err := models.DB.Where(&models.Invoice{CardID: card.ID, Month: types.NewMonth(2025, 1)}).First(&paid).Error
	suite.Require().NoError(err)
	suite.Require().NoError(paid.Pay(models.DB))

	invoices, err := models.PendingInvoices(models.DB, card.ID)
	suite.Require().NoError(err)
	suite.Require().Len(invoices, 2)

	// Sorted by month
	suite.Assert().True(invoices[0].Month.Equal(types.NewMonth(2025, 2)))
	suite.Assert().True(invoices[1].Month.Equal(types.NewMonth(2025, 3)))
}
