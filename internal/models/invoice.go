package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wfrancescons/openmonetis-backend/internal/types"
	"gorm.io/gorm"
)

// InvoiceStatus is the settlement lifecycle of an invoice.
//
// swagger:enum InvoiceStatus
type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "PENDING"
	InvoicePaid    InvoiceStatus = "PAID"
)

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoicePending, InvoicePaid:
		return true
	}
	return false
}

// Invoice aggregates the transactions of one card for one billing period.
//
// The total is a cache: it is recomputed from the card's rows whenever one
// of them changes and carries no information of its own.
type Invoice struct {
	DefaultModel
	CardID uuid.UUID   `gorm:"uniqueIndex:invoice_card_month"`
	Card   Card        `json:"-"`
	Month  types.Month `gorm:"uniqueIndex:invoice_card_month"`
	Total  decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Status InvoiceStatus
}

func (i *Invoice) BeforeSave(_ *gorm.DB) error {
	if i.Status == "" {
		i.Status = InvoicePending
	}

	if !i.Status.IsValid() {
		return fmt.Errorf("invoice has an invalid status: %q", i.Status)
	}

	return nil
}

// UpsertInvoice recomputes the invoice for a card and billing period,
// creating it when it does not exist yet. The call is idempotent: with
// unchanged underlying rows it has no observable effect.
func UpsertInvoice(db *gorm.DB, cardID uuid.UUID, month types.Month) (Invoice, error) {
	var invoice Invoice
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		invoice, err = upsertInvoice(tx, cardID, month)
		return err
	})

	return invoice, err
}

func upsertInvoice(tx *gorm.DB, cardID uuid.UUID, month types.Month) (Invoice, error) {
	err := tx.First(&Card{}, cardID).Error
	if err != nil {
		return Invoice{}, err
	}

	total, err := invoiceTotal(tx, cardID, month)
	if err != nil {
		return Invoice{}, err
	}

	var invoice Invoice
	err = tx.Where(&Invoice{CardID: cardID, Month: month}).First(&invoice).Error
	if errors.Is(err, ErrResourceNotFound) {
		invoice = Invoice{CardID: cardID, Month: month, Total: total}
		return invoice, tx.Create(&invoice).Error
	}
	if err != nil {
		return Invoice{}, err
	}

	if !invoice.Total.Equal(total) {
		invoice.Total = total
		return invoice, tx.Model(&invoice).Update("total", total).Error
	}

	return invoice, nil
}

// invoiceTotal sums the card's rows for the period. Rows absorbed by an
// anticipation are excluded, the anticipation lump sum row carries their
// amount instead.
func invoiceTotal(tx *gorm.DB, cardID uuid.UUID, month types.Month) (decimal.Decimal, error) {
	var transactions []Transaction
	err := tx.
		Where(&Transaction{CardID: &cardID}).
		Where("transactions.period = ?", month).
		Where("transactions.anticipation_id IS NULL").
		Find(&transactions).Error
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, t := range transactions {
		total = total.Add(t.Amount)
	}

	return total, nil
}

// Pay settles the invoice.
//
// The status flip is a compare-and-swap on the current status, so two
// concurrent calls create exactly one balancing row: the second call sees
// the invoice already paid and is a no-op.
//
// The balancing row is booked against the card's linked account for the
// invoice total, settled immediately, and tagged with the card and month so
// that Unpay can locate it again.
func (i *Invoice) Pay(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Invoice{}).
			Where("id = ? AND status = ?", i.ID, InvoicePending).
			Update("status", InvoicePaid)
		if res.Error != nil {
			return res.Error
		}

		// Already paid, nothing to do
		if res.RowsAffected == 0 {
			return nil
		}

		var card Card
		err := tx.First(&card, i.CardID).Error
		if err != nil {
			return err
		}

		// The cached total could be stale, settle what the rows add up to
		total, err := invoiceTotal(tx, i.CardID, i.Month)
		if err != nil {
			return err
		}
		if !total.Equal(i.Total) {
			i.Total = total
			err = tx.Model(&Invoice{DefaultModel: DefaultModel{ID: i.ID}}).Update("total", total).Error
			if err != nil {
				return err
			}
		}

		// A card credit leads to an invoice in the card holder's favor
		kind := KindExpense
		if total.IsPositive() {
			kind = KindIncome
		}

		dueDate := card.DueDateIn(i.Month)
		payment := Transaction{
			Name:          fmt.Sprintf("%s invoice %s", card.Name, i.Month),
			Amount:        i.Total,
			Kind:          kind,
			Condition:     ConditionOneOff,
			PaymentMethod: PaymentBankTransfer,
			Date:          dueDate,
			Settlement:    SettlementSettled,
			Origin:        OriginInvoicePayment,
			OriginCardID:  &i.CardID,
			OriginPeriod:  i.Month,
			AccountID:     &card.AccountID,
		}

		err = tx.Create(&payment).Error
		if err != nil {
			return err
		}

		i.Status = InvoicePaid
		return nil
	})
}

// Unpay reverts the settlement of the invoice: the balancing row Pay
// created is removed and the status flips back to pending. When no
// balancing row can be found the invariants are already broken and the call
// fails without changing anything.
func (i *Invoice) Unpay(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Invoice{}).
			Where("id = ? AND status = ?", i.ID, InvoicePaid).
			Update("status", InvoicePending)
		if res.Error != nil {
			return res.Error
		}

		// Not paid, nothing to undo
		if res.RowsAffected == 0 {
			return nil
		}

		var payment Transaction
		err := tx.
			Where(&Transaction{Origin: OriginInvoicePayment, OriginCardID: &i.CardID}).
			Where("transactions.origin_period = ?", i.Month).
			First(&payment).Error
		if errors.Is(err, ErrResourceNotFound) {
			return ErrInvoiceNoPayment
		}
		if err != nil {
			return err
		}

		err = tx.Delete(&payment).Error
		if err != nil {
			return err
		}

		i.Status = InvoicePending
		return nil
	})
}

// PendingInvoices returns all open invoices of a card ordered by month.
func PendingInvoices(db *gorm.DB, cardID uuid.UUID) ([]Invoice, error) {
	var invoices []Invoice
	err := db.
		Where(&Invoice{CardID: cardID, Status: InvoicePending}).
		Order("date(invoices.month) ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}

	return invoices, nil
}

// Transactions returns the rows that make up the invoice.
func (i Invoice) Transactions(db *gorm.DB) ([]Transaction, error) {
	var transactions []Transaction
	err := db.
		Where(&Transaction{CardID: &i.CardID}).
		Where("transactions.period = ?", i.Month).
		Where("transactions.anticipation_id IS NULL").
		Order("datetime(transactions.date) ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

// Returns all invoices on this instance for export
func (Invoice) Export() (json.RawMessage, error) {
	var invoices []Invoice
	err := DB.Unscoped().Where(&Invoice{}).Find(&invoices).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&invoices)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
