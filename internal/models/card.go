package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wfrancescons/openmonetis-backend/internal/types"
	"gorm.io/gorm"
)

// Card represents a credit card.
//
// A card owns transactions and invoices. It is linked to the account its
// invoices are paid from.
type Card struct {
	DefaultModel
	Name       string `gorm:"uniqueIndex:card_name"`
	Note       string
	AccountID  uuid.UUID // Account the invoices are paid from
	Account    Account   `json:"-"`
	ClosingDay int       // Day of month the billing cycle closes, 1-31
	DueDay     int       // Day of month the invoice is due, 1-31
	Limit      *decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // Credit limit, nil means unlimited
	Archived   bool
}

// CardUsage is the derived credit limit exposure of a card.
type CardUsage struct {
	InUse     decimal.Decimal  `json:"inUse" example:"713.42"`    // Sum of unsettled expenses on the card
	Available *decimal.Decimal `json:"available" example:"286.58"` // Remaining limit, nil when the card has no limit
}

// BeforeSave validates the billing cycle days.
func (c *Card) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Note = strings.TrimSpace(c.Note)

	if c.ClosingDay < 1 || c.ClosingDay > 31 || c.DueDay < 1 || c.DueDay > 31 {
		return ErrCardCycleDay
	}

	return nil
}

// BeforeCreate verifies that the linked account exists.
func (c *Card) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Card)
	return tx.First(&Account{}, toSave.AccountID).Error
}

// PeriodOf resolves the billing period a purchase on this card belongs to.
//
// Purchases after the closing day roll over into the next month. Closing
// days beyond the length of a short month clamp to its last day, so a card
// closing on the 31st closes on Feb 28 in February.
func (c Card) PeriodOf(date time.Time) types.Month {
	month := types.MonthOf(date)

	if date.Day() > month.Day(c.ClosingDay).Day() {
		return month.AddDate(0, 1)
	}

	return month
}

// DueDateIn returns the day the invoice for a billing period is due. When
// the due day is not after the closing day, the payment happens in the month
// after the period.
func (c Card) DueDateIn(period types.Month) time.Time {
	if c.DueDay <= c.ClosingDay {
		return period.AddDate(0, 1).Day(c.DueDay)
	}

	return period.Day(c.DueDay)
}

// Usage computes the credit limit exposure of the card.
//
// All expense rows on the card that are not yet covered by a paid invoice
// and have not been absorbed by an anticipation count towards the limit.
func (c Card) Usage(db *gorm.DB) (CardUsage, error) {
	var paid []Invoice
	err := db.
		Where(&Invoice{CardID: c.ID, Status: InvoicePaid}).
		Find(&paid).Error
	if err != nil {
		return CardUsage{}, err
	}

	paidMonths := make(map[string]bool, len(paid))
	for _, invoice := range paid {
		paidMonths[invoice.Month.String()] = true
	}

	var transactions []Transaction
	err = db.
		Where(&Transaction{CardID: &c.ID}).
		Where("transactions.anticipation_id IS NULL").
		Find(&transactions).Error
	if err != nil {
		return CardUsage{}, err
	}

	inUse := decimal.Zero
	for _, t := range transactions {
		if paidMonths[t.Period.String()] {
			continue
		}

		// Only the expense portion counts towards the limit
		if t.Amount.IsNegative() {
			inUse = inUse.Sub(t.Amount)
		}
	}

	usage := CardUsage{InUse: inUse}
	if c.Limit != nil {
		available := c.Limit.Sub(inUse)
		if available.IsNegative() {
			available = decimal.Zero
		}
		usage.Available = &available
	}

	return usage, nil
}

// Returns all cards on this instance for export
func (Card) Export() (json.RawMessage, error) {
	var cards []Card
	err := DB.Unscoped().Where(&Card{}).Find(&cards).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&cards)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
