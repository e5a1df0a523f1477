package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wfrancescons/openmonetis-backend/internal/types"
	"gorm.io/gorm"
)

// TransactionKind is the effect a transaction has on the ledger.
//
// swagger:enum TransactionKind
type TransactionKind string

const (
	KindIncome   TransactionKind = "INCOME"
	KindExpense  TransactionKind = "EXPENSE"
	KindTransfer TransactionKind = "TRANSFER"
)

func (k TransactionKind) IsValid() bool {
	switch k {
	case KindIncome, KindExpense, KindTransfer:
		return true
	}
	return false
}

// Condition describes how a commitment is paid off over time.
//
// swagger:enum Condition
type Condition string

const (
	ConditionOneOff      Condition = "ONE_OFF"
	ConditionInstallment Condition = "INSTALLMENT"
	ConditionRecurring   Condition = "RECURRING"
)

func (c Condition) IsValid() bool {
	switch c {
	case ConditionOneOff, ConditionInstallment, ConditionRecurring:
		return true
	}
	return false
}

// PaymentMethod is the instrument a transaction was made with.
//
// swagger:enum PaymentMethod
type PaymentMethod string

const (
	PaymentCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentPix          PaymentMethod = "PIX"
	PaymentCash         PaymentMethod = "CASH"
	PaymentBankSlip     PaymentMethod = "BANK_SLIP"
	PaymentPrepaidCard  PaymentMethod = "PREPAID_CARD"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
)

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCreditCard, PaymentDebitCard, PaymentPix, PaymentCash, PaymentBankSlip, PaymentPrepaidCard, PaymentBankTransfer:
		return true
	}
	return false
}

// SettlementState tracks whether a row is financially resolved.
//
// Rows on a card do not settle individually, their settlement is driven by
// the card's invoice. Those rows carry SettlementNotApplicable so that the
// state is explicit instead of an ambiguous null.
//
// swagger:enum SettlementState
type SettlementState string

const (
	SettlementPending       SettlementState = "PENDING"
	SettlementSettled       SettlementState = "SETTLED"
	SettlementNotApplicable SettlementState = "NOT_APPLICABLE"
)

func (s SettlementState) IsValid() bool {
	switch s {
	case SettlementPending, SettlementSettled, SettlementNotApplicable:
		return true
	}
	return false
}

// TransactionOrigin marks rows the system creates on its own.
//
// System rows are excluded from some aggregations and must be individually
// locatable so that their effect can be reversed.
//
// swagger:enum TransactionOrigin
type TransactionOrigin string

const (
	OriginUser           TransactionOrigin = "USER"
	OriginInvoicePayment TransactionOrigin = "INVOICE_PAYMENT"
	OriginAnticipation   TransactionOrigin = "ANTICIPATION"
	OriginInitialBalance TransactionOrigin = "INITIAL_BALANCE"
)

func (o TransactionOrigin) IsValid() bool {
	switch o {
	case OriginUser, OriginInvoicePayment, OriginAnticipation, OriginInitialBalance:
		return true
	}
	return false
}

// Transaction is the atomic fact of the ledger.
//
// Amounts are signed: expenses are stored negative, income positive. A
// transaction belongs to exactly one account or exactly one card.
type Transaction struct {
	DefaultModel
	Name   string
	Note   string
	Amount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`

	Kind          TransactionKind
	Condition     Condition
	PaymentMethod PaymentMethod

	Date    time.Time   // Purchase date. Time of day is only used for sorting.
	Period  types.Month // Billing period the row belongs to
	DueDate *time.Time

	Settlement SettlementState

	Origin       TransactionOrigin
	OriginCardID *uuid.UUID  // Card whose invoice payment created this row
	OriginPeriod types.Month // Invoice month the payment row settles

	SeriesID         *uuid.UUID `gorm:"index"` // Groups installment and recurring rows
	InstallmentIndex uint       // 1-based, only set for INSTALLMENT rows
	InstallmentCount uint

	AnticipationID *uuid.UUID    // Set when the row was absorbed by an anticipation
	Anticipation   *Anticipation `json:"-"`

	AccountID *uuid.UUID `gorm:"check:account_or_card,(account_id IS NULL) != (card_id IS NULL)"`
	Account   *Account   `json:"-"`
	CardID    *uuid.UUID
	Card      *Card      `json:"-"`

	CategoryID *uuid.UUID
	Category   *Category `json:"-"`
	PayeeID    *uuid.UUID
	Payee      *Payee    `json:"-"`
}

// Absorbed reports whether the row has been replaced by an anticipation
// lump sum. Absorbed rows do not count towards invoices, balances or
// pending projections.
func (t Transaction) Absorbed() bool {
	return t.AnticipationID != nil
}

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000. Yes, this is different.
//
// We already store them in UTC, but somehow reading
// them from the database returns them as +0000.
func (t *Transaction) AfterFind(tx *gorm.DB) (err error) {
	err = t.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	t.Date = t.Date.In(time.UTC)
	if t.DueDate != nil {
		d := t.DueDate.In(time.UTC)
		t.DueDate = &d
	}
	return
}

// BeforeSave
//   - sets the timezone for the Date to UTC
//   - verifies that the row belongs to exactly one account or card
//   - normalizes the amount sign for expenses and income
//   - defaults the settlement state and the billing period
//   - verifies the installment fields
func (t *Transaction) BeforeSave(tx *gorm.DB) (err error) {
	t.Name = strings.TrimSpace(t.Name)
	t.Note = strings.TrimSpace(t.Note)

	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	if (t.AccountID == nil) == (t.CardID == nil) {
		return ErrTransactionOwner
	}

	if t.Kind == "" {
		t.Kind = KindExpense
	}
	if t.Condition == "" {
		t.Condition = ConditionOneOff
	}
	if t.Origin == "" {
		t.Origin = OriginUser
	}

	for _, valid := range []bool{
		t.Kind.IsValid(), t.Condition.IsValid(), t.PaymentMethod.IsValid(), t.Origin.IsValid(),
	} {
		if !valid {
			return fmt.Errorf("transaction has an invalid enumeration value: %#v", t)
		}
	}

	// Expenses are stored negative, income positive. Transfers keep the
	// sign the caller provided.
	if t.Kind == KindExpense && t.Amount.IsPositive() {
		t.Amount = t.Amount.Neg()
	}
	if t.Kind == KindIncome && t.Amount.IsNegative() {
		t.Amount = t.Amount.Neg()
	}

	// Card rows settle through their invoice
	if t.CardID != nil {
		t.Settlement = SettlementNotApplicable
	} else if t.Settlement == "" {
		t.Settlement = SettlementPending
	}

	if !t.Settlement.IsValid() {
		return fmt.Errorf("transaction has an invalid settlement state: %q", t.Settlement)
	}

	if t.Condition == ConditionInstallment {
		if t.InstallmentCount < 1 || t.InstallmentIndex < 1 || t.InstallmentIndex > t.InstallmentCount {
			return ErrTransactionInstallmentRange
		}
	} else if t.InstallmentIndex != 0 || t.InstallmentCount != 0 {
		return ErrTransactionNoInstallments
	}

	if t.Period.IsZero() {
		period, err := t.resolvePeriod(tx)
		if err != nil {
			return err
		}
		t.Period = period
	}

	return nil
}

// resolvePeriod computes the billing period for the purchase date. Rows on a
// card follow the card's billing cycle, everything else belongs to the
// calendar month of the purchase.
func (t *Transaction) resolvePeriod(tx *gorm.DB) (types.Month, error) {
	if t.CardID == nil {
		return types.MonthOf(t.Date), nil
	}

	card := t.Card
	if card == nil || card.ID == uuid.Nil {
		card = &Card{}
		err := tx.First(card, *t.CardID).Error
		if err != nil {
			return types.Month{}, fmt.Errorf("no existing card with specified CardID: %w", err)
		}
	}

	return card.PeriodOf(t.Date), nil
}

// Returns all transactions on this instance for export
func (Transaction) Export() (json.RawMessage, error) {
	var transactions []Transaction
	err := DB.Unscoped().Where(&Transaction{}).Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&transactions)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
