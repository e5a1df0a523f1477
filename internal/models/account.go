package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wfrancescons/openmonetis-backend/internal/types"
	"golang.org/x/text/currency"
	"gorm.io/gorm"
)

// Account represents an asset account, e.g. a bank account.
//
// The balance of an account is never stored. It is recomputed from the
// initial balance and the settled transactions whenever it is needed.
type Account struct {
	DefaultModel
	Name               string `gorm:"uniqueIndex:account_name"`
	Note               string
	Currency           string          // ISO 4217 code, defaults to BRL
	InitialBalance     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	InitialBalanceDate *time.Time

	// ExcludeInitialFromIncome keeps the initial balance seed row out of
	// income aggregations.
	ExcludeInitialFromIncome bool

	// ExcludeFromTotals keeps the whole account out of cross-account
	// aggregations.
	ExcludeFromTotals bool

	Archived bool
}

// BeforeSave trims whitespace and validates the currency code.
func (a *Account) BeforeSave(_ *gorm.DB) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Note = strings.TrimSpace(a.Note)

	if a.Currency == "" {
		a.Currency = "BRL"
	}

	unit, err := currency.ParseISO(a.Currency)
	if err != nil {
		return ErrAccountCurrency
	}
	a.Currency = unit.String()

	return nil
}

// AfterCreate seeds the ledger with the initial balance row.
//
// The seed is a settled system row so that the balance computation and the
// income exclusion can both locate it.
func (a *Account) AfterCreate(tx *gorm.DB) error {
	if a.InitialBalance.IsZero() {
		return nil
	}

	date := time.Now().In(time.UTC)
	if a.InitialBalanceDate != nil {
		date = *a.InitialBalanceDate
	}

	kind := KindIncome
	if a.InitialBalance.IsNegative() {
		kind = KindExpense
	}

	seed := Transaction{
		Name:          "Initial balance",
		Amount:        a.InitialBalance,
		Kind:          kind,
		Condition:     ConditionOneOff,
		PaymentMethod: PaymentBankTransfer,
		Date:          date,
		Settlement:    SettlementSettled,
		Origin:        OriginInitialBalance,
		AccountID:     &a.ID,
	}

	return tx.Create(&seed).Error
}

// Transactions returns all transactions for this account.
func (a Account) Transactions(db *gorm.DB) []Transaction {
	var transactions []Transaction

	db.Where(&Transaction{AccountID: &a.ID}).Find(&transactions)
	return transactions
}

// Balance computes the account balance: the initial balance plus the sum of
// all settled rows. The initial balance seed row is skipped since the
// initial balance itself is already part of the sum, and rows absorbed by an
// anticipation no longer have an effect of their own.
func (a Account) Balance(db *gorm.DB) (decimal.Decimal, error) {
	var transactions []Transaction

	err := db.
		Where(&Transaction{AccountID: &a.ID, Settlement: SettlementSettled}, "AccountID", "Settlement").
		Where("transactions.anticipation_id IS NULL").
		Where("transactions.origin != ?", OriginInitialBalance).
		Find(&transactions).Error
	if err != nil {
		return decimal.Zero, err
	}

	balance := a.InitialBalance
	for _, t := range transactions {
		balance = balance.Add(t.Amount)
	}

	return balance, nil
}

// Income computes the settled income of the account for one month.
//
// The initial balance seed row counts as income unless the account opts out
// with ExcludeInitialFromIncome.
func (a Account) Income(db *gorm.DB, month types.Month) (decimal.Decimal, error) {
	var transactions []Transaction

	query := db.
		Where(&Transaction{AccountID: &a.ID, Kind: KindIncome, Settlement: SettlementSettled}, "AccountID", "Kind", "Settlement").
		Where("transactions.anticipation_id IS NULL").
		Where("transactions.period = ?", month)

	if a.ExcludeInitialFromIncome {
		query = query.Where("transactions.origin != ?", OriginInitialBalance)
	}

	err := query.Find(&transactions).Error
	if err != nil {
		return decimal.Zero, err
	}

	income := decimal.Zero
	for _, t := range transactions {
		income = income.Add(t.Amount)
	}

	return income, nil
}

// Returns all accounts on this instance for export
func (Account) Export() (json.RawMessage, error) {
	var accounts []Account
	err := DB.Unscoped().Where(&Account{}).Find(&accounts).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&accounts)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
