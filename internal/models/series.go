package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wfrancescons/openmonetis-backend/internal/types"
	"gorm.io/gorm"
)

const (
	// MaxInstallments is the largest installment plan a commitment can be
	// split into.
	MaxInstallments = 60

	// recurringDefaultCount is how many rows an unbounded recurring
	// commitment materializes (one year ahead).
	recurringDefaultCount = 12
)

// Commitment is a validated financial commitment as submitted by a user.
//
// The series generator expands it into one or more transaction rows. A
// series is not a stored entity of its own: it is the set of rows sharing a
// series ID.
type Commitment struct {
	Name          string
	Note          string
	TotalAmount   decimal.Decimal
	Kind          TransactionKind
	Condition     Condition
	PaymentMethod PaymentMethod
	Date          time.Time
	DueDate       *time.Time
	Count         uint // Number of installments or recurrences. 0 means unbounded for recurring commitments.
	AccountID     *uuid.UUID
	CardID        *uuid.UUID
	CategoryID    *uuid.UUID
	PayeeID       *uuid.UUID
}

// CreateCommitment expands a commitment into its transaction rows and
// persists them in one database transaction. Either all rows of the series
// are written or none.
//
// Installment commitments split the total into count rows of
// round(total/count, 2) each, with the rounding remainder going to the last
// installment so that the rows reproduce the total exactly to the cent.
// Recurring commitments repeat the full amount once per period.
func CreateCommitment(db *gorm.DB, commitment Commitment) ([]Transaction, error) {
	if commitment.TotalAmount.IsZero() {
		return nil, ErrCommitmentAmount
	}

	if commitment.Condition == "" {
		commitment.Condition = ConditionOneOff
	}

	if commitment.Condition == ConditionInstallment &&
		(commitment.Count < 1 || commitment.Count > MaxInstallments) {
		return nil, ErrCommitmentCount
	}

	if commitment.CardID != nil &&
		commitment.PaymentMethod != PaymentCreditCard && commitment.PaymentMethod != PaymentPrepaidCard {
		return nil, ErrCommitmentMethod
	}

	if commitment.Date.IsZero() {
		commitment.Date = time.Now().In(time.UTC)
	}

	var rows []Transaction
	err := db.Transaction(func(tx *gorm.DB) error {
		// The first period runs through the billing cycle resolver when the
		// commitment is on a card
		var card *Card
		firstPeriod := types.MonthOf(commitment.Date)
		if commitment.CardID != nil {
			card = &Card{}
			err := tx.First(card, *commitment.CardID).Error
			if err != nil {
				return err
			}
			firstPeriod = card.PeriodOf(commitment.Date)
		}

		if commitment.CategoryID == nil {
			categoryID, err := matchCategory(tx, commitment.Name)
			if err != nil {
				return err
			}
			commitment.CategoryID = categoryID
		}

		rows = commitment.transactions(card, firstPeriod)

		err := tx.Create(&rows).Error
		if err != nil {
			return err
		}

		// Refresh the invoice of every period the series touches
		if card != nil {
			for _, row := range rows {
				_, err := upsertInvoice(tx, card.ID, row.Period)
				if err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// transactions shapes the rows for the commitment. Row i is dated i-1
// calendar months after the purchase date and belongs to the period i-1
// months after the first resolved period, so that the periods of a series
// are strictly consecutive even across short months and year boundaries.
func (c Commitment) transactions(card *Card, firstPeriod types.Month) []Transaction {
	template := Transaction{
		Name:          c.Name,
		Note:          c.Note,
		Amount:        c.TotalAmount,
		Kind:          c.Kind,
		Condition:     c.Condition,
		PaymentMethod: c.PaymentMethod,
		Date:          c.Date,
		Period:        firstPeriod,
		DueDate:       c.DueDate,
		AccountID:     c.AccountID,
		CardID:        c.CardID,
		CategoryID:    c.CategoryID,
		PayeeID:       c.PayeeID,
	}

	if c.Condition == ConditionOneOff {
		return []Transaction{template}
	}

	count := c.Count
	if count == 0 {
		count = recurringDefaultCount
	}

	seriesID := uuid.New()
	template.SeriesID = &seriesID

	share := c.TotalAmount
	if c.Condition == ConditionInstallment {
		share = c.TotalAmount.DivRound(decimal.NewFromInt(int64(count)), 2)
	}

	rows := make([]Transaction, 0, count)
	for i := uint(1); i <= count; i++ {
		row := template
		row.Date = advanceMonths(c.Date, int(i)-1)
		row.Period = firstPeriod.AddDate(0, int(i)-1)

		if c.DueDate != nil {
			due := advanceMonths(*c.DueDate, int(i)-1)
			row.DueDate = &due
		} else if card != nil {
			due := card.DueDateIn(row.Period)
			row.DueDate = &due
		}

		if c.Condition == ConditionInstallment {
			row.InstallmentIndex = i
			row.InstallmentCount = count
			row.Amount = share

			// The rounding remainder goes to the last installment
			if i == count {
				row.Amount = c.TotalAmount.Sub(share.Mul(decimal.NewFromInt(int64(count - 1))))
			}
		}

		rows = append(rows, row)
	}

	return rows
}

// advanceMonths adds months to a date, clamping to the last day of the
// target month. Jan 31 advanced by one month is Feb 28/29, not Mar 2.
func advanceMonths(date time.Time, months int) time.Time {
	target := types.MonthOf(date).AddDate(0, months)
	day := target.Day(date.Day())
	return time.Date(day.Year(), day.Month(), day.Day(),
		date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
}

// SeriesSummary is the pending projection of one series.
type SeriesSummary struct {
	SeriesID         uuid.UUID       `json:"seriesId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"` // ID shared by the rows of the series
	Name             string          `json:"name" example:"Washing machine"`                          // Name of the commitment
	Condition        Condition       `json:"condition" example:"INSTALLMENT"`                         // Installment plan or recurring commitment
	PaymentMethod    PaymentMethod   `json:"paymentMethod" example:"CREDIT_CARD"`                     // Payment method of the series
	InstallmentCount uint            `json:"installmentCount" example:"12"`                           // Total number of rows the series was created with
	PaidCount        uint            `json:"paidCount" example:"2"`                                   // Number of rows already settled
	PendingCount     uint            `json:"pendingCount" example:"7"`                                // Number of rows still open
	PendingTotal     decimal.Decimal `json:"pendingTotal" example:"-700.00"`                          // Sum of the open rows
	NextPeriod       types.Month     `json:"nextPeriod" example:"2025-09-01T00:00:00Z"`               // Earliest open period
}

// PendingSeries computes the pending projection for every series that still
// has open rows. Rows absorbed by an anticipation belong to neither the paid
// nor the pending set, so anticipating the middle of a series leaves the
// paid count untouched.
func PendingSeries(db *gorm.DB) ([]SeriesSummary, error) {
	var transactions []Transaction
	err := db.
		Where("transactions.series_id IS NOT NULL").
		Where("transactions.anticipation_id IS NULL").
		Order("transactions.series_id, transactions.installment_index ASC, datetime(transactions.date) ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	paidMonths, err := paidInvoiceMonths(db)
	if err != nil {
		return nil, err
	}

	summaries := make([]SeriesSummary, 0)
	index := make(map[uuid.UUID]int)

	for _, t := range transactions {
		i, ok := index[*t.SeriesID]
		if !ok {
			index[*t.SeriesID] = len(summaries)
			i = len(summaries)
			summaries = append(summaries, SeriesSummary{
				SeriesID:         *t.SeriesID,
				Name:             t.Name,
				Condition:        t.Condition,
				PaymentMethod:    t.PaymentMethod,
				InstallmentCount: t.InstallmentCount,
			})
		}

		if t.settledBy(paidMonths) {
			summaries[i].PaidCount++
			continue
		}

		if summaries[i].PendingCount == 0 || t.Period.Before(summaries[i].NextPeriod) {
			summaries[i].NextPeriod = t.Period
		}

		summaries[i].PendingCount++
		summaries[i].PendingTotal = summaries[i].PendingTotal.Add(t.Amount)
	}

	// Series with no pending rows are not part of the projection
	pending := summaries[:0]
	for _, s := range summaries {
		if s.PendingCount > 0 {
			pending = append(pending, s)
		}
	}

	return pending, nil
}

// settledBy reports whether the row is financially resolved: settled
// directly for account rows, covered by a paid invoice for card rows.
func (t Transaction) settledBy(paidMonths map[uuid.UUID]map[string]bool) bool {
	if t.Settlement == SettlementSettled {
		return true
	}

	if t.CardID != nil {
		return paidMonths[*t.CardID][t.Period.String()]
	}

	return false
}

// paidInvoiceMonths returns the paid invoice months per card.
func paidInvoiceMonths(db *gorm.DB) (map[uuid.UUID]map[string]bool, error) {
	var invoices []Invoice
	err := db.Where(&Invoice{Status: InvoicePaid}).Find(&invoices).Error
	if err != nil {
		return nil, err
	}

	months := make(map[uuid.UUID]map[string]bool)
	for _, invoice := range invoices {
		if months[invoice.CardID] == nil {
			months[invoice.CardID] = make(map[string]bool)
		}
		months[invoice.CardID][invoice.Month.String()] = true
	}

	return months, nil
}
