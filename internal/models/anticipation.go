package models

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wfrancescons/openmonetis-backend/internal/types"
	"gorm.io/gorm"
)

// Anticipation collapses a subset of a series' open rows into one immediate
// lump sum payment.
//
// The anticipated rows stay in storage and are marked as absorbed via their
// AnticipationID. Cancelling the anticipation therefore only has to clear
// the marks and remove the lump sum row, nothing is recreated.
type Anticipation struct {
	DefaultModel
	SeriesID      uuid.UUID   `gorm:"index"`
	TransactionID uuid.UUID   // The lump sum row that replaces the absorbed rows
	Transaction   Transaction `json:"-"`
	Month         types.Month // Period the lump sum is due in
}

// Anticipate replaces the given open rows of a series with one lump sum row
// in the target period. The whole call is one database transaction: if any
// row is ineligible nothing changes.
//
// Eligibility: every row must belong to the series, must not be settled yet
// and must not already be absorbed by another anticipation. The target
// period must not be earlier than the earliest period among the rows.
func Anticipate(db *gorm.DB, seriesID uuid.UUID, transactionIDs []uuid.UUID, month types.Month) (Anticipation, error) {
	if len(transactionIDs) == 0 {
		return Anticipation{}, ErrAnticipationEmpty
	}

	var anticipation Anticipation
	err := db.Transaction(func(tx *gorm.DB) error {
		var rows []Transaction
		err := tx.Find(&rows, transactionIDs).Error
		if err != nil {
			return err
		}

		if len(rows) != len(transactionIDs) {
			return fmt.Errorf("%w transaction matching your query", ErrResourceNotFound)
		}

		paidMonths, err := paidInvoiceMonths(tx)
		if err != nil {
			return err
		}

		for _, row := range rows {
			if row.SeriesID == nil || *row.SeriesID != seriesID {
				return ErrAnticipationSeries
			}
			if row.Absorbed() {
				return ErrAnticipationAbsorbed
			}
			if row.settledBy(paidMonths) {
				return ErrAnticipationSettled
			}
		}

		sort.Slice(rows, func(i, j int) bool {
			return rows[i].InstallmentIndex < rows[j].InstallmentIndex
		})

		earliest := rows[0].Period
		for _, row := range rows {
			if row.Period.Before(earliest) {
				earliest = row.Period
			}
		}
		if month.Before(earliest) {
			return ErrAnticipationPeriod
		}

		total := decimal.Zero
		for _, row := range rows {
			total = total.Add(row.Amount)
		}

		template := rows[0]
		lump := Transaction{
			Name:          template.Name,
			Note:          anticipationNote(rows),
			Amount:        total,
			Kind:          template.Kind,
			Condition:     ConditionOneOff,
			PaymentMethod: template.PaymentMethod,
			Date:          month.FirstDay(),
			Period:        month,
			Origin:        OriginAnticipation,
			AccountID:     template.AccountID,
			CardID:        template.CardID,
			CategoryID:    template.CategoryID,
			PayeeID:       template.PayeeID,
		}

		err = tx.Create(&lump).Error
		if err != nil {
			return err
		}

		anticipation = Anticipation{
			SeriesID:      seriesID,
			TransactionID: lump.ID,
			Month:         month,
		}
		err = tx.Create(&anticipation).Error
		if err != nil {
			return err
		}

		// Mark the originals as absorbed
		ids := make([]uuid.UUID, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ID)
		}
		err = tx.Model(&Transaction{}).
			Where("id IN ?", ids).
			UpdateColumn("anticipation_id", anticipation.ID).Error
		if err != nil {
			return err
		}

		// The lump sum and the absorbed rows move invoice totals around
		if template.CardID != nil {
			touched := map[string]types.Month{month.String(): month}
			for _, row := range rows {
				touched[row.Period.String()] = row.Period
			}

			for _, period := range touched {
				_, err := upsertInvoice(tx, *template.CardID, period)
				if err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return Anticipation{}, err
	}

	return anticipation, nil
}

// anticipationNote renders the human readable range of the absorbed rows,
// e.g. "installments 3-5 of 12". Rows must be sorted by installment index.
func anticipationNote(rows []Transaction) string {
	if rows[0].Condition != ConditionInstallment {
		return fmt.Sprintf("anticipation of %d payments", len(rows))
	}

	first := rows[0].InstallmentIndex
	last := rows[len(rows)-1].InstallmentIndex
	if first == last {
		return fmt.Sprintf("installment %d of %d", first, rows[0].InstallmentCount)
	}

	return fmt.Sprintf("installments %d-%d of %d", first, last, rows[0].InstallmentCount)
}

// Cancel undoes the anticipation: the absorbed rows are released, the lump
// sum row and the link are removed. This is only possible while the lump
// sum itself is still unsettled.
func (a Anticipation) Cancel(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var lump Transaction
		err := tx.First(&lump, a.TransactionID).Error
		if err != nil {
			return err
		}

		paidMonths, err := paidInvoiceMonths(tx)
		if err != nil {
			return err
		}
		if lump.settledBy(paidMonths) {
			return ErrAnticipationNotCancelable
		}

		err = tx.Model(&Transaction{}).
			Where(&Transaction{AnticipationID: &a.ID}).
			UpdateColumn("anticipation_id", nil).Error
		if err != nil {
			return err
		}

		err = tx.Delete(&lump).Error
		if err != nil {
			return err
		}

		err = tx.Delete(&Anticipation{}, a.ID).Error
		if err != nil {
			return err
		}

		// Released rows flow back into their invoices
		if lump.CardID != nil {
			var released []Transaction
			err = tx.Where(&Transaction{SeriesID: &a.SeriesID}).Find(&released).Error
			if err != nil {
				return err
			}

			touched := map[string]types.Month{a.Month.String(): a.Month}
			for _, row := range released {
				touched[row.Period.String()] = row.Period
			}

			for _, period := range touched {
				_, err := upsertInvoice(tx, *lump.CardID, period)
				if err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// Returns all anticipations on this instance for export
func (Anticipation) Export() (json.RawMessage, error) {
	var anticipations []Anticipation
	err := DB.Unscoped().Where(&Anticipation{}).Find(&anticipations).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&anticipations)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
