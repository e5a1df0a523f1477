package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
	"github.com/wfrancescons/openmonetis-backend/internal/types"
	om_uuid "github.com/wfrancescons/openmonetis-backend/internal/uuid"
)

// TransactionEditable represents all user configurable parameters of a
// commitment. One commitment expands into one or more transactions,
// depending on its condition.
type TransactionEditable struct {
	Name string `json:"name" example:"Washing machine" default:""` // Name of the commitment
	Note string `json:"note" example:"Bought on sale" default:""`  // A longer description

	// The amount of the whole commitment. For installment commitments this
	// is the total that is split into the installments.
	Amount decimal.Decimal `json:"amount" example:"1200.00" multipleOf:"0.01"`

	Kind          models.TransactionKind `json:"kind" example:"EXPENSE" default:"EXPENSE"`        // The effect on the ledger
	Condition     models.Condition       `json:"condition" example:"INSTALLMENT" default:"ONE_OFF"` // How the commitment is paid off over time
	PaymentMethod models.PaymentMethod   `json:"paymentMethod" example:"CREDIT_CARD"`             // The payment instrument

	Date    time.Time  `json:"date" example:"2025-03-10T00:00:00Z"`    // Purchase date. Defaults to the current time
	DueDate *time.Time `json:"dueDate" example:"2025-04-05T00:00:00Z"` // Due date of the first payment

	// Number of installments or recurrences. 0 means unbounded for
	// recurring commitments.
	InstallmentCount uint `json:"installmentCount" example:"12" minimum:"0" maximum:"60"`

	AccountID  *uuid.UUID `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`  // ID of the account, for commitments paid directly
	CardID     *uuid.UUID `json:"cardId" example:"d3c3ceee-b6d8-441c-a8b5-14ba933bbd7a"`     // ID of the card, for commitments on a credit card
	CategoryID *uuid.UUID `json:"categoryId" example:"f9e873c2-fb96-4367-bfb6-7ecd9bf4a6b5"` // ID of the category. When unset, match rules are applied
	PayeeID    *uuid.UUID `json:"payeeId" example:"f3a5db31-f098-4eb9-9b7c-7c1b01722f3d"`    // ID of the payee
}

// commitment returns the commitment for the editable fields
func (editable TransactionEditable) commitment() models.Commitment {
	return models.Commitment{
		Name:          editable.Name,
		Note:          editable.Note,
		TotalAmount:   editable.Amount,
		Kind:          editable.Kind,
		Condition:     editable.Condition,
		PaymentMethod: editable.PaymentMethod,
		Date:          editable.Date,
		DueDate:       editable.DueDate,
		Count:         editable.InstallmentCount,
		AccountID:     editable.AccountID,
		CardID:        editable.CardID,
		CategoryID:    editable.CategoryID,
		PayeeID:       editable.PayeeID,
	}
}

// TransactionUpdateable are the fields that can be changed on an existing
// transaction. Structural fields like the owner or the series are fixed at
// creation time.
type TransactionUpdateable struct {
	Name       string                 `json:"name" example:"Washing machine"`            // Name of the transaction
	Note       string                 `json:"note" example:"Bought on sale" default:""`  // A longer description
	Amount     decimal.Decimal        `json:"amount" example:"-100.00"`                  // The amount of this single transaction
	Settlement models.SettlementState `json:"settlement" example:"SETTLED"`              // Settlement state. Ignored for card transactions
	Date       time.Time              `json:"date" example:"2025-03-10T00:00:00Z"`       // Purchase date
	DueDate    *time.Time             `json:"dueDate" example:"2025-04-05T00:00:00Z"`    // Due date
	CategoryID *uuid.UUID             `json:"categoryId" example:"f9e873c2-fb96-4367-bfb6-7ecd9bf4a6b5"` // ID of the category
	PayeeID    *uuid.UUID             `json:"payeeId" example:"f3a5db31-f098-4eb9-9b7c-7c1b01722f3d"`    // ID of the payee
}

func (updateable TransactionUpdateable) model() models.Transaction {
	return models.Transaction{
		Name:       updateable.Name,
		Note:       updateable.Note,
		Amount:     updateable.Amount,
		Settlement: updateable.Settlement,
		Date:       updateable.Date,
		DueDate:    updateable.DueDate,
		CategoryID: updateable.CategoryID,
		PayeeID:    updateable.PayeeID,
	}
}

type TransactionLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/transactions/d430d7c3-d14c-4712-9336-ee56965a6673"` // The transaction itself
}

// Transaction is the API representation of a transaction.
type Transaction struct {
	models.DefaultModel

	Name   string          `json:"name" example:"Washing machine"` // Name of the transaction
	Note   string          `json:"note" example:"Bought on sale"`  // A longer description
	Amount decimal.Decimal `json:"amount" example:"-100.00"`       // Signed amount. Expenses are negative, income positive

	Kind          models.TransactionKind `json:"kind" example:"EXPENSE"`              // The effect on the ledger
	Condition     models.Condition       `json:"condition" example:"INSTALLMENT"`     // How the commitment is paid off over time
	PaymentMethod models.PaymentMethod   `json:"paymentMethod" example:"CREDIT_CARD"` // The payment instrument

	Date    time.Time   `json:"date" example:"2025-03-10T00:00:00Z"`    // Purchase date
	Period  types.Month `json:"period" example:"2025-03-01T00:00:00Z"`  // Billing period the transaction belongs to
	DueDate *time.Time  `json:"dueDate" example:"2025-04-05T00:00:00Z"` // Due date

	Settlement models.SettlementState   `json:"settlement" example:"PENDING"` // Settlement state
	Origin     models.TransactionOrigin `json:"origin" example:"USER"`        // Who created the transaction

	SeriesID         *uuid.UUID `json:"seriesId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"` // ID shared by all transactions of the series
	InstallmentIndex uint       `json:"installmentIndex" example:"3"`                            // 1-based index in the installment plan
	InstallmentCount uint       `json:"installmentCount" example:"12"`                           // Number of installments in the plan

	AnticipationID *uuid.UUID `json:"anticipationId" example:"33b0423b-6e4b-4ed5-a93a-2fda4d0b3b66"` // Set when the transaction was absorbed by an anticipation

	AccountID  *uuid.UUID `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`  // ID of the account
	CardID     *uuid.UUID `json:"cardId" example:"d3c3ceee-b6d8-441c-a8b5-14ba933bbd7a"`     // ID of the card
	CategoryID *uuid.UUID `json:"categoryId" example:"f9e873c2-fb96-4367-bfb6-7ecd9bf4a6b5"` // ID of the category
	PayeeID    *uuid.UUID `json:"payeeId" example:"f3a5db31-f098-4eb9-9b7c-7c1b01722f3d"`    // ID of the payee

	Links TransactionLinks `json:"links"`
}

// newTransaction returns the API representation of the resource
func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString(string(models.DBContextURL))

	return Transaction{
		DefaultModel:     model.DefaultModel,
		Name:             model.Name,
		Note:             model.Note,
		Amount:           model.Amount,
		Kind:             model.Kind,
		Condition:        model.Condition,
		PaymentMethod:    model.PaymentMethod,
		Date:             model.Date,
		Period:           model.Period,
		DueDate:          model.DueDate,
		Settlement:       model.Settlement,
		Origin:           model.Origin,
		SeriesID:         model.SeriesID,
		InstallmentIndex: model.InstallmentIndex,
		InstallmentCount: model.InstallmentCount,
		AnticipationID:   model.AnticipationID,
		AccountID:        model.AccountID,
		CardID:           model.CardID,
		CategoryID:       model.CategoryID,
		PayeeID:          model.PayeeID,
		Links: TransactionLinks{
			Self: fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
		},
	}
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`                                                          // List of transactions
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type TransactionCreateResponse struct {
	Error *string              `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []CommitmentResponse `json:"data"`                                                          // The created transactions per commitment, or the respective error
}

func (t *TransactionCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, CommitmentResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

// CommitmentResponse holds all transactions one commitment expanded into.
type CommitmentResponse struct {
	Error *string       `json:"error" example:"the commitment amount must not be zero"` // The error, if any occurred for this commitment
	Data  []Transaction `json:"data"`                                                   // The transactions of the commitment
}

type TransactionResponse struct {
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Transaction `json:"data"`                                                          // The transaction data
}

type TransactionQueryFilter struct {
	Name          string                   `json:"name" form:"name" filterField:"false"`         // Fuzzy filter for the name
	Note          string                   `json:"note" form:"note" filterField:"false"`         // Fuzzy filter for the note
	Kind          models.TransactionKind   `json:"kind" form:"kind"`                             // By kind
	Condition     models.Condition         `json:"condition" form:"condition"`                   // By condition
	PaymentMethod models.PaymentMethod     `json:"paymentMethod" form:"paymentMethod"`           // By payment method
	Settlement    models.SettlementState   `json:"settlement" form:"settlement"`                 // By settlement state
	Origin        models.TransactionOrigin `json:"origin" form:"origin"`                         // By origin
	Period        time.Time                `json:"period" form:"period" time_format:"2006-01" time_utc:"1" filterField:"false"` // By billing period in YYYY-MM format
	FromDate      time.Time                `json:"fromDate" form:"fromDate" filterField:"false"` // Transactions on this date or later. Time is ignored
	UntilDate     time.Time                `json:"untilDate" form:"untilDate" filterField:"false"` // Transactions on this date or earlier. Time is ignored
	AccountID     om_uuid.UUID             `json:"accountId" form:"account"`                     // By ID of the account
	CardID        om_uuid.UUID             `json:"cardId" form:"card"`                           // By ID of the card
	CategoryID    om_uuid.UUID             `json:"categoryId" form:"category"`                   // By ID of the category
	PayeeID       om_uuid.UUID             `json:"payeeId" form:"payee"`                         // By ID of the payee
	SeriesID      om_uuid.UUID             `json:"seriesId" form:"series"`                       // By ID of the series
	Offset        uint                     `json:"offset" form:"offset" filterField:"false"`     // The offset of the first transaction returned. Defaults to 0.
	Limit         int                      `json:"limit" form:"limit" filterField:"false"`       // Maximum number of transactions to return. Defaults to 50.
}

func (f TransactionQueryFilter) model() (models.Transaction, error) {
	// uuid.Nil maps to an actual nil so that gorm does not match
	// "account_id IS NULL" on an unset filter
	var accountID, cardID, categoryID, payeeID, seriesID *uuid.UUID
	if f.AccountID != om_uuid.Nil {
		accountID = &f.AccountID.UUID
	}
	if f.CardID != om_uuid.Nil {
		cardID = &f.CardID.UUID
	}
	if f.CategoryID != om_uuid.Nil {
		categoryID = &f.CategoryID.UUID
	}
	if f.PayeeID != om_uuid.Nil {
		payeeID = &f.PayeeID.UUID
	}
	if f.SeriesID != om_uuid.Nil {
		seriesID = &f.SeriesID.UUID
	}

	return models.Transaction{
		Kind:          f.Kind,
		Condition:     f.Condition,
		PaymentMethod: f.PaymentMethod,
		Settlement:    f.Settlement,
		Origin:        f.Origin,
		AccountID:     accountID,
		CardID:        cardID,
		CategoryID:    categoryID,
		PayeeID:       payeeID,
		SeriesID:      seriesID,
	}, nil
}
