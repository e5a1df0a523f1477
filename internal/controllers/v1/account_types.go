package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
	"gorm.io/gorm"
)

// AccountEditable represents all user configurable parameters
type AccountEditable struct {
	Name                     string          `json:"name" example:"Checking account" default:""`       // Name of the account
	Note                     string          `json:"note" example:"My main bank account" default:""`   // A longer description
	Currency                 string          `json:"currency" example:"BRL" default:"BRL"`             // ISO 4217 currency code
	InitialBalance           decimal.Decimal `json:"initialBalance" example:"173.12"`                  // Balance of the account before any transaction was recorded
	InitialBalanceDate       *time.Time      `json:"initialBalanceDate" example:"2017-05-12T00:00:00Z"` // Date of the initial balance
	ExcludeInitialFromIncome bool            `json:"excludeInitialFromIncome" example:"true" default:"false"` // Keep the initial balance out of income aggregations
	ExcludeFromTotals        bool            `json:"excludeFromTotals" example:"true" default:"false"` // Keep the account out of cross-account aggregations
	Archived                 bool            `json:"archived" example:"true" default:"false"`          // Is the account archived?
}

// model returns the database resource for the API representation of the editable fields
func (editable AccountEditable) model() models.Account {
	return models.Account{
		Name:                     editable.Name,
		Note:                     editable.Note,
		Currency:                 editable.Currency,
		InitialBalance:           editable.InitialBalance,
		InitialBalanceDate:       editable.InitialBalanceDate,
		ExcludeInitialFromIncome: editable.ExcludeInitialFromIncome,
		ExcludeFromTotals:        editable.ExcludeFromTotals,
		Archived:                 editable.Archived,
	}
}

type AccountLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`          // The account itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?account=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // Transactions referencing the account
}

// Account is the API representation of an account.
type Account struct {
	models.DefaultModel
	AccountEditable
	Links AccountLinks `json:"links"`

	// These fields are computed
	Balance decimal.Decimal `json:"balance" example:"2735.17"` // Balance of the account, including all settled transactions
}

// newAccount returns the API representation of the resource
func newAccount(c *gin.Context, db *gorm.DB, model models.Account) (Account, error) {
	url := c.GetString(string(models.DBContextURL))

	account := Account{
		DefaultModel: model.DefaultModel,
		AccountEditable: AccountEditable{
			Name:                     model.Name,
			Note:                     model.Note,
			Currency:                 model.Currency,
			InitialBalance:           model.InitialBalance,
			InitialBalanceDate:       model.InitialBalanceDate,
			ExcludeInitialFromIncome: model.ExcludeInitialFromIncome,
			ExcludeFromTotals:        model.ExcludeFromTotals,
			Archived:                 model.Archived,
		},
		Links: AccountLinks{
			Self:         fmt.Sprintf("%s/v1/accounts/%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?account=%s", url, model.ID),
		},
	}

	balance, err := model.Balance(db)
	if err != nil {
		return Account{}, err
	}
	account.Balance = balance

	return account, nil
}

type AccountListResponse struct {
	Data       []Account   `json:"data"`                                                          // List of accounts
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type AccountCreateResponse struct {
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []AccountResponse `json:"data"`                                                          // List of created accounts or their respective error
}

func (a *AccountCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	a.Data = append(a.Data, AccountResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type AccountResponse struct {
	Data  *Account `json:"data"`                                                          // Data for the account
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type AccountQueryFilter struct {
	Name     string `json:"name" form:"name" filterField:"false"`     // Fuzzy filter for the account name
	Note     string `json:"note" form:"note" filterField:"false"`     // Fuzzy filter for the note
	Currency string `json:"currency" form:"currency"`                 // By currency code
	Archived bool   `json:"archived" form:"archived"`                 // Is the account archived?
	Search   string `json:"search" form:"search" filterField:"false"` // By string in name or note
	Offset   uint   `json:"offset" form:"offset" filterField:"false"` // The offset of the first account returned. Defaults to 0.
	Limit    int    `json:"limit" form:"limit" filterField:"false"`   // Maximum number of accounts to return. Defaults to 50.
}

func (f AccountQueryFilter) model() (models.Account, error) {
	return models.Account{
		Currency: f.Currency,
		Archived: f.Archived,
	}, nil
}
