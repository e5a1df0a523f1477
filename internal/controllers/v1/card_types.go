package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	om_uuid "github.com/wfrancescons/openmonetis-backend/internal/uuid"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
	"gorm.io/gorm"
)

// CardEditable represents all user configurable parameters
type CardEditable struct {
	Name       string           `json:"name" example:"Platinum card" default:""`                 // Name of the card
	Note       string           `json:"note" example:"The card with the miles program" default:""` // A longer description
	AccountID  uuid.UUID        `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // ID of the account the invoices are paid from
	ClosingDay int              `json:"closingDay" example:"25" minimum:"1" maximum:"31"`        // Day of month the billing cycle closes
	DueDay     int              `json:"dueDay" example:"5" minimum:"1" maximum:"31"`             // Day of month the invoice is due
	Limit      *decimal.Decimal `json:"limit" example:"5000.00"`                                 // Credit limit, null means unlimited
	Archived   bool             `json:"archived" example:"true" default:"false"`                 // Is the card archived?
}

// model returns the database resource for the API representation of the editable fields
func (editable CardEditable) model() models.Card {
	return models.Card{
		Name:       editable.Name,
		Note:       editable.Note,
		AccountID:  editable.AccountID,
		ClosingDay: editable.ClosingDay,
		DueDay:     editable.DueDay,
		Limit:      editable.Limit,
		Archived:   editable.Archived,
	}
}

type CardLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/cards/d3c3ceee-b6d8-441c-a8b5-14ba933bbd7a"`          // The card itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?card=d3c3ceee-b6d8-441c-a8b5-14ba933bbd7a"` // Transactions on the card
	Invoices     string `json:"invoices" example:"https://example.com/api/v1/invoices?card=d3c3ceee-b6d8-441c-a8b5-14ba933bbd7a"` // Invoices of the card
}

// Card is the API representation of a credit card.
type Card struct {
	models.DefaultModel
	CardEditable
	Links CardLinks `json:"links"`

	// These fields are computed
	Usage models.CardUsage `json:"usage"` // Credit limit exposure of the card
}

// newCard returns the API representation of the resource
func newCard(c *gin.Context, db *gorm.DB, model models.Card) (Card, error) {
	url := c.GetString(string(models.DBContextURL))

	card := Card{
		DefaultModel: model.DefaultModel,
		CardEditable: CardEditable{
			Name:       model.Name,
			Note:       model.Note,
			AccountID:  model.AccountID,
			ClosingDay: model.ClosingDay,
			DueDay:     model.DueDay,
			Limit:      model.Limit,
			Archived:   model.Archived,
		},
		Links: CardLinks{
			Self:         fmt.Sprintf("%s/v1/cards/%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?card=%s", url, model.ID),
			Invoices:     fmt.Sprintf("%s/v1/invoices?card=%s", url, model.ID),
		},
	}

	usage, err := model.Usage(db)
	if err != nil {
		return Card{}, err
	}
	card.Usage = usage

	return card, nil
}

type CardListResponse struct {
	Data       []Card      `json:"data"`                                                          // List of cards
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type CardCreateResponse struct {
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []CardResponse `json:"data"`                                                          // List of created cards or their respective error
}

func (cr *CardCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	cr.Data = append(cr.Data, CardResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type CardResponse struct {
	Data  *Card   `json:"data"`                                                          // Data for the card
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type CardQueryFilter struct {
	Name      string       `json:"name" form:"name" filterField:"false"`     // Fuzzy filter for the card name
	Note      string       `json:"note" form:"note" filterField:"false"`     // Fuzzy filter for the note
	AccountID om_uuid.UUID `json:"accountId" form:"account"`                 // By ID of the linked account
	Archived  bool         `json:"archived" form:"archived"`                 // Is the card archived?
	Search    string       `json:"search" form:"search" filterField:"false"` // By string in name or note
	Offset    uint         `json:"offset" form:"offset" filterField:"false"` // The offset of the first card returned. Defaults to 0.
	Limit     int          `json:"limit" form:"limit" filterField:"false"`   // Maximum number of cards to return. Defaults to 50.
}

func (f CardQueryFilter) model() (models.Card, error) {
	return models.Card{
		AccountID: f.AccountID.UUID,
		Archived:  f.Archived,
	}, nil
}
