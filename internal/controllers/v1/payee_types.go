package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
)

// PayeeEditable represents all user configurable parameters
type PayeeEditable struct {
	Name     string `json:"name" example:"Supermarket Central" default:""` // Name of the payee
	Note     string `json:"note" example:"The one downtown" default:""`   // A longer description
	Archived bool   `json:"archived" example:"true" default:"false"`      // Is the payee archived?
}

func (editable PayeeEditable) model() models.Payee {
	return models.Payee{
		Name:     editable.Name,
		Note:     editable.Note,
		Archived: editable.Archived,
	}
}

type PayeeLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/payees/f3a5db31-f098-4eb9-9b7c-7c1b01722f3d"` // The payee itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?payee=f3a5db31-f098-4eb9-9b7c-7c1b01722f3d"` // Transactions with the payee
}

type Payee struct {
	models.DefaultModel
	PayeeEditable
	Links PayeeLinks `json:"links"`
}

func newPayee(c *gin.Context, model models.Payee) Payee {
	url := c.GetString(string(models.DBContextURL))

	return Payee{
		DefaultModel: model.DefaultModel,
		PayeeEditable: PayeeEditable{
			Name:     model.Name,
			Note:     model.Note,
			Archived: model.Archived,
		},
		Links: PayeeLinks{
			Self:         fmt.Sprintf("%s/v1/payees/%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?payee=%s", url, model.ID),
		},
	}
}

type PayeeListResponse struct {
	Data       []Payee     `json:"data"`                                                          // List of payees
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type PayeeCreateResponse struct {
	Data  []PayeeResponse `json:"data"`                                                          // List of the created payees or their respective error
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (p *PayeeCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	p.Data = append(p.Data, PayeeResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type PayeeResponse struct {
	Data  *Payee  `json:"data"`                                                          // Data for the payee
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type PayeeQueryFilter struct {
	Name     string `json:"name" form:"name" filterField:"false"`     // Fuzzy filter for the payee name
	Note     string `json:"note" form:"note" filterField:"false"`     // Fuzzy filter for the note
	Archived bool   `json:"archived" form:"archived"`                 // Is the payee archived?
	Search   string `json:"search" form:"search" filterField:"false"` // By string in name or note
	Offset   uint   `json:"offset" form:"offset" filterField:"false"` // The offset of the first payee returned. Defaults to 0.
	Limit    int    `json:"limit" form:"limit" filterField:"false"`   // Maximum number of payees to return. Defaults to 50.
}

func (f PayeeQueryFilter) model() (models.Payee, error) {
	return models.Payee{
		Archived: f.Archived,
	}, nil
}
