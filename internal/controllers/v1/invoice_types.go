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

// InvoiceEditable identifies the invoice to recalculate.
type InvoiceEditable struct {
	CardID uuid.UUID   `json:"cardId" example:"d3c3ceee-b6d8-441c-a8b5-14ba933bbd7a"` // The card the invoice belongs to
	Month  types.Month `json:"month" example:"2025-05-01T00:00:00Z"`                  // The billing period of the invoice
}

// InvoiceUpdateable is the settable state of an invoice. The total is a
// cache over the card's transactions and cannot be set directly.
type InvoiceUpdateable struct {
	Status models.InvoiceStatus `json:"status" example:"PAID"` // The settlement status
}

type InvoiceLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/invoices/051a156f-cd45-42fa-a849-462bb9c203ac"` // The invoice itself
	Card         string `json:"card" example:"https://example.com/api/v1/cards/d3c3ceee-b6d8-441c-a8b5-14ba933bbd7a"`    // The card the invoice belongs to
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?card=d3c3ceee-b6d8-441c-a8b5-14ba933bbd7a&period=2025-05"` // The transactions of the billing period
}

// InvoiceObject is the API representation of an invoice.
type InvoiceObject struct {
	models.DefaultModel
	CardID uuid.UUID            `json:"cardId" example:"d3c3ceee-b6d8-441c-a8b5-14ba933bbd7a"` // The card the invoice belongs to
	Month  types.Month          `json:"month" example:"2025-05-01T00:00:00Z"`                  // The billing period of the invoice
	Total  decimal.Decimal      `json:"total" example:"-1200.00"`                              // Sum of the open transactions of the billing period
	Status models.InvoiceStatus `json:"status" example:"PENDING"`                              // The settlement status

	// The transactions of the billing period. Only set on the detail endpoint.
	Transactions []Transaction `json:"transactions,omitempty"`

	Links InvoiceLinks `json:"links"`
}

func newInvoice(c *gin.Context, model models.Invoice) InvoiceObject {
	url := c.GetString(string(models.DBContextURL))

	return InvoiceObject{
		DefaultModel: model.DefaultModel,
		CardID:       model.CardID,
		Month:        model.Month,
		Total:        model.Total,
		Status:       model.Status,
		Links: InvoiceLinks{
			Self:         fmt.Sprintf("%s/v1/invoices/%s", url, model.ID),
			Card:         fmt.Sprintf("%s/v1/cards/%s", url, model.CardID),
			Transactions: fmt.Sprintf("%s/v1/transactions?card=%s&period=%s", url, model.CardID, model.Month),
		},
	}
}

type InvoiceListResponse struct {
	Data       []InvoiceObject `json:"data"`                                                          // List of invoices
	Error      *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination     `json:"pagination"`                                                    // Pagination information
}

type InvoiceResponse struct {
	Data  *InvoiceObject `json:"data"`                                                          // Data for the invoice
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type InvoiceQueryFilter struct {
	CardID om_uuid.UUID         `json:"cardId" form:"card"`                                                          // By ID of the card
	Month  time.Time            `json:"month" form:"month" time_format:"2006-01" time_utc:"1" filterField:"false"`   // By billing period in YYYY-MM format
	Status models.InvoiceStatus `json:"status" form:"status"`                                                        // By settlement status
	Offset uint                 `json:"offset" form:"offset" filterField:"false"`                                    // The offset of the first invoice returned. Defaults to 0.
	Limit  int                  `json:"limit" form:"limit" filterField:"false"`                                      // Maximum number of invoices to return. Defaults to 50.
}

func (f InvoiceQueryFilter) model() (models.Invoice, error) {
	return models.Invoice{
		CardID: f.CardID.UUID,
		Status: f.Status,
	}, nil
}
