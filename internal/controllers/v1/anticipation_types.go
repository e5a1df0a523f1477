package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
	"github.com/wfrancescons/openmonetis-backend/internal/types"
	om_uuid "github.com/wfrancescons/openmonetis-backend/internal/uuid"
)

// AnticipationEditable represents all user configurable parameters
type AnticipationEditable struct {
	SeriesID       uuid.UUID   `json:"seriesId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"` // The series the anticipated transactions belong to
	TransactionIDs []uuid.UUID `json:"transactionIds"`                                          // The open transactions to collapse into the lump sum
	Month          types.Month `json:"month" example:"2025-05-01T00:00:00Z"`                    // The billing period the lump sum is due in
}

type AnticipationLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/anticipations/33b0423b-6d45-4ed5-a93a-2fda4d0b3b66"`        // The anticipation itself
	Transaction string `json:"transaction" example:"https://example.com/api/v1/transactions/d430d7c3-d14c-4712-9336-ee56965a6673"` // The lump sum transaction
	Absorbed    string `json:"absorbed" example:"https://example.com/api/v1/transactions?series=d430d7c3-d14c-4712-9336-ee56965a6673"` // The transactions of the series
}

// AnticipationObject is the API representation of an anticipation.
type AnticipationObject struct {
	models.DefaultModel
	SeriesID      uuid.UUID         `json:"seriesId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"`      // The series the anticipation belongs to
	TransactionID uuid.UUID         `json:"transactionId" example:"a6bf02d8-5c2b-4631-b062-30ea9fb9cd5f"` // The lump sum transaction
	Month         types.Month       `json:"month" example:"2025-05-01T00:00:00Z"`                         // Period the lump sum is due in
	Links         AnticipationLinks `json:"links"`
}

func newAnticipation(c *gin.Context, model models.Anticipation) AnticipationObject {
	url := c.GetString(string(models.DBContextURL))

	return AnticipationObject{
		DefaultModel:  model.DefaultModel,
		SeriesID:      model.SeriesID,
		TransactionID: model.TransactionID,
		Month:         model.Month,
		Links: AnticipationLinks{
			Self:        fmt.Sprintf("%s/v1/anticipations/%s", url, model.ID),
			Transaction: fmt.Sprintf("%s/v1/transactions/%s", url, model.TransactionID),
			Absorbed:    fmt.Sprintf("%s/v1/transactions?series=%s", url, model.SeriesID),
		},
	}
}

type AnticipationListResponse struct {
	Data       []AnticipationObject `json:"data"`                                                          // List of anticipations
	Error      *string              `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination          `json:"pagination"`                                                    // Pagination information
}

type AnticipationResponse struct {
	Data  *AnticipationObject `json:"data"`                                                          // Data for the anticipation
	Error *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type AnticipationQueryFilter struct {
	SeriesID om_uuid.UUID `json:"seriesId" form:"series"`                   // By ID of the series
	Offset   uint         `json:"offset" form:"offset" filterField:"false"` // The offset of the first anticipation returned. Defaults to 0.
	Limit    int          `json:"limit" form:"limit" filterField:"false"`   // Maximum number of anticipations to return. Defaults to 50.
}

func (f AnticipationQueryFilter) model() (models.Anticipation, error) {
	return models.Anticipation{
		SeriesID: f.SeriesID.UUID,
	}, nil
}
