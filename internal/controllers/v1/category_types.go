package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
)

// CategoryEditable represents all user configurable parameters
type CategoryEditable struct {
	Name     string `json:"name" example:"Groceries" default:""`                  // Name of the category
	Note     string `json:"note" example:"Everything bought at a market" default:""` // A longer description
	Archived bool   `json:"archived" example:"true" default:"false"`              // Is the category archived?
}

func (editable CategoryEditable) model() models.Category {
	return models.Category{
		Name:     editable.Name,
		Note:     editable.Note,
		Archived: editable.Archived,
	}
}

type CategoryLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/categories/3b1ea324-d438-4419-882a-2fc91d71772f"` // The category itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?category=3b1ea324-d438-4419-882a-2fc91d71772f"` // Transactions in the category
}

type Category struct {
	models.DefaultModel
	CategoryEditable
	Links CategoryLinks `json:"links"`
}

func newCategory(c *gin.Context, model models.Category) Category {
	url := c.GetString(string(models.DBContextURL))

	return Category{
		DefaultModel: model.DefaultModel,
		CategoryEditable: CategoryEditable{
			Name:     model.Name,
			Note:     model.Note,
			Archived: model.Archived,
		},
		Links: CategoryLinks{
			Self:         fmt.Sprintf("%s/v1/categories/%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?category=%s", url, model.ID),
		},
	}
}

type CategoryListResponse struct {
	Data       []Category  `json:"data"`                                                          // List of categories
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type CategoryCreateResponse struct {
	Data  []CategoryResponse `json:"data"`                                                          // List of the created categories or their respective error
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (c *CategoryCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	c.Data = append(c.Data, CategoryResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type CategoryResponse struct {
	Data  *Category `json:"data"`                                                          // Data for the category
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type CategoryQueryFilter struct {
	Name     string `json:"name" form:"name" filterField:"false"`     // Fuzzy filter for the category name
	Note     string `json:"note" form:"note" filterField:"false"`     // Fuzzy filter for the note
	Archived bool   `json:"archived" form:"archived"`                 // Is the category archived?
	Search   string `json:"search" form:"search" filterField:"false"` // By string in name or note
	Offset   uint   `json:"offset" form:"offset" filterField:"false"` // The offset of the first category returned. Defaults to 0.
	Limit    int    `json:"limit" form:"limit" filterField:"false"`   // Maximum number of categories to return. Defaults to 50.
}

func (f CategoryQueryFilter) model() (models.Category, error) {
	return models.Category{
		Archived: f.Archived,
	}, nil
}
