package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	om_uuid "github.com/wfrancescons/openmonetis-backend/internal/uuid"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
)

// MatchRuleEditable represents all user configurable parameters
type MatchRuleEditable struct {
	Priority   uint      `json:"priority" example:"3"`                                      // The priority of the match rule
	Match      string    `json:"match" example:"Bank*" default:""`                          // The matching applied to the transaction name. The glob pattern * matches any number of characters
	CategoryID uuid.UUID `json:"categoryId" example:"f9e873c2-fb96-4367-bfb6-7ecd9bf4a6b5"` // The category the matching transactions are assigned to
}

// model returns the database resource for the API representation of the editable fields
func (editable MatchRuleEditable) model() models.MatchRule {
	return models.MatchRule{
		Priority:   editable.Priority,
		Match:      editable.Match,
		CategoryID: editable.CategoryID,
	}
}

type MatchRuleLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/match-rules/95685c82-53c6-455d-b235-f49960b73b21"` // The match rule itself
}

// MatchRule is the API representation of a match rule.
type MatchRule struct {
	models.DefaultModel
	MatchRuleEditable
	Links MatchRuleLinks `json:"links"`
}

func newMatchRule(c *gin.Context, model models.MatchRule) MatchRule {
	url := c.GetString(string(models.DBContextURL))

	return MatchRule{
		DefaultModel: model.DefaultModel,
		MatchRuleEditable: MatchRuleEditable{
			Priority:   model.Priority,
			Match:      model.Match,
			CategoryID: model.CategoryID,
		},
		Links: MatchRuleLinks{
			Self: fmt.Sprintf("%s/v1/match-rules/%s", url, model.ID),
		},
	}
}

type MatchRuleListResponse struct {
	Data       []MatchRule `json:"data"`                                                          // List of match rules
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type MatchRuleCreateResponse struct {
	Error *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []MatchRuleResponse `json:"data"`                                                          // List of created match rules or their respective error
}

func (m *MatchRuleCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	m.Data = append(m.Data, MatchRuleResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type MatchRuleResponse struct {
	Data  *MatchRule `json:"data"`                                                          // Data for the match rule
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type MatchRuleQueryFilter struct {
	Priority   uint         `json:"priority" form:"priority"`                 // By priority
	Match      string       `json:"match" form:"match" filterField:"false"`   // By match
	CategoryID om_uuid.UUID `json:"categoryId" form:"category"`               // By ID of the assigned category
	Offset     uint         `json:"offset" form:"offset" filterField:"false"` // The offset of the first match rule returned. Defaults to 0.
	Limit      int          `json:"limit" form:"limit" filterField:"false"`   // Maximum number of match rules to return. Defaults to 50.
}

func (f MatchRuleQueryFilter) model() (models.MatchRule, error) {
	return models.MatchRule{
		Priority:   f.Priority,
		CategoryID: f.CategoryID.UUID,
	}, nil
}
