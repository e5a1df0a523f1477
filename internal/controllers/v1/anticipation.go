package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfrancescons/openmonetis-backend/internal/httputil"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterAnticipationRoutes registers the routes for anticipations with
// the RouterGroup that is passed.
func RegisterAnticipationRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsAnticipationList)
		r.GET("", GetAnticipations)
		r.POST("", CreateAnticipation)
	}

	// Anticipation with ID
	{
		r.OPTIONS("/:id", OptionsAnticipationDetail)
		r.GET("/:id", GetAnticipation)
		r.DELETE("/:id", DeleteAnticipation)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Anticipations
// @Success		204
// @Router			/v1/anticipations [options]
func OptionsAnticipationList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Anticipations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/anticipations/{id} [options]
func OptionsAnticipationDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var anticipation models.Anticipation
	err = models.DB.First(&anticipation, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetDelete(c)
}

// @Summary		Anticipate installments
// @Description	Collapses a set of open installments of one series into a single lump sum transaction in the target billing period. The anticipated installments stay in storage, marked as absorbed, and stop counting towards invoices, balances and pending projections. Either all of them are eligible or nothing changes.
// @Tags			Anticipations
// @Produce		json
// @Success		201				{object}	AnticipationResponse
// @Failure		400				{object}	AnticipationResponse
// @Failure		404				{object}	AnticipationResponse
// @Failure		500				{object}	AnticipationResponse
// @Param			anticipation	body		AnticipationEditable	true	"Anticipation"
// @Router			/v1/anticipations [post]
func CreateAnticipation(c *gin.Context) {
	var editable AnticipationEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AnticipationResponse{
			Error: &e,
		})
		return
	}

	anticipation, err := models.Anticipate(models.DB, editable.SeriesID, editable.TransactionIDs, editable.Month)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AnticipationResponse{
			Error: &s,
		})
		return
	}

	data := newAnticipation(c, anticipation)
	c.JSON(http.StatusCreated, AnticipationResponse{Data: &data})
}

// @Summary		List anticipations
// @Description	Returns a list of anticipations
// @Tags			Anticipations
// @Produce		json
// @Success		200	{object}	AnticipationListResponse
// @Failure		400	{object}	AnticipationListResponse
// @Failure		500	{object}	AnticipationListResponse
// @Router			/v1/anticipations [get]
// @Param			series	query	string	false	"Filter by ID of the series"
// @Param			offset	query	uint	false	"The offset of the first Anticipation returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Anticipations to return. Defaults to 50."
func GetAnticipations(c *gin.Context) {
	var filter AnticipationQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	// Convert the QueryFilter to a model struct
	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AnticipationListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("datetime(created_at) DESC").
		Where(&filterModel, queryFields...)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 anticipations and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var anticipations []models.Anticipation
	err = q.Find(&anticipations).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AnticipationListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AnticipationListResponse{
			Error: &e,
		})
		return
	}

	data := make([]AnticipationObject, 0)
	for _, anticipation := range anticipations {
		data = append(data, newAnticipation(c, anticipation))
	}

	c.JSON(http.StatusOK, AnticipationListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get anticipation
// @Description	Returns a specific anticipation
// @Tags			Anticipations
// @Produce		json
// @Success		200	{object}	AnticipationResponse
// @Failure		400	{object}	AnticipationResponse
// @Failure		404	{object}	AnticipationResponse
// @Failure		500	{object}	AnticipationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/anticipations/{id} [get]
func GetAnticipation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AnticipationResponse{
			Error: &s,
		})
		return
	}

	var anticipation models.Anticipation
	err = models.DB.First(&anticipation, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AnticipationResponse{
			Error: &s,
		})
		return
	}

	data := newAnticipation(c, anticipation)
	c.JSON(http.StatusOK, AnticipationResponse{Data: &data})
}

// @Summary		Cancel anticipation
// @Description	Cancels an anticipation. The lump sum transaction is removed, the absorbed installments become open again and the affected invoices are recalculated. Not possible once the lump sum is settled.
// @Tags			Anticipations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/anticipations/{id} [delete]
func DeleteAnticipation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var anticipation models.Anticipation
	err = models.DB.First(&anticipation, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = anticipation.Cancel(models.DB)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
