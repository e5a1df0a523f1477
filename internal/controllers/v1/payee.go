package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfrancescons/openmonetis-backend/internal/httputil"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterPayeeRoutes registers the routes for payees with
// the RouterGroup that is passed.
func RegisterPayeeRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsPayeeList)
		r.GET("", GetPayees)
		r.POST("", CreatePayees)
	}

	// Payee with ID
	{
		r.OPTIONS("/:id", OptionsPayeeDetail)
		r.GET("/:id", GetPayee)
		r.PATCH("/:id", UpdatePayee)
		r.DELETE("/:id", DeletePayee)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payees
// @Success		204
// @Router			/v1/payees [options]
func OptionsPayeeList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Payees
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/payees/{id} [options]
func OptionsPayeeDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Payee{})
}

// @Summary		Create payees
// @Description	Creates new payees
// @Tags			Payees
// @Produce		json
// @Success		201		{object}	PayeeCreateResponse
// @Failure		400		{object}	PayeeCreateResponse
// @Failure		500		{object}	PayeeCreateResponse
// @Param			payees	body		[]PayeeEditable	true	"Payees"
// @Router			/v1/payees [post]
func CreatePayees(c *gin.Context) {
	var editables []PayeeEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayeeCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := PayeeCreateResponse{}

	for _, editable := range editables {
		payee := editable.model()

		err = models.DB.Create(&payee).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newPayee(c, payee)
		r.Data = append(r.Data, PayeeResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		List payees
// @Description	Returns a list of payees
// @Tags			Payees
// @Produce		json
// @Success		200	{object}	PayeeListResponse
// @Failure		400	{object}	PayeeListResponse
// @Failure		500	{object}	PayeeListResponse
// @Router			/v1/payees [get]
// @Param			name		query	string	false	"Filter by name"
// @Param			note		query	string	false	"Filter by note"
// @Param			archived	query	bool	false	"Is the payee archived?"
// @Param			search		query	string	false	"Search for this text in name and note"
// @Param			offset		query	uint	false	"The offset of the first Payee returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Payees to return. Defaults to 50."
func GetPayees(c *gin.Context) {
	var filter PayeeQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	// Convert the QueryFilter to a model struct
	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PayeeListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("name ASC").
		Where(&filterModel, queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 payees and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var payees []models.Payee
	err = q.Find(&payees).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PayeeListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PayeeListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Payee, 0)
	for _, payee := range payees {
		data = append(data, newPayee(c, payee))
	}

	c.JSON(http.StatusOK, PayeeListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get payee
// @Description	Returns a specific payee
// @Tags			Payees
// @Produce		json
// @Success		200	{object}	PayeeResponse
// @Failure		400	{object}	PayeeResponse
// @Failure		404	{object}	PayeeResponse
// @Failure		500	{object}	PayeeResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/payees/{id} [get]
func GetPayee(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PayeeResponse{
			Error: &s,
		})
		return
	}

	var payee models.Payee
	err = models.DB.First(&payee, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PayeeResponse{
			Error: &s,
		})
		return
	}

	data := newPayee(c, payee)
	c.JSON(http.StatusOK, PayeeResponse{Data: &data})
}

// @Summary		Update payee
// @Description	Update an existing payee. Only values to be updated need to be specified.
// @Tags			Payees
// @Accept			json
// @Produce		json
// @Success		200		{object}	PayeeResponse
// @Failure		400		{object}	PayeeResponse
// @Failure		404		{object}	PayeeResponse
// @Failure		500		{object}	PayeeResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			payee	body		PayeeEditable	true	"Payee"
// @Router			/v1/payees/{id} [patch]
func UpdatePayee(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PayeeResponse{
			Error: &s,
		})
		return
	}

	var payee models.Payee
	err = models.DB.First(&payee, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PayeeResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, PayeeEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PayeeResponse{
			Error: &s,
		})
		return
	}

	var data PayeeEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PayeeResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&payee).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PayeeResponse{
			Error: &s,
		})
		return
	}

	r := newPayee(c, payee)
	c.JSON(http.StatusOK, PayeeResponse{Data: &r})
}

// @Summary		Delete payee
// @Description	Deletes a payee
// @Tags			Payees
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/payees/{id} [delete]
func DeletePayee(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var payee models.Payee
	err = models.DB.First(&payee, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&payee).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
