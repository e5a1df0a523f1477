package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfrancescons/openmonetis-backend/internal/httputil"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterCardRoutes registers the routes for cards with
// the RouterGroup that is passed.
func RegisterCardRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsCardList)
		r.GET("", GetCards)
		r.POST("", CreateCards)
	}

	// Card with ID
	{
		r.OPTIONS("/:id", OptionsCardDetail)
		r.GET("/:id", GetCard)
		r.PATCH("/:id", UpdateCard)
		r.DELETE("/:id", DeleteCard)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Cards
// @Success		204
// @Router			/v1/cards [options]
func OptionsCardList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Cards
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/cards/{id} [options]
func OptionsCardDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Card{})
}

// @Summary		Create cards
// @Description	Creates new cards
// @Tags			Cards
// @Produce		json
// @Success		201		{object}	CardCreateResponse
// @Failure		400		{object}	CardCreateResponse
// @Failure		404		{object}	CardCreateResponse
// @Failure		500		{object}	CardCreateResponse
// @Param			cards	body		[]CardEditable	true	"Cards"
// @Router			/v1/cards [post]
func CreateCards(c *gin.Context) {
	var editables []CardEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CardCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := CardCreateResponse{}

	for _, editable := range editables {
		card := editable.model()

		err = models.DB.Create(&card).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data, err := newCard(c, models.DB, card)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}
		r.Data = append(r.Data, CardResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		List cards
// @Description	Returns a list of cards
// @Tags			Cards
// @Produce		json
// @Success		200	{object}	CardListResponse
// @Failure		400	{object}	CardListResponse
// @Failure		500	{object}	CardListResponse
// @Router			/v1/cards [get]
// @Param			name		query	string	false	"Filter by name"
// @Param			note		query	string	false	"Filter by note"
// @Param			account		query	string	false	"Filter by ID of the linked account"
// @Param			archived	query	bool	false	"Is the card archived?"
// @Param			search		query	string	false	"Search for this text in name and note"
// @Param			offset		query	uint	false	"The offset of the first Card returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Cards to return. Defaults to 50."
func GetCards(c *gin.Context) {
	var filter CardQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	// Convert the QueryFilter to a model struct
	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CardListResponse{
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

	// Default to 50 cards and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var cards []models.Card
	err = q.Find(&cards).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CardListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CardListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Card, 0)
	for _, card := range cards {
		apiResource, err := newCard(c, models.DB, card)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), CardListResponse{
				Error: &s,
			})
			return
		}
		data = append(data, apiResource)
	}

	c.JSON(http.StatusOK, CardListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get card
// @Description	Returns a specific card
// @Tags			Cards
// @Produce		json
// @Success		200	{object}	CardResponse
// @Failure		400	{object}	CardResponse
// @Failure		404	{object}	CardResponse
// @Failure		500	{object}	CardResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/cards/{id} [get]
func GetCard(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CardResponse{
			Error: &s,
		})
		return
	}

	var card models.Card
	err = models.DB.First(&card, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CardResponse{
			Error: &s,
		})
		return
	}

	data, err := newCard(c, models.DB, card)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CardResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, CardResponse{Data: &data})
}

// @Summary		Update card
// @Description	Updates an existing card. Only values to be updated need to be specified.
// @Tags			Cards
// @Accept			json
// @Produce		json
// @Success		200	{object}	CardResponse
// @Failure		400	{object}	CardResponse
// @Failure		404	{object}	CardResponse
// @Failure		500	{object}	CardResponse
// @Param			id		path	URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			card	body	CardEditable	true	"Card"
// @Router			/v1/cards/{id} [patch]
func UpdateCard(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CardResponse{
			Error: &s,
		})
		return
	}

	var card models.Card
	err = models.DB.First(&card, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CardResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, CardEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CardResponse{
			Error: &s,
		})
		return
	}

	var data CardEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CardResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&card).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CardResponse{
			Error: &s,
		})
		return
	}

	r, err := newCard(c, models.DB, card)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CardResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, CardResponse{Data: &r})
}

// @Summary		Delete card
// @Description	Deletes a card
// @Tags			Cards
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/cards/{id} [delete]
func DeleteCard(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var card models.Card
	err = models.DB.First(&card, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&card).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
