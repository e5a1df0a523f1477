package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfrancescons/openmonetis-backend/internal/httputil"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
	"github.com/wfrancescons/openmonetis-backend/internal/types"
	"golang.org/x/exp/slices"
)

// RegisterInvoiceRoutes registers the routes for invoices with
// the RouterGroup that is passed.
func RegisterInvoiceRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsInvoiceList)
		r.GET("", GetInvoices)
		r.POST("", CreateInvoice)
	}

	// Invoice with ID
	{
		r.OPTIONS("/:id", OptionsInvoiceDetail)
		r.GET("/:id", GetInvoice)
		r.PATCH("/:id", UpdateInvoice)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Invoices
// @Success		204
// @Router			/v1/invoices [options]
func OptionsInvoiceList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Invoices
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/invoices/{id} [options]
func OptionsInvoiceDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var invoice models.Invoice
	err = models.DB.First(&invoice, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatch(c)
}

// @Summary		Recalculate invoice
// @Description	Recalculates the invoice for a card and billing period, creating it when it does not exist yet. With unchanged transactions the call has no observable effect.
// @Tags			Invoices
// @Produce		json
// @Success		200		{object}	InvoiceResponse
// @Failure		400		{object}	InvoiceResponse
// @Failure		404		{object}	InvoiceResponse
// @Failure		500		{object}	InvoiceResponse
// @Param			invoice	body		InvoiceEditable	true	"Invoice"
// @Router			/v1/invoices [post]
func CreateInvoice(c *gin.Context) {
	var editable InvoiceEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvoiceResponse{
			Error: &e,
		})
		return
	}

	invoice, err := models.UpsertInvoice(models.DB, editable.CardID, editable.Month)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), InvoiceResponse{
			Error: &s,
		})
		return
	}

	data := newInvoice(c, invoice)
	c.JSON(http.StatusOK, InvoiceResponse{Data: &data})
}

// @Summary		List invoices
// @Description	Returns a list of invoices
// @Tags			Invoices
// @Produce		json
// @Success		200	{object}	InvoiceListResponse
// @Failure		400	{object}	InvoiceListResponse
// @Failure		500	{object}	InvoiceListResponse
// @Router			/v1/invoices [get]
// @Param			card	query	string	false	"Filter by ID of the card"
// @Param			month	query	string	false	"Filter by billing period in YYYY-MM format"
// @Param			status	query	string	false	"Filter by settlement status"
// @Param			offset	query	uint	false	"The offset of the first Invoice returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Invoices to return. Defaults to 50."
func GetInvoices(c *gin.Context) {
	var filter InvoiceQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, InvoiceListResponse{
			Error: &s,
		})
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	// Convert the QueryFilter to a model struct
	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), InvoiceListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("date(month) ASC").
		Where(&filterModel, queryFields...)

	if slices.Contains(setFields, "Month") {
		q = q.Where("month = ?", types.MonthOf(filter.Month))
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 invoices and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var invoices []models.Invoice
	err = q.Find(&invoices).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), InvoiceListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvoiceListResponse{
			Error: &e,
		})
		return
	}

	data := make([]InvoiceObject, 0)
	for _, invoice := range invoices {
		data = append(data, newInvoice(c, invoice))
	}

	c.JSON(http.StatusOK, InvoiceListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get invoice
// @Description	Returns a specific invoice together with the transactions of its billing period
// @Tags			Invoices
// @Produce		json
// @Success		200	{object}	InvoiceResponse
// @Failure		400	{object}	InvoiceResponse
// @Failure		404	{object}	InvoiceResponse
// @Failure		500	{object}	InvoiceResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/invoices/{id} [get]
func GetInvoice(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), InvoiceResponse{
			Error: &s,
		})
		return
	}

	var invoice models.Invoice
	err = models.DB.First(&invoice, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), InvoiceResponse{
			Error: &s,
		})
		return
	}

	transactions, err := invoice.Transactions(models.DB)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), InvoiceResponse{
			Error: &s,
		})
		return
	}

	data := newInvoice(c, invoice)
	for _, transaction := range transactions {
		data.Transactions = append(data.Transactions, newTransaction(c, transaction))
	}

	c.JSON(http.StatusOK, InvoiceResponse{Data: &data})
}

// @Summary		Update invoice
// @Description	Sets the settlement status of an invoice. Setting PAID settles all open transactions of the billing period and creates the balancing payment transaction on the card's account. Setting PENDING reverses a payment. Both directions are idempotent.
// @Tags			Invoices
// @Accept			json
// @Produce		json
// @Success		200		{object}	InvoiceResponse
// @Failure		400		{object}	InvoiceResponse
// @Failure		404		{object}	InvoiceResponse
// @Failure		500		{object}	InvoiceResponse
// @Param			id		path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			invoice	body		InvoiceUpdateable	true	"Invoice"
// @Router			/v1/invoices/{id} [patch]
func UpdateInvoice(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), InvoiceResponse{
			Error: &s,
		})
		return
	}

	var invoice models.Invoice
	err = models.DB.First(&invoice, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), InvoiceResponse{
			Error: &s,
		})
		return
	}

	var data InvoiceUpdateable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), InvoiceResponse{
			Error: &s,
		})
		return
	}

	switch data.Status {
	case models.InvoicePaid:
		err = invoice.Pay(models.DB)
	case models.InvoicePending:
		err = invoice.Unpay(models.DB)
	default:
		err = errInvoiceStatusInvalid
	}

	if err != nil {
		s := err.Error()
		c.JSON(status(err), InvoiceResponse{
			Error: &s,
		})
		return
	}

	r := newInvoice(c, invoice)
	c.JSON(http.StatusOK, InvoiceResponse{Data: &r})
}
