package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfrancescons/openmonetis-backend/internal/httputil"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
	"github.com/wfrancescons/openmonetis-backend/internal/types"
	"golang.org/x/exp/slices"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTransactionList)
		r.GET("", GetTransactions)
		r.POST("", CreateTransactions)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", OptionsTransactionDetail)
		r.GET("/:id", GetTransaction)
		r.PATCH("/:id", UpdateTransaction)
		r.DELETE("/:id", DeleteTransaction)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions [options]
func OptionsTransactionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [options]
func OptionsTransactionDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Transaction{})
}

// @Summary		Create transactions
// @Description	Creates new commitments. Each commitment is expanded into its transactions: one for a one off commitment, one per installment or recurrence otherwise. Invoices for affected card billing periods are created or updated.
// @Tags			Transactions
// @Produce		json
// @Success		201				{object}	TransactionCreateResponse
// @Failure		400				{object}	TransactionCreateResponse
// @Failure		404				{object}	TransactionCreateResponse
// @Failure		500				{object}	TransactionCreateResponse
// @Param			transactions	body		[]TransactionEditable	true	"Commitments"
// @Router			/v1/transactions [post]
func CreateTransactions(c *gin.Context) {
	var editables []TransactionEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := TransactionCreateResponse{}

	for _, editable := range editables {
		transactions, err := models.CreateCommitment(models.DB, editable.commitment())
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := make([]Transaction, 0, len(transactions))
		for _, transaction := range transactions {
			data = append(data, newTransaction(c, transaction))
		}
		r.Data = append(r.Data, CommitmentResponse{Data: data})
	}

	c.JSON(status, r)
}

// @Summary		List transactions
// @Description	Returns a list of transactions
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionListResponse
// @Failure		400	{object}	TransactionListResponse
// @Failure		500	{object}	TransactionListResponse
// @Router			/v1/transactions [get]
// @Param			name			query	string	false	"Filter by name"
// @Param			note			query	string	false	"Filter by note"
// @Param			kind			query	string	false	"Filter by kind"
// @Param			condition		query	string	false	"Filter by condition"
// @Param			paymentMethod	query	string	false	"Filter by payment method"
// @Param			settlement		query	string	false	"Filter by settlement state"
// @Param			origin			query	string	false	"Filter by origin"
// @Param			period			query	string	false	"Filter by billing period in YYYY-MM format"
// @Param			fromDate		query	string	false	"Transactions at or after this date"
// @Param			untilDate		query	string	false	"Transactions before or at this date"
// @Param			account			query	string	false	"Filter by ID of the account"
// @Param			card			query	string	false	"Filter by ID of the card"
// @Param			category		query	string	false	"Filter by ID of the category"
// @Param			payee			query	string	false	"Filter by ID of the payee"
// @Param			series			query	string	false	"Filter by ID of the series"
// @Param			offset			query	uint	false	"The offset of the first Transaction returned. Defaults to 0."
// @Param			limit			query	int		false	"Maximum number of Transactions to return. Defaults to 50."
func GetTransactions(c *gin.Context) {
	var filter TransactionQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, TransactionListResponse{
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
		c.JSON(status(err), TransactionListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("date(date) DESC, date(created_at) DESC").
		Where(&filterModel, queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, "")

	if slices.Contains(setFields, "Period") {
		q = q.Where("period = ?", types.MonthOf(filter.Period))
	}

	if !filter.FromDate.IsZero() {
		q = q.Where("date(date) >= date(?)", filter.FromDate)
	}

	if !filter.UntilDate.IsZero() {
		q = q.Where("date(date) <= date(?)", filter.UntilDate)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 transactions and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var transactions []models.Transaction
	err = q.Find(&transactions).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Transaction, 0)
	for _, transaction := range transactions {
		data = append(data, newTransaction(c, transaction))
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get transaction
// @Description	Returns a specific transaction
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionResponse
// @Failure		400	{object}	TransactionResponse
// @Failure		404	{object}	TransactionResponse
// @Failure		500	{object}	TransactionResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [get]
func GetTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	var transaction models.Transaction
	err = models.DB.First(&transaction, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	data := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &data})
}

// @Summary		Update transaction
// @Description	Updates an existing transaction. Only values to be updated need to be specified. When the amount of a card transaction changes, the invoice of its billing period is recalculated.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		404			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			id			path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			transaction	body		TransactionUpdateable	true	"Transaction"
// @Router			/v1/transactions/{id} [patch]
func UpdateTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	var transaction models.Transaction
	err = models.DB.First(&transaction, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, TransactionUpdateable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	var data TransactionUpdateable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&transaction).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	// Changing a card transaction changes its invoice total
	err = refreshInvoiceFor(transaction)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	r := newTransaction(c, transaction)
	c.JSON(http.StatusOK, TransactionResponse{Data: &r})
}

// @Summary		Delete transaction
// @Description	Deletes a transaction. The invoice of an affected card billing period is recalculated.
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transactions/{id} [delete]
func DeleteTransaction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var transaction models.Transaction
	err = models.DB.First(&transaction, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&transaction).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = refreshInvoiceFor(transaction)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// refreshInvoiceFor recalculates the invoice a card transaction counts
// towards. A no-op for account transactions.
func refreshInvoiceFor(transaction models.Transaction) error {
	if transaction.CardID == nil {
		return nil
	}

	_, err := models.UpsertInvoice(models.DB, *transaction.CardID, transaction.Period)
	if err != nil {
		return fmt.Errorf("the invoice for the transaction could not be updated: %w", err)
	}

	return nil
}
