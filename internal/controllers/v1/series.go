package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfrancescons/openmonetis-backend/internal/httputil"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
)

// RegisterSeriesRoutes registers the routes for series with
// the RouterGroup that is passed.
func RegisterSeriesRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsSeriesList)
		r.GET("", GetSeries)
	}
}

type SeriesLinks struct {
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?series=d430d7c3-d14c-4712-9336-ee56965a6673"` // The transactions of the series
}

// Series is the API representation of the pending projection of one series.
type Series struct {
	models.SeriesSummary
	Links SeriesLinks `json:"links"`
}

func newSeries(c *gin.Context, summary models.SeriesSummary) Series {
	url := c.GetString(string(models.DBContextURL))

	return Series{
		SeriesSummary: summary,
		Links: SeriesLinks{
			Transactions: fmt.Sprintf("%s/v1/transactions?series=%s", url, summary.SeriesID),
		},
	}
}

type SeriesListResponse struct {
	Data  []Series `json:"data"`                                                          // List of series projections
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Series
// @Success		204
// @Router			/v1/series [options]
func OptionsSeriesList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		List series
// @Description	Returns the pending projection of every series that still has open transactions. A transaction counts as paid when it is settled directly or covered by a paid invoice. Transactions absorbed by an anticipation count as neither.
// @Tags			Series
// @Produce		json
// @Success		200	{object}	SeriesListResponse
// @Failure		500	{object}	SeriesListResponse
// @Router			/v1/series [get]
func GetSeries(c *gin.Context) {
	summaries, err := models.PendingSeries(models.DB)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SeriesListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Series, 0, len(summaries))
	for _, summary := range summaries {
		data = append(data, newSeries(c, summary))
	}

	c.JSON(http.StatusOK, SeriesListResponse{Data: data})
}
