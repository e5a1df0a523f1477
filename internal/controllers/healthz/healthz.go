// Package healthz implements the health check endpoint.
package healthz

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfrancescons/openmonetis-backend/internal/httputil"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"sql: database is closed"`
}

func RegisterRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", Options)
	r.GET("", Get)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/healthz [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get health
// @Description	Returns the application health and, if not healthy, an error
// @Tags			General
// @Produce		json
// @Success		204
// @Failure		500	{object}	httpError
// @Router			/healthz [get]
func Get(c *gin.Context) {
	sqlDB, err := models.DB.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpError{
			Error: err.Error(),
		})
		return
	}

	err = sqlDB.Ping()
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpError{
			Error: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
