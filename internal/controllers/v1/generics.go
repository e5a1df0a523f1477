package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/wfrancescons/openmonetis-backend/internal/httputil"
	"github.com/wfrancescons/openmonetis-backend/internal/models"
)

// resourceOptionsDetail returns the appropriate response for an HTTP OPTIONS request for a specific resource.
//
// Note: This function only works for resources with an ID, not for calculated endpoints (like /series)
func resourceOptionsDetail[R models.Account | models.Card | models.Category | models.Payee | models.MatchRule | models.Transaction | models.Invoice](c *gin.Context, resource R) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&resource, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}
