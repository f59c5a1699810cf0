package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listClasses(c *gin.Context) {
	list, err := h.svc.Classes.List(c.Request.Context(), c.Query("search"), c.Query("subject"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toClassResponses(list))
}
