package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
	"github.com/AliMohammadiiii/PRS-sub001/internal/repository"
)

type LookupHandler struct {
	lookups *repository.LookupRepository
}

func NewLookupHandler(lookups *repository.LookupRepository) *LookupHandler {
	return &LookupHandler{lookups: lookups}
}

// ListGroup returns the codes of one lookup group (statuses, purchase types,
// roles). Clients render titles verbatim and branch on codes only.
func (h *LookupHandler) ListGroup(c *gin.Context) {
	group := c.Param("group")
	switch group {
	case model.LookupGroupStatus, model.LookupGroupPurchaseType, model.LookupGroupRole:
	default:
		c.JSON(http.StatusNotFound, model.Error(404, "unknown lookup group: "+group))
		return
	}

	lookups, err := h.lookups.ListGroup(group)
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(lookups))
}

func (h *LookupHandler) Save(c *gin.Context) {
	var lookup model.Lookup
	if err := c.ShouldBindJSON(&lookup); err != nil {
		model.HandleError(c, http.StatusBadRequest, err)
		return
	}
	if lookup.Group == "" || lookup.Code == "" {
		c.JSON(http.StatusBadRequest, model.Error(400, "group and code are required"))
		return
	}

	if err := h.lookups.Save(&lookup); err != nil {
		model.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(lookup))
}
