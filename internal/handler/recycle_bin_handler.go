package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reelhouse/internal/service"
)

// ListRecycleBin 返回所有内容表中已软删除的记录，最近删除的在前
func (a *API) ListRecycleBin(c *gin.Context) {
	items := a.recycle.ListDeleted(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"types": service.RecycleItemTypes(),
	})
}

// RestoreRecycleItem 清除单条记录的删除标记
func (a *API) RestoreRecycleItem(c *gin.Context) {
	id, ok := idParam(c, "id", "item")
	if !ok {
		return
	}

	if err := a.recycle.Restore(c.Request.Context(), id, c.Param("type")); err != nil {
		respondRecycleError(c, err, "failed to restore item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item restored"})
}

// PurgeRecycleItem 彻底删除单条记录
func (a *API) PurgeRecycleItem(c *gin.Context) {
	id, ok := idParam(c, "id", "item")
	if !ok {
		return
	}

	if err := a.recycle.Purge(c.Request.Context(), id, c.Param("type")); err != nil {
		respondRecycleError(c, err, "failed to delete item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item permanently deleted"})
}

func respondRecycleError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrUnknownItemType):
		respondError(c, http.StatusBadRequest, "unknown item type")
	case errors.Is(err, service.ErrRecycleItemNotFound):
		respondError(c, http.StatusNotFound, "item not found in recycle bin")
	default:
		respondError(c, http.StatusInternalServerError, fallback)
	}
}
