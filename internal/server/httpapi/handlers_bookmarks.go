package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type bookmarkResponse struct {
	ID        int64     `json:"id"`
	FileID    int64     `json:"fileId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *handlers) addBookmark(c *gin.Context) {
	id, ok := parseFileID(c)
	if !ok {
		return
	}

	bookmark, err := h.svc.Bookmarks.Add(c.Request.Context(), Identity(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bookmarkResponse{
		ID:        bookmark.ID,
		FileID:    bookmark.FileID,
		CreatedAt: bookmark.CreatedAt,
	})
}

func (h *handlers) removeBookmark(c *gin.Context) {
	id, ok := parseFileID(c)
	if !ok {
		return
	}

	if err := h.svc.Bookmarks.Remove(c.Request.Context(), Identity(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listBookmarks(c *gin.Context) {
	views, err := h.svc.Bookmarks.List(c.Request.Context(), Identity(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFileResponses(views))
}
