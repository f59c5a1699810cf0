package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"studylink/internal/server/repositories/files"
	"studylink/internal/server/services"
)

// noClassSentinel in the classes query param selects files with no class
// association.
const noClassSentinel = "no-class"

// multipartSlack is headroom on top of the file size limit for the other
// multipart parts and boundaries.
const multipartSlack = 1 << 20

func parseFileID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid file id")
		return 0, false
	}
	return id, true
}

func (h *handlers) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartSlack)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			badRequest(c, fmt.Sprintf("file exceeds the %d byte upload limit", h.maxUploadBytes))
			return
		}
		badRequest(c, "file is required")
		return
	}
	// reject before reading a byte
	if fileHeader.Size > h.maxUploadBytes {
		badRequest(c, fmt.Sprintf("file exceeds the %d byte upload limit", h.maxUploadBytes))
		return
	}

	var classID *int64
	if raw := c.PostForm("classId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			badRequest(c, "classId must be a positive integer")
			return
		}
		classID = &id
	}

	displayName := c.PostForm("displayName")
	if displayName == "" {
		displayName = fileHeader.Filename
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		h.respondError(c, err)
		return
	}

	view, err := h.svc.Files.Upload(c.Request.Context(), services.UploadInput{
		OwnerEmail:  Identity(c),
		DisplayName: displayName,
		MimeType:    fileHeader.Header.Get("Content-Type"),
		Content:     content,
		ClassID:     classID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFileResponse(view))
}

func (h *handlers) listFiles(c *gin.Context) {
	filter := files.Filter{Search: c.Query("search")}

	for _, raw := range c.QueryArray("classes") {
		for _, token := range strings.Split(raw, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			if token == noClassSentinel {
				filter.IncludeNoClass = true
				continue
			}
			id, err := strconv.ParseInt(token, 10, 64)
			if err != nil || id <= 0 {
				badRequest(c, fmt.Sprintf("invalid class filter %q", token))
				return
			}
			filter.ClassIDs = append(filter.ClassIDs, id)
		}
	}

	views, err := h.svc.Files.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFileResponses(views))
}

func (h *handlers) listMine(c *gin.Context) {
	views, err := h.svc.Files.ListMine(c.Request.Context(), Identity(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFileResponses(views))
}

func (h *handlers) download(c *gin.Context) {
	h.serveFile(c, "attachment")
}

func (h *handlers) preview(c *gin.Context) {
	h.serveFile(c, "inline")
}

func (h *handlers) serveFile(c *gin.Context, disposition string) {
	id, ok := parseFileID(c)
	if !ok {
		return
	}

	res, err := h.svc.Files.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, res.DisplayName))
	c.Data(http.StatusOK, res.MimeType, res.Content)
}

func (h *handlers) deleteFile(c *gin.Context) {
	id, ok := parseFileID(c)
	if !ok {
		return
	}

	if err := h.svc.Files.Delete(c.Request.Context(), Identity(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
