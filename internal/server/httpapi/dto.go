package httpapi

import (
	"time"

	"studylink/internal/server/models"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,edu"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type deleteAccountRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

type classResponse struct {
	ID            int64  `json:"id"`
	Subject       string `json:"subject"`
	CatalogNumber string `json:"catalogNumber"`
	Title         string `json:"title"`
	CourseCode    string `json:"courseCode"`
}

type fileResponse struct {
	ID           int64          `json:"id"`
	DisplayName  string         `json:"displayName"`
	OwnerEmail   string         `json:"ownerEmail"`
	MimeType     string         `json:"mimeType"`
	SizeBytes    int64          `json:"sizeBytes"`
	LastUpdated  time.Time      `json:"lastUpdated"`
	Class        *classResponse `json:"class"`
	BookmarkedAt *time.Time     `json:"bookmarkedAt,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toClassResponse(c *models.Class) *classResponse {
	if c == nil {
		return nil
	}
	return &classResponse{
		ID:            c.ID,
		Subject:       c.Subject,
		CatalogNumber: c.CatalogNumber,
		Title:         c.Title,
		CourseCode:    c.CourseCode,
	}
}

func toFileResponse(v *models.FileView) fileResponse {
	return fileResponse{
		ID:           v.ID,
		DisplayName:  v.DisplayName,
		OwnerEmail:   v.OwnerEmail,
		MimeType:     v.MimeType,
		SizeBytes:    v.SizeBytes,
		LastUpdated:  v.LastUpdated,
		Class:        toClassResponse(v.Class),
		BookmarkedAt: v.BookmarkedAt,
	}
}

func toFileResponses(views []*models.FileView) []fileResponse {
	out := make([]fileResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toFileResponse(v))
	}
	return out
}

func toClassResponses(list []*models.Class) []classResponse {
	out := make([]classResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toClassResponse(c))
	}
	return out
}
