package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"booktutor/src/core/tutor"
)

type Handler struct {
	libraryService tutor.LibraryService
	searchService  tutor.SearchService
	answerService  tutor.AnswerService
	sysService     tutor.SystemService
}

func NewHandler(libraryService tutor.LibraryService, searchService tutor.SearchService, answerService tutor.AnswerService, sysService tutor.SystemService) *Handler {
	return &Handler{
		libraryService: libraryService,
		searchService:  searchService,
		answerService:  answerService,
		sysService:     sysService,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	// Book routes
	v1.GET("/books", h.ListBooks)
	v1.POST("/books", h.UploadBook)
	v1.GET("/books/:id", h.GetBook)
	v1.GET("/books/:id/file", h.DownloadBook)
	v1.DELETE("/books/:id", h.DeleteBook)

	// Retrieval routes
	v1.POST("/books/:id/search", h.Search)
	v1.POST("/books/:id/ask", h.Ask)

	// System routes
	v1.GET("/health", h.CheckHealth)
}

// Common error response structure
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func sendError(c *gin.Context, status int, err error) {
	var code string
	switch {
	case errors.Is(err, tutor.ErrBookNotFound):
		code = "NOT_FOUND"
		status = http.StatusNotFound
	case errors.Is(err, tutor.ErrFileUnavailable):
		code = "FILE_UNAVAILABLE"
		status = http.StatusNotFound
	case errors.Is(err, tutor.ErrUnsupportedFile):
		code = "UNSUPPORTED_FILE"
		status = http.StatusBadRequest
	case errors.Is(err, tutor.ErrEmptyDocument):
		code = "EMPTY_DOCUMENT"
		status = http.StatusBadRequest
	case errors.Is(err, tutor.ErrMalformedDocument):
		code = "MALFORMED_DOCUMENT"
		status = http.StatusBadRequest
	case errors.Is(err, tutor.ErrInvalidRequest):
		code = "INVALID_REQUEST"
		status = http.StatusBadRequest
	case status == http.StatusBadRequest:
		code = "VALIDATION_ERROR"
	default:
		code = "INTERNAL_ERROR"
		status = http.StatusInternalServerError
	}

	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

func sendJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}
