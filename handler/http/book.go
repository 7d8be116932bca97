package http

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListBooks godoc
// @Summary List ingested books
// @Tags books
// @Produce json
// @Param limit query int false "Maximum number of books to return (default 20)"
// @Param offset query int false "Number of books to skip (default 0)"
// @Success 200 {array} tutor.Book
// @Failure 500 {object} ErrorResponse
// @Router /books [get]
func (h *Handler) ListBooks(c *gin.Context) {
	limit := 20
	offset := 0
	var err error
	if l := c.Query("limit"); l != "" {
		if limit, err = strconv.Atoi(l); err != nil {
			sendError(c, http.StatusBadRequest, fmt.Errorf("invalid limit: %w", err))
			return
		}
	}
	if o := c.Query("offset"); o != "" {
		if offset, err = strconv.Atoi(o); err != nil {
			sendError(c, http.StatusBadRequest, fmt.Errorf("invalid offset: %w", err))
			return
		}
	}

	books, err := h.libraryService.List(c.Request.Context(), offset, limit)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, books)
}

// GetBook godoc
// @Summary Get a single book
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} tutor.Book
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /books/{id} [get]
func (h *Handler) GetBook(c *gin.Context) {
	id, err := parseBookID(c)
	if err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	book, err := h.libraryService.Get(c.Request.Context(), id)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, book)
}

// UploadBook godoc
// @Summary Upload and ingest a PDF book
// @Tags books
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF file"
// @Param title formData string false "Book title (defaults to the file name)"
// @Success 201 {object} tutor.Book
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /books [post]
func (h *Handler) UploadBook(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		sendError(c, http.StatusBadRequest, fmt.Errorf("file is required: %w", err))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		sendError(c, http.StatusBadRequest, fmt.Errorf("failed to open uploaded file: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		sendError(c, http.StatusInternalServerError, fmt.Errorf("failed to read uploaded file: %w", err))
		return
	}

	title := c.PostForm("title")

	book, err := h.libraryService.Ingest(c.Request.Context(), fileHeader.Filename, data, title)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusCreated, book)
}

// DownloadBook godoc
// @Summary Download the archived original PDF of a book
// @Tags books
// @Produce application/pdf
// @Param id path int true "Book ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /books/{id}/file [get]
func (h *Handler) DownloadBook(c *gin.Context) {
	id, err := parseBookID(c)
	if err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	data, filename, err := h.libraryService.DownloadOriginal(c.Request.Context(), id)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// DeleteBook godoc
// @Summary Delete a book and all its indexes
// @Tags books
// @Param id path int true "Book ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /books/{id} [delete]
func (h *Handler) DeleteBook(c *gin.Context) {
	id, err := parseBookID(c)
	if err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	if err := h.libraryService.Delete(c.Request.Context(), id); err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseBookID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid book id: %w", err)
	}
	return id, nil
}
