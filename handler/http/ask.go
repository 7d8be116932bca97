package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type searchRequest struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit"`
}

// Search godoc
// @Summary Search a book with hybrid retrieval
// @Tags retrieval
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Param body body searchRequest true "Search parameters"
// @Success 200 {array} tutor.SearchResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /books/{id}/search [post]
func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	id, err := parseBookID(c)
	if err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	results, err := h.searchService.Search(c.Request.Context(), id, req.Query, req.Limit)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, results)
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

// Ask godoc
// @Summary Ask a question about a book
// @Tags retrieval
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Param body body askRequest true "Question"
// @Success 200 {object} tutor.Answer
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /books/{id}/ask [post]
func (h *Handler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	id, err := parseBookID(c)
	if err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	answer, err := h.answerService.Ask(c.Request.Context(), id, req.Question)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, answer)
}
