// Package server exposes the keyword store over HTTP for chat integrations.
package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rcliao/qa-keywords/internal/match"
	"github.com/rcliao/qa-keywords/internal/model"
	"github.com/rcliao/qa-keywords/internal/store"
)

// Handlers serves the keyword API on top of a Store.
type Handlers struct {
	store store.Store
	log   *zap.Logger
}

// NewHandlers creates handlers backed by s. A nil logger discards output.
func NewHandlers(s store.Store, log *zap.Logger) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{store: s, log: log}
}

// AddRequest is the body of POST /v1/scopes/:scope/entries.
type AddRequest struct {
	Keyword   string             `json:"keyword"`
	Values    []store.ValueInput `json:"values"`
	MatchType model.MatchType    `json:"match_type"`
	Status    model.Status       `json:"status"`
	Priority  int                `json:"priority"`
}

// AddResponse is returned after an entry is created.
type AddResponse struct {
	EntryID string `json:"entry_id"`
}

// UpdateRequest is the body of PATCH /v1/scopes/:scope/entries/:keyword.
type UpdateRequest struct {
	Status   *model.Status `json:"status"`
	Priority *int          `json:"priority"`
}

// GetResponse holds the resolved values of one keyword.
type GetResponse struct {
	Keyword string                `json:"keyword"`
	Values  []model.ResolvedValue `json:"values"`
}

// MatchRequest is the body of POST /v1/scopes/:scope/match.
type MatchRequest struct {
	Text string `json:"text"`
}

// MatchResponse lists the keywords found in the text.
type MatchResponse struct {
	Hits []match.Hit `json:"hits"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handlers) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrClosed):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// HandleHealth reports liveness.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleListScopes handles GET /v1/scopes.
func (h *Handlers) HandleListScopes(c *gin.Context) {
	scopes, err := h.store.ListScopes(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, scopes)
}

// HandleIndex handles GET /v1/scopes/:scope/index.
func (h *Handlers) HandleIndex(c *gin.Context) {
	idx, err := h.store.ListScope(c.Request.Context(), c.Param("scope"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, idx)
}

// HandleAdd handles POST /v1/scopes/:scope/entries.
func (h *Handlers) HandleAdd(c *gin.Context) {
	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	id, err := h.store.Add(c.Request.Context(), store.AddParams{
		Scope:     c.Param("scope"),
		Keyword:   req.Keyword,
		Values:    req.Values,
		MatchType: req.MatchType,
		Status:    req.Status,
		Priority:  req.Priority,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, AddResponse{EntryID: id})
}

// HandleGet handles GET /v1/scopes/:scope/entries/:keyword.
func (h *Handlers) HandleGet(c *gin.Context) {
	keyword := c.Param("keyword")
	values, err := h.store.Get(c.Request.Context(), c.Param("scope"), keyword)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, GetResponse{Keyword: keyword, Values: values})
}

// HandleUpdate handles PATCH /v1/scopes/:scope/entries/:keyword.
func (h *Handlers) HandleUpdate(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	n, err := h.store.Update(c.Request.Context(), store.UpdateParams{
		Scope:    c.Param("scope"),
		Keyword:  c.Param("keyword"),
		Status:   req.Status,
		Priority: req.Priority,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"affected": n})
}

// HandleDelete handles DELETE /v1/scopes/:scope/entries/:keyword.
func (h *Handlers) HandleDelete(c *gin.Context) {
	res, err := h.store.Delete(c.Request.Context(), c.Param("scope"), c.Param("keyword"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	status := http.StatusOK
	if res.Outcome == store.NotFound {
		status = http.StatusNotFound
	}
	c.JSON(status, res)
}

// HandleMatch handles POST /v1/scopes/:scope/match.
func (h *Handlers) HandleMatch(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	idx, err := h.store.ListScope(c.Request.Context(), c.Param("scope"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	hits := match.Match(req.Text, idx)
	h.log.Debug("Matched message", zap.String("scope", c.Param("scope")), zap.Int("hits", len(hits)))
	c.JSON(http.StatusOK, MatchResponse{Hits: hits})
}
