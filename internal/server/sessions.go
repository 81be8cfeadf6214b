package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/khobor/engine"
	"github.com/mohammad-safakhou/khobor/models"
)

// SessionsHandler exposes the desk's conversational operations.
type SessionsHandler struct {
	Desk *engine.Desk
}

func (h *SessionsHandler) Register(g *echo.Group) {
	g.POST("", h.create)
	g.DELETE("/:id", h.delete)
	g.POST("/:id/headlines", h.headlines)
	g.POST("/:id/article", h.article)
}

type createSessionResponse struct {
	ID string `json:"id"`
}

type headlinesRequest struct {
	Source string `json:"source"`
	N      int    `json:"n"`
}

type headlinesResponse struct {
	Source    models.Source     `json:"source"`
	Headlines []models.Headline `json:"headlines"`
}

type articleRequest struct {
	Reference string `json:"reference"`
	Category  string `json:"category,omitempty"`
}

func (h *SessionsHandler) create(c echo.Context) error {
	id, err := h.Desk.CreateSession(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createSessionResponse{ID: id})
}

func (h *SessionsHandler) delete(c echo.Context) error {
	if err := h.Desk.CloseSession(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SessionsHandler) headlines(c echo.Context) error {
	var req headlinesRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", models.ErrInvalidArgument)
	}
	source := models.ParseSource(req.Source)
	list, err := h.Desk.ListTopN(c.Request().Context(), c.Param("id"), source, req.N)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, headlinesResponse{Source: source, Headlines: list})
}

func (h *SessionsHandler) article(c echo.Context) error {
	var req articleRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", models.ErrInvalidArgument)
	}
	if strings.TrimSpace(req.Reference) == "" {
		return fmt.Errorf("%w: reference is required", models.ErrInvalidArgument)
	}
	article, err := h.Desk.GetArticle(c.Request().Context(), c.Param("id"), req.Reference, req.Category)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}
