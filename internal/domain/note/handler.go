package note

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/sessions/:id/note", h.GetNote)
	api.PUT("/sessions/:id/note", h.PutNote)
	api.DELETE("/sessions/:id/note", h.DeleteNote)
}

// NoteRequest is the PUT body; the session id comes from the path.
type NoteRequest struct {
	TherapyContent       string `json:"therapy_content"`
	Homework             string `json:"homework"`
	InternalPrivateNotes string `json:"internal_private_notes"`
}

// GetNote returns the session's note. ?public=true strips the private notes.
func (h *Handler) GetNote(c echo.Context) error {
	n, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if public, _ := strconv.ParseBool(c.QueryParam("public")); public {
		n = n.Public()
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) PutNote(c echo.Context) error {
	var req NoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	n := &Note{
		SessionID:            c.Param("id"),
		TherapyContent:       req.TherapyContent,
		Homework:             req.Homework,
		InternalPrivateNotes: req.InternalPrivateNotes,
	}
	if err := h.svc.Upsert(c.Request().Context(), n); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) DeleteNote(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
