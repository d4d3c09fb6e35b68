package session

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/domain/note"
	"github.com/clinic/clinic/internal/platform/validate"
	"github.com/clinic/clinic/pkg/pagination"
)

type Handler struct {
	svc             *Service
	historyPageSize int
}

func NewHandler(svc *Service, historyPageSize int) *Handler {
	return &Handler{svc: svc, historyPageSize: historyPageSize}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/sessions", h.ListSessions)
	api.POST("/sessions", h.CreateSession)
	api.GET("/sessions/history", h.History)
	api.GET("/sessions/calendar", h.Calendar)
	api.GET("/sessions/:id", h.GetSession)
	api.PUT("/sessions/:id", h.UpdateSession)
	api.DELETE("/sessions/:id", h.DeleteSession)
}

// SessionRequest carries the session form including the optional note
// fields, which are written to the session's clinical note.
type SessionRequest struct {
	PatientID            string  `json:"patient_id" validate:"required"`
	Date                 string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime            string  `json:"start_time" validate:"required,datetime=15:04"`
	Duration             string  `json:"duration" validate:"required,numeric"`
	Status               string  `json:"status" validate:"required,oneof=attended canceled missed"`
	TherapyContent       *string `json:"therapy_content"`
	Homework             *string `json:"homework"`
	InternalPrivateNotes *string `json:"internal_private_notes"`
}

func (r SessionRequest) toSession(id string) *Session {
	return &Session{
		ID:        id,
		PatientID: r.PatientID,
		Date:      r.Date,
		StartTime: r.StartTime,
		Duration:  r.Duration,
		Status:    r.Status,
	}
}

// toNote returns nil when no note field was sent.
func (r SessionRequest) toNote() *note.Note {
	if r.TherapyContent == nil && r.Homework == nil && r.InternalPrivateNotes == nil {
		return nil
	}
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return &note.Note{
		TherapyContent:       deref(r.TherapyContent),
		Homework:             deref(r.Homework),
		InternalPrivateNotes: deref(r.InternalPrivateNotes),
	}
}

// SessionResponse is a session with its note.
type SessionResponse struct {
	*Session
	Note *note.Note `json:"note,omitempty"`
}

func (h *Handler) ListSessions(c echo.Context) error {
	ctx := c.Request().Context()
	if pid := c.QueryParam("patient_id"); pid != "" {
		return c.JSON(http.StatusOK, h.svc.ListByPatient(ctx, pid))
	}
	return c.JSON(http.StatusOK, h.svc.All(ctx))
}

func (h *Handler) GetSession(c echo.Context) error {
	sess, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *Handler) CreateSession(c echo.Context) error {
	var req SessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return err
	}
	sess := req.toSession("")
	n := req.toNote()
	if n == nil {
		n = &note.Note{}
	}
	if err := h.svc.Create(c.Request().Context(), sess, n); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, SessionResponse{Session: sess, Note: n})
}

func (h *Handler) UpdateSession(c echo.Context) error {
	var req SessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return err
	}
	sess := req.toSession(c.Param("id"))
	n := req.toNote()
	if err := h.svc.Update(c.Request().Context(), sess, n); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SessionResponse{Session: sess, Note: n})
}

func (h *Handler) DeleteSession(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// History serves the filtered, paged session history. Query parameters:
// patient_id, status, start_date, end_date, sort (date_desc|date_asc), page,
// page_size.
func (h *Handler) History(c echo.Context) error {
	status := c.QueryParam("status")
	if status != "" && !validStatuses[status] {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status filter")
	}
	sortBy := c.QueryParam("sort")
	if sortBy != "" && sortBy != SortDateAsc && sortBy != SortDateDesc {
		return echo.NewHTTPError(http.StatusBadRequest, "sort must be date_desc or date_asc")
	}

	pg := pagination.FromContext(c, h.historyPageSize)
	page := h.svc.History(c.Request().Context(), HistoryQuery{
		PatientID: c.QueryParam("patient_id"),
		Status:    status,
		StartDate: c.QueryParam("start_date"),
		EndDate:   c.QueryParam("end_date"),
		Sort:      sortBy,
		Page:      pg.Page,
		PageSize:  pg.PageSize,
	})
	return c.JSON(http.StatusOK, page)
}

func (h *Handler) Calendar(c echo.Context) error {
	days, err := h.svc.Calendar(c.Request().Context(), c.QueryParam("month"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, days)
}
