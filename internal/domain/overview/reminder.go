package overview

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/platform/notification"
	"github.com/clinic/clinic/pkg/apperr"
)

// TemplateSender renders and sends a message template.
type TemplateSender interface {
	SendTemplate(ctx context.Context, templateID string, data map[string]string, recipient string) (*notification.Notification, error)
}

// Reminder texts patients' families about outstanding balances.
type Reminder struct {
	svc    *Service
	sender TemplateSender
	logger zerolog.Logger
}

func NewReminder(svc *Service, sender TemplateSender, logger zerolog.Logger) *Reminder {
	return &Reminder{svc: svc, sender: sender, logger: logger.With().Str("component", "reminder").Logger()}
}

// RemindDebt sends a payment reminder to the patient's phone. Patients
// with nothing owed are rejected.
func (r *Reminder) RemindDebt(ctx context.Context, patientID string) (*notification.Notification, error) {
	rec, err := r.svc.GetPatientFullData(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperr.NotFound("patient", patientID)
	}
	owed := rec.Balance.Owed()
	if owed == 0 {
		return nil, apperr.Validation("patient %s has no outstanding balance", patientID)
	}

	parent := rec.Patient.ParentName
	if parent == "" {
		parent = rec.Patient.Name
	}
	n, err := r.sender.SendTemplate(ctx, notification.TemplateDebtReminder, map[string]string{
		"parent_name":  parent,
		"patient_name": rec.Patient.Name,
		"amount":       strconv.FormatFloat(owed, 'f', -1, 64),
	}, rec.Patient.Phone)
	if err != nil {
		return n, err
	}
	r.logger.Info().Str("patient_id", patientID).Float64("owed", owed).Str("notification_id", n.ID).Msg("debt reminder sent")
	return n, nil
}

func (r *Reminder) RegisterRoutes(api *echo.Group) {
	api.POST("/debts/:id/remind", r.handleRemind)
}

func (r *Reminder) handleRemind(c echo.Context) error {
	n, err := r.RemindDebt(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, n)
}
