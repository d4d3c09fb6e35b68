package billing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/pkg/apperr"
)

func TestHandler_CreatePayment(t *testing.T) {
	svc, repo, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()

	body := `{"patient_id":"p1","date":"2024-05-02","amount":300,"method":"PayBox","month_ref":"2024-05"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreatePayment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var got Entry
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.ID == "" || got.Method != MethodPayBox {
		t.Errorf("unexpected response %s", rec.Body.String())
	}
	if len(repo.entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(repo.entries))
	}
}

func TestHandler_CreatePayment_Invalid(t *testing.T) {
	svc, repo, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()

	body := `{"patient_id":"p1","date":"2024-05-02","amount":0,"method":"cash","month_ref":"May"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreatePayment(c)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	msg := apperr.Message(err)
	if !strings.Contains(msg, "amount") || !strings.Contains(msg, "month_ref") {
		t.Errorf("unexpected message %q", msg)
	}
	if len(repo.entries) != 0 {
		t.Error("expected nothing stored")
	}
}

func TestHandler_ListMethods(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListMethods(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var methods []string
	json.Unmarshal(rec.Body.Bytes(), &methods)
	if len(methods) != 6 || methods[0] != MethodCash || methods[5] != MethodOther {
		t.Errorf("unexpected methods %v", methods)
	}
}

func TestHandler_ListPayments_ByPatient(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()
	ctx := context.Background()
	svc.Create(ctx, validEntry("p1", "2024-01-10"))
	svc.Create(ctx, validEntry("p2", "2024-01-11"))

	req := httptest.NewRequest(http.MethodGet, "/?patient_id=p1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListPayments(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []Entry
	json.Unmarshal(rec.Body.Bytes(), &got)
	if len(got) != 1 || got[0].PatientID != "p1" {
		t.Errorf("unexpected list %s", rec.Body.String())
	}
}

func TestHandler_GetPayment_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	err := h.GetPayment(c)
	if apperr.HTTPStatus(err) != http.StatusNotFound {
		t.Errorf("expected 404 mapping, got %v", err)
	}
}

func TestHandler_DeletePayment(t *testing.T) {
	svc, repo, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()
	entry := validEntry("p1", "2024-01-10")
	svc.Create(context.Background(), entry)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(entry.ID)

	if err := h.DeletePayment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent || len(repo.entries) != 0 {
		t.Errorf("expected 204 and removal, got %d", rec.Code)
	}
}
