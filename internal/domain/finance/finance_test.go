package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinic/clinic/internal/domain/billing"
	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/internal/domain/session"
)

func sess(pid, date, status string) *session.Session {
	return &session.Session{PatientID: pid, Date: date, StartTime: "10:00", Duration: "45", Status: status}
}

func pay(pid string, amount float64, monthRef string) *billing.Entry {
	return &billing.Entry{PatientID: pid, Date: monthRef + "-01", Amount: amount, Method: billing.MethodCash, MonthRef: monthRef}
}

func TestComputeBalance_PerSession(t *testing.T) {
	p := &patient.Patient{ID: "p1", BillingType: patient.BillingPerSession, Rate: 200}
	sessions := []*session.Session{
		sess("p1", "2024-01-01", session.StatusAttended),
		sess("p1", "2024-01-08", session.StatusAttended),
		sess("p1", "2024-01-15", session.StatusAttended),
		sess("p1", "2024-01-22", session.StatusCanceled),
		sess("p2", "2024-01-22", session.StatusAttended),
	}
	entries := []*billing.Entry{pay("p1", 400, "2024-01"), pay("p2", 1000, "2024-01")}

	b := ComputeBalance(p, sessions, entries)
	assert.Equal(t, 600.0, b.Expected)
	assert.Equal(t, 400.0, b.Paid)
	assert.Equal(t, 200.0, b.Debt)
	assert.Equal(t, 200.0, b.Owed())
	assert.False(t, b.InCredit())
}

func TestComputeBalance_Monthly(t *testing.T) {
	p := &patient.Patient{ID: "p1", BillingType: patient.BillingMonthly, Rate: 500}
	sessions := []*session.Session{
		sess("p1", "2024-01-03", session.StatusAttended),
		sess("p1", "2024-01-17", session.StatusMissed),
		sess("p1", "2024-02-07", session.StatusCanceled),
	}

	b := ComputeBalance(p, sessions, []*billing.Entry{pay("p1", 500, "2024-01")})
	assert.Equal(t, 1000.0, b.Expected, "every status counts toward a billed month")
	assert.Equal(t, 500.0, b.Debt)
}

func TestComputeBalance_UnknownTypeBilledMonthly(t *testing.T) {
	p := &patient.Patient{ID: "p1", BillingType: "weekly", Rate: 300}
	sessions := []*session.Session{
		sess("p1", "2024-01-03", session.StatusAttended),
		sess("p1", "2024-01-10", session.StatusAttended),
		sess("p1", "2024-02-07", session.StatusMissed),
	}

	b := ComputeBalance(p, sessions, nil)
	assert.Equal(t, 600.0, b.Expected, "two distinct months at the rate")
	assert.Equal(t, 600.0, b.Debt)
}

func TestComputeBalance_MonthlySkipsMissingDates(t *testing.T) {
	p := &patient.Patient{ID: "p1", BillingType: patient.BillingMonthly, Rate: 500}
	sessions := []*session.Session{
		sess("p1", "", session.StatusAttended),
		sess("p1", "2024", session.StatusAttended),
		sess("p1", "2024-03-01", session.StatusAttended),
	}

	b := ComputeBalance(p, sessions, nil)
	assert.Equal(t, 500.0, b.Expected)
}

func TestComputeBalance_Zero(t *testing.T) {
	for _, bt := range []string{patient.BillingPerSession, patient.BillingMonthly} {
		p := &patient.Patient{ID: "p1", BillingType: bt, Rate: 300}
		b := ComputeBalance(p, nil, nil)
		assert.Equal(t, Balance{PatientID: "p1", BillingType: bt, Rate: 300}, b)
	}
}

func TestComputeBalance_Credit(t *testing.T) {
	p := &patient.Patient{ID: "p1", BillingType: patient.BillingPerSession, Rate: 100}
	b := ComputeBalance(p, []*session.Session{sess("p1", "2024-01-01", session.StatusAttended)},
		[]*billing.Entry{pay("p1", 250, "2024-01")})

	assert.Equal(t, -150.0, b.Debt)
	assert.True(t, b.InCredit())
	assert.Equal(t, 150.0, b.Credit())
	assert.Zero(t, b.Owed())
}

func TestComputeBalance_MonthRefIgnored(t *testing.T) {
	p := &patient.Patient{ID: "p1", BillingType: patient.BillingMonthly, Rate: 500}
	sessions := []*session.Session{sess("p1", "2024-01-03", session.StatusAttended)}

	b := ComputeBalance(p, sessions, []*billing.Entry{pay("p1", 500, "2023-06")})
	assert.Zero(t, b.Debt)
}

func TestSummarize(t *testing.T) {
	patients := []*patient.Patient{
		{ID: "a", BillingType: patient.BillingPerSession, Rate: 200, Status: patient.StatusActive},
		{ID: "b", BillingType: patient.BillingMonthly, Rate: 500, Status: patient.StatusActive},
		{ID: "c", BillingType: patient.BillingPerSession, Rate: 100, Status: patient.StatusInactive},
	}
	sessions := []*session.Session{
		sess("a", "2024-01-01", session.StatusAttended),
		sess("a", "2024-01-08", session.StatusAttended),
		sess("b", "2024-01-03", session.StatusAttended),
		sess("b", "2024-02-03", session.StatusAttended),
		sess("c", "2024-01-03", session.StatusAttended),
		sess("ghost", "2024-01-03", session.StatusAttended),
	}
	entries := []*billing.Entry{
		pay("a", 100, "2024-01"),
		pay("b", 500, "2024-01"),
		pay("c", 300, "2024-01"),
	}

	sum := Summarize(patients, sessions, entries)
	require.Len(t, sum.Balances, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{sum.Balances[0].PatientID, sum.Balances[1].PatientID, sum.Balances[2].PatientID})
	assert.Equal(t, 600.0, sum.TotalDebt)
	assert.Equal(t, 800.0, sum.TotalOwed)
	assert.Equal(t, 900.0, sum.TotalPaid)
	assert.Equal(t, 1500.0, sum.TotalExpected)
	assert.Equal(t, 3, sum.PatientCount)
	assert.Equal(t, 2, sum.ActiveCount)
	assert.Equal(t, 1, sum.InactiveCount)

	debtors := sum.Debtors()
	require.Len(t, debtors, 2)
	assert.Equal(t, "b", debtors[0].PatientID)
	assert.Equal(t, "a", debtors[1].PatientID)
}

func TestSummarize_Empty(t *testing.T) {
	sum := Summarize(nil, nil, nil)
	assert.NotNil(t, sum.Balances)
	assert.Empty(t, sum.Debtors())
	assert.Zero(t, sum.TotalDebt)
}

func TestMonthlyIncome(t *testing.T) {
	entries := []*billing.Entry{
		pay("a", 100, "2024-02"),
		pay("b", 250, "2024-01"),
		pay("a", 50, "2024-02"),
	}

	got := MonthlyIncome(entries)
	assert.Equal(t, []MonthTotal{
		{Month: "2024-01", Total: 250, Count: 1},
		{Month: "2024-02", Total: 150, Count: 2},
	}, got)
	assert.Equal(t, []MonthTotal{}, MonthlyIncome(nil))
}
