package business

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmployee(t *testing.T) {
	businessID := uuid.New()

	t.Run("creates employee with hashed password", func(t *testing.T) {
		e, err := NewEmployee(businessID, "anna", "Anna@Example.com", "s3cretpass", Roles{RoleWaiter})
		require.NoError(t, err)
		assert.Equal(t, "anna@example.com", e.Email)
		assert.NotEqual(t, "s3cretpass", e.PasswordHash)
		assert.True(t, e.CheckPassword("s3cretpass"))
		assert.False(t, e.CheckPassword("wrong"))
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewEmployee(businessID, "anna", "a@b.c", "short", Roles{RoleWaiter})
		assert.Error(t, err)
	})

	t.Run("rejects empty roles", func(t *testing.T) {
		_, err := NewEmployee(businessID, "anna", "a@b.c", "longenough", nil)
		assert.Error(t, err)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewEmployee(businessID, "anna", "a@b.c", "longenough", Roles{"janitor"})
		assert.Error(t, err)
	})
}

func TestEmployeeSalary(t *testing.T) {
	e, err := NewEmployee(uuid.New(), "ben", "ben@x.y", "longenough", Roles{RoleCook})
	require.NoError(t, err)

	require.NoError(t, e.SetSalary(PayMonthly, decimal.NewFromInt(4000), decimal.NewFromInt(2800)))
	assert.Equal(t, PayMonthly, e.Salary.Frequency)

	assert.Error(t, e.SetSalary(PayFrequency("Fortnightly"), decimal.NewFromInt(1), decimal.NewFromInt(1)))
	assert.Error(t, e.SetSalary(PayDaily, decimal.NewFromInt(-1), decimal.Zero))
}

func TestEmployeeVacation(t *testing.T) {
	e, err := NewEmployee(uuid.New(), "cleo", "cleo@x.y", "longenough", Roles{RoleManager})
	require.NoError(t, err)

	assert.Error(t, e.ConsumeVacationDay())

	require.NoError(t, e.GrantVacationDays(2))
	require.NoError(t, e.ConsumeVacationDay())
	require.NoError(t, e.ConsumeVacationDay())
	assert.Error(t, e.ConsumeVacationDay())
}

func TestEmployeeDuty(t *testing.T) {
	e, err := NewEmployee(uuid.New(), "dora", "dora@x.y", "longenough", Roles{RoleBar})
	require.NoError(t, err)

	e.ClockIn()
	assert.True(t, e.OnDuty)
	e.Deactivate()
	assert.False(t, e.OnDuty)
	assert.False(t, e.Active)
}

func TestRolesContains(t *testing.T) {
	rs := Roles{RoleWaiter, RoleCashier}
	assert.True(t, rs.Contains(RoleCashier))
	assert.False(t, rs.Contains(RoleOwner))
}
