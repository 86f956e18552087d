package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/service"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/pkg/testutil"
)

func TestEMICalculator_MonthlyPayment(t *testing.T) {
	calc := service.NewEMICalculator()

	t.Run("standard reducing-balance installment", func(t *testing.T) {
		emi, err := calc.MonthlyPayment(decimal.NewFromInt(100000), decimal.NewFromInt(12), 12)
		require.NoError(t, err)
		testutil.AssertDecimalEqual(t, "8884.88", emi)
	})

	t.Run("zero rate splits evenly", func(t *testing.T) {
		emi, err := calc.MonthlyPayment(decimal.NewFromInt(1200), decimal.Zero, 12)
		require.NoError(t, err)
		testutil.AssertDecimalEqual(t, "100", emi)
	})

	t.Run("rejects non-positive tenure", func(t *testing.T) {
		_, err := calc.MonthlyPayment(decimal.NewFromInt(100000), decimal.NewFromInt(12), 0)
		assert.Error(t, err)
	})

	t.Run("rejects negative principal", func(t *testing.T) {
		_, err := calc.MonthlyPayment(decimal.NewFromInt(-1), decimal.NewFromInt(12), 12)
		assert.Error(t, err)
	})
}

func TestEMICalculator_Schedule(t *testing.T) {
	calc := service.NewEMICalculator()
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("long tenure closes to exactly zero", func(t *testing.T) {
		principal := decimal.NewFromInt(300000)
		schedule, err := calc.Schedule(principal, decimal.NewFromInt(12), 108, start)
		require.NoError(t, err)
		require.Len(t, schedule, 108)

		// First month's interest on the full principal at 1% per month.
		testutil.AssertDecimalEqual(t, "3000.00", schedule[0].InterestComponent)

		last := schedule[107]
		assert.True(t, last.OutstandingAfter.IsZero(),
			"closing balance must be exactly zero, got %s", last.OutstandingAfter.String())

		sum := decimal.Zero
		for _, inst := range schedule {
			sum = sum.Add(inst.PrincipalComponent)
		}
		testutil.AssertDecimalEqual(t, "300000", sum)
	})

	t.Run("every installment balances its components", func(t *testing.T) {
		schedule, err := calc.Schedule(decimal.NewFromInt(100000), decimal.NewFromInt(12), 12, start)
		require.NoError(t, err)

		for _, inst := range schedule {
			assert.Truef(t, inst.EMI.Equal(inst.PrincipalComponent.Add(inst.InterestComponent)),
				"installment %d: %s != %s + %s",
				inst.Number, inst.EMI.String(),
				inst.PrincipalComponent.String(), inst.InterestComponent.String())
		}
	})

	t.Run("outstanding declines monotonically", func(t *testing.T) {
		schedule, err := calc.Schedule(decimal.NewFromInt(100000), decimal.NewFromInt(12), 12, start)
		require.NoError(t, err)

		previous := decimal.NewFromInt(100000)
		for _, inst := range schedule {
			assert.True(t, inst.OutstandingAfter.LessThan(previous))
			previous = inst.OutstandingAfter
		}
	})

	t.Run("due dates advance one month per installment", func(t *testing.T) {
		schedule, err := calc.Schedule(decimal.NewFromInt(12000), decimal.Zero, 3, start)
		require.NoError(t, err)

		assert.Equal(t, start.AddDate(0, 1, 0), schedule[0].DueDate)
		assert.Equal(t, start.AddDate(0, 2, 0), schedule[1].DueDate)
		assert.Equal(t, start.AddDate(0, 3, 0), schedule[2].DueDate)
	})
}

func TestEMICalculator_SolveTenure(t *testing.T) {
	calc := service.NewEMICalculator()

	t.Run("recovers the tenure from the installment", func(t *testing.T) {
		months, err := calc.SolveTenure(decimal.NewFromInt(100000), decimal.NewFromInt(12), decimal.RequireFromString("8890"))
		require.NoError(t, err)
		assert.Equal(t, 12, months)
	})

	t.Run("zero rate divides principal by installment", func(t *testing.T) {
		months, err := calc.SolveTenure(decimal.NewFromInt(1200), decimal.Zero, decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.Equal(t, 12, months)
	})

	t.Run("rejects an installment below the monthly interest", func(t *testing.T) {
		_, err := calc.SolveTenure(decimal.NewFromInt(100000), decimal.NewFromInt(12), decimal.NewFromInt(1000))
		assert.Error(t, err)
	})

	t.Run("rejects a non-positive installment", func(t *testing.T) {
		_, err := calc.SolveTenure(decimal.NewFromInt(100000), decimal.NewFromInt(12), decimal.Zero)
		assert.Error(t, err)
	})
}
