package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/model"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/service"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/internal/domain/valueobject"
	"github.com/AjayCharan18/COOPERATIVE-PACS-SOCIETY/pkg/testutil"
)

var disbursed = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func testLoan(product valueobject.LoanProduct, rate string) model.Loan {
	principal := decimal.NewFromInt(100000)
	return model.ReconstructLoan(
		testutil.TestLoanID1, "PACS-2024-0001",
		product,
		principal, decimal.RequireFromString(rate),
		disbursed, 12,
		valueobject.LoanStatusActive,
		principal, decimal.Zero, decimal.Zero,
	)
}

func undisbursedLoan() model.Loan {
	return model.ReconstructLoan(
		testutil.TestLoanID2, "PACS-2024-0002",
		valueobject.ProductSAO,
		decimal.NewFromInt(50000), decimal.RequireFromString("7.0"),
		time.Time{}, 12,
		valueobject.LoanStatusApproved,
		decimal.Zero, decimal.Zero, decimal.Zero,
	)
}

func TestRateResolver_RateOn(t *testing.T) {
	resolver := service.NewRateResolver(nil)

	t.Run("base rate within first year", func(t *testing.T) {
		loan := testLoan(valueobject.ProductSAO, "7.0")

		rate, err := resolver.RateOn(loan, disbursed.AddDate(0, 0, 100))
		require.NoError(t, err)
		testutil.AssertDecimalEqual(t, "7.0", rate)
	})

	t.Run("base rate on day 365 exactly", func(t *testing.T) {
		loan := testLoan(valueobject.ProductSAO, "7.0")

		rate, err := resolver.RateOn(loan, disbursed.AddDate(0, 0, 365))
		require.NoError(t, err)
		testutil.AssertDecimalEqual(t, "7.0", rate)
	})

	t.Run("post-year rate after day 365", func(t *testing.T) {
		tests := []struct {
			product  valueobject.LoanProduct
			expected string
		}{
			{valueobject.ProductSAO, "13.75"},
			{valueobject.ProductRythuBandhu, "14.50"},
			{valueobject.ProductRythuNethany, "14.50"},
			{valueobject.ProductLongTermEMI, "12.75"},
			{valueobject.ProductAmulDairy, "14.00"},
		}
		for _, tt := range tests {
			t.Run(tt.product.String(), func(t *testing.T) {
				loan := testLoan(tt.product, "7.0")

				rate, err := resolver.RateOn(loan, disbursed.AddDate(0, 0, 366))
				require.NoError(t, err)
				testutil.AssertDecimalEqual(t, tt.expected, rate)
			})
		}
	})

	t.Run("unknown product defaults to base plus two", func(t *testing.T) {
		loan := testLoan(valueobject.ProductCustom, "9.25")

		rate, err := resolver.RateOn(loan, disbursed.AddDate(0, 0, 400))
		require.NoError(t, err)
		testutil.AssertDecimalEqual(t, "11.25", rate)
	})

	t.Run("fails when loan has no disbursement date", func(t *testing.T) {
		_, err := resolver.RateOn(undisbursedLoan(), disbursed)
		assert.ErrorIs(t, err, model.ErrNotYetDisbursed)
	})
}

func TestRateResolver_BoundaryDate(t *testing.T) {
	resolver := service.NewRateResolver(nil)
	loan := testLoan(valueobject.ProductSAO, "7.0")

	assert.Equal(t, disbursed.AddDate(0, 0, 365), resolver.BoundaryDate(loan))
}
