package valueobject

import (
	"fmt"
)

// ---------------------------------------------------------------------------
// LoanProduct – immutable value object
// ---------------------------------------------------------------------------

// LoanProduct identifies the lending scheme a loan was issued under. The
// product determines the interest rate that applies once the loan crosses the
// one-year boundary.
type LoanProduct struct {
	value string
}

const (
	productSAO          = "SAO"
	productRythuBandhu  = "RYTHU_BANDHU"
	productRythuNethany = "RYTHU_NETHANY"
	productLongTermEMI  = "LONG_TERM_EMI"
	productAmulDairy    = "AMUL_DAIRY"
	productCustom       = "CUSTOM"
)

var (
	ProductSAO          = LoanProduct{value: productSAO}
	ProductRythuBandhu  = LoanProduct{value: productRythuBandhu}
	ProductRythuNethany = LoanProduct{value: productRythuNethany}
	ProductLongTermEMI  = LoanProduct{value: productLongTermEMI}
	ProductAmulDairy    = LoanProduct{value: productAmulDairy}
	ProductCustom       = LoanProduct{value: productCustom}
)

var validLoanProducts = map[string]LoanProduct{
	productSAO:          ProductSAO,
	productRythuBandhu:  ProductRythuBandhu,
	productRythuNethany: ProductRythuNethany,
	productLongTermEMI:  ProductLongTermEMI,
	productAmulDairy:    ProductAmulDairy,
	productCustom:       ProductCustom,
}

// NewLoanProduct creates a LoanProduct from a raw string.
func NewLoanProduct(s string) (LoanProduct, error) {
	v, ok := validLoanProducts[s]
	if !ok {
		return LoanProduct{}, fmt.Errorf("invalid loan product: %q", s)
	}
	return v, nil
}

// String returns the string representation of the product.
func (p LoanProduct) String() string { return p.value }

// IsZero returns true if the product has not been initialised.
func (p LoanProduct) IsZero() bool { return p.value == "" }

// Equal returns true when both products carry the same value.
func (p LoanProduct) Equal(other LoanProduct) bool { return p.value == other.value }
