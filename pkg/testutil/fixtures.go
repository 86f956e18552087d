package testutil

import (
	"github.com/google/uuid"
)

// Fixed UUIDs for deterministic testing
var (
	TestLoanID1   = uuid.MustParse("00000000-0000-0000-0000-000000000001").String()
	TestLoanID2   = uuid.MustParse("00000000-0000-0000-0000-000000000002").String()
	TestPaymentID = uuid.MustParse("00000000-0000-0000-0000-000000000020").String()
	TestJobID     = uuid.MustParse("00000000-0000-0000-0000-000000000030").String()
)
