// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPeriodsExpected(t *testing.T) {
	tests := []struct {
		name       string
		activation int64
		now        int64
		expected   uint64
	}{
		{"at activation", 1_000, 1_000, 0},
		{"before activation", 1_000, 999, 0},
		{"just before first period", 0, periodLengthSecs - 1, 0},
		{"first period boundary", 0, periodLengthSecs, 1},
		{"several periods", 500, 500 + 7*periodLengthSecs + 3, 7},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, PeriodsExpected(test.activation, test.now))
		})
	}
}

func TestDepositFor(t *testing.T) {
	require := require.New(t)

	deposit, err := DepositFor(100)
	require.NoError(err)
	require.Equal(uint64(300), deposit)

	_, err = DepositFor(math.MaxUint64/2 + 1)
	require.ErrorIs(err, ErrInvalidTerms)
}

func TestSettlement(t *testing.T) {
	tests := []struct {
		name     string
		lease    Lease
		refund   uint64
		retained uint64
	}{
		{
			name:     "half of the term unpaid",
			lease:    Lease{TermLength: 12, PeriodAmount: 100, Deposit: 300, PeriodsPaid: 6},
			refund:   0,
			retained: 300,
		},
		{
			name:     "one period unpaid",
			lease:    Lease{TermLength: 3, PeriodAmount: 100, Deposit: 300, PeriodsPaid: 2},
			refund:   200,
			retained: 100,
		},
		{
			name:     "term complete",
			lease:    Lease{TermLength: 3, PeriodAmount: 100, Deposit: 300, PeriodsPaid: 3},
			refund:   300,
			retained: 0,
		},
		{
			name:     "paid beyond term",
			lease:    Lease{TermLength: 3, PeriodAmount: 100, Deposit: 300, PeriodsPaid: 5},
			refund:   300,
			retained: 0,
		},
		{
			name:     "penalty overflows",
			lease:    Lease{TermLength: math.MaxUint64, PeriodAmount: 2, Deposit: 6},
			refund:   0,
			retained: 6,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			refund, retained := settlement(&test.lease)
			require.Equal(t, test.refund, refund)
			require.Equal(t, test.retained, retained)
			require.Equal(t, test.lease.Deposit, refund+retained)
		})
	}
}

func TestPaymentCurrent(t *testing.T) {
	require := require.New(t)
	lease := &Lease{TermLength: 2, PeriodsPaid: 1}

	require.True(paymentCurrent(lease, periodLengthSecs))
	require.False(paymentCurrent(lease, 2*periodLengthSecs))
	require.True(paymentDue(lease, 2*periodLengthSecs))

	lease.PeriodsPaid = 2
	require.True(paymentCurrent(lease, 10*periodLengthSecs))
	require.True(paymentDue(lease, 10*periodLengthSecs))
}

func TestGraceExpired(t *testing.T) {
	require := require.New(t)
	lease := &Lease{LastPaymentTime: 100}

	require.False(graceExpired(lease, 100+gracePeriodSecs))
	require.True(graceExpired(lease, 101+gracePeriodSecs))
}
