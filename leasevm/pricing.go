// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Bounds applied to the pricing factors before use.
const (
	MaxUsagePercent        = 100
	MaxRiskDiscountPercent = 100
)

var hundred = decimal.NewFromInt(100)

// QuoteFactors are the inputs to a period amount quote.
type QuoteFactors struct {
	TermLength          uint64
	UsagePercent        uint64
	RiskDiscountPercent uint64
}

// Quote derives the per-period amount for leasing an asset described by [d]:
// declared value spread over the term, raised by the usage factor and lowered
// by the counterparty risk discount. The result is floored to a whole unit and
// a zero amount is rejected.
func Quote(d Descriptor, args QuoteFactors) (uint64, error) {
	if args.TermLength == 0 {
		return 0, fmt.Errorf("%w: term length must be positive", ErrInvalidTerms)
	}
	usage := args.UsagePercent
	if usage > MaxUsagePercent {
		usage = MaxUsagePercent
	}
	discount := args.RiskDiscountPercent
	if discount > MaxRiskDiscountPercent {
		discount = MaxRiskDiscountPercent
	}

	value := decimal.NewFromBigInt(new(big.Int).SetUint64(d.DeclaredValue), 0)
	term := decimal.NewFromBigInt(new(big.Int).SetUint64(args.TermLength), 0)

	numerator := value.
		Mul(hundred.Add(decimal.NewFromInt(int64(usage)))).
		Mul(hundred.Sub(decimal.NewFromInt(int64(discount))))
	denominator := term.Mul(hundred).Mul(hundred)

	amount, _ := numerator.QuoRem(denominator, 0)
	if amount.Sign() <= 0 {
		return 0, fmt.Errorf("%w: derived period amount is zero", ErrInvalidTerms)
	}
	amountInt := amount.BigInt()
	if !amountInt.IsUint64() {
		return 0, fmt.Errorf("%w: derived period amount overflows", ErrInvalidTerms)
	}
	return amountInt.Uint64(), nil
}
