// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leasevm

import (
	"fmt"
	"math"
	"net/http"

	"github.com/ava-labs/avalanchego/api"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/json"
)

// Service is the API service for this VM
//
// Caller identities are taken from the request arguments; authenticating
// them is the job of whatever fronts this API.
type Service struct{ vm *VM }

// SlotArgs identify a slot and the identity acting on it
type SlotArgs struct {
	Caller ids.ShortID `json:"caller"`
	SlotID json.Uint64 `json:"slotID"`
}

// AllocateAssetArgs are the arguments to AllocateAsset
type AllocateAssetArgs struct {
	Caller        ids.ShortID `json:"caller"`
	Label         string      `json:"label"`
	Category      string      `json:"category"`
	Year          json.Uint64 `json:"year"`
	DeclaredValue json.Uint64 `json:"declaredValue"`
	UsageLimit    json.Uint64 `json:"usageLimit"`
}

// AllocateAssetReply is the reply from AllocateAsset
type AllocateAssetReply struct {
	SlotID json.Uint64 `json:"slotID"`
}

// AllocateAsset allocates a new slot. Administrator only.
func (s *Service) AllocateAsset(_ *http.Request, args *AllocateAssetArgs, reply *AllocateAssetReply) error {
	if args.Year > math.MaxUint16 {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidAsset, args.Year)
	}
	year := uint16(args.Year)
	slotID, err := s.vm.AllocateAsset(args.Caller, Descriptor{
		Label:         args.Label,
		Category:      args.Category,
		Year:          year,
		DeclaredValue: uint64(args.DeclaredValue),
		UsageLimit:    uint64(args.UsageLimit),
	})
	if err != nil {
		return err
	}
	reply.SlotID = json.Uint64(slotID)
	return nil
}

// AssetReply describes an allocated slot
type AssetReply struct {
	SlotID        json.Uint64 `json:"slotID"`
	Label         string      `json:"label"`
	Category      string      `json:"category"`
	Year          json.Uint64 `json:"year"`
	DeclaredValue json.Uint64 `json:"declaredValue"`
	UsageLimit    json.Uint64 `json:"usageLimit"`
}

// DescribeAsset returns the descriptor of slot [args.SlotID]
func (s *Service) DescribeAsset(_ *http.Request, args *SlotArgs, reply *AssetReply) error {
	asset, err := s.vm.DescribeAsset(uint64(args.SlotID))
	if err != nil {
		return err
	}
	reply.SlotID = json.Uint64(asset.SlotID)
	reply.Label = asset.Descriptor.Label
	reply.Category = asset.Descriptor.Category
	reply.Year = json.Uint64(asset.Descriptor.Year)
	reply.DeclaredValue = json.Uint64(asset.Descriptor.DeclaredValue)
	reply.UsageLimit = json.Uint64(asset.Descriptor.UsageLimit)
	return nil
}

// PlaceCommitmentArgs are the arguments to PlaceCommitment
type PlaceCommitmentArgs struct {
	Caller ids.ShortID `json:"caller"`
	SlotID json.Uint64 `json:"slotID"`
	Digest ids.ID      `json:"digest"`
}

// PlaceCommitment stores an opaque claim on a slot
func (s *Service) PlaceCommitment(_ *http.Request, args *PlaceCommitmentArgs, reply *api.SuccessResponse) error {
	if err := s.vm.PlaceCommitment(args.Caller, uint64(args.SlotID), args.Digest); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

// RevealArgs are the arguments to Reveal
type RevealArgs struct {
	Caller       ids.ShortID `json:"caller"`
	SlotID       json.Uint64 `json:"slotID"`
	Secret       ids.ID      `json:"secret"`
	TermLength   json.Uint64 `json:"termLength"`
	PeriodAmount json.Uint64 `json:"periodAmount"`
	Payment      json.Uint64 `json:"payment"`
}

// Reveal opens a commitment and proposes a lease
func (s *Service) Reveal(_ *http.Request, args *RevealArgs, reply *api.SuccessResponse) error {
	if err := s.vm.Reveal(args.Caller, uint64(args.SlotID), RevealTerms{
		Secret:       args.Secret,
		TermLength:   uint64(args.TermLength),
		PeriodAmount: uint64(args.PeriodAmount),
		Payment:      uint64(args.Payment),
	}); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

// Confirm activates a pending lease. Administrator only.
func (s *Service) Confirm(_ *http.Request, args *SlotArgs, reply *api.SuccessResponse) error {
	if err := s.vm.Confirm(args.Caller, uint64(args.SlotID)); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

// Reclaim refunds the deposit of an unconfirmed lease
func (s *Service) Reclaim(_ *http.Request, args *SlotArgs, reply *api.SuccessResponse) error {
	if err := s.vm.Reclaim(args.Caller, uint64(args.SlotID)); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

// PayPeriodArgs are the arguments to PayPeriod
type PayPeriodArgs struct {
	Caller  ids.ShortID `json:"caller"`
	SlotID  json.Uint64 `json:"slotID"`
	Payment json.Uint64 `json:"payment"`
}

// PayPeriod pays one billing period
func (s *Service) PayPeriod(_ *http.Request, args *PayPeriodArgs, reply *api.SuccessResponse) error {
	if err := s.vm.PayPeriod(args.Caller, uint64(args.SlotID), uint64(args.Payment)); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

// Seize takes the deposit of a defaulted lease. Administrator only.
func (s *Service) Seize(_ *http.Request, args *SlotArgs, reply *api.SuccessResponse) error {
	if err := s.vm.Seize(args.Caller, uint64(args.SlotID)); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

// TerminateReply is the reply from Terminate
type TerminateReply struct {
	Refund json.Uint64 `json:"refund"`
}

// Terminate ends a lease
func (s *Service) Terminate(_ *http.Request, args *SlotArgs, reply *TerminateReply) error {
	refund, err := s.vm.Terminate(args.Caller, uint64(args.SlotID))
	if err != nil {
		return err
	}
	reply.Refund = json.Uint64(refund)
	return nil
}

// LeaseReply is a lease record
type LeaseReply struct {
	Holder            ids.ShortID `json:"holder"`
	Phase             string      `json:"phase"`
	TermLength        json.Uint64 `json:"termLength"`
	PeriodAmount      json.Uint64 `json:"periodAmount"`
	Deposit           json.Uint64 `json:"deposit"`
	PeriodsPaid       json.Uint64 `json:"periodsPaid"`
	LastPaymentTime   json.Uint64 `json:"lastPaymentTime"`
	AdmissionDeadline json.Uint64 `json:"admissionDeadline"`
	ActivationTime    json.Uint64 `json:"activationTime"`
	Reason            string      `json:"reason"`
}

// GetLease returns the lease record of a slot
func (s *Service) GetLease(_ *http.Request, args *SlotArgs, reply *LeaseReply) error {
	lease, err := s.vm.GetLease(uint64(args.SlotID))
	if err != nil {
		return err
	}
	reply.Holder = lease.Holder
	reply.Phase = lease.Phase.String()
	reply.TermLength = json.Uint64(lease.TermLength)
	reply.PeriodAmount = json.Uint64(lease.PeriodAmount)
	reply.Deposit = json.Uint64(lease.Deposit)
	reply.PeriodsPaid = json.Uint64(lease.PeriodsPaid)
	reply.LastPaymentTime = json.Uint64(lease.LastPaymentTime)
	reply.AdmissionDeadline = json.Uint64(lease.AdmissionDeadline)
	reply.ActivationTime = json.Uint64(lease.ActivationTime)
	reply.Reason = lease.Reason.String()
	return nil
}

// CommitmentReply is a commitment record
type CommitmentReply struct {
	Digest         ids.ID      `json:"digest"`
	Committer      ids.ShortID `json:"committer"`
	RevealDeadline json.Uint64 `json:"revealDeadline"`
}

// GetCommitment returns the commitment on a slot
func (s *Service) GetCommitment(_ *http.Request, args *SlotArgs, reply *CommitmentReply) error {
	commitment, err := s.vm.GetCommitment(uint64(args.SlotID))
	if err != nil {
		return err
	}
	reply.Digest = commitment.Digest
	reply.Committer = commitment.Committer
	reply.RevealDeadline = json.Uint64(commitment.RevealDeadline)
	return nil
}

// BoolReply is a boolean query result
type BoolReply struct {
	Value bool `json:"value"`
}

// IsPaymentCurrent reports whether an active lease is up to date
func (s *Service) IsPaymentCurrent(_ *http.Request, args *SlotArgs, reply *BoolReply) error {
	current, err := s.vm.IsPaymentCurrent(uint64(args.SlotID))
	reply.Value = current
	return err
}

// IsCommitmentValid reports whether a slot's commitment can still be revealed
func (s *Service) IsCommitmentValid(_ *http.Request, args *SlotArgs, reply *BoolReply) error {
	valid, err := s.vm.IsCommitmentValid(uint64(args.SlotID))
	reply.Value = valid
	return err
}

// QuoteArgs are the arguments to Quote
type QuoteArgs struct {
	SlotID              json.Uint64 `json:"slotID"`
	TermLength          json.Uint64 `json:"termLength"`
	UsagePercent        json.Uint64 `json:"usagePercent"`
	RiskDiscountPercent json.Uint64 `json:"riskDiscountPercent"`
}

// QuoteReply is the reply from Quote
type QuoteReply struct {
	PeriodAmount json.Uint64 `json:"periodAmount"`
	Deposit      json.Uint64 `json:"deposit"`
}

// Quote prices a lease of a slot
func (s *Service) Quote(_ *http.Request, args *QuoteArgs, reply *QuoteReply) error {
	amount, err := s.vm.QuoteLease(uint64(args.SlotID), QuoteFactors{
		TermLength:          uint64(args.TermLength),
		UsagePercent:        uint64(args.UsagePercent),
		RiskDiscountPercent: uint64(args.RiskDiscountPercent),
	})
	if err != nil {
		return err
	}
	deposit, err := DepositFor(amount)
	if err != nil {
		return err
	}
	reply.PeriodAmount = json.Uint64(amount)
	reply.Deposit = json.Uint64(deposit)
	return nil
}

// ComputeDigestArgs are the arguments to ComputeDigest
type ComputeDigestArgs struct {
	SlotID    json.Uint64 `json:"slotID"`
	Secret    ids.ID      `json:"secret"`
	Committer ids.ShortID `json:"committer"`
}

// ComputeDigestReply is the reply from ComputeDigest
type ComputeDigestReply struct {
	Digest ids.ID `json:"digest"`
}

// ComputeDigest returns the commitment digest for a pre-image. Calling it
// against an untrusted node discloses the secret to that node.
func (s *Service) ComputeDigest(_ *http.Request, args *ComputeDigestArgs, reply *ComputeDigestReply) error {
	reply.Digest = ComputeDigest(uint64(args.SlotID), args.Secret, args.Committer)
	return nil
}

// BalanceArgs are the arguments to GetBalance
type BalanceArgs struct {
	Address ids.ShortID `json:"address"`
}

// BalanceReply is the reply from GetBalance
type BalanceReply struct {
	Balance json.Uint64 `json:"balance"`
}

// GetBalance returns the balance of an identity
func (s *Service) GetBalance(_ *http.Request, args *BalanceArgs, reply *BalanceReply) error {
	balance, err := s.vm.Balance(args.Address)
	if err != nil {
		return err
	}
	reply.Balance = json.Uint64(balance)
	return nil
}
