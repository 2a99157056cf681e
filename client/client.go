// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/api"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/gorilla/rpc/v2/json2"

	"github.com/ava-labs/leasevm/leasevm"
)

// Client defines leasevm client operations.
type Client interface {
	// AllocateAsset registers a new slot and returns its id
	AllocateAsset(ctx context.Context, caller ids.ShortID, descriptor leasevm.Descriptor) (uint64, error)

	// DescribeAsset fetches the descriptor of a slot
	DescribeAsset(ctx context.Context, slotID uint64) (*leasevm.AssetReply, error)

	PlaceCommitment(ctx context.Context, caller ids.ShortID, slotID uint64, digest ids.ID) error
	Reveal(ctx context.Context, caller ids.ShortID, slotID uint64, terms leasevm.RevealTerms) error
	Confirm(ctx context.Context, caller ids.ShortID, slotID uint64) error
	Reclaim(ctx context.Context, caller ids.ShortID, slotID uint64) error
	PayPeriod(ctx context.Context, caller ids.ShortID, slotID uint64, payment uint64) error
	Seize(ctx context.Context, caller ids.ShortID, slotID uint64) error

	// Terminate ends a lease and returns the refund
	Terminate(ctx context.Context, caller ids.ShortID, slotID uint64) (uint64, error)

	GetLease(ctx context.Context, slotID uint64) (*leasevm.LeaseReply, error)
	GetCommitment(ctx context.Context, slotID uint64) (*leasevm.CommitmentReply, error)
	IsPaymentCurrent(ctx context.Context, slotID uint64) (bool, error)
	IsCommitmentValid(ctx context.Context, slotID uint64) (bool, error)

	// Quote returns the period amount and deposit of a priced lease
	Quote(ctx context.Context, slotID uint64, factors leasevm.QuoteFactors) (uint64, uint64, error)

	// ComputeDigest asks the node for a commitment digest. This discloses
	// [secret] to the node; leasevm.ComputeDigest computes the same value
	// locally.
	ComputeDigest(ctx context.Context, slotID uint64, secret ids.ID, committer ids.ShortID) (ids.ID, error)

	GetBalance(ctx context.Context, address ids.ShortID) (uint64, error)
}

// New creates a new client object for the lease API served at [uri].
func New(uri string) Client {
	return &client{req: &requester{uri: uri, client: http.DefaultClient}}
}

type client struct {
	req *requester
}

func (cli *client) AllocateAsset(ctx context.Context, caller ids.ShortID, d leasevm.Descriptor) (uint64, error) {
	resp := new(leasevm.AllocateAssetReply)
	err := cli.req.SendRequest(ctx,
		"allocateAsset",
		&leasevm.AllocateAssetArgs{
			Caller:        caller,
			Label:         d.Label,
			Category:      d.Category,
			Year:          json.Uint64(d.Year),
			DeclaredValue: json.Uint64(d.DeclaredValue),
			UsageLimit:    json.Uint64(d.UsageLimit),
		},
		resp,
	)
	return uint64(resp.SlotID), err
}

func (cli *client) DescribeAsset(ctx context.Context, slotID uint64) (*leasevm.AssetReply, error) {
	resp := new(leasevm.AssetReply)
	if err := cli.req.SendRequest(ctx, "describeAsset", &leasevm.SlotArgs{SlotID: json.Uint64(slotID)}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *client) PlaceCommitment(ctx context.Context, caller ids.ShortID, slotID uint64, digest ids.ID) error {
	return cli.req.SendRequest(ctx,
		"placeCommitment",
		&leasevm.PlaceCommitmentArgs{
			Caller: caller,
			SlotID: json.Uint64(slotID),
			Digest: digest,
		},
		&api.SuccessResponse{},
	)
}

func (cli *client) Reveal(ctx context.Context, caller ids.ShortID, slotID uint64, terms leasevm.RevealTerms) error {
	return cli.req.SendRequest(ctx,
		"reveal",
		&leasevm.RevealArgs{
			Caller:       caller,
			SlotID:       json.Uint64(slotID),
			Secret:       terms.Secret,
			TermLength:   json.Uint64(terms.TermLength),
			PeriodAmount: json.Uint64(terms.PeriodAmount),
			Payment:      json.Uint64(terms.Payment),
		},
		&api.SuccessResponse{},
	)
}

func (cli *client) Confirm(ctx context.Context, caller ids.ShortID, slotID uint64) error {
	return cli.slotCall(ctx, "confirm", caller, slotID)
}

func (cli *client) Reclaim(ctx context.Context, caller ids.ShortID, slotID uint64) error {
	return cli.slotCall(ctx, "reclaim", caller, slotID)
}

func (cli *client) Seize(ctx context.Context, caller ids.ShortID, slotID uint64) error {
	return cli.slotCall(ctx, "seize", caller, slotID)
}

func (cli *client) PayPeriod(ctx context.Context, caller ids.ShortID, slotID uint64, payment uint64) error {
	return cli.req.SendRequest(ctx,
		"payPeriod",
		&leasevm.PayPeriodArgs{
			Caller:  caller,
			SlotID:  json.Uint64(slotID),
			Payment: json.Uint64(payment),
		},
		&api.SuccessResponse{},
	)
}

func (cli *client) Terminate(ctx context.Context, caller ids.ShortID, slotID uint64) (uint64, error) {
	resp := new(leasevm.TerminateReply)
	err := cli.req.SendRequest(ctx,
		"terminate",
		&leasevm.SlotArgs{Caller: caller, SlotID: json.Uint64(slotID)},
		resp,
	)
	return uint64(resp.Refund), err
}

func (cli *client) GetLease(ctx context.Context, slotID uint64) (*leasevm.LeaseReply, error) {
	resp := new(leasevm.LeaseReply)
	if err := cli.req.SendRequest(ctx, "getLease", &leasevm.SlotArgs{SlotID: json.Uint64(slotID)}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *client) GetCommitment(ctx context.Context, slotID uint64) (*leasevm.CommitmentReply, error) {
	resp := new(leasevm.CommitmentReply)
	if err := cli.req.SendRequest(ctx, "getCommitment", &leasevm.SlotArgs{SlotID: json.Uint64(slotID)}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *client) IsPaymentCurrent(ctx context.Context, slotID uint64) (bool, error) {
	resp := new(leasevm.BoolReply)
	err := cli.req.SendRequest(ctx, "isPaymentCurrent", &leasevm.SlotArgs{SlotID: json.Uint64(slotID)}, resp)
	return resp.Value, err
}

func (cli *client) IsCommitmentValid(ctx context.Context, slotID uint64) (bool, error) {
	resp := new(leasevm.BoolReply)
	err := cli.req.SendRequest(ctx, "isCommitmentValid", &leasevm.SlotArgs{SlotID: json.Uint64(slotID)}, resp)
	return resp.Value, err
}

func (cli *client) Quote(ctx context.Context, slotID uint64, factors leasevm.QuoteFactors) (uint64, uint64, error) {
	resp := new(leasevm.QuoteReply)
	err := cli.req.SendRequest(ctx,
		"quote",
		&leasevm.QuoteArgs{
			SlotID:              json.Uint64(slotID),
			TermLength:          json.Uint64(factors.TermLength),
			UsagePercent:        json.Uint64(factors.UsagePercent),
			RiskDiscountPercent: json.Uint64(factors.RiskDiscountPercent),
		},
		resp,
	)
	return uint64(resp.PeriodAmount), uint64(resp.Deposit), err
}

func (cli *client) ComputeDigest(ctx context.Context, slotID uint64, secret ids.ID, committer ids.ShortID) (ids.ID, error) {
	resp := new(leasevm.ComputeDigestReply)
	err := cli.req.SendRequest(ctx,
		"computeDigest",
		&leasevm.ComputeDigestArgs{
			SlotID:    json.Uint64(slotID),
			Secret:    secret,
			Committer: committer,
		},
		resp,
	)
	return resp.Digest, err
}

func (cli *client) GetBalance(ctx context.Context, address ids.ShortID) (uint64, error) {
	resp := new(leasevm.BalanceReply)
	err := cli.req.SendRequest(ctx, "getBalance", &leasevm.BalanceArgs{Address: address}, resp)
	return uint64(resp.Balance), err
}

func (cli *client) slotCall(ctx context.Context, method string, caller ids.ShortID, slotID uint64) error {
	return cli.req.SendRequest(ctx,
		method,
		&leasevm.SlotArgs{Caller: caller, SlotID: json.Uint64(slotID)},
		&api.SuccessResponse{},
	)
}

// requester posts JSON-RPC 2.0 requests to a single endpoint.
type requester struct {
	uri    string
	client *http.Client
}

// SendRequest calls [method] on the lease service. Errors returned by the
// service are mapped back to the leasevm errors they were built from.
func (r *requester) SendRequest(ctx context.Context, method string, args interface{}, reply interface{}) error {
	body, err := json2.EncodeClientRequest(leasevm.ServiceName+"."+method, args)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.uri, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to issue %s request: %w", method, err)
	}
	defer resp.Body.Close()

	err = json2.DecodeClientResponse(resp.Body, reply)
	var rpcErr *json2.Error
	switch {
	case errors.As(err, &rpcErr):
		return leasevm.ParseError(rpcErr.Message)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%s request returned status %d", method, resp.StatusCode)
	default:
		return err
	}
}
