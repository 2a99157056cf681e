// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client_test

import (
	"context"
	"net/http/httptest"
	"time"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	ginkgo "github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/ava-labs/leasevm/client"
	"github.com/ava-labs/leasevm/leasevm"
)

var (
	admin  = ids.ShortID{1}
	escrow = ids.ShortID{2}
	holder = ids.ShortID{3}
	other  = ids.ShortID{4}

	secret = ids.ID{'s', 'e', 'c', 'r', 'e', 't'}
)

var _ = ginkgo.Describe("[Lease API]", ginkgo.Ordered, func() {
	var (
		clock  *leasevm.ManualClock
		server *httptest.Server
		cli    client.Client
		slotID uint64
		ctx    = context.Background()
	)

	ginkgo.BeforeAll(func() {
		genesis := &leasevm.Genesis{
			Administrator: admin,
			Escrow:        escrow,
			Allocations: []leasevm.Allocation{
				{Address: holder, Balance: 1_000},
				{Address: other, Balance: 1_000},
			},
		}
		genesisBytes, err := genesis.Bytes()
		gomega.Expect(err).Should(gomega.BeNil())

		clock = leasevm.NewManualClock(time.Unix(1_600_000_000, 0))
		vm := &leasevm.VM{}
		err = vm.Initialize(memdb.New(), genesisBytes, leasevm.Config{Clock: clock})
		gomega.Expect(err).Should(gomega.BeNil())

		handlers, err := vm.CreateHandlers()
		gomega.Expect(err).Should(gomega.BeNil())
		server = httptest.NewServer(handlers["/"+leasevm.ServiceName])
		cli = client.New(server.URL)
	})

	ginkgo.AfterAll(func() {
		server.Close()
	})

	ginkgo.It("allocates and describes an asset", func() {
		var err error
		slotID, err = cli.AllocateAsset(ctx, admin, leasevm.Descriptor{
			Label:         "crane",
			Category:      "construction",
			Year:          2015,
			DeclaredValue: 3_000,
		})
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(slotID).Should(gomega.Equal(uint64(1)))

		asset, err := cli.DescribeAsset(ctx, slotID)
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(asset.Label).Should(gomega.Equal("crane"))
		gomega.Expect(uint64(asset.Year)).Should(gomega.Equal(uint64(2015)))
	})

	ginkgo.It("maps service errors back to lease errors", func() {
		_, err := cli.AllocateAsset(ctx, holder, leasevm.Descriptor{Label: "x", DeclaredValue: 1})
		gomega.Expect(err).Should(gomega.MatchError(leasevm.ErrUnauthorized))
		gomega.Expect(leasevm.KindOf(err)).Should(gomega.Equal(leasevm.KindAuthorization))

		_, err = cli.DescribeAsset(ctx, 42)
		gomega.Expect(err).Should(gomega.MatchError(leasevm.ErrNotFound))
	})

	ginkgo.It("quotes a lease", func() {
		amount, deposit, err := cli.Quote(ctx, slotID, leasevm.QuoteFactors{TermLength: 30})
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(amount).Should(gomega.Equal(uint64(100)))
		gomega.Expect(deposit).Should(gomega.Equal(uint64(300)))
	})

	ginkgo.It("admits a lease through commit and reveal", func() {
		digest, err := cli.ComputeDigest(ctx, slotID, secret, holder)
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(digest).Should(gomega.Equal(leasevm.ComputeDigest(slotID, secret, holder)))

		gomega.Expect(cli.PlaceCommitment(ctx, holder, slotID, digest)).Should(gomega.Succeed())
		valid, err := cli.IsCommitmentValid(ctx, slotID)
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(valid).Should(gomega.BeTrue())

		err = cli.Reveal(ctx, other, slotID, leasevm.RevealTerms{Secret: secret, TermLength: 30, PeriodAmount: 100, Payment: 300})
		gomega.Expect(err).Should(gomega.MatchError(leasevm.ErrInvalidSecret))

		err = cli.Reveal(ctx, holder, slotID, leasevm.RevealTerms{Secret: secret, TermLength: 30, PeriodAmount: 100, Payment: 300})
		gomega.Expect(err).Should(gomega.BeNil())

		lease, err := cli.GetLease(ctx, slotID)
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(lease.Phase).Should(gomega.Equal("PENDING"))
		gomega.Expect(lease.Holder).Should(gomega.Equal(holder))

		commitment, err := cli.GetCommitment(ctx, slotID)
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(commitment.Committer).Should(gomega.Equal(ids.ShortEmpty))
	})

	ginkgo.It("activates and bills the lease", func() {
		gomega.Expect(cli.Confirm(ctx, admin, slotID)).Should(gomega.Succeed())

		err := cli.PayPeriod(ctx, holder, slotID, 100)
		gomega.Expect(err).Should(gomega.MatchError(leasevm.ErrPaymentNotYetDue))

		clock.Advance(leasevm.PeriodLength)
		gomega.Expect(cli.PayPeriod(ctx, holder, slotID, 100)).Should(gomega.Succeed())

		current, err := cli.IsPaymentCurrent(ctx, slotID)
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(current).Should(gomega.BeTrue())

		balance, err := cli.GetBalance(ctx, admin)
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(balance).Should(gomega.Equal(uint64(100)))
	})

	ginkgo.It("seizes the deposit after default", func() {
		clock.Advance(leasevm.GracePeriod + time.Second)
		gomega.Expect(cli.Seize(ctx, admin, slotID)).Should(gomega.Succeed())

		refund, err := cli.Terminate(ctx, admin, slotID)
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(refund).Should(gomega.BeZero())

		lease, err := cli.GetLease(ctx, slotID)
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(lease.Phase).Should(gomega.Equal("NONE"))

		balance, err := cli.GetBalance(ctx, admin)
		gomega.Expect(err).Should(gomega.BeNil())
		gomega.Expect(balance).Should(gomega.Equal(uint64(400)))

		err = cli.Reclaim(ctx, holder, slotID)
		gomega.Expect(err).Should(gomega.MatchError(leasevm.ErrNotPending))
	})
})
