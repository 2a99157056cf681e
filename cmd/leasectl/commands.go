// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/spf13/cobra"

	"github.com/ava-labs/leasevm/client"
	"github.com/ava-labs/leasevm/leasevm"
)

func parseSlot(s string) (uint64, error) {
	slotID, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid slot id %q: %w", s, err)
	}
	return slotID, nil
}

func newAllocateCmd(cfg *cliConfig) *cobra.Command {
	var descriptor leasevm.Descriptor
	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Allocate a new asset slot (administrator)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			caller, err := cfg.callerID()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.context()
			defer cancel()
			slotID, err := cfg.client().AllocateAsset(ctx, caller, descriptor)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.format(), slotView{SlotID: formatUint(slotID)})
		},
	}
	cmd.Flags().StringVar(&descriptor.Label, "label", "", "Asset label")
	cmd.Flags().StringVar(&descriptor.Category, "category", "", "Asset category")
	cmd.Flags().Uint16Var(&descriptor.Year, "year", 0, "Year of manufacture")
	cmd.Flags().Uint64Var(&descriptor.DeclaredValue, "declared-value", 0, "Declared value in native units")
	cmd.Flags().Uint64Var(&descriptor.UsageLimit, "usage-limit", 0, "Usage limit")
	return cmd
}

func newDescribeCmd(cfg *cliConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "describe SLOT",
		Short: "Show an allocated asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slotID, err := parseSlot(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := cfg.context()
			defer cancel()
			asset, err := cfg.client().DescribeAsset(ctx, slotID)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.format(), newAssetView(asset))
		},
	}
}

func newQuoteCmd(cfg *cliConfig) *cobra.Command {
	var factors leasevm.QuoteFactors
	cmd := &cobra.Command{
		Use:   "quote SLOT",
		Short: "Price a lease of an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slotID, err := parseSlot(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := cfg.context()
			defer cancel()
			amount, deposit, err := cfg.client().Quote(ctx, slotID, factors)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.format(), quoteView{
				PeriodAmount: formatUint(amount),
				Deposit:      formatUint(deposit),
			})
		},
	}
	cmd.Flags().Uint64Var(&factors.TermLength, "term", 0, "Term length in periods")
	cmd.Flags().Uint64Var(&factors.UsagePercent, "usage", 0, "Expected usage, in percent")
	cmd.Flags().Uint64Var(&factors.RiskDiscountPercent, "risk-discount", 0, "Counterparty risk discount, in percent")
	return cmd
}

// newDigestCmd computes a commitment digest locally.
func newDigestCmd(cfg *cliConfig) *cobra.Command {
	var secret string
	cmd := &cobra.Command{
		Use:   "digest SLOT",
		Short: "Compute the commitment digest of --caller and --secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slotID, err := parseSlot(args[0])
			if err != nil {
				return err
			}
			caller, err := cfg.callerID()
			if err != nil {
				return err
			}
			digest := leasevm.ComputeDigest(slotID, leasevm.BytesToSecret([]byte(secret)), caller)
			return printOutput(cmd.OutOrStdout(), cfg.format(), digestView{Digest: digest.String()})
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "Commitment secret, at most 32 bytes")
	return cmd
}

func newCommitCmd(cfg *cliConfig) *cobra.Command {
	var secret string
	cmd := &cobra.Command{
		Use:   "commit SLOT",
		Short: "Place a commitment on a slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slotID, err := parseSlot(args[0])
			if err != nil {
				return err
			}
			caller, err := cfg.callerID()
			if err != nil {
				return err
			}
			if secret == "" {
				return fmt.Errorf("--secret is required")
			}
			digest := leasevm.ComputeDigest(slotID, leasevm.BytesToSecret([]byte(secret)), caller)
			ctx, cancel := cfg.context()
			defer cancel()
			if err := cfg.client().PlaceCommitment(ctx, caller, slotID, digest); err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.format(), digestView{Digest: digest.String()})
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "Commitment secret, at most 32 bytes")
	return cmd
}

func newRevealCmd(cfg *cliConfig) *cobra.Command {
	var (
		secret string
		terms  leasevm.RevealTerms
	)
	cmd := &cobra.Command{
		Use:   "reveal SLOT",
		Short: "Reveal a commitment and propose a lease, paying the deposit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slotID, err := parseSlot(args[0])
			if err != nil {
				return err
			}
			caller, err := cfg.callerID()
			if err != nil {
				return err
			}
			terms.Secret = leasevm.BytesToSecret([]byte(secret))
			if terms.Payment == 0 {
				terms.Payment, err = leasevm.DepositFor(terms.PeriodAmount)
				if err != nil {
					return err
				}
			}
			ctx, cancel := cfg.context()
			defer cancel()
			if err := cfg.client().Reveal(ctx, caller, slotID, terms); err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.format(), statusView{Slot: args[0], Status: leasevm.PhasePending.String()})
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "Commitment secret")
	cmd.Flags().Uint64Var(&terms.TermLength, "term", 0, "Term length in periods")
	cmd.Flags().Uint64Var(&terms.PeriodAmount, "period-amount", 0, "Amount due each period")
	cmd.Flags().Uint64Var(&terms.Payment, "deposit", 0, "Deposit to pay. Defaults to the required deposit")
	return cmd
}

type slotAction func(cli client.Client, ctx context.Context, caller ids.ShortID, slotID uint64) error

// newSlotActionCmd builds a command that applies [action] to one slot as
// --caller.
func newSlotActionCmd(cfg *cliConfig, name, short string, action slotAction) *cobra.Command {
	return &cobra.Command{
		Use:   name + " SLOT",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slotID, err := parseSlot(args[0])
			if err != nil {
				return err
			}
			caller, err := cfg.callerID()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.context()
			defer cancel()
			if err := action(cfg.client(), ctx, caller, slotID); err != nil {
				return err
			}
			lease, err := cfg.client().GetLease(ctx, slotID)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.format(), statusView{Slot: args[0], Status: lease.Phase})
		},
	}
}

func newPayCmd(cfg *cliConfig) *cobra.Command {
	var amount uint64
	cmd := &cobra.Command{
		Use:   "pay SLOT",
		Short: "Pay one period of an active lease",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slotID, err := parseSlot(args[0])
			if err != nil {
				return err
			}
			caller, err := cfg.callerID()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.context()
			defer cancel()
			cli := cfg.client()
			lease, err := cli.GetLease(ctx, slotID)
			if err != nil {
				return err
			}
			if amount == 0 {
				amount = uint64(lease.PeriodAmount)
			}
			if err := cli.PayPeriod(ctx, caller, slotID, amount); err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.format(), amountView{Name: "paid", Amount: formatUint(amount)})
		},
	}
	cmd.Flags().Uint64Var(&amount, "amount", 0, "Amount to pay. Defaults to the period amount")
	return cmd
}

func newTerminateCmd(cfg *cliConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "terminate SLOT",
		Short: "Terminate a lease",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slotID, err := parseSlot(args[0])
			if err != nil {
				return err
			}
			caller, err := cfg.callerID()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.context()
			defer cancel()
			refund, err := cfg.client().Terminate(ctx, caller, slotID)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.format(), amountView{Name: "refund", Amount: formatUint(refund)})
		},
	}
}

func newLeaseCmd(cfg *cliConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "lease SLOT",
		Short: "Show the lease record of a slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slotID, err := parseSlot(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := cfg.context()
			defer cancel()
			lease, err := cfg.client().GetLease(ctx, slotID)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.format(), newLeaseView(lease))
		},
	}
}

func newCommitmentCmd(cfg *cliConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "commitment SLOT",
		Short: "Show the commitment on a slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slotID, err := parseSlot(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := cfg.context()
			defer cancel()
			cli := cfg.client()
			commitment, err := cli.GetCommitment(ctx, slotID)
			if err != nil {
				return err
			}
			valid, err := cli.IsCommitmentValid(ctx, slotID)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.format(), newCommitmentView(commitment, valid))
		},
	}
}

func newBalanceCmd(cfg *cliConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "balance ADDRESS",
		Short: "Show the balance of an identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := parseIdentity(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := cfg.context()
			defer cancel()
			balance, err := cfg.client().GetBalance(ctx, address)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), cfg.format(), amountView{Name: "balance", Amount: formatUint(balance)})
		},
	}
}
