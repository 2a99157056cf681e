// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// leasectl drives the lease API of a running leasevm node.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/spf13/cobra"

	"github.com/ava-labs/leasevm/client"
	"github.com/ava-labs/leasevm/leasevm"
)

// cliConfig holds the global flags.
type cliConfig struct {
	endpoint string
	caller   string
	output   string
	timeout  time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &cliConfig{}
	rootCmd := &cobra.Command{
		Use:   "leasectl",
		Short: "CLI for the leasevm lease API",
		Long: `leasectl allocates assets and walks leases through their lifecycle
on a leasevm node.

Commits are computed locally from --secret, so the secret only leaves this
machine when the lease is revealed.`,
		Version:      leasevm.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_, err := parseOutputFormat(cfg.output)
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfg.endpoint, "endpoint", "http://127.0.0.1:9650/ext/lease", "Lease API endpoint")
	rootCmd.PersistentFlags().StringVar(&cfg.caller, "caller", "", "Identity to act as")
	rootCmd.PersistentFlags().StringVarP(&cfg.output, "output", "o", "table", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().DurationVar(&cfg.timeout, "timeout", 30*time.Second, "Request timeout")

	rootCmd.AddCommand(
		newAllocateCmd(cfg),
		newDescribeCmd(cfg),
		newQuoteCmd(cfg),
		newDigestCmd(cfg),
		newCommitCmd(cfg),
		newRevealCmd(cfg),
		newSlotActionCmd(cfg, "confirm", "Confirm a pending lease (administrator)", client.Client.Confirm),
		newSlotActionCmd(cfg, "reclaim", "Reclaim the deposit of an unconfirmed lease", client.Client.Reclaim),
		newSlotActionCmd(cfg, "seize", "Seize the deposit of a defaulted lease (administrator)", client.Client.Seize),
		newPayCmd(cfg),
		newTerminateCmd(cfg),
		newLeaseCmd(cfg),
		newCommitmentCmd(cfg),
		newBalanceCmd(cfg),
	)
	return rootCmd
}

func (c *cliConfig) client() client.Client {
	return client.New(c.endpoint)
}

func (c *cliConfig) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.timeout)
}

func (c *cliConfig) callerID() (ids.ShortID, error) {
	if c.caller == "" {
		return ids.ShortEmpty, fmt.Errorf("--caller is required")
	}
	return parseIdentity(c.caller)
}

func (c *cliConfig) format() outputFormat {
	format, _ := parseOutputFormat(c.output)
	return format
}

func parseIdentity(s string) (ids.ShortID, error) {
	id, err := ids.ShortFromString(s)
	if err != nil {
		return ids.ShortEmpty, fmt.Errorf("invalid identity %q: %w", s, err)
	}
	return id, nil
}
