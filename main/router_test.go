// (c) 2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	log "github.com/inconshreveable/log15"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/leasevm/client"
	"github.com/ava-labs/leasevm/indexer"
	"github.com/ava-labs/leasevm/leasevm"
)

var (
	admin  = ids.ShortID{1}
	escrow = ids.ShortID{2}
)

func newTestServer(t *testing.T) *httptest.Server {
	require := require.New(t)

	genesisBytes, err := (&leasevm.Genesis{Administrator: admin, Escrow: escrow}).Bytes()
	require.NoError(err)

	logger := log.New()
	logger.SetHandler(log.DiscardHandler())

	index, err := indexer.Open(filepath.Join(t.TempDir(), "events.db"), logger)
	require.NoError(err)
	t.Cleanup(func() { _ = index.Close() })

	registry := prometheus.NewRegistry()
	vm, err := (&leasevm.Factory{Config: leasevm.Config{
		Clock:      leasevm.NewManualClock(time.Unix(1_600_000_000, 0)),
		Notifier:   index,
		Registerer: registry,
		Logger:     logger,
	}}).New(memdb.New(), genesisBytes)
	require.NoError(err)

	router, err := newRouter(vm, index, registry, logger)
	require.NoError(err)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func TestRouter(t *testing.T) {
	require := require.New(t)
	server := newTestServer(t)

	cli := client.New(server.URL + apiPrefix + "/" + leasevm.ServiceName)
	slotID, err := cli.AllocateAsset(context.Background(), admin, leasevm.Descriptor{Label: "drill", DeclaredValue: 10})
	require.NoError(err)
	_, err = cli.AllocateAsset(context.Background(), escrow, leasevm.Descriptor{Label: "drill", DeclaredValue: 10})
	require.ErrorIs(err, leasevm.ErrUnauthorized)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(err)
	require.Equal(http.StatusOK, resp.StatusCode)
	require.NotEmpty(resp.Header.Get(requestIDHeader))
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/metrics")
	require.NoError(err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(err)
	require.Contains(string(body), `leasevm_transitions_total{operation="allocateAsset"} 1`)
	require.Contains(string(body), `leasevm_rejections_total{kind="authorization",operation="allocateAsset"} 1`)

	resp, err = http.Get(server.URL + apiPrefix + "/events/slot/1")
	require.NoError(err)
	var records []indexer.Record
	require.NoError(json.NewDecoder(resp.Body).Decode(&records))
	resp.Body.Close()
	require.Len(records, 1)
	require.Equal(slotID, records[0].Event.SlotID)
	require.Equal(leasevm.AssetAllocated, records[0].Event.Kind)

	resp, err = http.Get(server.URL + apiPrefix + "/events/slot/one")
	require.NoError(err)
	require.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestRequestIDIsEchoed(t *testing.T) {
	require := require.New(t)
	server := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/healthz", nil)
	require.NoError(err)
	req.Header.Set(requestIDHeader, "abc")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(err)
	resp.Body.Close()
	require.Equal("abc", resp.Header.Get(requestIDHeader))
}

func TestGetConfig(t *testing.T) {
	require := require.New(t)

	v, err := getViper([]string{"--genesis-file=/tmp/genesis.json", "--http-port=9000", "--log-level=debug"})
	require.NoError(err)
	require.False(PrintVersion(v))
	cfg, err := getConfig(v)
	require.NoError(err)
	require.Equal("127.0.0.1:9000", cfg.address())
	require.Equal(log.LvlDebug, cfg.LogLevel)
	require.Empty(cfg.IndexDB)
	require.Empty(cfg.DBDir)

	v, err = getViper(nil)
	require.NoError(err)
	_, err = getConfig(v)
	require.ErrorIs(err, errNoGenesis)

	v, err = getViper([]string{"--genesis-file=g.json", "--log-level=loud"})
	require.NoError(err)
	_, err = getConfig(v)
	require.Error(err)
}

func TestConfigFromEnvironment(t *testing.T) {
	require := require.New(t)
	t.Setenv("LEASEVM_GENESIS_FILE", "/etc/leasevm/genesis.json")
	t.Setenv("LEASEVM_INDEX_DB", "/var/lib/leasevm/events.db")
	t.Setenv("LEASEVM_DB_DIR", "/var/lib/leasevm/state")

	v, err := getViper(nil)
	require.NoError(err)
	cfg, err := getConfig(v)
	require.NoError(err)
	require.Equal("/etc/leasevm/genesis.json", cfg.GenesisFile)
	require.True(strings.HasSuffix(cfg.IndexDB, "events.db"))
	require.Equal("/var/lib/leasevm/state", cfg.DBDir)
}

func TestStateSurvivesRestart(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	alice := ids.ShortID{3}

	genesisBytes, err := (&leasevm.Genesis{
		Administrator: admin,
		Escrow:        escrow,
		Allocations:   []leasevm.Allocation{{Address: alice, Balance: 1_000}},
	}).Bytes()
	require.NoError(err)

	start := func() (*leasevm.VM, func()) {
		db, err := openDatabase(dir)
		require.NoError(err)
		vm, err := (&leasevm.Factory{Config: leasevm.Config{
			Clock: leasevm.NewManualClock(time.Unix(1_600_000_000, 0)),
		}}).New(db, genesisBytes)
		require.NoError(err)
		return vm, func() {
			require.NoError(vm.Shutdown())
			require.NoError(db.Close())
		}
	}

	vm, stop := start()
	slotID, err := vm.AllocateAsset(admin, leasevm.Descriptor{Label: "drill", DeclaredValue: 10})
	require.NoError(err)
	secret := ids.ID{'s'}
	require.NoError(vm.PlaceCommitment(alice, slotID, leasevm.ComputeDigest(slotID, secret, alice)))
	stop()

	vm, stop = start()
	defer stop()

	asset, err := vm.DescribeAsset(slotID)
	require.NoError(err)
	require.Equal("drill", asset.Descriptor.Label)

	// genesis is not applied a second time
	balance, err := vm.Balance(alice)
	require.NoError(err)
	require.Equal(uint64(1_000), balance)

	require.NoError(vm.Reveal(alice, slotID, leasevm.RevealTerms{
		Secret:       secret,
		TermLength:   1,
		PeriodAmount: 10,
		Payment:      30,
	}))

	next, err := vm.AllocateAsset(admin, leasevm.Descriptor{Label: "saw", DeclaredValue: 10})
	require.NoError(err)
	require.Equal(slotID+1, next)
}

func TestOpenDatabaseInMemory(t *testing.T) {
	require := require.New(t)

	db, err := openDatabase("")
	require.NoError(err)
	require.IsType(&memdb.Database{}, db)
	require.NoError(db.Close())
}
