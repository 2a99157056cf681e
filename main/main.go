// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/leveldb"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	log "github.com/inconshreveable/log15"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/leasevm/indexer"
	"github.com/ava-labs/leasevm/leasevm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	v, err := getViper(os.Args[1:])
	if err != nil {
		fmt.Printf("couldn't get config: %s\n", err)
		os.Exit(1)
	}
	// Print version and exit
	if PrintVersion(v) {
		fmt.Printf("%s@%s\n", leasevm.Name, leasevm.Version)
		os.Exit(0)
	}

	cfg, err := getConfig(v)
	if err != nil {
		fmt.Printf("couldn't get config: %s\n", err)
		os.Exit(1)
	}

	logger := log.New("vm", leasevm.Name)
	logger.SetHandler(log.LvlFilterHandler(cfg.LogLevel, log.StreamHandler(os.Stderr, log.TerminalFormat())))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("node exited with an error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config, logger log.Logger) error {
	genesisBytes, err := os.ReadFile(cfg.GenesisFile)
	if err != nil {
		return fmt.Errorf("failed to read genesis: %w", err)
	}

	notifier := leasevm.NewLogNotifier(logger)
	var index *indexer.Indexer
	if cfg.IndexDB != "" {
		index, err = indexer.Open(cfg.IndexDB, logger.New("module", "indexer"))
		if err != nil {
			return err
		}
		defer index.Close()
		notifier = leasevm.NewMultiNotifier(notifier, index)
	}

	db, err := openDatabase(cfg.DBDir)
	if err != nil {
		return err
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	factory := &leasevm.Factory{Config: leasevm.Config{
		Clock:      leasevm.SystemClock{},
		Notifier:   notifier,
		Registerer: registry,
		Logger:     logger,
	}}
	vm, err := factory.New(db, genesisBytes)
	if err != nil {
		return err
	}
	defer vm.Shutdown()

	router, err := newRouter(vm, index, registry, logger)
	if err != nil {
		return err
	}
	server := &http.Server{
		Addr:              cfg.address(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("serving lease API", "address", cfg.address(), "administrator", vm.Administrator())
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openDatabase opens the LevelDB at [dir], or an in-memory database when
// [dir] is empty.
func openDatabase(dir string) (database.Database, error) {
	if dir == "" {
		return memdb.New(), nil
	}
	db, err := leveldb.New(dir, nil, logging.NoLog{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", dir, err)
	}
	return db, nil
}
