// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	log "github.com/inconshreveable/log15"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	versionKey     = "version"
	configFileKey  = "config-file"
	httpHostKey    = "http-host"
	httpPortKey    = "http-port"
	genesisFileKey = "genesis-file"
	dbDirKey       = "db-dir"
	indexDBKey     = "index-db"
	logLevelKey    = "log-level"

	envPrefix = "leasevm"
)

var errNoGenesis = errors.New("a genesis file is required")

// config is the node configuration after flags, environment and config file
// have been merged.
type config struct {
	HTTPHost    string
	HTTPPort    uint16
	GenesisFile string
	DBDir       string
	IndexDB     string
	LogLevel    log.Lvl
}

func (c *config) address() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

func buildFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("leasevm", flag.ContinueOnError)

	fs.Bool(versionKey, false, "If true, prints the version and quits")
	fs.String(configFileKey, "", "Config file to read flags from")
	fs.String(httpHostKey, "127.0.0.1", "Address of the HTTP server")
	fs.Uint(httpPortKey, 9650, "Port of the HTTP server")
	fs.String(genesisFileKey, "", "Path to the JSON genesis")
	fs.String(dbDirKey, "", "Directory of the LevelDB lease state. Empty keeps state in memory")
	fs.String(indexDBKey, "", "Path to the SQLite event index. Empty disables indexing")
	fs.String(logLevelKey, "info", "The log level. Should be one of {crit, error, warn, info, debug}")

	return fs
}

// getViper returns the viper environment for the node binary
func getViper(args []string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs := pflag.NewFlagSet("leasevm", pflag.ContinueOnError)
	fs.AddGoFlagSet(buildFlagSet())
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if configFile := v.GetString(configFileKey); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}
	return v, nil
}

func PrintVersion(v *viper.Viper) bool {
	return v.GetBool(versionKey)
}

func getConfig(v *viper.Viper) (*config, error) {
	level, err := log.LvlFromString(v.GetString(logLevelKey))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", logLevelKey, err)
	}
	port := v.GetUint(httpPortKey)
	if port > 65535 {
		return nil, fmt.Errorf("invalid %s: %d", httpPortKey, port)
	}
	genesisFile := v.GetString(genesisFileKey)
	if genesisFile == "" {
		return nil, errNoGenesis
	}
	return &config{
		HTTPHost:    v.GetString(httpHostKey),
		HTTPPort:    uint16(port),
		GenesisFile: genesisFile,
		DBDir:       v.GetString(dbDirKey),
		IndexDB:     v.GetString(indexDBKey),
		LogLevel:    level,
	}, nil
}
