package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"quorum/config"
	"quorum/core"
	"quorum/core/genesis"
	"quorum/crypto"
	"quorum/observability/logging"
	"quorum/rpc"
	"quorum/storage"
)

func openDatabase(dataDir string) (storage.Database, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return storage.NewLevelDB(filepath.Join(dataDir, "ledger"))
}

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	genesisFlag := flag.String("genesis", "", "Path to a genesis allocation JSON file (overrides config GenesisFile)")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("QUORUM_ENV"))
	logger := logging.Setup("quorumd", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	ks, err := crypto.OpenKeystore(cfg.ResolveKeystoreDir())
	if err != nil {
		logger.Error("Failed to open keystore", slog.Any("error", err))
		os.Exit(1)
	}
	nodeKey, err := ks.EnsureNodeKey(os.Getenv("QUORUM_KEYSTORE_PASSPHRASE"))
	if err != nil {
		logger.Error("Failed to load node identity key", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := openDatabase(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to open database", slog.String("dataDir", cfg.DataDir), slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	node := core.NewNode(db)

	genesisPath := strings.TrimSpace(*genesisFlag)
	if genesisPath == "" {
		genesisPath = strings.TrimSpace(cfg.GenesisFile)
	}
	if genesisPath != "" {
		spec, err := genesis.Load(genesisPath)
		if err != nil {
			logger.Error("Failed to load genesis spec", slog.String("path", genesisPath), slog.Any("error", err))
			os.Exit(1)
		}
		alloc, err := spec.Balances()
		if err != nil {
			logger.Error("Failed to resolve genesis allocation", slog.Any("error", err))
			os.Exit(1)
		}
		if err := node.ApplyGenesis(alloc); err != nil {
			logger.Error("Failed to apply genesis allocation", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Genesis allocation applied", slog.Int("accounts", len(alloc)))
	}

	logger.Info("Node initialised",
		slog.String("network", cfg.NetworkName),
		slog.String("identity", nodeKey.PubKey().Address().String()),
		slog.String("dataDir", cfg.DataDir),
		slog.String("rpc", cfg.RPCAddress),
	)

	server := rpc.NewServer(node)
	if err := server.Start(cfg.RPCAddress); err != nil {
		logger.Error("RPC server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
