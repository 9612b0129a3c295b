package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/etturpe/ettur/pkg/api"
	"github.com/etturpe/ettur/pkg/crypto"
	"github.com/etturpe/ettur/pkg/logging"
	"github.com/etturpe/ettur/pkg/nav"
	"github.com/etturpe/ettur/pkg/session"
	"github.com/etturpe/ettur/pkg/settings"
	"github.com/etturpe/ettur/pkg/store"
	"github.com/etturpe/ettur/pkg/version"
	"github.com/etturpe/ettur/ui"
)

func main() {
	cfg := settings.Load()
	if err := logging.Setup(logging.FromEnv(cfg.LogLevel)); err != nil {
		slog.Error("logging setup", "err", err)
		os.Exit(1)
	}
	slog.Info("ettur starting", "version", version.Full(), "api", cfg.APIBaseURL)

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		slog.Error("resolve data dir", "err", err)
		os.Exit(1)
	}

	key, err := crypto.LoadOrCreateKey(filepath.Join(dataDir, "session.key"))
	if err != nil {
		slog.Error("load sealing key", "err", err)
		os.Exit(1)
	}
	sealer, err := crypto.NewSessionSealer(key)
	if err != nil {
		slog.Error("init sealer", "err", err)
		os.Exit(1)
	}

	kv, err := store.Open(filepath.Join(dataDir, "session.db"))
	if err != nil {
		// Open already fell back to memory; the UI surfaces the degradation.
		slog.Warn("session cache degraded to memory", "err", err)
	}
	defer kv.Close()

	client := api.New(cfg.APIBaseURL)
	auth := session.New(kv, sealer, client)
	if auth.Initialize() {
		slog.Info("resuming session", "rol", auth.Role().String())
	}

	navctl := nav.NewController(auth.Role)

	app := ui.NewApp(cfg, auth, client, navctl)
	app.Run()
}
