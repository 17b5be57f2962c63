// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/emberfi/ember/genesis"
	"github.com/emberfi/ember/log"
	"github.com/emberfi/ember/logdb"
	"github.com/emberfi/ember/lvldb"
)

func initLogger(ctx *cli.Context) {
	lvl := slog.LevelInfo
	switch ctx.Int(verbosityFlag.Name) {
	case 0:
		lvl = slog.LevelError + 4 // effectively off
	case 1:
		lvl = slog.LevelError
	case 2:
		lvl = slog.LevelWarn
	case 3:
		lvl = slog.LevelInfo
	default:
		lvl = slog.LevelDebug
	}
	// json output when piped into a collector
	if isatty.IsTerminal(os.Stderr.Fd()) {
		log.Init(os.Stderr, lvl)
	} else {
		log.InitJSON(os.Stderr, lvl)
	}
}

func selectGenesis(ctx *cli.Context) (*genesis.Config, error) {
	if path := ctx.String(genesisFlag.Name); path != "" {
		return genesis.LoadConfig(path)
	}
	return genesis.DevConfig(), nil
}

func makeDataDir(ctx *cli.Context) string {
	dir := ctx.String(dataDirFlag.Name)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		logger.Error("failed to create data dir", "dir", dir, "err", err)
		os.Exit(1)
	}
	return dir
}

func openDBs(dataDir string) (*lvldb.LevelDB, *logdb.LogDB, error) {
	mainDB, err := lvldb.New(filepath.Join(dataDir, "main.db"), lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 512,
	})
	if err != nil {
		return nil, nil, errors.WithMessage(err, "open main database")
	}
	evDB, err := logdb.New(filepath.Join(dataDir, "events.db"))
	if err != nil {
		mainDB.Close()
		return nil, nil, errors.WithMessage(err, "open event database")
	}
	return mainDB, evDB, nil
}

func openMemDBs() (*lvldb.LevelDB, *logdb.LogDB, error) {
	mainDB, err := lvldb.NewMem()
	if err != nil {
		return nil, nil, err
	}
	evDB, err := logdb.NewMem()
	if err != nil {
		return nil, nil, err
	}
	return mainDB, evDB, nil
}

func defaultDataDir() string {
	home := homeDir()
	if home == "" {
		return ""
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "org.emberfi.ember")
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "Ember")
	default:
		return filepath.Join(home, ".org.emberfi.ember")
	}
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return ""
}
