// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/emberfi/ember/admin"
	"github.com/emberfi/ember/api"
	"github.com/emberfi/ember/genesis"
	"github.com/emberfi/ember/log"
	"github.com/emberfi/ember/logdb"
	"github.com/emberfi/ember/lvldb"
	"github.com/emberfi/ember/metrics"
	"github.com/emberfi/ember/runtime"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Ember",
		Usage:     "Node of the Ember token network",
		Copyright: "2026 The Ember developers",
		Flags: []cli.Flag{
			genesisFlag,
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			verbosityFlag,
			enableAPILogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			pprofFlag,
			skipLogsFlag,
			memFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	var (
		mainDB *lvldb.LevelDB
		evDB   *logdb.LogDB
	)
	if ctx.Bool(memFlag.Name) {
		mainDB, evDB, err = openMemDBs()
	} else {
		mainDB, evDB, err = openDBs(makeDataDir(ctx))
	}
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	defer func() { logger.Info("closing event database..."); evDB.Close() }()

	rt, err := runtime.New(mainDB, evDB)
	if err != nil {
		return err
	}
	if err := genesis.Build(rt, gene); err != nil {
		return err
	}

	apiHandler := api.New(rt, evDB, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		PprofOn:         ctx.Bool(pprofFlag.Name),
		SkipLogs:        ctx.Bool(skipLogsFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
	})

	exitCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	group, groupCtx := errgroup.WithContext(exitCtx)
	group.Go(func() error {
		return serve(groupCtx, "API", ctx.String(apiAddrFlag.Name), apiHandler)
	})
	if ctx.Bool(enableMetricsFlag.Name) {
		group.Go(func() error {
			return serve(groupCtx, "metrics", ctx.String(metricsAddrFlag.Name), metrics.HTTPHandler())
		})
	}
	if ctx.Bool(enableAdminFlag.Name) {
		group.Go(func() error {
			return serve(groupCtx, "admin", ctx.String(adminAddrFlag.Name), admin.HTTPHandler())
		})
	}

	printStartupMessage(gene, rt, ctx)
	return group.Wait()
}

// serve runs an http server until ctx is done, then drains it.
func serve(ctx context.Context, name, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler}
	errChan := make(chan error, 1)
	go func() {
		logger.Info(name+" server started", "addr", addr)
		errChan <- srv.ListenAndServe()
	}()
	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("stopping " + name + " server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func printStartupMessage(gene *genesis.Config, rt *runtime.Runtime, ctx *cli.Context) {
	fmt.Printf(`Starting %v
    Network      [ %v (%v) ]
    Data dir     [ %v ]
    Block number [ %v ]
    API portal   [ http://%v/ ]
`,
		"Ember "+fullVersion(),
		gene.Token.Name, gene.Token.Symbol,
		ctx.String(dataDirFlag.Name),
		rt.BlockNum(),
		ctx.String(apiAddrFlag.Name),
	)
}
