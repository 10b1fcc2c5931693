// Copyright 2021 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ChainSafe/singleton/dot"

	log "github.com/ChainSafe/log15"
	"github.com/urfave/cli"
)

var (
	// BasePathFlag is the directory holding the chain database
	BasePathFlag = cli.StringFlag{
		Name:  "basepath",
		Usage: "Data directory for the node",
	}
	// AuthorityFlag enables block authoring
	AuthorityFlag = cli.BoolFlag{
		Name:  "authority",
		Usage: "Author blocks with the well-known block authority key",
	}
	// FinalityGadgetFlag enables the finality gadget as an observer
	FinalityGadgetFlag = cli.BoolFlag{
		Name:  "finality-gadget",
		Usage: "Run the finality gadget, applying gossiped justifications",
	}
	// FinalityGadgetValidatorFlag enables the finality gadget as the attester
	FinalityGadgetValidatorFlag = cli.BoolFlag{
		Name:  "finality-gadget-validator",
		Usage: "Run the finality gadget with the well-known finality authority key",
	}
	// LogFlag sets the global log level
	LogFlag = cli.StringFlag{
		Name:  "log",
		Usage: "Global log level, one of crit, error, warn, info, debug, trace",
		Value: "info",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "singleton"
	app.Usage = "Single-authority devnet node"
	app.Action = runNode
	app.Flags = []cli.Flag{
		BasePathFlag,
		AuthorityFlag,
		FinalityGadgetFlag,
		FinalityGadgetValidatorFlag,
		LogFlag,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runNode(ctx *cli.Context) error {
	lvl, err := log.LvlFromString(ctx.GlobalString(LogFlag.Name))
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	log.Root().SetHandler(log.LvlFilterHandler(lvl, log.StdoutHandler))

	cfg := dot.DefaultConfig()
	if basepath := ctx.GlobalString(BasePathFlag.Name); basepath != "" {
		cfg.BasePath = basepath
		cfg.InMemory = false
	}
	cfg.Authority = ctx.GlobalBool(AuthorityFlag.Name)
	cfg.FinalityGadget = ctx.GlobalBool(FinalityGadgetFlag.Name)
	cfg.FinalityGadgetValidator = ctx.GlobalBool(FinalityGadgetValidatorFlag.Name)
	cfg.LogLevel = ctx.GlobalString(LogFlag.Name)

	node, err := dot.NewNode(cfg)
	if err != nil {
		return fmt.Errorf("creating node: %w", err)
	}

	if err := node.Start(); err != nil {
		return fmt.Errorf("starting node: %w", err)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	return node.Stop()
}
