package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LodestoneLabs/lodestone/internal/blockchain"
	"github.com/LodestoneLabs/lodestone/internal/config"
	"github.com/LodestoneLabs/lodestone/internal/logging"
	"github.com/LodestoneLabs/lodestone/internal/render"
	"github.com/LodestoneLabs/lodestone/pkg/version"
)

// demoContents mirrors the canonical walkthrough: a short chain of four
// blocks on top of genesis.
var demoContents = []string{
	"This is an example of content. Our first block",
	"Blockchain is cool! This will be our second block",
	"Hello World. Third block!",
	"42. Fourth and final block",
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "version":
		runVersion()
	case "mine":
		os.Exit(runMine("mine", os.Args[2:], nil))
	case "demo":
		os.Exit(runMine("demo", os.Args[2:], demoContents))
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Print(`Lodestone ledger CLI

Usage:
  lodestone version
  lodestone mine [--difficulty N] [--quiet] <content> [<content> ...]
  lodestone demo [--difficulty N] [--quiet]

mine builds a fresh chain (genesis included), admits one block per content
argument in order, prints the chain, and verifies its integrity. demo does
the same with a fixed set of payloads. Exit status is 0 when verification
passes and 1 when it reports a violation.
`)
}

func runVersion() {
	v := version.Get()
	fmt.Printf("Lodestone\nVersion: %s\nCommit:  %s\nGo:      %s\nTarget:  %s\n",
		v.Version, v.Commit, v.GoVersion, v.Platform)
}

func runMine(name string, args []string, contents []string) int {
	parsed, err := config.ParseMineFlags(name, args)
	if err != nil {
		fail(err)
		return 2
	}
	cfg := parsed.Config

	if contents == nil {
		contents = parsed.Contents
		if len(contents) == 0 {
			usage()
			return 2
		}
	} else if len(parsed.Contents) > 0 {
		fail(fmt.Errorf("%s takes no content arguments", name))
		return 2
	}

	log := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	// Ctrl-C aborts the nonce search instead of killing the process
	// mid-append.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	chain, err := blockchain.New(ctx, cfg.Mining.Difficulty, log)
	if err != nil {
		fail(err)
		return 1
	}
	for _, content := range contents {
		if err := chain.Admit(ctx, blockchain.NewBlock(content)); err != nil {
			fail(err)
			return 1
		}
	}
	log.Info("chain assembled",
		"blocks", chain.Len(),
		"difficulty", chain.Difficulty(),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)

	if !cfg.Quiet {
		if err := render.Chain(os.Stdout, chain.Blocks()); err != nil {
			fail(err)
			return 1
		}
	}

	if err := chain.CheckIntegrity(); err != nil {
		log.Error("chain verification failed", "err", err)
		return 1
	}
	log.Info("chain verified", "blocks", chain.Len())
	return 0
}

func fail(err error) {
	_, _ = os.Stderr.WriteString("lodestone error: " + err.Error() + "\n")
}
