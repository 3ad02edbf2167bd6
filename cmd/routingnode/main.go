// Package main provides the command-line entry point for a standalone
// routing node: it generates a fresh identity, starts a TCP
// connection manager, bootstraps into an existing overlay when seeds are
// given, and drives the node's dispatch loop until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/routingnode/connmgr"
	"github.com/opd-ai/routingnode/identity"
	"github.com/opd-ai/routingnode/internal/demoapp"
	"github.com/opd-ai/routingnode/node"
)

// CLIConfig holds command-line configuration for a routing node process.
type CLIConfig struct {
	listenAddr string
	bootstrap  string
	groupSize  int
	tickPeriod time.Duration
	logLevel   string
	help       bool
}

func parseCLIFlags() *CLIConfig {
	config := &CLIConfig{}

	flag.StringVar(&config.listenAddr, "listen", "0.0.0.0:0", "TCP address to listen on")
	flag.StringVar(&config.bootstrap, "bootstrap", "", "comma-separated seed endpoints to bootstrap from")
	flag.IntVar(&config.groupSize, "group-size", 32, "close-group size")
	flag.DurationVar(&config.tickPeriod, "tick", 20*time.Millisecond, "dispatch-loop tick period")
	flag.StringVar(&config.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.BoolVar(&config.help, "help", false, "show help message")

	flag.Parse()
	return config
}

func printUsage() {
	fmt.Println("Routing Node")
	fmt.Println("============")
	fmt.Println()
	fmt.Println("Standalone Kademlia-style DHT routing node.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s [options]\n", os.Args[0])
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
}

func applyLogLevel(level string) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logrus.SetLevel(parsed)
	return nil
}

func setupSignalHandling(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	go func() {
		sig := <-sigChan
		logrus.WithField("signal", sig.String()).Info("received interrupt signal, shutting down")
		cancel()
	}()
}

func main() {
	os.Exit(run())
}

func run() int {
	config := parseCLIFlags()

	if config.help {
		printUsage()
		return 0
	}

	if err := applyLogLevel(config.logLevel); err != nil {
		logrus.WithError(err).Error("configuration error")
		return 1
	}

	pmid, err := identity.GeneratePmid()
	if err != nil {
		logrus.WithError(err).Error("failed to generate identity")
		return 1
	}
	defer pmid.Wipe()

	conn := connmgr.NewTCPConnectionManager()
	defer conn.Close()

	listenEndpoint, err := conn.StartListening(config.listenAddr)
	if err != nil {
		logrus.WithError(err).Error("failed to start listening")
		return 1
	}
	logrus.WithFields(logrus.Fields{
		"self":     pmid.Name().String()[:16] + "...",
		"endpoint": listenEndpoint.String(),
	}).Info("routing node listening")

	opts := node.NewOptions()
	opts.GroupSize = config.groupSize

	app := demoapp.New()
	n := node.New(pmid, conn, app, opts)
	n.SetEndpoints([]string{listenEndpoint.String()}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandling(cancel)

	if config.bootstrap != "" {
		seeds := strings.Split(config.bootstrap, ",")
		if err := n.Bootstrap(seeds); err != nil {
			logrus.WithError(err).Error("bootstrap failed")
			return 1
		}
	}

	ticker := time.NewTicker(config.tickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("routing node stopped")
			return 0
		case <-ticker.C:
			if err := n.Run(); err != nil {
				logrus.WithError(err).Warn("dispatch tick error")
			}
		}
	}
}
