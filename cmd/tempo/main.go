package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tempo/internal/replay"
	"tempo/internal/report"
	"tempo/internal/scenario"
)

const (
	ExitSuccess           = 0
	ExitExpectationFailed = 1
	ExitError             = 2
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to YAML scenario file (required)")
	output := flag.String("output", "text", "output format: text, json")
	pace := flag.Int("pace", 0, "replay steps per second (0 = replay instantly)")
	flag.Parse()

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "error: --scenario is required")
		flag.Usage()
		os.Exit(ExitError)
	}

	if *output != "text" && *output != "json" {
		fmt.Fprintf(os.Stderr, "error: --output must be 'text' or 'json', got %q\n", *output)
		os.Exit(ExitError)
	}

	sc, err := scenario.Load(*scenarioPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, stopping replay...")
		cancel()
	}()

	result, err := replay.Run(ctx, sc, replay.Options{StepsPerSec: *pace})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}

	rep := report.New(result)

	doc, err := rep.JSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}
	checks, err := report.Check(doc, sc.Expect)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}

	if *output == "json" {
		if err := report.WriteJSON(os.Stdout, rep); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(ExitError)
		}
	} else {
		report.WriteText(os.Stdout, rep)
		report.WriteChecks(os.Stdout, checks)
	}

	if !report.AllPassed(checks) {
		if *output == "text" {
			fmt.Fprintln(os.Stderr, "\nExpectation check failed!")
		}
		os.Exit(ExitExpectationFailed)
	}

	os.Exit(ExitSuccess)
}
