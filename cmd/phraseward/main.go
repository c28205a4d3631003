// Copyright 2026 The Phraseward Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the phrase-correction engine server and CLI [DBG]
application.

Phraseward watches a stream of key events, assembles words into sliding
phrase windows and suggests corrections from an operator-supplied
keyword list. Matching merges three strategies (prefix, word overlap,
edit similarity) over a Patricia-trie backed index. It can operate as a
MessagePack IPC server for integration with keyboard hooks and
suggestion surfaces, or as a CLI application for testing and debugging.

# Usage

Start the server with default settings:

	phraseward

Use a custom keyword list and enable debug mode:

	phraseward -keywords /path/to/keywords.txt -d

Run in CLI mode for interactive testing:

	phraseward -c

The keyword file is plain UTF-8 text with one phrase per line, exactly
as it should be suggested. A missing or unreadable file is logged and
the engine runs with an empty index until a reload succeeds.

# Configuration

Runtime configuration is managed through a TOML file with documented
defaults; unknown keys are ignored:

	[match]
	max_suggestions = 10
	min_suggestions = 3
	min_similarity = 0.5
	enable_partial_matching = true

	[input]
	phrase_window_size = 10
	min_phrase_length = 5
	max_phrase_length = 60
	recent_phrases_size = 50

	[session]
	suggestion_timeout_ms = 8000

The config file is automatically created with defaults if it doesn't
exist.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Key events
flow in, suggestion and apply events flow out; see pkg/server for the
message catalogue.

	{"id": "req1", "op": "key", "k": "a"}
	{"ev": "suggestion", "id": "01J...", "p": "theyre acount", "s": ["their account"], "c": 1}

# CLI Mode

CLI mode replays typed lines through the real keystroke state machine
and prints ranked candidates, which makes it the quickest way to try
keyword lists and threshold changes before wiring up a client.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mkarren/phraseward/internal/cli"
	"github.com/mkarren/phraseward/internal/logger"
	"github.com/mkarren/phraseward/internal/utils"
	"github.com/mkarren/phraseward/pkg/config"
	"github.com/mkarren/phraseward/pkg/keywords"
	"github.com/mkarren/phraseward/pkg/server"
)

const (
	Version = "0.3.0"
	AppName = "phraseward"
	gh      = "https://github.com/mkarren/phraseward"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	keywordFile := flag.String("keywords", "keywords.txt", "Keyword phrase list, one phrase per line")
	configFile := flag.String("config", "", "Custom config.toml path")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	configPath := *configFile
	if configPath == "" {
		configPath, err = pathResolver.GetConfigPath("config.toml")
		if err != nil {
			log.Fatalf("Failed to determine config path: (%v)", err)
		}
	}
	log.Debugf("Using config file: (%s)", configPath)

	appConfig, err := config.InitConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	keywordPath, err := pathResolver.ResolveKeywordsFile(*keywordFile)
	if err != nil {
		log.Warnf("Keyword file not found at %s, starting with an empty index", *keywordFile)
	}
	source := keywords.NewSource(keywordPath)
	if err := source.Reload(); err != nil {
		log.Warnf("Keyword load failed: %v. Running with empty index...", err)
	}

	if *cliMode {
		log.SetReportTimestamp(false)
		inputHandler := cli.NewInputHandler(appConfig, source)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(appConfig, source)

	showStartupInfo(keywordPath, source.Index().Size())

	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// printVersion renders the styled version banner.
func printVersion() {
	banner := logger.New("")

	styles := log.DefaultStyles()

	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ Phraseward ] Watches your typing and suggests phrase corrections!")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(keywordPath string, phraseCount int) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	fmt.Fprintln(os.Stderr, "============")
	fmt.Fprintln(os.Stderr, " Phraseward ")
	fmt.Fprintln(os.Stderr, "============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("keywords: ( %s )", utils.GetAbsolutePath(keywordPath))
	log.Infof("indexed phrases: %d", phraseCount)
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "============")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
