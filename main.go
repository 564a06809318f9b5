// chatkit TUI - a terminal chat client with first-class @-mentions.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatkit-tui/internal/config"
	"github.com/jeranaias/chatkit-tui/internal/directory"
	"github.com/jeranaias/chatkit-tui/internal/model"
	"github.com/jeranaias/chatkit-tui/internal/session"
	"github.com/jeranaias/chatkit-tui/internal/storage"
	"github.com/jeranaias/chatkit-tui/internal/ui/chat"
	"github.com/jeranaias/chatkit-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("chatkit %s (%s)\n", Version, GitCommit)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chatkit: %v\n", err)
		os.Exit(1)
	}

	dbPath, err := cfg.StoragePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chatkit: %v\n", err)
		os.Exit(1)
	}
	store, err := storage.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chatkit: failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := seedIfEmpty(store); err != nil {
		fmt.Fprintf(os.Stderr, "chatkit: failed to seed store: %v\n", err)
		os.Exit(1)
	}

	draftPath, err := cfg.DraftPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chatkit: %v\n", err)
		os.Exit(1)
	}
	drafts, err := session.NewDraftStore(draftPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chatkit: failed to load drafts: %v\n", err)
		os.Exit(1)
	}

	dir := directory.NewService(store, directory.ServiceConfig{
		FetchTimeout: time.Duration(cfg.Directory.FetchTimeoutMs) * time.Millisecond,
		RatePerSec:   cfg.Directory.RatePerSec,
		Burst:        cfg.Directory.Burst,
	})

	self := model.User{ID: "self", Nickname: os.Getenv("USER"), IsOnline: true}
	if self.Nickname == "" {
		self.Nickname = "you"
	}

	theme := styles.NewTheme()
	m := chat.New(cfg, theme, self, store, drafts, dir)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, opts...)

	// Hot-reload mention limits and UI toggles on config file changes.
	if path, err := config.ConfigPath(); err == nil {
		if watcher, err := config.NewWatcher(path, func(next *config.Config) {
			p.Send(chat.ConfigReloadedMsg{Config: next})
		}); err == nil {
			if err := watcher.Watch(); err == nil {
				defer watcher.Close()
			}
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "chatkit: %v\n", err)
		os.Exit(1)
	}

	// Last flush so a half-written draft survives the quit.
	if err := drafts.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "chatkit: failed to save drafts: %v\n", err)
	}
}

// seedIfEmpty populates a fresh store with a demo workspace, so the first
// run has channels to open and members to mention.
func seedIfEmpty(store *storage.Store) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	channels, err := store.Channels(ctx)
	if err != nil {
		return err
	}
	if len(channels) > 0 {
		return nil
	}

	members := []model.User{
		{ID: "u-alice", Nickname: "alice", IsOnline: true},
		{ID: "u-bob", Nickname: "bob", IsOnline: true},
		{ID: "u-carol", Nickname: "carol"},
		{ID: "u-dave", Nickname: "dave"},
	}
	for _, u := range members {
		if err := store.UpsertMember(ctx, u); err != nil {
			return err
		}
	}

	for _, name := range []string{"general", "random", "dev"} {
		ch := model.NewChannel(name)
		if err := store.SaveChannel(ctx, ch); err != nil {
			return err
		}
		if name == "general" {
			welcome := model.NewMessage(ch.ID, members[0],
				"welcome to chatkit! type @ to mention someone", nil)
			if err := store.SaveMessage(ctx, welcome); err != nil {
				return err
			}
		}
	}
	return nil
}
