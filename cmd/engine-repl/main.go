// Command engine-repl is a tiny interactive shell over a knowledge
// base: tell it facts and rules, query it, and inspect what it knows.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/syntreenet/engine/pkg/engine/audit"
	"github.com/syntreenet/engine/pkg/engine/audit/sqlitejournal"
	"github.com/syntreenet/engine/pkg/engine/config"
	"github.com/syntreenet/engine/pkg/engine/grammars/triples"
	"github.com/syntreenet/engine/pkg/engine/kbase"
)

func main() {
	var (
		rulesPath   = flag.String("rules", "", "rule file to load before entering the shell (optional)")
		journalPath = flag.String("journal", "", "SQLite journal path; every tell is recorded here (optional)")
	)
	flag.Parse()

	ctx := context.Background()

	kb, err := buildKB(*rulesPath)
	if err != nil {
		log.Fatal(err)
	}

	var journal audit.Journal
	if *journalPath != "" {
		j, err := sqlitejournal.Open(ctx, *journalPath)
		if err != nil {
			log.Fatalf("open journal: %v", err)
		}
		defer j.Close()
		journal = j
	}

	interactive := isatty.IsTerminal(os.Stdin.Fd())
	if interactive {
		fmt.Println("engine-repl — tell/query/facts/rules/missing/quit")
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print("> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := runCommand(ctx, kb, journal, line); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}
}

func buildKB(rulesPath string) (*kbase.KnowledgeBase, error) {
	if rulesPath == "" {
		return kbase.New(triples.Grammar{}), nil
	}
	loader := config.Loader{RuleFilePath: rulesPath}
	return loader.Load()
}

func runCommand(ctx context.Context, kb *kbase.KnowledgeBase, journal audit.Journal, line string) error {
	switch {
	case line == "quit" || line == "exit":
		os.Exit(0)
	case line == "facts":
		for _, f := range kb.Facts() {
			fmt.Println(f.String())
		}
		return nil
	case line == "rules":
		for _, r := range kb.Rules() {
			fmt.Println(r.Key())
		}
		return nil
	case strings.HasPrefix(line, "missing "):
		return runMissing(kb, strings.TrimSpace(line[len("missing "):]))
	case strings.HasPrefix(line, "query "):
		return runQuery(kb, strings.TrimSpace(line[len("query "):]))
	case strings.HasPrefix(line, "tell "):
		return runTell(ctx, kb, journal, strings.TrimSpace(line[len("tell "):]))
	default:
		return runTell(ctx, kb, journal, line)
	}
	return nil
}

func runTell(ctx context.Context, kb *kbase.KnowledgeBase, journal audit.Journal, text string) error {
	start := time.Now()
	if strings.Contains(text, "->") {
		rule, err := triples.ParseRule(text)
		if err != nil {
			return err
		}
		if err := kb.Tell(rule); err != nil {
			return err
		}
		recordTell(ctx, journal, audit.KindRule, text, start)
		return nil
	}

	fact, err := triples.ParseSentence(text)
	if err != nil {
		return err
	}
	if err := kb.Tell(fact); err != nil {
		return err
	}
	recordTell(ctx, journal, audit.KindFact, text, start)
	return nil
}

func recordTell(ctx context.Context, journal audit.Journal, kind audit.EntryKind, text string, start time.Time) {
	if journal == nil {
		return
	}
	if _, err := journal.Record(ctx, audit.Entry{Kind: kind, Text: text, At: start, Duration: time.Since(start)}); err != nil {
		fmt.Fprintln(os.Stderr, "journal error:", err)
	}
}

func runQuery(kb *kbase.KnowledgeBase, text string) error {
	pattern, err := triples.ParseSentence(text)
	if err != nil {
		return err
	}
	matches := kb.Query(pattern)
	if len(matches) == 0 {
		fmt.Println("no matches")
		return nil
	}
	for _, m := range matches {
		fmt.Printf("%s  %s\n", m.Payload.String(), m.Assignment.String())
	}
	return nil
}

func runMissing(kb *kbase.KnowledgeBase, text string) error {
	goal, err := triples.ParseSentence(text)
	if err != nil {
		return err
	}
	reports := kb.WhatsMissing(goal)
	if len(reports) == 0 {
		fmt.Println("no rule has a premise matching this goal")
		return nil
	}
	for _, r := range reports {
		if len(r.Missing) == 0 {
			fmt.Printf("%s — no other premise missing\n", r.Rule.Key())
			continue
		}
		fmt.Printf("%s — missing:\n", r.Rule.Key())
		for _, m := range r.Missing {
			fmt.Printf("  %s\n", m.String())
		}
	}
	return nil
}
