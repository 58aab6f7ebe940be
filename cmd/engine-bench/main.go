// Command engine-bench measures how insertion and query cost scale with
// knowledge-base size, checking spec.md §8's "hash-lookup cost"
// assertion: per-activation time should grow sub-linearly, not
// proportionally, as the discrimination network fills in.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/oklog/ulid/v2"

	"github.com/syntreenet/engine/pkg/engine/audit"
	"github.com/syntreenet/engine/pkg/engine/audit/sqlitejournal"
	"github.com/syntreenet/engine/pkg/engine/grammars/triples"
	"github.com/syntreenet/engine/pkg/engine/kbase"
)

// growthBound is the maximum acceptable ratio between the per-fact
// average Tell time of two runs whose size doubled (spec.md §8: "< 1.25
// beyond an initial warm-up").
const growthBound = 1.25

func main() {
	var (
		sizesFlag   = flag.String("sizes", "1000,2000,4000,8000,16000", "comma-separated KB sizes to benchmark, must be doublings")
		journalPath = flag.String("journal", "", "SQLite journal path to append timing samples to (optional)")
		report      = flag.Bool("report", false, "after benchmarking, read the journal back and print every recorded entry (requires -journal)")
	)
	flag.Parse()

	sizes, err := parseSizes(*sizesFlag)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	var journal audit.Journal
	if *journalPath != "" {
		j, err := sqlitejournal.Open(ctx, *journalPath)
		if err != nil {
			log.Fatalf("open journal: %v", err)
		}
		defer j.Close()
		journal = j
	}

	var prevAvg time.Duration
	for i, n := range sizes {
		avg := benchmarkTell(n)
		fmt.Printf("size=%s  total_tell_time=%s  avg_per_fact=%s\n",
			humanize.Comma(int64(n)), avg.total, avg.per)

		recordSample(ctx, journal, n, avg.per)

		if i > 0 && prevAvg > 0 {
			ratio := float64(avg.per) / float64(prevAvg)
			verdict := "OK"
			if ratio > growthBound {
				verdict = "EXCEEDS BOUND"
			}
			fmt.Printf("  growth since previous size: %.2fx (bound %.2fx) — %s\n", ratio, growthBound, verdict)
		}
		prevAvg = avg.per
	}

	if *report {
		printReport(ctx, journal)
	}
}

// printReport reads every entry back out of journal and prints it with
// its timestamp rendered the way a human reading the report expects,
// e.g. "2026-08-06 14:03:05". Requires -journal; a nil journal is a
// usage error, not silently skipped, since -report without -journal has
// nothing to read.
func printReport(ctx context.Context, journal audit.Journal) {
	if journal == nil {
		log.Fatal("-report requires -journal")
	}
	entries, err := journal.Entries(ctx)
	if err != nil {
		log.Fatalf("read journal: %v", err)
	}
	fmt.Printf("journal report: %s entries\n", humanize.Comma(int64(len(entries))))
	for _, e := range entries {
		fmt.Printf("  %s  %-12s  %s\n", sqlitejournal.FormatTimestamp(e), e.Kind, e.Text)
	}
}

type telling struct {
	total time.Duration
	per   time.Duration
}

// benchmarkTell tells n disjoint ground facts ("item<k> is value<k>")
// into a fresh knowledge base and reports the total wall-clock cost and
// the average cost per activation actually dequeued. The facts are
// disjoint so no rule cascade inflates the timing with derivation work
// unrelated to insertion cost itself; one fact still means exactly one
// activation here, but the count comes from the engine's own
// SetActivationObserver callback rather than from n, so the average
// stays correct the day a benchmark scenario starts using rules too.
func benchmarkTell(n int) telling {
	kb := kbase.New(triples.Grammar{})

	seen := make(map[ulid.ULID]struct{}, n)
	kb.SetActivationObserver(func(id ulid.ULID) { seen[id] = struct{}{} })

	start := time.Now()
	for i := 0; i < n; i++ {
		fact := triples.New(
			triples.Word(fmt.Sprintf("item%d", i)),
			triples.Word("is"),
			triples.Word(fmt.Sprintf("value%d", i)),
		)
		if err := kb.Tell(fact); err != nil {
			log.Fatalf("tell: %v", err)
		}
	}
	total := time.Since(start)

	count := len(seen)
	if count == 0 {
		count = n
	}
	return telling{total: total, per: total / time.Duration(count)}
}

func recordSample(ctx context.Context, journal audit.Journal, size int, perFact time.Duration) {
	if journal == nil {
		return
	}
	text := fmt.Sprintf("size=%d avg_per_fact=%s", size, perFact)
	if _, err := journal.Record(ctx, audit.Entry{Kind: audit.KindBenchSample, Text: text, At: time.Now(), Duration: perFact}); err != nil {
		fmt.Fprintln(os.Stderr, "journal error:", err)
	}
}

func parseSizes(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	sizes := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid size %q: %w", p, err)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}
