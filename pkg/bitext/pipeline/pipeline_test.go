package pipeline

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/cognicore/bitext/pkg/bitext/dedup"
	"github.com/cognicore/bitext/pkg/bitext/record"
)

func numbered(n int) []record.Record {
	out := make([]record.Record, n)
	for i := range out {
		out[i] = record.NewPair(fmt.Sprintf("src %d", i), fmt.Sprintf("trg %d", i))
	}
	return out
}

func TestApplyCleanPreservesOrder(t *testing.T) {
	batch := numbered(1000)
	upper := Cleaner("upper", func(r record.Record) record.Record { return r.Map(strings.ToUpper) })

	out, err := Apply(context.Background(), upper, batch, 8)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out) != len(batch) {
		t.Fatalf("clean stage changed batch size: %d -> %d", len(batch), len(out))
	}
	for i := range out {
		if out[i].Text != strings.ToUpper(batch[i].Text) {
			t.Fatalf("record %d out of order: %q", i, out[i].Text)
		}
	}
	if batch[0].Text != "src 0" {
		t.Error("input batch was modified")
	}
}

func TestApplyFilterPreservesOrder(t *testing.T) {
	batch := numbered(1000)
	even := Filter("even", func(r record.Record) bool {
		var n int
		fmt.Sscanf(r.Text, "src %d", &n)
		return n%2 == 0
	})

	for _, workers := range []int{1, 4, 16} {
		out, err := Apply(context.Background(), even, batch, workers)
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if len(out) != 500 {
			t.Fatalf("workers=%d: expected 500 records, got %d", workers, len(out))
		}
		for i, r := range out {
			if want := fmt.Sprintf("src %d", 2*i); r.Text != want {
				t.Fatalf("workers=%d: position %d has %q, want %q", workers, i, r.Text, want)
			}
		}
	}
}

func TestApplyDedup(t *testing.T) {
	batch := []record.Record{
		record.NewPair("unique", "unique"),
		record.NewPair("non-unique", "non-unique"),
		record.NewPair("non-unique", "non-unique"),
		record.NewPair("1", "1"),
		record.NewPair("2", "2"),
		record.NewPair("non-unique", "non-unique"),
	}

	out, err := Apply(context.Background(), Dedup("pair_dedup", dedup.New(dedup.Pair)), batch, 4)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := []string{"unique", "non-unique", "1", "2"}
	if !reflect.DeepEqual(record.Texts(out), want) {
		t.Errorf("got %v, want %v", record.Texts(out), want)
	}
}

func TestApplyZeroStage(t *testing.T) {
	if _, err := Apply(context.Background(), Stage{Name: "broken", Kind: KindFilter}, numbered(1), 1); err == nil {
		t.Error("stage without implementation should fail")
	}
}

func TestRunDefaultEmptyBatch(t *testing.T) {
	p := New(Default(), Options{})

	out, rep, err := p.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty output, got %d records", len(out))
	}
	if len(rep.Stages) != 6 {
		t.Errorf("every stage should report, got %d", len(rep.Stages))
	}
}

func TestDefaultStageOrder(t *testing.T) {
	var names []string
	for _, s := range Default() {
		names = append(names, s.Name)
	}
	want := []string{
		"whitespace_cleaner",
		"source_dedup",
		"length_filter",
		"length_ratio_filter",
		"long_word_filter",
		"diacritics_cleaner",
	}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("got %v, want %v", names, want)
	}
}

func TestRunDefault(t *testing.T) {
	batch := []record.Record{
		record.NewPair("Das  ist   ein schöner Satz hier.", "This is a nice sentence here."),
		record.NewPair("Das ist ein schöner Satz hier.", "Duplicate source, other target."),
		record.NewPair("Zu kurz.", "Too short."),
		record.NewPair("Ein Satz mit genau sechs Wörtern.", "One two."),
		record.NewPair("Ein Satz mit einem Wort das viel zu lang ist Donaudampfschifffahrtsgesellschaftskapitaen.", "A sentence with one word that is far too long here."),
		record.NewPair("Häuser und Bäume stehen am Fluss.", "Houses and trees stand by the river."),
	}

	out, rep, err := New(Default(), Options{Workers: 4}).Run(context.Background(), batch)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{
		"Das ist ein schoner Satz hier.",
		"Hauser und Baume stehen am Fluss.",
	}
	if !reflect.DeepEqual(record.Texts(out), want) {
		t.Errorf("got %v, want %v", record.Texts(out), want)
	}
	if rep.Input != 6 || rep.Output != 2 {
		t.Errorf("report counts: in=%d out=%d", rep.Input, rep.Output)
	}
	if rep.Stages[1].Dropped() != 1 {
		t.Errorf("dedup should drop one record, dropped %d", rep.Stages[1].Dropped())
	}
}

func TestRunStopsBetweenStages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	first := Cleaner("cancel", func(r record.Record) record.Record {
		calls++
		cancel()
		return r
	})
	second := Filter("never", func(record.Record) bool {
		t.Error("second stage should not run after cancellation")
		return true
	})

	_, rep, err := New([]Stage{first, second}, Options{Workers: 1}).Run(ctx, numbered(3))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 3 {
		t.Errorf("first stage should finish the whole batch, ran %d times", calls)
	}
	if len(rep.Stages) != 1 {
		t.Errorf("expected one completed stage, got %d", len(rep.Stages))
	}
}

func TestWithParamsCopies(t *testing.T) {
	params := map[string]string{"k": "v"}
	s := Filter("f", func(record.Record) bool { return true }).WithParams(params)
	params["k"] = "changed"
	if s.Params["k"] != "v" {
		t.Error("stage params should not alias the caller's map")
	}
}
