package auditfeed

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseRecordLine(t *testing.T) {
	t.Parallel()

	rec := parseRecordLine(`{"id":"a","timestamp":"2026-08-25T10:00:00Z","action":"resolve","query":"payments-api","result_levels":2,"user":"ana","hostname":"ops-01"}`)
	if rec == nil {
		t.Fatal("parseRecordLine returned nil for a valid line")
	}
	if rec.Action != "resolve" || rec.Query != "payments-api" || rec.ResultLevels != 2 {
		t.Errorf("unexpected record: %+v", rec)
	}

	if parseRecordLine("") != nil {
		t.Error("blank line should parse to nil")
	}
	if parseRecordLine("   ") != nil {
		t.Error("whitespace line should parse to nil")
	}
	if parseRecordLine("{not json") != nil {
		t.Error("malformed line should parse to nil")
	}
}

func TestSourceDeliversAppends(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "audit.jsonl")
	if err := os.WriteFile(path, []byte(`{"action":"resolve","query":"old"}`+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	source := NewSource(path)
	defer source.Close()

	// Give the tail loop a moment to open and seek past existing records.
	time.Sleep(250 * time.Millisecond)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(`{"action":"whois","query":"payments-api","result_levels":1}` + "\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	select {
	case rec := <-source.Records():
		if rec.Action != "whois" {
			t.Errorf("tailed record action = %q, want %q", rec.Action, "whois")
		}
		if rec.Query != "payments-api" {
			t.Errorf("tailed record query = %q, want %q", rec.Query, "payments-api")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for tailed record")
	}
}

func TestSourceWaitsForMissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "audit.jsonl")

	source := NewSource(path)
	defer source.Close()

	time.Sleep(250 * time.Millisecond)

	if err := os.WriteFile(path, []byte(`{"action":"resolve","query":"late","result_levels":2}`+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case rec := <-source.Records():
		if rec.Query != "late" {
			t.Errorf("tailed record query = %q, want %q", rec.Query, "late")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for record from late-created log")
	}
}

func TestSourceCloseClosesChannel(t *testing.T) {
	t.Parallel()

	source := NewSource(filepath.Join(t.TempDir(), "audit.jsonl"))
	if err := source.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	select {
	case _, ok := <-source.Records():
		if ok {
			t.Error("records channel should be closed after Close")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("records channel not closed after Close")
	}
}
