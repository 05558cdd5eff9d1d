// Package audit records escalation queries to an append-only JSONL trail.
//
// Records land in <output>/audit.jsonl next to whatever directory the
// registry policies configure. The trail can be read back for display and
// exported as JSON, CSV, or raw JSONL for reporting.
package audit

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/oscaar90/escalation-engine/internal/registry"
)

// LogFile is the name of the audit trail inside the output directory.
const LogFile = "audit.jsonl"

// Export formats understood by Export.
const (
	FormatJSON  = "json"
	FormatCSV   = "csv"
	FormatJSONL = "jsonl"
)

// Record is one line of the audit trail.
type Record struct {
	ID           string `json:"id"`
	Timestamp    string `json:"timestamp"`
	Action       string `json:"action"`
	Query        string `json:"query"`
	ResultLevels int    `json:"result_levels"`
	User         string `json:"user"`
	Hostname     string `json:"hostname"`
}

// csvHeader mirrors the Record field order.
var csvHeader = []string{"id", "timestamp", "action", "query", "result_levels", "user", "hostname"}

// Recorder appends query records to the configured audit trail. A disabled
// recorder swallows records without touching the filesystem, so callers can
// wire it unconditionally.
type Recorder struct {
	mu  sync.Mutex
	cfg registry.AuditConfig
}

// NewRecorder returns a recorder for the given audit policy.
func NewRecorder(cfg registry.AuditConfig) *Recorder {
	return &Recorder{cfg: cfg}
}

// Enabled reports whether records are being persisted.
func (r *Recorder) Enabled() bool {
	return r.cfg.Enabled
}

// LogPath returns the file this recorder appends to.
func (r *Recorder) LogPath() string {
	dir := r.cfg.Output
	if dir == "" {
		dir = registry.DefaultAuditOutput
	}
	return filepath.Join(dir, LogFile)
}

// Record appends one audit record. It is a no-op when auditing is disabled.
// Concurrent callers are serialized in-process by a mutex and across
// processes by a sidecar flock, so interleaved appends cannot tear lines.
func (r *Recorder) Record(action, query string, resultLevels int) error {
	if !r.cfg.Enabled {
		return nil
	}
	rec := Record{
		ID:           uuid.NewString(),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Action:       action,
		Query:        query,
		ResultLevels: resultLevels,
		User:         currentUser(),
		Hostname:     currentHostname(),
	}
	return r.append(rec)
}

func (r *Recorder) append(rec Record) error {
	path := r.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating audit dir: %w", err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling audit record: %w", err)
	}
	data = append(data, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()

	fileLock := flock.New(path + ".lock")
	if err := fileLock.Lock(); err != nil {
		return fmt.Errorf("locking audit log: %w", err)
	}
	defer func() { _ = fileLock.Unlock() }()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // G302: audit trail is non-sensitive operational data
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing audit record: %w", err)
	}
	return nil
}

// DefaultLogPath is the audit trail location when policies configure none.
func DefaultLogPath() string {
	return filepath.Join(registry.DefaultAuditOutput, LogFile)
}

// Read loads every record from the trail at path. A missing file yields an
// empty trail; blank lines are skipped; a malformed line fails the read with
// its line number.
func Read(path string) ([]Record, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is the user-chosen audit log
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("parsing audit log line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}
	return records, nil
}

// Export renders records in the given format: "json" is an indented array,
// "csv" carries a header row, anything else falls back to raw JSONL.
func Export(records []Record, format string) (string, error) {
	switch format {
	case FormatJSON:
		if records == nil {
			records = []Record{}
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshaling audit records: %w", err)
		}
		return string(data), nil

	case FormatCSV:
		if len(records) == 0 {
			return "", nil
		}
		var buf strings.Builder
		w := csv.NewWriter(&buf)
		if err := w.Write(csvHeader); err != nil {
			return "", fmt.Errorf("writing csv header: %w", err)
		}
		for _, rec := range records {
			row := []string{
				rec.ID,
				rec.Timestamp,
				rec.Action,
				rec.Query,
				strconv.Itoa(rec.ResultLevels),
				rec.User,
				rec.Hostname,
			}
			if err := w.Write(row); err != nil {
				return "", fmt.Errorf("writing csv row: %w", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return "", fmt.Errorf("flushing csv: %w", err)
		}
		return buf.String(), nil

	default:
		lines := make([]string, 0, len(records))
		for _, rec := range records {
			data, err := json.Marshal(rec)
			if err != nil {
				return "", fmt.Errorf("marshaling audit record: %w", err)
			}
			lines = append(lines, string(data))
		}
		return strings.Join(lines, "\n"), nil
	}
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}

func currentHostname() string {
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "unknown"
}
