package auditfeed

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"

	"github.com/oscaar90/escalation-engine/internal/audit"
)

// pollInterval is how often the tail loop checks the log for appends.
const pollInterval = 100 * time.Millisecond

// Source tails an audit log file, delivering records appended after
// the source was opened. Records already in the file are the caller's
// to load; the source only streams what arrives later.
type Source struct {
	path    string
	records chan audit.Record
	cancel  context.CancelFunc
}

// NewSource starts tailing the audit log at path. The file may not
// exist yet; it is picked up on a later poll once something writes it.
func NewSource(path string) *Source {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Source{
		path:    path,
		records: make(chan audit.Record, 100),
		cancel:  cancel,
	}

	go s.tail(ctx)

	return s
}

// tail follows the file and sends parsed records. A bufio.Reader
// drives the loop rather than a Scanner: Scanner latches EOF and
// would never see appends on later polls.
func (s *Source) tail(ctx context.Context) {
	defer close(s.records)

	var file *os.File
	var reader *bufio.Reader
	var partial strings.Builder

	if f, err := os.Open(s.path); err == nil {
		_, _ = f.Seek(0, io.SeekEnd)
		file = f
		reader = bufio.NewReader(f)
	}
	defer func() {
		if file != nil {
			_ = file.Close()
		}
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if file == nil {
				f, err := os.Open(s.path)
				if err != nil {
					continue
				}
				// The log appeared after tailing started, so every
				// line in it is new. No seek.
				file = f
				reader = bufio.NewReader(f)
			}

			for {
				chunk, err := reader.ReadString('\n')
				if len(chunk) > 0 && !strings.HasSuffix(chunk, "\n") {
					// Mid-line append in flight. Stash and retry next poll.
					partial.WriteString(chunk)
					break
				}
				if err != nil {
					break
				}

				line := partial.String() + chunk
				partial.Reset()

				if rec := parseRecordLine(line); rec != nil {
					select {
					case s.records <- *rec:
					default:
						// Drop if the viewer is behind.
					}
				}
			}
		}
	}
}

// Records returns the channel of tailed records. It is closed when
// the source is closed.
func (s *Source) Records() <-chan audit.Record {
	return s.records
}

// Close stops tailing.
func (s *Source) Close() error {
	s.cancel()
	return nil
}

// parseRecordLine parses one JSONL line, skipping blanks and garbage.
func parseRecordLine(line string) *audit.Record {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	var rec audit.Record
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return nil
	}
	return &rec
}
