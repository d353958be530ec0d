package auditlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"spacecolony/internal/protocol"
	"spacecolony/internal/sim/colony"
)

const (
	filePrefix = "audit-"
	fileSuffix = ".jsonl.zst"
	hourLayout = "2006-01-02-15"
)

// Logger appends engine audit entries to one zstd JSONL file per UTC hour
// under dir. The hour is taken from each entry's At, so a session that
// spans an hour boundary splits across two files.
type Logger struct {
	dir string

	mu   sync.Mutex
	hour string
	f    *os.File
	zw   *zstd.Encoder
	enc  *json.Encoder
}

func New(dir string) *Logger {
	return &Logger{dir: dir}
}

// PathFor names the file holding entries stamped at.
func PathFor(dir string, at time.Time) string {
	return filepath.Join(dir, filePrefix+at.UTC().Format(hourLayout)+fileSuffix)
}

// WriteAudit appends e and flushes a zstd block so the line survives a
// crash before Close.
func (l *Logger) WriteAudit(e colony.AuditEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if hour := e.At.UTC().Format(hourLayout); hour != l.hour {
		if err := l.switchHour(e.At); err != nil {
			return err
		}
	}
	if err := l.enc.Encode(e); err != nil {
		return fmt.Errorf("audit seq %d: %w", e.Seq, err)
	}
	return l.zw.Flush()
}

// Close finishes the current file. It is safe to call more than once; a
// later WriteAudit reopens and appends a new zstd frame.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeFile()
}

func (l *Logger) switchHour(at time.Time) error {
	if err := l.closeFile(); err != nil {
		return err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(PathFor(l.dir, at), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	l.f, l.zw, l.enc = f, zw, json.NewEncoder(zw)
	l.hour = at.UTC().Format(hourLayout)
	return nil
}

func (l *Logger) closeFile() error {
	if l.f == nil {
		return nil
	}
	err := l.zw.Close()
	if cerr := l.f.Close(); err == nil {
		err = cerr
	}
	l.f, l.zw, l.enc, l.hour = nil, nil, nil, ""
	return err
}

// Files lists the audit files in dir, oldest hour first.
func Files(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, filePrefix+"*"+fileSuffix))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadFile decodes every entry of one audit file. Appending after a close
// produces concatenated zstd frames, which the decoder reads through.
func ReadFile(path string) ([]colony.AuditEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read decodes entries until EOF. An entry carrying a result code this
// build does not know is an error.
func Read(r io.Reader) ([]colony.AuditEntry, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []colony.AuditEntry
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var e colony.AuditEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return out, fmt.Errorf("audit line %d: %w", len(out)+1, err)
		}
		if !protocol.IsKnownCode(e.Code) {
			return out, fmt.Errorf("audit line %d: unknown result code %q", len(out)+1, e.Code)
		}
		out = append(out, e)
	}
	return out, sc.Err()
}
