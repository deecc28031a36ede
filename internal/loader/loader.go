package loader

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sdpower/cchistory/internal/types"
	"github.com/sirupsen/logrus"
)

const (
	logFileExt        = ".jsonl"
	initialLineBuffer = 64 * 1024
	maxLineSize       = 16 * 1024 * 1024
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999Z",
}

// Stats describes the most recent load.
type Stats struct {
	Projects     int
	FilesRead    int
	FilesSkipped int
	LinesSkipped int
	Records      int
}

// Loader reads the records of one day from a directory of per-project
// JSONL log files.
type Loader struct {
	root  string
	log   *logrus.Logger
	stats Stats
}

func New(root string) *Loader {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &Loader{
		root: root,
		log:  log,
	}
}

func (l *Loader) SetLogger(log *logrus.Logger) {
	if log != nil {
		l.log = log
	}
}

func (l *Loader) Root() string {
	return l.root
}

func (l *Loader) Stats() Stats {
	return l.stats
}

// LoadRecordsForDate returns every record whose timestamp starts with date,
// sorted by time. Only a missing root directory is an error; bad lines and
// unreadable files are skipped.
func (l *Loader) LoadRecordsForDate(ctx context.Context, date types.CalendarDate) ([]types.LogRecord, error) {
	l.stats = Stats{}

	root, err := l.resolveRoot()
	if err != nil {
		return nil, err
	}

	projects, err := os.ReadDir(root)
	if err != nil {
		return nil, types.ConfigurationError{Path: root, Err: err}
	}

	var records []types.LogRecord
	for _, project := range projects {
		if !project.IsDir() {
			continue
		}
		l.stats.Projects++
		projectPath := filepath.Join(root, project.Name())

		files, err := l.findLogFiles(projectPath)
		if err != nil {
			l.warn(types.FileReadError{Path: projectPath, Err: err})
			continue
		}

		for _, path := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			fileRecords, err := l.loadFile(path, date)
			if err != nil {
				l.stats.FilesSkipped++
				l.warn(err)
			} else {
				l.stats.FilesRead++
			}
			records = append(records, fileRecords...)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Time.Before(records[j].Time)
	})

	l.stats.Records = len(records)
	l.log.Debugf("Loaded %d records for %s from %d files in %d projects (%d files skipped, %d lines skipped)",
		l.stats.Records, date, l.stats.FilesRead, l.stats.Projects, l.stats.FilesSkipped, l.stats.LinesSkipped)

	return records, nil
}

func (l *Loader) resolveRoot() (string, error) {
	info, err := os.Stat(l.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", types.ConfigurationError{Path: l.root, Err: types.ErrProjectsDirNotFound}
		}
		return "", types.ConfigurationError{Path: l.root, Err: err}
	}
	if !info.IsDir() {
		return "", types.ConfigurationError{Path: l.root, Err: fmt.Errorf("%w: not a directory", types.ErrProjectsDirNotFound)}
	}

	// Accept the Claude config dir itself as well as its projects dir.
	projectsPath := filepath.Join(l.root, "projects")
	if info, err := os.Stat(projectsPath); err == nil && info.IsDir() {
		return projectsPath, nil
	}
	return l.root, nil
}

func (l *Loader) findLogFiles(projectPath string) ([]string, error) {
	entries, err := os.ReadDir(projectPath)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), logFileExt) {
			continue
		}
		files = append(files, filepath.Join(projectPath, entry.Name()))
	}
	return files, nil
}

// loadFile keeps whatever it parsed before a read failure.
func (l *Loader) loadFile(path string, date types.CalendarDate) ([]types.LogRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, types.FileReadError{Path: path, Err: err}
	}
	defer file.Close()

	var records []types.LogRecord
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, initialLineBuffer), maxLineSize)

	lineNum := 0
	parseErrors := 0
	var firstError error

	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		record, ok, err := parseLine(line, date)
		if err != nil {
			parseErrors++
			if firstError == nil {
				firstError = types.RecordParseError{Path: path, Line: lineNum, Err: err}
			}
			continue
		}
		if ok {
			records = append(records, record)
		}
	}

	l.stats.LinesSkipped += parseErrors
	if parseErrors > 0 {
		l.log.Debugf("File %s had %d parse errors, first: %v", filepath.Base(path), parseErrors, firstError)
	}

	if err := scanner.Err(); err != nil {
		return records, types.FileReadError{Path: path, Err: err}
	}
	return records, nil
}

// parseLine decodes one line. ok is false when the record is valid but
// belongs to another day.
func parseLine(line []byte, date types.CalendarDate) (types.LogRecord, bool, error) {
	var record types.LogRecord
	if err := json.Unmarshal(line, &record); err != nil {
		return types.LogRecord{}, false, err
	}
	if record.Timestamp == "" {
		return types.LogRecord{}, false, types.ValidationError{Field: "timestamp", Message: "missing"}
	}
	if !date.Matches(record.Timestamp) {
		return types.LogRecord{}, false, nil
	}

	t, err := parseTimestamp(record.Timestamp)
	if err != nil {
		return types.LogRecord{}, false, err
	}
	record.Time = t
	return record, true, nil
}

func parseTimestamp(ts string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, ts)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func (l *Loader) warn(err error) {
	l.log.WithError(err).Warn("skipping unreadable log source")
}
