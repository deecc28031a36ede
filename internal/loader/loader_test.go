package loader

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/sdpower/cchistory/internal/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = types.CalendarDate("2024-01-02")

func writeLog(t *testing.T, dir, project, name string, lines ...string) string {
	t.Helper()
	projectDir := filepath.Join(dir, project)
	require.NoError(t, os.MkdirAll(projectDir, 0o755))
	path := filepath.Join(projectDir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func userLine(id, ts string) string {
	return `{"parentUuid":null,"type":"user","uuid":"` + id + `","timestamp":"` + ts + `","cwd":"/w/p","message":{"role":"user","content":"hi"}}`
}

func ids(records []types.LogRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestLoadRecordsForDateSortsAcrossFiles(t *testing.T) {
	root := t.TempDir()
	writeLog(t, root, "alpha", "a.jsonl",
		userLine("a1", "2024-01-02T09:00:00Z"),
		userLine("a2", "2024-01-02T12:00:00Z"),
	)
	writeLog(t, root, "beta", "b.jsonl",
		userLine("b1", "2024-01-02T08:00:00.500Z"),
		userLine("b2", "2024-01-02T10:30:00Z"),
	)

	l := New(root)
	assert.Equal(t, root, l.Root())

	records, err := l.LoadRecordsForDate(context.Background(), day)
	require.NoError(t, err)

	assert.Equal(t, []string{"b1", "a1", "b2", "a2"}, ids(records))
	for i := 1; i < len(records); i++ {
		assert.False(t, records[i].Time.Before(records[i-1].Time))
	}
}

func TestLoadRecordsForDateKeepsEncounterOrderOnTies(t *testing.T) {
	root := t.TempDir()
	writeLog(t, root, "alpha", "a.jsonl",
		userLine("first", "2024-01-02T09:00:00Z"),
		userLine("second", "2024-01-02T09:00:00Z"),
	)

	records, err := New(root).LoadRecordsForDate(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, ids(records))
}

func TestLoadRecordsForDateFiltersByDatePrefix(t *testing.T) {
	root := t.TempDir()
	writeLog(t, root, "alpha", "a.jsonl",
		userLine("old", "2024-01-01T23:59:59Z"),
		userLine("hit", "2024-01-02T10:00:00Z"),
		userLine("new", "2024-01-03T00:00:00Z"),
	)

	l := New(root)
	records, err := l.LoadRecordsForDate(context.Background(), "2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"hit"}, ids(records))

	records, err = l.LoadRecordsForDate(context.Background(), "2024-01-03")
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, ids(records))
}

func TestLoadRecordsForDateSkipsMalformedLines(t *testing.T) {
	root := t.TempDir()
	writeLog(t, root, "alpha", "a.jsonl",
		userLine("v1", "2024-01-02T09:00:00Z"),
		`{"this is": not json`,
		"",
		userLine("v2", "2024-01-02T09:01:00Z"),
		`{"type":"user","uuid":"no-ts","message":{"content":"x"}}`,
		userLine("bad-ts", "2024-01-02 garbage"),
		userLine("v3", "2024-01-02T09:02:00Z"),
	)

	l := New(root)
	records, err := l.LoadRecordsForDate(context.Background(), day)
	require.NoError(t, err)

	assert.Equal(t, []string{"v1", "v2", "v3"}, ids(records))
	assert.Equal(t, 3, l.Stats().LinesSkipped)
	assert.Equal(t, 1, l.Stats().FilesRead)
}

func TestLoadRecordsForDateKeepsOddlyShapedRecords(t *testing.T) {
	root := t.TempDir()
	writeLog(t, root, "alpha", "a.jsonl",
		`{"parentUuid":"u1","type":"assistant","uuid":"a1","timestamp":"2024-01-02T09:00:01Z","message":{"role":"assistant","content":{"text":"odd"}}}`,
		`{"parentUuid":"a1","type":"assistant","uuid":"a2","timestamp":"2024-01-02T09:00:02Z","message":{"role":"assistant","content":[],"usage":{"input_tokens":5.0}}}`,
		`{"parentUuid":"a2","type":"assistant","uuid":"a3","timestamp":"2024-01-02T09:00:03Z","message":{"role":"assistant","content":[{"type":"text","text":"ok"}]}}`,
	)

	l := New(root)
	records, err := l.LoadRecordsForDate(context.Background(), day)
	require.NoError(t, err)

	assert.Equal(t, []string{"a1", "a2", "a3"}, ids(records))
	assert.Equal(t, 0, l.Stats().LinesSkipped)
	assert.Equal(t, 5, records[1].Message.Usage.InputTokens)
}

func TestLoadRecordsForDateIgnoresNonLogFiles(t *testing.T) {
	root := t.TempDir()
	writeLog(t, root, "alpha", "a.jsonl", userLine("kept", "2024-01-02T09:00:00Z"))
	writeLog(t, root, "alpha", "notes.txt", userLine("ignored", "2024-01-02T09:00:00Z"))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.jsonl"), []byte(userLine("stray", "2024-01-02T09:00:00Z")), 0o644))

	records, err := New(root).LoadRecordsForDate(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, ids(records))
}

func TestLoadRecordsForDateWarnsOnUnreadableFile(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced")
	}
	root := t.TempDir()
	writeLog(t, root, "alpha", "good.jsonl", userLine("ok", "2024-01-02T09:00:00Z"))
	bad := writeLog(t, root, "alpha", "locked.jsonl", userLine("locked", "2024-01-02T09:00:00Z"))
	require.NoError(t, os.Chmod(bad, 0o000))

	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	l := New(root)
	l.SetLogger(log)
	records, err := l.LoadRecordsForDate(context.Background(), day)
	require.NoError(t, err)

	assert.Equal(t, []string{"ok"}, ids(records))
	assert.Equal(t, 1, l.Stats().FilesSkipped)
	assert.Contains(t, buf.String(), "locked.jsonl")
}

func TestLoadRecordsForDateMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")

	_, err := New(root).LoadRecordsForDate(context.Background(), day)
	require.Error(t, err)

	var cfgErr types.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, root, cfgErr.Path)
	assert.True(t, errors.Is(err, types.ErrProjectsDirNotFound))
}

func TestLoadRecordsForDateRootIsFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(root, nil, 0o644))

	_, err := New(root).LoadRecordsForDate(context.Background(), day)
	assert.True(t, errors.Is(err, types.ErrProjectsDirNotFound))
}

func TestLoadRecordsForDateAcceptsConfigDir(t *testing.T) {
	configDir := t.TempDir()
	writeLog(t, filepath.Join(configDir, "projects"), "alpha", "a.jsonl", userLine("x", "2024-01-02T09:00:00Z"))

	records, err := New(configDir).LoadRecordsForDate(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, ids(records))
}

func TestLoadRecordsForDateEmptyRoot(t *testing.T) {
	records, err := New(t.TempDir()).LoadRecordsForDate(context.Background(), day)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoadRecordsForDateHonoursCancellation(t *testing.T) {
	root := t.TempDir()
	writeLog(t, root, "alpha", "a.jsonl", userLine("x", "2024-01-02T09:00:00Z"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(root).LoadRecordsForDate(ctx, day)
	assert.ErrorIs(t, err, context.Canceled)
}
