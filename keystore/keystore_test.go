package keystore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/easymix/export"
	"github.com/viant/easymix/question"
)

func TestDetectDriver(t *testing.T) {
	var testCases = []struct {
		dsn    string
		driver string
		ok     bool
	}{
		{dsn: "postgres://u:p@localhost/exams", driver: Postgres, ok: true},
		{dsn: "mysql://u:p@tcp(localhost:3306)/exams", driver: MySQL, ok: true},
		{dsn: "u:p@tcp(localhost:3306)/exams", driver: MySQL, ok: true},
		{dsn: "/var/lib/easymix/keys.db", driver: SQLite, ok: true},
		{dsn: "file:keys.sqlite", driver: SQLite, ok: true},
		{dsn: "keys", ok: false},
	}
	for _, testCase := range testCases {
		t.Run(testCase.dsn, func(t *testing.T) {
			driver, ok := DetectDriver(testCase.dsn)
			assert.Equal(t, testCase.ok, ok)
			assert.Equal(t, testCase.driver, driver)
		})
	}
}

func TestEnsurePragmas(t *testing.T) {
	assert.Equal(t, ":memory:", EnsurePragmas(":memory:", 5000))
	assert.Equal(t, "keys.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", EnsurePragmas("keys.db", 5000))
	assert.Equal(t, "keys.db?_pragma=journal_mode(WAL)", EnsurePragmas("keys.db?_pragma=journal_mode(WAL)", 0))
}

func TestRebind(t *testing.T) {
	assert.Equal(t, "a = $1 AND b = $2", rebind(Postgres, "a = ? AND b = ?"))
	assert.Equal(t, "a = ?", rebind(SQLite, "a = ?"))
}

func TestStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, "", filepath.Join(t.TempDir(), "keys.db"))
	require.NoError(t, err)
	defer s.Close()

	runID := NewRunID()
	records := []export.QuestionExport{
		{Version: "101", Number: 1, Type: question.MultipleChoice, Answer: "C"},
		{Version: "000", Number: 2, Type: question.MultipleChoice, Answer: "A"},
		{Version: "000", Number: 1, Type: question.MultipleChoice, Answer: "B"},
		{Version: "000", Number: 1, Type: question.Essay, Answer: "x = 2", Points: "1,5", Content: "x = 2"},
	}
	require.NoError(t, s.Save(ctx, runID, records))
	require.NoError(t, s.Save(ctx, NewRunID(), records[:1]))

	loaded, err := s.Load(ctx, runID)
	require.NoError(t, err)
	require.Len(t, loaded, 4)
	assert.Equal(t, "000", loaded[0].Version)
	assert.Equal(t, question.Essay, loaded[0].Type)
	assert.Equal(t, "1,5", loaded[0].Points)
	assert.Equal(t, "B", loaded[1].Answer)
	assert.Equal(t, "A", loaded[2].Answer)
	assert.Equal(t, "101", loaded[3].Version)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	versions := map[string]int{}
	for _, run := range runs {
		versions[run.ID] = run.Versions
	}
	assert.Equal(t, 2, versions[runID])

	assert.Error(t, s.Save(ctx, runID, records[:1]), "a run cannot record a question twice")
}
