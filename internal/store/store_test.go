package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	got, err := m.Entries(ctx, []string{"states"})
	require.NoError(t, err)
	assert.Empty(t, got)

	value := []byte(`[{"value":"bayern"}]`)
	require.NoError(t, m.Put(ctx, "states", value))
	value[0] = 'x'

	got, err = m.Entries(ctx, []string{"states", "taxClasses"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"states": []byte(`[{"value":"bayern"}]`)}, got)
}

func TestFileStoreMissingFile(t *testing.T) {
	f := NewFile(zap.NewNop(), filepath.Join(t.TempDir(), "rates.yaml"))

	got, err := f.Entries(context.Background(), []string{"states"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "rates.yaml")
	f := NewFile(zap.NewNop(), path)

	require.NoError(t, f.Put(ctx, "states", []byte(`[{"value":"bayern","label":"Bayern","churchTaxRate":8}]`)))
	require.NoError(t, f.Put(ctx, "taxSettings", []byte(`{"basicAllowance":11604.5,"singleParentAllowance":1308,"marriedAllowanceMultiplier":2}`)))

	got, err := f.Entries(ctx, []string{"states", "taxSettings", "infoSections"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.JSONEq(t, `[{"value":"bayern","label":"Bayern","churchTaxRate":8}]`, string(got["states"]))
	assert.JSONEq(t, `{"basicAllowance":11604.5,"singleParentAllowance":1308,"marriedAllowanceMultiplier":2}`, string(got["taxSettings"]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "churchTaxRate: 8")
}

func TestFileStoreReadsHandWrittenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
states:
  - value: berlin
    label: Berlin
    churchTaxRate: 9
`), 0o600))

	got, err := NewFile(zap.NewNop(), path).Entries(context.Background(), []string{"states"})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"value":"berlin","label":"Berlin","churchTaxRate":9}]`, string(got["states"]))
}

func TestFileStoreErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("states: [unclosed"), 0o600))
	f := NewFile(zap.NewNop(), path)

	_, err := f.Entries(context.Background(), []string{"states"})
	assert.Error(t, err)

	err = NewFile(zap.NewNop(), filepath.Join(t.TempDir(), "x.yaml")).Put(context.Background(), "states", []byte(`{`))
	assert.Error(t, err)
}

func TestFileStoreSectionWithoutJSONForm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
states:
  - value: bayern
    label: Bayern
    churchTaxRate: 9
infoSections:
  1: broken
`), 0o600))

	got, err := NewFile(zap.NewNop(), path).Entries(context.Background(), []string{"states", "infoSections"})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"value":"bayern","label":"Bayern","churchTaxRate":9}]`, string(got["states"]))

	var marker string
	require.NoError(t, json.Unmarshal(got["infoSections"], &marker))
	assert.Contains(t, marker, "unreadable value")
}

type configRows struct {
	rows    [][2]string
	idx     int
	scanErr error
	err     error
}

func (r *configRows) Close()                        {}
func (r *configRows) Err() error                    { return r.err }
func (r *configRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *configRows) FieldDescriptions() []pgconn.FieldDescription {
	return nil
}
func (r *configRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}
func (r *configRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	row := r.rows[r.idx-1]
	*(dest[0].(*string)) = row[0]
	*(dest[1].(*string)) = row[1]
	return nil
}
func (r *configRows) Values() ([]any, error) { return nil, nil }
func (r *configRows) RawValues() [][]byte    { return nil }
func (r *configRows) Conn() *pgx.Conn        { return nil }

type fakeQueryExecer struct {
	rows     *configRows
	queryErr error
	execErr  error

	lastSQL  string
	lastArgs []any
}

func (f *fakeQueryExecer) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.lastSQL = sql
	f.lastArgs = args
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.rows, nil
}

func (f *fakeQueryExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.lastSQL = sql
	f.lastArgs = args
	return pgconn.CommandTag{}, f.execErr
}

func TestPostgresEntries(t *testing.T) {
	q := &fakeQueryExecer{rows: &configRows{rows: [][2]string{
		{"states", `[{"value":"bayern"}]`},
		{"taxSettings", `{"basicAllowance": 1}`},
	}}}
	pg := NewPostgres(q)

	got, err := pg.Entries(context.Background(), []string{"states", "taxSettings"})
	require.NoError(t, err)
	assert.Equal(t, `[{"value":"bayern"}]`, string(got["states"]))
	assert.Len(t, got, 2)
	assert.Equal(t, []any{[]string{"states", "taxSettings"}}, q.lastArgs)
}

func TestPostgresEntriesErrors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("query", func(t *testing.T) {
		_, err := NewPostgres(&fakeQueryExecer{queryErr: boom}).Entries(context.Background(), nil)
		assert.ErrorIs(t, err, boom)
	})
	t.Run("scan", func(t *testing.T) {
		q := &fakeQueryExecer{rows: &configRows{rows: [][2]string{{"states", "[]"}}, scanErr: boom}}
		_, err := NewPostgres(q).Entries(context.Background(), nil)
		assert.ErrorIs(t, err, boom)
	})
	t.Run("rows", func(t *testing.T) {
		q := &fakeQueryExecer{rows: &configRows{err: boom}}
		_, err := NewPostgres(q).Entries(context.Background(), nil)
		assert.ErrorIs(t, err, boom)
	})
}

func TestPostgresPut(t *testing.T) {
	q := &fakeQueryExecer{}
	pg := NewPostgres(q)

	require.NoError(t, pg.Put(context.Background(), "states", []byte(`[]`)))
	assert.True(t, strings.Contains(q.lastSQL, "ON CONFLICT (key)"))
	assert.Equal(t, []any{"states", "[]"}, q.lastArgs)

	q.execErr = errors.New("read-only transaction")
	assert.Error(t, pg.Put(context.Background(), "states", []byte(`[]`)))
	assert.Error(t, pg.EnsureSchema(context.Background()))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, closeFn, err := Open(ctx, nil, Config{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)
	closeFn()

	path := filepath.Join(t.TempDir(), "r.yaml")
	s, _, err = Open(ctx, nil, Config{Driver: "File", Path: path})
	require.NoError(t, err)
	require.IsType(t, &File{}, s)
	assert.Equal(t, path, s.(*File).Path())

	t.Setenv("DATABASE_URL", "postgres://ignored/here")
	_, _, err = Open(ctx, nil, Config{Driver: "postgres"})
	assert.Error(t, err)

	_, _, err = Open(ctx, nil, Config{Driver: "redis"})
	assert.Error(t, err)
}
