package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	perr "gutlog/internal/platform/errors"
)

type cmdTag struct {
	s string
	n int64
}

func (c cmdTag) String() string      { return c.s }
func (c cmdTag) RowsAffected() int64 { return c.n }

type fakeRowQuerier struct {
	lastExecSQL string
	lastExecArg []any
	execTag     CommandTag
	execErr     error

	queryRows Rows
	queryErr  error

	scanVal int
	scanErr error
}

func (f *fakeRowQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	f.lastExecSQL = sql
	f.lastExecArg = args
	return f.execTag, f.execErr
}

func (f *fakeRowQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return f.queryRows, f.queryErr
}

func (f *fakeRowQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return &fakeRow{val: f.scanVal, err: f.scanErr}
}

type fakeRow struct {
	val int
	err error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) > 0 {
		if p, ok := dest[0].(*int); ok {
			*p = r.val
		}
	}
	return nil
}

// fakeRows serves pre-baked int rows
type fakeRows struct {
	vals []int
	pos  int
	err  error
}

func (r *fakeRows) Next() bool { return r.pos < len(r.vals) }
func (r *fakeRows) Scan(dest ...any) error {
	if len(dest) > 0 {
		if p, ok := dest[0].(*int); ok {
			*p = r.vals[r.pos]
		}
	}
	r.pos++
	return nil
}
func (r *fakeRows) Err() error        { return r.err }
func (r *fakeRows) Close()            {}
func (r *fakeRows) Columns() []string { return []string{"n"} }

func TestExecOne(t *testing.T) {
	ctx := context.Background()

	q := &fakeRowQuerier{execTag: cmdTag{s: "UPDATE 1", n: 1}}
	if err := ExecOne(ctx, q, "UPDATE t SET x = $1", 7); err != nil {
		t.Fatalf("ExecOne: %v", err)
	}
	if q.lastExecSQL != "UPDATE t SET x = $1" {
		t.Fatalf("sql passthrough: %q", q.lastExecSQL)
	}

	q = &fakeRowQuerier{execTag: cmdTag{s: "UPDATE 0", n: 0}}
	if err := ExecOne(ctx, q, "UPDATE t SET x = $1", 7); !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on zero rows, got %v", err)
	}

	q = &fakeRowQuerier{execTag: cmdTag{s: "UPDATE 2", n: 2}}
	if err := ExecOne(ctx, q, "UPDATE t SET x = $1", 7); err == nil {
		t.Fatal("expected error on 2 rows affected")
	}
}

func TestScalar(t *testing.T) {
	ctx := context.Background()

	q := &fakeRowQuerier{scanVal: 42}
	got, err := Scalar[int](ctx, q, "SELECT 42")
	if err != nil {
		t.Fatalf("Scalar: %v", err)
	}
	if got != 42 {
		t.Fatalf("got %d want 42", got)
	}

	boom := errors.New("boom")
	q = &fakeRowQuerier{scanErr: boom}
	if _, err := Scalar[int](ctx, q, "SELECT 42"); !errors.Is(err, boom) {
		t.Fatalf("expected scan error, got %v", err)
	}
}

func TestOne(t *testing.T) {
	ctx := context.Background()
	scan := func(r Row) (int, error) {
		var n int
		err := r.Scan(&n)
		return n, err
	}

	q := &fakeRowQuerier{queryRows: &fakeRows{vals: []int{9}}}
	got, err := One(ctx, q, scan, "SELECT n FROM t")
	if err != nil {
		t.Fatalf("One: %v", err)
	}
	if got != 9 {
		t.Fatalf("got %d want 9", got)
	}

	q = &fakeRowQuerier{queryRows: &fakeRows{}}
	if _, err := One(ctx, q, scan, "SELECT n FROM t"); !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty set, got %v", err)
	}

	q = &fakeRowQuerier{queryRows: &fakeRows{vals: []int{1, 2}}}
	if _, err := One(ctx, q, scan, "SELECT n FROM t"); err == nil {
		t.Fatal("expected error on multiple rows")
	}
}

func TestMany(t *testing.T) {
	ctx := context.Background()
	scan := func(r Row) (int, error) {
		var n int
		err := r.Scan(&n)
		return n, err
	}

	q := &fakeRowQuerier{queryRows: &fakeRows{vals: []int{1, 2, 3}}}
	got, err := Many(ctx, q, scan, "SELECT n FROM t")
	if err != nil {
		t.Fatalf("Many: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("got %v", got)
	}

	q = &fakeRowQuerier{queryRows: &fakeRows{}}
	got, err = Many(ctx, q, scan, "SELECT n FROM t")
	if err != nil {
		t.Fatalf("Many empty: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}
