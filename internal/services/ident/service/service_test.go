package service

import (
	"context"
	"errors"
	"testing"

	"gutlog/internal/modkit/repokit"
	perr "gutlog/internal/platform/errors"
	"gutlog/internal/services/ident/domain"
)

type fakeRepo struct {
	byHash map[string]string
	err    error

	lastHash string
}

func (f *fakeRepo) UserIDForToken(_ context.Context, hash string) (string, bool, error) {
	f.lastHash = hash
	if f.err != nil {
		return "", false, f.err
	}
	uid, ok := f.byHash[hash]
	return uid, ok, nil
}

type fakeBinder struct{ r *fakeRepo }

func (b fakeBinder) Bind(repokit.Queryer) domain.Repo { return b.r }

type noopTx struct{ repokit.Queryer }

func (noopTx) Tx(ctx context.Context, fn func(repokit.Queryer) error) error { return fn(nil) }

func TestVerify(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{byHash: map[string]string{
		domain.HashToken("tok-good"): "user-1",
	}}
	svc := New(noopTx{}, fakeBinder{r: repo})

	id, err := svc.Verify(ctx, "tok-good")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.UserID != "user-1" {
		t.Fatalf("user: %q", id.UserID)
	}
	if repo.lastHash == "tok-good" {
		t.Fatal("raw token must not reach the repo")
	}

	if _, err := svc.Verify(ctx, "tok-unknown"); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("unknown token: %v", err)
	}
	if _, err := svc.Verify(ctx, ""); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("empty token: %v", err)
	}

	repo.err = errors.New("db down")
	if _, err := svc.Verify(ctx, "tok-good"); err == nil || perr.IsCode(err, perr.ErrorCodeUnauthorized) {
		t.Fatalf("storage failure must propagate as-is, got %v", err)
	}
}
