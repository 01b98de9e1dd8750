package registry

import (
	"context"
	"errors"
	"testing"

	"autocontract/internal/models"
)

type fakeClients struct {
	clients []models.Client
	err     error
}

func (f *fakeClients) List(ctx context.Context) ([]models.Client, error) { return f.clients, f.err }
func (f *fakeClients) Append(ctx context.Context, c models.Client) (models.Client, error) {
	f.clients = append(f.clients, c)
	return c, nil
}
func (f *fakeClients) Update(ctx context.Context, c models.Client) error { return nil }

type fakeContracts struct {
	contracts []models.Contract
	err       error
}

func (f *fakeContracts) List(ctx context.Context) ([]models.Contract, error) {
	return f.contracts, f.err
}
func (f *fakeContracts) Append(ctx context.Context, c models.Contract) error {
	f.contracts = append(f.contracts, c)
	return nil
}

func contracts(numbers ...string) *fakeContracts {
	f := &fakeContracts{}
	for i, n := range numbers {
		f.contracts = append(f.contracts, models.Contract{RegistryID: i + 1, Number: n})
	}
	return f
}

func TestNextClientID(t *testing.T) {
	ctx := context.Background()
	store := &fakeClients{}
	n := NewNumbering(store, &fakeContracts{}, "")

	if got := n.NextClientID(ctx); got != 1 {
		t.Fatalf("empty store: got %d want 1", got)
	}
	for i := 1; i <= 5; i++ {
		if _, err := store.Append(ctx, models.Client{ID: n.NextClientID(ctx)}); err != nil {
			t.Fatal(err)
		}
		if got := n.NextClientID(ctx); got != i+1 {
			t.Fatalf("after %d inserts: got %d", i, got)
		}
	}

	store.clients = append(store.clients, models.Client{ID: 0})
	if got := n.NextClientID(ctx); got != 6 {
		t.Fatalf("unparseable id must be ignored: got %d", got)
	}
}

func TestNextClientID_readErrorFailsOpen(t *testing.T) {
	n := NewNumbering(&fakeClients{err: errors.New("locked")}, &fakeContracts{}, "")
	if got := n.NextClientID(context.Background()); got != 1 {
		t.Fatalf("got %d want 1", got)
	}
}

func TestNextContractNumber(t *testing.T) {
	ctx := context.Background()
	orders := [][]string{
		{"100-ИП", "105-ИП", "99-ИП"},
		{"99-ИП", "100-ИП", "105-ИП"},
		{"105-ИП", "abc-ИП", "99-ИП", "100-ИП", "", "107", "-ИП"},
	}
	for _, o := range orders {
		n := NewNumbering(&fakeClients{}, contracts(o...), "-ИП")
		if got := n.NextContractNumber(ctx); got != "106-ИП" {
			t.Fatalf("%v: got %q want 106-ИП", o, got)
		}
	}
}

func TestNextContractNumber_fallbacks(t *testing.T) {
	ctx := context.Background()

	n := NewNumbering(&fakeClients{}, contracts(), "-ИП")
	if got := n.NextContractNumber(ctx); got != "101-ИП" {
		t.Fatalf("empty registry: got %q", got)
	}

	n = NewNumbering(&fakeClients{}, contracts("abc-ИП", "x"), "-ИП")
	if got := n.NextContractNumber(ctx); got != "101-ИП" {
		t.Fatalf("only malformed: got %q", got)
	}

	n = NewNumbering(&fakeClients{}, contracts("-5-ИП", "0-ИП"), "-ИП")
	if got := n.NextContractNumber(ctx); got != "101-ИП" {
		t.Fatalf("only non-positive: got %q", got)
	}

	n = NewNumbering(&fakeClients{}, contracts("-5-ИП", "7-ИП"), "-ИП")
	if got := n.NextContractNumber(ctx); got != "8-ИП" {
		t.Fatalf("negative mixed with valid: got %q", got)
	}

	n = NewNumbering(&fakeClients{}, &fakeContracts{err: errors.New("corrupt")}, "-ИП")
	if got := n.NextContractNumber(ctx); got != "101-ИП" {
		t.Fatalf("read error: got %q", got)
	}
}

func TestNextRegistryID(t *testing.T) {
	ctx := context.Background()
	if got := NewNumbering(&fakeClients{}, contracts(), "").NextRegistryID(ctx); got != 1 {
		t.Fatalf("empty: got %d", got)
	}
	if got := NewNumbering(&fakeClients{}, contracts("101-ИП", "102-ИП", "103-ИП"), "").NextRegistryID(ctx); got != 4 {
		t.Fatalf("three rows: got %d", got)
	}
	if got := NewNumbering(&fakeClients{}, &fakeContracts{err: errors.New("x")}, "").NextRegistryID(ctx); got != 1 {
		t.Fatalf("read error: got %d", got)
	}
}

func TestContractExistsForName(t *testing.T) {
	ctx := context.Background()
	store := &fakeContracts{}
	n := NewNumbering(&fakeClients{}, store, "")

	if n.ContractExistsForName(ctx, "Иванов Иван Иванович") {
		t.Fatalf("empty registry must not match")
	}

	store.contracts = []models.Contract{{FullName: "Иванов  Иван Иванович"}}
	if n.ContractExistsForName(ctx, "Иванов Иван Иванович") {
		t.Fatalf("extra internal whitespace must not match")
	}

	store.contracts = append(store.contracts, models.Contract{FullName: "  Иванов Иван Иванович "})
	if !n.ContractExistsForName(ctx, "Иванов Иван Иванович") {
		t.Fatalf("leading/trailing whitespace must match")
	}
	if n.ContractExistsForName(ctx, "Иванов Иван") {
		t.Fatalf("partial name must not match")
	}

	n = NewNumbering(&fakeClients{}, &fakeContracts{err: errors.New("x")}, "")
	if n.ContractExistsForName(ctx, "Иванов Иван Иванович") {
		t.Fatalf("read error must be permissive")
	}
}

func TestContractNumberHelpers(t *testing.T) {
	n := NewNumbering(&fakeClients{}, &fakeContracts{}, "")
	if got := n.WithSuffix(" 101 "); got != "101-ИП" {
		t.Fatalf("WithSuffix = %q", got)
	}
	if got := n.WithSuffix("101-ИП"); got != "101-ИП" {
		t.Fatalf("WithSuffix keeps suffix: %q", got)
	}
	if got := n.TrimSuffix("101-ИП"); got != "101" {
		t.Fatalf("TrimSuffix = %q", got)
	}
	if v, ok := n.ParseContractNumber(" 42 -ИП"); !ok || v != 42 {
		t.Fatalf("ParseContractNumber = %d %v", v, ok)
	}
	for _, s := range []string{"-5-ИП", "0-ИП"} {
		if v, ok := n.ParseContractNumber(s); ok {
			t.Fatalf("ParseContractNumber(%q) = %d, want rejected", s, v)
		}
	}
}
