package registry

import (
	"context"
	"log"
	"strconv"
	"strings"

	"autocontract/internal/ports"
)

const (
	DefaultSuffix = "-ИП"

	// firstContract is returned when the registry holds no usable number.
	firstContract = 101
)

// Numbering hands out client IDs, registry IDs and contract numbers. It keeps
// no state: every call rescans the stores, because the workbooks may be edited
// by hand between calls. Read failures fall back to the first value instead
// of blocking the operator, so the returned numbers are advisory.
type Numbering struct {
	Clients   ports.ClientStore
	Contracts ports.ContractStore
	Suffix    string
}

func NewNumbering(clients ports.ClientStore, contracts ports.ContractStore, suffix string) *Numbering {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return &Numbering{Clients: clients, Contracts: contracts, Suffix: suffix}
}

func (n *Numbering) NextClientID(ctx context.Context) int {
	clients, err := n.Clients.List(ctx)
	if err != nil {
		log.Printf("[REGISTRY][WARN] read clients: %v, fallback id=1", err)
		return 1
	}
	last := 0
	for _, c := range clients {
		last = max(last, c.ID)
	}
	return last + 1
}

func (n *Numbering) NextRegistryID(ctx context.Context) int {
	contracts, err := n.Contracts.List(ctx)
	if err != nil {
		log.Printf("[REGISTRY][WARN] read registry: %v, fallback id=1", err)
		return 1
	}
	last := 0
	for _, c := range contracts {
		last = max(last, c.RegistryID)
	}
	return last + 1
}

func (n *Numbering) NextContractNumber(ctx context.Context) string {
	contracts, err := n.Contracts.List(ctx)
	if err != nil {
		log.Printf("[REGISTRY][WARN] read registry: %v, fallback %s", err, n.FirstContractNumber())
		return n.FirstContractNumber()
	}

	last, found := 0, false
	for _, c := range contracts {
		v, ok := n.ParseContractNumber(c.Number)
		if !ok {
			if strings.TrimSpace(c.Number) != "" {
				log.Printf("[REGISTRY][WARN] skip malformed contract number %q", c.Number)
			}
			continue
		}
		if !found || v > last {
			last, found = v, true
		}
	}
	if !found {
		return n.FirstContractNumber()
	}
	return n.Format(last + 1)
}

func (n *Numbering) FirstContractNumber() string { return n.Format(firstContract) }

func (n *Numbering) Format(v int) string { return strconv.Itoa(v) + n.Suffix }

// ParseContractNumber extracts N from "N-ИП". Numbers start at 1; zero and
// negative values are treated as malformed.
func (n *Numbering) ParseContractNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, n.Suffix) {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(s, n.Suffix)))
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}

// TrimSuffix returns the bare number of a contract ("101-ИП" -> "101").
func (n *Numbering) TrimSuffix(number string) string {
	return strings.TrimSuffix(strings.TrimSpace(number), n.Suffix)
}

// WithSuffix appends the suffix to a bare number typed by the operator.
func (n *Numbering) WithSuffix(number string) string {
	number = strings.TrimSpace(number)
	if strings.Contains(number, n.Suffix) {
		return number
	}
	return number + n.Suffix
}

// ContractExistsForName reports an exact match of the trimmed full name.
// Internal whitespace is significant.
func (n *Numbering) ContractExistsForName(ctx context.Context, fullName string) bool {
	contracts, err := n.Contracts.List(ctx)
	if err != nil {
		log.Printf("[REGISTRY][WARN] read registry for duplicate check: %v, assume none", err)
		return false
	}
	want := strings.TrimSpace(fullName)
	for _, c := range contracts {
		if strings.TrimSpace(c.FullName) == want {
			return true
		}
	}
	return false
}

// FindContract looks a contract up by its full number.
func (n *Numbering) FindContract(ctx context.Context, number string) (string, bool, error) {
	contracts, err := n.Contracts.List(ctx)
	if err != nil {
		return "", false, err
	}
	number = strings.TrimSpace(number)
	for _, c := range contracts {
		if strings.TrimSpace(c.Number) == number {
			return c.FullName, true, nil
		}
	}
	return "", false, nil
}
