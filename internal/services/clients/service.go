package clients

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"autocontract/internal/models"
	"autocontract/internal/ports"
	"autocontract/internal/services/registry"
	"autocontract/internal/utils"
	"autocontract/internal/validators"
)

// Input is the operator-editable part of a client record.
type Input struct {
	LastName   string `json:"last_name"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	CarModel   string `json:"car_model"`
	VIN        string `json:"vin"`
	PostIndex  string `json:"post_index"`
	Address    string `json:"address"`
	Passport   string `json:"passport"`
	IssuedBy   string `json:"issued_by"`
	IssueDate  string `json:"issue_date"`
	DepCode    string `json:"dep_code"`
	Phone      string `json:"phone"`
	BirthDate  string `json:"birth_date"`
}

func (in Input) trimmed() Input {
	for _, p := range []*string{
		&in.LastName, &in.FirstName, &in.MiddleName, &in.CarModel, &in.VIN, &in.PostIndex,
		&in.Address, &in.Passport, &in.IssuedBy, &in.IssueDate, &in.DepCode, &in.Phone, &in.BirthDate,
	} {
		*p = strings.TrimSpace(*p)
	}
	return in
}

type Service struct {
	Clients   ports.ClientStore
	Numbering *registry.Numbering
	Journal   ports.Journal

	Now func() time.Time

	// mu covers ID allocation through the append.
	mu sync.Mutex
}

func NewService(clients ports.ClientStore, n *registry.Numbering) *Service {
	return &Service{Clients: clients, Numbering: n, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Find returns the first client whose VIN or name parts contain term,
// ignoring case.
func (s *Service) Find(ctx context.Context, term string) (models.Client, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return models.Client{}, ErrEmptyQuery
	}
	list, err := s.Clients.List(ctx)
	if err != nil {
		return models.Client{}, fmt.Errorf("find client: %w", err)
	}
	for _, c := range list {
		for _, field := range []string{c.VIN, c.LastName, c.FirstName, c.MiddleName} {
			if strings.Contains(strings.ToLower(field), term) {
				return c, nil
			}
		}
	}
	return models.Client{}, ErrNotFound
}

// Validate applies the field policy. With confirm set, advisory issues are
// dropped.
func Validate(in Input, confirm bool) error {
	in = in.trimmed()
	var issues []Issue
	hard := func(field, msg string) { issues = append(issues, Issue{Field: field, Message: msg}) }
	soft := func(field, msg string) {
		if !confirm {
			issues = append(issues, Issue{Field: field, Message: msg, Advisory: true})
		}
	}

	if in.CarModel == "" {
		hard("car_model", "обязательное поле")
	}
	switch {
	case in.VIN == "":
		hard("vin", "обязательное поле")
	case !validators.VIN(in.VIN):
		hard("vin", "неверный формат VIN: 17 символов A-Z, 0-9 без I, O, Q")
	}
	if in.PostIndex == "" {
		hard("post_index", "обязательное поле")
	}

	if in.Phone != "" && !validators.Phone(in.Phone) {
		soft("phone", "некорректный формат телефона")
	}
	if in.IssueDate != "" && !validators.Date(in.IssueDate) {
		soft("issue_date", "некорректная дата выдачи")
	}
	if in.BirthDate != "" && !validators.Date(in.BirthDate) {
		soft("birth_date", "некорректная дата рождения")
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// Save validates and appends a new client under the next free ID.
func (s *Service) Save(ctx context.Context, in Input, confirm bool) (models.Client, error) {
	if err := Validate(in, confirm); err != nil {
		return models.Client{}, err
	}
	c := fromInput(in.trimmed())
	c.CreatedAt = utils.FormatDate(s.now())

	s.mu.Lock()
	c.ID = s.Numbering.NextClientID(ctx)
	saved, err := s.Clients.Append(ctx, c)
	s.mu.Unlock()
	if err != nil {
		log.Printf("[CLIENT][ERR] save id=%d vin=%q: %v", c.ID, c.VIN, err)
		return models.Client{}, fmt.Errorf("save client: %w", err)
	}
	log.Printf("[CLIENT][CREATED] id=%d vin=%q row=%d", saved.ID, saved.VIN, saved.Row)
	s.journal(ctx, models.JournalClientCreated, saved)
	return saved, nil
}

// EditByVIN rewrites the row of the client with the given VIN in place.
// ID and creation date are kept.
func (s *Service) EditByVIN(ctx context.Context, vin string, in Input, confirm bool) (models.Client, error) {
	want := validators.NormalizeVIN(vin)
	if want == "" {
		return models.Client{}, ErrEmptyQuery
	}
	if err := Validate(in, confirm); err != nil {
		return models.Client{}, err
	}

	list, err := s.Clients.List(ctx)
	if err != nil {
		return models.Client{}, fmt.Errorf("edit client: %w", err)
	}
	idx := -1
	for i, c := range list {
		if validators.NormalizeVIN(c.VIN) == want {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Client{}, ErrNotFound
	}

	old := list[idx]
	c := fromInput(in.trimmed())
	c.ID, c.CreatedAt, c.Row = old.ID, old.CreatedAt, old.Row

	if err := s.Clients.Update(ctx, c); err != nil {
		log.Printf("[CLIENT][ERR] update id=%d row=%d: %v", c.ID, c.Row, err)
		return models.Client{}, fmt.Errorf("edit client: %w", err)
	}
	log.Printf("[CLIENT][UPDATED] id=%d vin=%q row=%d", c.ID, c.VIN, c.Row)
	s.journal(ctx, models.JournalClientUpdated, c)
	return c, nil
}

// ResolveInvoiceTarget accepts either a contract number (with or without the
// suffix) or a plain search term and returns the client to invoice together
// with the contract number.
func (s *Service) ResolveInvoiceTarget(ctx context.Context, term string) (models.Client, string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return models.Client{}, "", ErrEmptyQuery
	}
	number := s.Numbering.WithSuffix(term)

	name, found, err := s.Numbering.FindContract(ctx, number)
	if err != nil {
		return models.Client{}, "", fmt.Errorf("read contract registry: %w", err)
	}
	if found {
		last, _, _ := utils.ParseFullName(name)
		c, err := s.Find(ctx, last)
		return c, number, err
	}

	c, err := s.Find(ctx, term)
	return c, number, err
}

func (s *Service) CheckDuplicateContract(ctx context.Context, fullName string) bool {
	return s.Numbering.ContractExistsForName(ctx, fullName)
}

func fromInput(in Input) models.Client {
	c := models.Client{
		LastName:   in.LastName,
		FirstName:  in.FirstName,
		MiddleName: in.MiddleName,
		CarModel:   in.CarModel,
		VIN:        validators.NormalizeVIN(in.VIN),
		PostIndex:  in.PostIndex,
		Address:    in.Address,
		Passport:   in.Passport,
		IssuedBy:   in.IssuedBy,
		IssueDate:  in.IssueDate,
		DepCode:    in.DepCode,
		BirthDate:  in.BirthDate,
	}
	if in.Phone != "" {
		c.Phone, _ = utils.FormatPhone(in.Phone)
	}
	c.Folder = c.FolderLabel()
	return c
}

func (s *Service) journal(ctx context.Context, kind models.JournalKind, c models.Client) {
	if s.Journal == nil {
		return
	}
	err := s.Journal.Record(ctx, models.JournalEntry{
		Kind:      kind,
		ClientID:  c.ID,
		FullName:  c.FullName(),
		Operator:  ports.Operator(ctx),
		Status:    "done",
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		log.Printf("[CLIENT][WARN] journal %s id=%d: %v", kind, c.ID, err)
	}
}
