package documents

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"autocontract/internal/models"
	"autocontract/internal/repository/spreadsheet"
	"autocontract/internal/services/registry"
)

type renderCall struct {
	template, output string
	values           map[string]string
}

type fakeRenderer struct {
	calls []renderCall
	err   error
}

func (f *fakeRenderer) Render(ctx context.Context, template, output string, values map[string]string) error {
	f.calls = append(f.calls, renderCall{template, output, values})
	return f.err
}

type fakeClients struct{}

func (fakeClients) List(ctx context.Context) ([]models.Client, error) { return nil, nil }
func (fakeClients) Append(ctx context.Context, c models.Client) (models.Client, error) {
	return c, nil
}
func (fakeClients) Update(ctx context.Context, c models.Client) error { return nil }

type fakeContracts struct {
	contracts []models.Contract
	appendErr error
}

func (f *fakeContracts) List(ctx context.Context) ([]models.Contract, error) {
	return f.contracts, nil
}
func (f *fakeContracts) Append(ctx context.Context, c models.Contract) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.contracts = append(f.contracts, c)
	return nil
}

type fakeJournal struct{ entries []models.JournalEntry }

func (f *fakeJournal) Record(ctx context.Context, e models.JournalEntry) error {
	f.entries = append(f.entries, e)
	return nil
}

type fakeArchive struct{ stored []string }

func (f *fakeArchive) Store(ctx context.Context, localPath string) (string, error) {
	f.stored = append(f.stored, localPath)
	return "s3://documents/" + filepath.Base(localPath), nil
}

var testNow = time.Date(2024, time.November, 5, 12, 0, 0, 0, time.Local)

func testClient() models.Client {
	return models.Client{
		ID:         7,
		LastName:   "Иванов",
		FirstName:  "Иван",
		MiddleName: "Иванович",
		CarModel:   "Lada Vesta",
		VIN:        "XTA21099043544404",
		PostIndex:  "123456",
		Address:    "г. Москва, ул. Ленина, д. 1",
		Passport:   "4510 123456",
		IssuedBy:   "ОВД Тверской",
		IssueDate:  "01.02.2010",
		DepCode:    "770-001",
		Phone:      "89991234567",
		BirthDate:  "03.04.1985",
		CreatedAt:  "01.11.2024",
	}
}

func newTestGenerator(r *fakeRenderer, contracts *fakeContracts) (*Generator, *fakeJournal, *fakeArchive) {
	n := registry.NewNumbering(fakeClients{}, contracts, "-ИП")
	g := NewGenerator(r, n, contracts, Settings{
		OutputDir:           "/out",
		ContractTemplate:    "/tpl/contract_template.docx",
		InvoiceTemplate:     "/tpl/invoice_template.docx",
		InvoiceCardTemplate: "/tpl/invoice_card_template.docx",
		AppName:             "AutoContractManager",
		Company:             Company{Name: "ИП Петров П.П.", INN: "123456789012", BankName: "Сбербанк"},
	})
	g.Now = func() time.Time { return testNow }
	j, a := &fakeJournal{}, &fakeArchive{}
	g.Journal, g.Archive = j, a
	return g, j, a
}

func TestGenerateContract(t *testing.T) {
	r := &fakeRenderer{}
	contracts := &fakeContracts{contracts: []models.Contract{
		{RegistryID: 1, FullName: "Петров Пётр Петрович", Number: "100-ИП"},
		{RegistryID: 2, FullName: "Сидоров Сидор Сидорович", Number: "105-ИП"},
	}}
	g, j, a := newTestGenerator(r, contracts)

	res, err := g.GenerateContract(context.Background(), testClient())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	wantPath := filepath.Join("/out", "Договор №106-ИП (Иванов Иван Иванович)_123456.docx")
	if res.Number != "106-ИП" || res.Path != wantPath || !res.Recorded {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(r.calls) != 1 || r.calls[0].template != "/tpl/contract_template.docx" || r.calls[0].output != wantPath {
		t.Fatalf("unexpected render calls: %+v", r.calls)
	}

	v := r.calls[0].values
	want := map[string]string{
		"NUM":       "106",
		"FULL_NUM":  "106-ИП",
		"DATE":      "05.11.2024",
		"FIO":       "Иванов Иван Иванович",
		"FULL_FIO":  "Иванов Иван Иванович",
		"SHORT_FIO": "Иванов И. И.",
		"CAR":       "Lada Vesta",
		"CAR_INFO":  "Lada Vesta (VIN XTA21099043544404)",
		"PHONE":     "+8 999 123-45-67",
		"DEP_CODE":  "770-001",
		"COMPANY":   "ИП Петров П.П.",
		"APP_NAME":  "AutoContractManager",
	}
	for k, w := range want {
		if v[k] != w {
			t.Fatalf("%s = %q, want %q", k, v[k], w)
		}
	}
	if len(v) != 19 {
		t.Fatalf("expected 19 placeholders, got %d", len(v))
	}

	if len(contracts.contracts) != 3 {
		t.Fatalf("expected registry append")
	}
	rec := contracts.contracts[2]
	if rec.RegistryID != 3 || rec.Number != "106-ИП" || rec.FullName != "Иванов Иван Иванович" || rec.Date != "05.11.2024" || rec.PostIndex != "123456" {
		t.Fatalf("unexpected registry row: %+v", rec)
	}

	if len(a.stored) != 1 || res.ArchivePath == "" {
		t.Fatalf("expected archived document, got %v", a.stored)
	}
	if len(j.entries) != 1 || j.entries[0].Status != "done" || j.entries[0].ContractNumber != "106-ИП" {
		t.Fatalf("unexpected journal: %+v", j.entries)
	}
}

type slowRenderer struct {
	mu      sync.Mutex
	outputs map[string]int
}

func (r *slowRenderer) Render(ctx context.Context, template, output string, values map[string]string) error {
	time.Sleep(20 * time.Millisecond)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs[output]++
	return nil
}

func TestGenerateContract_concurrentRequestsGetDistinctNumbers(t *testing.T) {
	ctx := context.Background()
	store := spreadsheet.NewContractsRepo(filepath.Join(t.TempDir(), "contracts_registry.xlsx"), "Registry")
	r := &slowRenderer{outputs: map[string]int{}}
	g := NewGenerator(r, registry.NewNumbering(fakeClients{}, store, "-ИП"), store, Settings{
		OutputDir:        "/out",
		ContractTemplate: "/tpl/contract_template.docx",
	})
	g.Now = func() time.Time { return testNow }

	const workers = 4
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := testClient()
			c.FirstName = fmt.Sprintf("Клиент%d", i)
			_, errs[i] = g.GenerateContract(ctx, c)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}

	rows, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list registry: %v", err)
	}
	if len(rows) != workers {
		t.Fatalf("expected %d registry rows, got %d", workers, len(rows))
	}
	numbers := map[string]bool{}
	ids := map[int]bool{}
	for _, row := range rows {
		if numbers[row.Number] || ids[row.RegistryID] {
			t.Fatalf("duplicate registry row id=%d number=%q", row.RegistryID, row.Number)
		}
		numbers[row.Number], ids[row.RegistryID] = true, true
	}
	for i := 0; i < workers; i++ {
		if want := fmt.Sprintf("%d-ИП", 101+i); !numbers[want] {
			t.Fatalf("missing contract number %q in %v", want, numbers)
		}
	}
	for out, n := range r.outputs {
		if n != 1 {
			t.Fatalf("output %q written %d times", out, n)
		}
	}
}

func TestGenerateContract_wildcardIndex(t *testing.T) {
	r := &fakeRenderer{}
	g, _, _ := newTestGenerator(r, &fakeContracts{})

	c := testClient()
	c.PostIndex = "12345*"
	res, err := g.GenerateContract(context.Background(), c)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if want := filepath.Join("/out", "Договор №101-ИП (Иванов Иван Иванович)_ИНДЕКС.docx"); res.Path != want {
		t.Fatalf("path = %q, want %q", res.Path, want)
	}
	if r.calls[0].values["INDEX"] != "12345*" {
		t.Fatalf("INDEX placeholder must keep the stored value")
	}
}

func TestGenerateContract_renderFailure(t *testing.T) {
	r := &fakeRenderer{err: errors.New("template not found")}
	contracts := &fakeContracts{}
	g, j, a := newTestGenerator(r, contracts)

	if _, err := g.GenerateContract(context.Background(), testClient()); err == nil {
		t.Fatalf("expected error")
	}
	if len(contracts.contracts) != 0 {
		t.Fatalf("registry must not change on failure")
	}
	if len(a.stored) != 0 {
		t.Fatalf("nothing must be archived on failure")
	}
	if len(j.entries) != 1 || j.entries[0].Status != "failed" {
		t.Fatalf("expected failed journal entry, got %+v", j.entries)
	}
}

func TestGenerateContract_registryAppendFailure(t *testing.T) {
	r := &fakeRenderer{}
	g, j, _ := newTestGenerator(r, &fakeContracts{appendErr: errors.New("file is locked")})

	res, err := g.GenerateContract(context.Background(), testClient())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Recorded {
		t.Fatalf("expected Recorded=false")
	}
	if j.entries[0].Status != "unrecorded" {
		t.Fatalf("unexpected journal status %q", j.entries[0].Status)
	}
}

func TestGenerateInvoice(t *testing.T) {
	cases := []struct {
		name, method, service string
		amount                int
		template, file        string
		label, text, desc     string
	}{
		{
			name: "card", method: MethodCard, service: ServiceSBKTS, amount: 32000,
			template: "/tpl/invoice_card_template.docx",
			file:     "Счёт НА КАРТУ № 101-ИП-001 от 05.11.2024 для Иванов Иван Иванович_123456.docx",
			label:    "НА КАРТУ", text: "Тридцать два тысяч", desc: "выпуску СБКТС + ЭПТС",
		},
		{
			name: "account", method: MethodAccount, service: ServiceScrap, amount: 1500,
			template: "/tpl/invoice_template.docx",
			file:     "Счёт№ 101-ИП-001 от 05.11.2024 для Иванов Иван Иванович_123456.docx",
			label:    "", text: "Число вне диапазона тысяч", desc: "списанию утильсбора",
		},
		{
			name: "unknown service", method: "cash", service: "other", amount: 150000,
			template: "/tpl/invoice_template.docx",
			file:     "Счёт№ 101-ИП-001 от 05.11.2024 для Иванов Иван Иванович_123456.docx",
			label:    "", text: "Число вне диапазона тысяч", desc: "услуге",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &fakeRenderer{}
			g, j, _ := newTestGenerator(r, &fakeContracts{})

			res, err := g.GenerateInvoice(context.Background(), InvoiceRequest{
				Client:         testClient(),
				ContractNumber: "101-ИП",
				Service:        tc.service,
				Amount:         tc.amount,
				Method:         tc.method,
			})
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			if res.Path != filepath.Join("/out", tc.file) || res.Number != "101-ИП-001" {
				t.Fatalf("unexpected result: %+v", res)
			}
			call := r.calls[0]
			if call.template != tc.template {
				t.Fatalf("template = %q, want %q", call.template, tc.template)
			}
			v := call.values
			if v["METHOD_LABEL"] != tc.label || v["AMOUNT_TEXT"] != tc.text || v["SERVICE"] != tc.desc {
				t.Fatalf("unexpected values: label=%q text=%q service=%q", v["METHOD_LABEL"], v["AMOUNT_TEXT"], v["SERVICE"])
			}
			if v["NUM"] != "101" || v["VERBOSE_DATE"] != "5 ноября 2024 г." || v["CONTRACT_REF"] != "101-ИП от 01.11.2024" {
				t.Fatalf("unexpected values: %v", v)
			}
			if v["CAR_INFO"] != "Lada Vesta_vin XTA21099043544404" || v["INN"] != "123456789012" {
				t.Fatalf("unexpected values: %v", v)
			}
			if len(v) != 20 {
				t.Fatalf("expected 20 placeholders, got %d", len(v))
			}
			if len(j.entries) != 1 || j.entries[0].Kind != models.JournalInvoice {
				t.Fatalf("unexpected journal: %+v", j.entries)
			}
		})
	}
}

func TestGenerateInvoice_rejectsBadInput(t *testing.T) {
	g, _, _ := newTestGenerator(&fakeRenderer{}, &fakeContracts{})
	ctx := context.Background()

	if _, err := g.GenerateInvoice(ctx, InvoiceRequest{Client: testClient(), ContractNumber: "101-ИП", Amount: 0}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := g.GenerateInvoice(ctx, InvoiceRequest{Client: testClient(), Amount: 1000}); !errors.Is(err, ErrNoContract) {
		t.Fatalf("expected ErrNoContract, got %v", err)
	}
}

func TestInvoiceContext_missingCreationDate(t *testing.T) {
	c := testClient()
	c.CreatedAt = ""
	ic := NewInvoiceContext(c, "101-ИП", "101", ServiceSBKTS, 32000, MethodAccount, testNow, Company{}, "₽")
	if ic.ContractRef != "101-ИП от __.__.____" || ic.AmountRub != "32000 ₽" {
		t.Fatalf("unexpected context: %+v", ic)
	}
}
