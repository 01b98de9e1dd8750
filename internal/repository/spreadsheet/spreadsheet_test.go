package spreadsheet

import (
	"context"
	"path/filepath"
	"testing"

	"autocontract/internal/models"

	"github.com/xuri/excelize/v2"
)

func TestClientsRepo_appendCreatesWorkbookAndUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	repo := NewClientsRepo(filepath.Join(t.TempDir(), "clients.xlsx"), "Folder")

	first, err := repo.Append(ctx, models.Client{ID: 1, LastName: "Иванов", FirstName: "Иван", VIN: "VF1KZ1G0643044404", CreatedAt: "01.02.2024"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if first.Row != 2 {
		t.Fatalf("expected first data row 2, got %d", first.Row)
	}
	if _, err := repo.Append(ctx, models.Client{ID: 2, LastName: "Петров", VIN: "XTA21099043544404"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != 1 || list[1].ID != 2 || list[1].Row != 3 {
		t.Fatalf("unexpected list: %+v", list)
	}

	edited := list[0]
	edited.LastName = "Сидоров"
	if err := repo.Update(ctx, edited); err != nil {
		t.Fatalf("update: %v", err)
	}

	list, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].LastName != "Сидоров" || list[0].CreatedAt != "01.02.2024" || list[1].LastName != "Петров" {
		t.Fatalf("unexpected list after update: %+v", list)
	}
}

func TestClientsRepo_updateRejectsUnknownRow(t *testing.T) {
	ctx := context.Background()
	repo := NewClientsRepo(filepath.Join(t.TempDir(), "clients.xlsx"), "Folder")
	if _, err := repo.Append(ctx, models.Client{ID: 1}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.Update(ctx, models.Client{ID: 1, Row: 10}); err == nil {
		t.Fatalf("expected error for row outside the sheet")
	}
	if err := repo.Update(ctx, models.Client{ID: 1}); err == nil {
		t.Fatalf("expected error for client without row")
	}
}

func TestSheet_followsWorkbookColumnOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.xlsx")

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), "Registry"); err != nil {
		t.Fatal(err)
	}
	header := []any{"ФИО", "Номер договора", "Номер", "Дата", "Телефон", "Индекс"}
	if err := f.SetSheetRow("Registry", "A1", &header); err != nil {
		t.Fatal(err)
	}
	row := []any{"Иванов Иван Иванович", "101-ИП", 1, "01.01.2024", "+7 999 123-45-67", "123456"}
	if err := f.SetSheetRow("Registry", "A2", &row); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	ctx := context.Background()
	repo := NewContractsRepo(path, "Registry")
	if err := repo.Append(ctx, models.Contract{RegistryID: 2, FullName: "Петров Пётр Петрович", Number: "102-ИП", Date: "02.01.2024"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 contracts, got %d", len(list))
	}
	if list[0].RegistryID != 1 || list[0].Number != "101-ИП" || list[0].FullName != "Иванов Иван Иванович" {
		t.Fatalf("unexpected first contract: %+v", list[0])
	}
	if list[1].RegistryID != 2 || list[1].Number != "102-ИП" || list[1].Date != "02.01.2024" {
		t.Fatalf("unexpected second contract: %+v", list[1])
	}
}

func TestSheet_missingWorkbookIsReadError(t *testing.T) {
	repo := NewContractsRepo(filepath.Join(t.TempDir(), "absent.xlsx"), "Registry")
	if _, err := repo.List(context.Background()); err == nil {
		t.Fatalf("expected error for missing workbook")
	}
}

func TestParseInt(t *testing.T) {
	cases := map[string]struct {
		n  int
		ok bool
	}{
		"12":   {12, true},
		" 7 ":  {7, true},
		"12.0": {12, true},
		"12,0": {12, true},
		"12.5": {0, false},
		"abc":  {0, false},
		"":     {0, false},
	}
	for in, want := range cases {
		n, ok := ParseInt(in)
		if n != want.n || ok != want.ok {
			t.Fatalf("ParseInt(%q) = (%d, %v), want (%d, %v)", in, n, ok, want.n, want.ok)
		}
	}
}
