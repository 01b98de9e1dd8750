package spreadsheet

import (
	"context"
	"errors"
	"log"

	"autocontract/internal/models"
)

const (
	ColClientID   = "№"
	ColLastName   = "Фамилия"
	ColFirstName  = "Имя"
	ColMiddleName = "Отчество"
	ColCarModel   = "Марка авто"
	ColVIN        = "VIN"
	ColPostIndex  = "Индекс"
	ColFolder     = "Папка"
	ColAddress    = "Адрес"
	ColPassport   = "Паспорт (серия и номер)"
	ColIssuedBy   = "Кем выдан"
	ColIssueDate  = "Дата выдачи"
	ColDepCode    = "Код подразделения"
	ColPhone      = "Телефон"
	ColBirthDate  = "Дата рождения"
	ColCreatedAt  = "Дата создания папки"
)

var ClientsHeader = []string{
	ColClientID, ColLastName, ColFirstName, ColMiddleName, ColCarModel, ColVIN,
	ColPostIndex, ColFolder, ColAddress, ColPassport, ColIssuedBy, ColIssueDate,
	ColDepCode, ColPhone, ColBirthDate, ColCreatedAt,
}

type ClientsRepo struct {
	sheet *Sheet
}

func NewClientsRepo(path, sheetName string) *ClientsRepo {
	return &ClientsRepo{sheet: NewSheet(path, sheetName, ClientsHeader)}
}

func (r *ClientsRepo) Path() string { return r.sheet.Path }

// List returns every client row in sheet order. Rows whose № does not parse
// keep ID 0.
func (r *ClientsRepo) List(ctx context.Context) ([]models.Client, error) {
	rows, err := r.sheet.Rows(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Client, 0, len(rows))
	for _, row := range rows {
		c := decodeClient(row)
		if c.ID == 0 {
			log.Printf("[XLSX][CLIENTS][WARN] row=%d bad %s=%q", row.Index, ColClientID, row.Get(ColClientID))
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *ClientsRepo) Append(ctx context.Context, c models.Client) (models.Client, error) {
	idx, err := r.sheet.Append(ctx, encodeClient(c))
	if err != nil {
		return c, err
	}
	c.Row = idx
	return c, nil
}

// Update rewrites the row the client was read from.
func (r *ClientsRepo) Update(ctx context.Context, c models.Client) error {
	if c.Row < 2 {
		return errors.New("client has no sheet row")
	}
	return r.sheet.Update(ctx, c.Row, encodeClient(c))
}

func decodeClient(row Row) models.Client {
	id, _ := ParseInt(row.Get(ColClientID))
	return models.Client{
		ID:         id,
		LastName:   row.Get(ColLastName),
		FirstName:  row.Get(ColFirstName),
		MiddleName: row.Get(ColMiddleName),
		CarModel:   row.Get(ColCarModel),
		VIN:        row.Get(ColVIN),
		PostIndex:  row.Get(ColPostIndex),
		Folder:     row.Get(ColFolder),
		Address:    row.Get(ColAddress),
		Passport:   row.Get(ColPassport),
		IssuedBy:   row.Get(ColIssuedBy),
		IssueDate:  row.Get(ColIssueDate),
		DepCode:    row.Get(ColDepCode),
		Phone:      row.Get(ColPhone),
		BirthDate:  row.Get(ColBirthDate),
		CreatedAt:  row.Get(ColCreatedAt),
		Row:        row.Index,
	}
}

func encodeClient(c models.Client) map[string]any {
	return map[string]any{
		ColClientID:   c.ID,
		ColLastName:   c.LastName,
		ColFirstName:  c.FirstName,
		ColMiddleName: c.MiddleName,
		ColCarModel:   c.CarModel,
		ColVIN:        c.VIN,
		ColPostIndex:  c.PostIndex,
		ColFolder:     c.Folder,
		ColAddress:    c.Address,
		ColPassport:   c.Passport,
		ColIssuedBy:   c.IssuedBy,
		ColIssueDate:  c.IssueDate,
		ColDepCode:    c.DepCode,
		ColPhone:      c.Phone,
		ColBirthDate:  c.BirthDate,
		ColCreatedAt:  c.CreatedAt,
	}
}
