package spreadsheet

import (
	"context"

	"autocontract/internal/models"
)

const (
	ColRegistryID     = "Номер"
	ColFullName       = "ФИО"
	ColContractNumber = "Номер договора"
	ColContractPhone  = "Телефон"
	ColContractIndex  = "Индекс"
	ColContractDate   = "Дата"
)

var ContractsHeader = []string{
	ColRegistryID, ColFullName, ColContractNumber, ColContractPhone, ColContractIndex, ColContractDate,
}

// ContractsRepo is the append-only contract registry.
type ContractsRepo struct {
	sheet *Sheet
}

func NewContractsRepo(path, sheetName string) *ContractsRepo {
	return &ContractsRepo{sheet: NewSheet(path, sheetName, ContractsHeader)}
}

func (r *ContractsRepo) Path() string { return r.sheet.Path }

// List returns the registry as stored. RegistryID is 0 where № does not parse.
func (r *ContractsRepo) List(ctx context.Context) ([]models.Contract, error) {
	rows, err := r.sheet.Rows(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Contract, 0, len(rows))
	for _, row := range rows {
		id, _ := ParseInt(row.Get(ColRegistryID))
		out = append(out, models.Contract{
			RegistryID: id,
			FullName:   row.Get(ColFullName),
			Number:     row.Get(ColContractNumber),
			Phone:      row.Get(ColContractPhone),
			PostIndex:  row.Get(ColContractIndex),
			Date:       row.Get(ColContractDate),
		})
	}
	return out, nil
}

func (r *ContractsRepo) Append(ctx context.Context, c models.Contract) error {
	_, err := r.sheet.Append(ctx, map[string]any{
		ColRegistryID:     c.RegistryID,
		ColFullName:       c.FullName,
		ColContractNumber: c.Number,
		ColContractPhone:  c.Phone,
		ColContractIndex:  c.PostIndex,
		ColContractDate:   c.Date,
	})
	return err
}
