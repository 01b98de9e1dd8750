package models

import "autocontract/internal/utils"

// Client is one row of the clients workbook.
type Client struct {
	ID         int    `json:"id"`
	LastName   string `json:"last_name"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	CarModel   string `json:"car_model"`
	VIN        string `json:"vin"`
	PostIndex  string `json:"post_index"`
	Folder     string `json:"folder"`
	Address    string `json:"address"`
	Passport   string `json:"passport"`
	IssuedBy   string `json:"issued_by"`
	IssueDate  string `json:"issue_date"`
	DepCode    string `json:"dep_code"`
	Phone      string `json:"phone"`
	BirthDate  string `json:"birth_date"`
	CreatedAt  string `json:"created_at"`

	// Row is the 1-based sheet row the record was read from (header is row 1).
	Row int `json:"-"`
}

func (c Client) FullName() string {
	return utils.FullName(c.LastName, c.FirstName, c.MiddleName)
}

func (c Client) ShortName() string {
	return utils.ShortName(c.LastName, c.FirstName, c.MiddleName)
}

// FolderLabel is the display label kept in the "Папка" column.
func (c Client) FolderLabel() string {
	return c.LastName + "_" + c.CarModel + "_vin " + c.VIN + "_" + c.PostIndex
}
