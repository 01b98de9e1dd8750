package documents

import (
	"strconv"
	"strings"
	"time"

	"autocontract/internal/models"
	"autocontract/internal/utils"
)

const (
	ServiceSBKTS = "sbkts"
	ServiceScrap = "scrap"

	MethodAccount = "account"
	MethodCard    = "card"

	cardLabel        = "НА КАРТУ"
	indexPlaceholder = "ИНДЕКС"
	noDate           = "__.__.____"
)

var serviceDescriptions = map[string]string{
	ServiceSBKTS: "выпуску СБКТС + ЭПТС",
	ServiceScrap: "списанию утильсбора",
}

func ServiceDescription(service string) string {
	if d, ok := serviceDescriptions[service]; ok {
		return d
	}
	return "услуге"
}

type Company struct {
	Name        string
	INN         string
	BankAccount string
	BankName    string
	BankBIC     string
	CorrAccount string
}

// ContractContext holds every value a contract template can reference.
type ContractContext struct {
	Num       string
	FullNum   string
	Date      string
	FIO       string
	FullFIO   string
	ShortFIO  string
	Car       string
	VIN       string
	CarInfo   string
	Address   string
	Index     string
	Passport  string
	IssuedBy  string
	IssueDate string
	DepCode   string
	BirthDate string
	Phone     string
	Company   string
	AppName   string
}

func NewContractContext(c models.Client, number, bareNumber string, now time.Time, company Company, appName string) ContractContext {
	fio := c.FullName()
	return ContractContext{
		Num:       bareNumber,
		FullNum:   number,
		Date:      utils.FormatDate(now),
		FIO:       fio,
		FullFIO:   fio,
		ShortFIO:  c.ShortName(),
		Car:       c.CarModel,
		VIN:       c.VIN,
		CarInfo:   c.CarModel + " (VIN " + c.VIN + ")",
		Address:   c.Address,
		Index:     c.PostIndex,
		Passport:  c.Passport,
		IssuedBy:  c.IssuedBy,
		IssueDate: c.IssueDate,
		DepCode:   c.DepCode,
		BirthDate: c.BirthDate,
		Phone:     displayPhone(c.Phone),
		Company:   company.Name,
		AppName:   appName,
	}
}

func (cc ContractContext) Placeholders() map[string]string {
	return map[string]string{
		"NUM":        cc.Num,
		"FULL_NUM":   cc.FullNum,
		"DATE":       cc.Date,
		"FIO":        cc.FIO,
		"FULL_FIO":   cc.FullFIO,
		"SHORT_FIO":  cc.ShortFIO,
		"CAR":        cc.Car,
		"VIN":        cc.VIN,
		"CAR_INFO":   cc.CarInfo,
		"ADDRESS":    cc.Address,
		"INDEX":      cc.Index,
		"PASSPORT":   cc.Passport,
		"ISSUED_BY":  cc.IssuedBy,
		"ISSUE_DATE": cc.IssueDate,
		"DEP_CODE":   cc.DepCode,
		"BIRTH_DATE": cc.BirthDate,
		"PHONE":      cc.Phone,
		"COMPANY":    cc.Company,
		"APP_NAME":   cc.AppName,
	}
}

// ContractFilename is "Договор №101-ИП (Иванов Иван Иванович)_123456.docx".
// An index containing the "*" wildcard is replaced by a placeholder word.
func ContractFilename(number, fullName, index string) string {
	if strings.Contains(index, "*") {
		index = indexPlaceholder
	}
	return "Договор №" + utils.SanitizeFilename(number) + " (" + utils.SanitizeFilename(fullName) + ")_" + utils.SanitizeFilename(index) + ".docx"
}

// InvoiceContext holds every value an invoice template can reference.
type InvoiceContext struct {
	Num         string
	FullNum     string
	Date        string
	VerboseDate string
	FIO         string
	Address     string
	Amount      string
	AmountRub   string
	AmountText  string
	Service     string
	CarInfo     string
	Index       string
	ContractRef string
	MethodLabel string
	Company     string
	INN         string
	BankAccount string
	BankName    string
	BankBIC     string
	CorrAccount string
}

func NewInvoiceContext(c models.Client, number, bareNumber, service string, amount int, method string, now time.Time, company Company, currency string) InvoiceContext {
	created := c.CreatedAt
	if strings.TrimSpace(created) == "" {
		created = noDate
	}
	return InvoiceContext{
		Num:         bareNumber,
		FullNum:     number + "-001",
		Date:        utils.FormatDate(now),
		VerboseDate: utils.VerboseDate(now),
		FIO:         c.FullName(),
		Address:     c.Address,
		Amount:      strconv.Itoa(amount),
		AmountRub:   strconv.Itoa(amount) + " " + currency,
		AmountText:  AmountText(amount),
		Service:     ServiceDescription(service),
		CarInfo:     c.CarModel + "_vin " + c.VIN,
		Index:       c.PostIndex,
		ContractRef: number + " от " + created,
		MethodLabel: MethodLabel(method),
		Company:     company.Name,
		INN:         company.INN,
		BankAccount: company.BankAccount,
		BankName:    company.BankName,
		BankBIC:     company.BankBIC,
		CorrAccount: company.CorrAccount,
	}
}

func (ic InvoiceContext) Placeholders() map[string]string {
	return map[string]string{
		"NUM":          ic.Num,
		"FULL_NUM":     ic.FullNum,
		"DATE":         ic.Date,
		"VERBOSE_DATE": ic.VerboseDate,
		"FIO":          ic.FIO,
		"ADDRESS":      ic.Address,
		"AMOUNT":       ic.Amount,
		"AMOUNT_RUB":   ic.AmountRub,
		"AMOUNT_TEXT":  ic.AmountText,
		"SERVICE":      ic.Service,
		"CAR_INFO":     ic.CarInfo,
		"INDEX":        ic.Index,
		"CONTRACT_REF": ic.ContractRef,
		"METHOD_LABEL": ic.MethodLabel,
		"COMPANY":      ic.Company,
		"INN":          ic.INN,
		"BANK_ACCOUNT": ic.BankAccount,
		"BANK_NAME":    ic.BankName,
		"BANK_BIC":     ic.BankBIC,
		"CORR_ACCOUNT": ic.CorrAccount,
	}
}

// AmountText spells the thousands of an amount: 32000 -> "Тридцать два тысяч".
// Only 10..99 thousand can be spelled; other amounts carry the out-of-range
// marker instead of a wrong number.
func AmountText(amount int) string {
	return utils.Capitalize(utils.NumberToWords(amount/1000)) + " тысяч"
}

func MethodLabel(method string) string {
	if method == MethodCard {
		return cardLabel
	}
	return ""
}

func InvoiceFilename(ic InvoiceContext) string {
	label := ""
	if ic.MethodLabel != "" {
		label = " " + ic.MethodLabel + " "
	}
	return utils.SanitizeFilename("Счёт" + label + "№ " + ic.FullNum + " от " + ic.Date + " для " + utils.SanitizeFilename(ic.FIO) + "_" + ic.Index + ".docx")
}

func displayPhone(phone string) string {
	if utils.OnlyDigits(phone) == "" {
		return strings.TrimSpace(phone)
	}
	formatted, _ := utils.FormatPhone(phone)
	return formatted
}
