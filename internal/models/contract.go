package models

// Contract is one row of the append-only contract registry.
type Contract struct {
	RegistryID int    `json:"registry_id"`
	FullName   string `json:"full_name"`
	Number     string `json:"number"`
	Phone      string `json:"phone"`
	PostIndex  string `json:"post_index"`
	Date       string `json:"date"`
}
