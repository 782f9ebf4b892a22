package models

// Profile is a user's digital business-card content. Exactly one profile
// exists per normalized user email. ShortURL is assigned once and never
// changes except through explicit regeneration.
type Profile struct {
	BaseModel
	UserEmail string `gorm:"uniqueIndex" json:"user_email"`

	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	Title      string `json:"title"`
	Company    string `json:"company"`

	WorkEmail     string `json:"work_email"`
	PersonalEmail string `json:"personal_email"`
	Mobile        string `json:"mobile"`
	WorkPhone     string `json:"work_phone"`

	WorkAddress string `json:"work_address"`
	HomeAddress string `json:"home_address"`

	LinkedIn  string `json:"linkedin"`
	Twitter   string `json:"twitter"`
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	YouTube   string `json:"youtube"`
	Website   string `json:"website"`

	Photo       string `json:"photo"`
	CompanyLogo string `json:"company_logo"`

	ShortURL string `gorm:"uniqueIndex" json:"shorturl"`
}
