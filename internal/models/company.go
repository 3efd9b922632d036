package models

// CompanyProfile is the fixed letterhead block printed on every invoice.
// It is read once at startup and never changes for the life of the
// process.
type CompanyProfile struct {
	Name       string
	Website    string
	Phone      string
	TaxID      string
	Email      string
	SignerName string
	LogoPath   string
}
