package domain

// CreditPackage is a purchasable bundle of credits. The package catalog is
// static application data; purchasing a package grants its credits directly
// (there is no payment gateway integration in this service).
type CreditPackage struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Credits    int64  `json:"credits"`
	PriceCents int64  `json:"price_cents"`
}
