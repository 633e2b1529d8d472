package dto

// CreateCompanyRequest alta de una empresa emisora.
type CreateCompanyRequest struct {
	Name            string `json:"name"`
	TradeName       string `json:"trade_name"`
	RUC             string `json:"ruc"`
	Ambiente        string `json:"ambiente"` // "1" pruebas, "2" producción
	Establecimiento string `json:"establecimiento"`
	PuntoEmision    string `json:"punto_emision"`
	Address         string `json:"address"`
	Phone           string `json:"phone,omitempty"`
	Email           string `json:"email,omitempty"`
}

// CompanyResponse representación de una empresa hacia fuera.
type CompanyResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	TradeName       string `json:"trade_name"`
	RUC             string `json:"ruc"`
	Ambiente        string `json:"ambiente"`
	Establecimiento string `json:"establecimiento"`
	PuntoEmision    string `json:"punto_emision"`
	Address         string `json:"address"`
	Status          string `json:"status"`
}
