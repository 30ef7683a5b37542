package sales

import "github.com/shopspring/decimal"

// ConsortiumType is the asset category a consortium quota covers. Values are the
// labels stored in the backend and used in CSV files.
type ConsortiumType string

const (
	Automobile     ConsortiumType = "Automóvel"
	RealEstate     ConsortiumType = "Imóvel"
	Services       ConsortiumType = "Serviços"
	HeavyMachinery ConsortiumType = "Pesados"
	Motorcycle     ConsortiumType = "Moto"
)

// Types lists every ConsortiumType in display order.
var Types = []ConsortiumType{Automobile, RealEstate, Services, HeavyMachinery, Motorcycle}

// Valid reports whether t is a known category.
func (t ConsortiumType) Valid() bool {
	for _, v := range Types {
		if t == v {
			return true
		}
	}
	return false
}

// Status is the approval state of a sale.
type Status string

const (
	Pending   Status = "Pendente"
	Approved  Status = "Aprovado"
	Cancelled Status = "Cancelado"
)

// Statuses lists every Status.
var Statuses = []Status{Pending, Approved, Cancelled}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Sale represents one consortium-quota sale.
type Sale struct {
	ID             string          `json:"id"`
	ConsultantName string          `json:"consultantName" validate:"required"`
	ClientName     string          `json:"clientName" validate:"required"`
	Type           ConsortiumType  `json:"type" validate:"required,consortium_type"`
	Value          decimal.Decimal `json:"value"`
	Date           string          `json:"date" validate:"required,datetime=2006-01-02"`
	Status         Status          `json:"status" validate:"required,sale_status"`
}
