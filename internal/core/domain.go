package core

import (
	"errors"
	"strings"
	"time"
)

const (
	MethodBankTransfer   PaymentMethod = "bank_transfer"
	MethodCheque         PaymentMethod = "cheque"
	MethodCash           PaymentMethod = "cash"
	MethodPromissoryNote PaymentMethod = "promissory_note"
)

const (
	CategoryPurchase    PaymentCategory = "purchase"
	CategoryService     PaymentCategory = "service"
	CategoryEquipment   PaymentCategory = "equipment"
	CategoryMaintenance PaymentCategory = "maintenance"
	CategoryOther       PaymentCategory = "other"
)

const (
	StatusActive   SupplierStatus = "active"
	StatusInactive SupplierStatus = "inactive"
)

type (
	PaymentMethod   string
	PaymentCategory string
	SupplierStatus  string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Supplier struct {
		ID               string
		Name             string
		ICE              string // Identifiant Commun de l'Entreprise
		RC               string // Registre de Commerce
		IF               string // Identifiant Fiscal
		Address          string
		Phone            string
		Email            string
		Website          string
		ContactPerson    string
		PaymentTermsDays int
		Category         string
		Status           SupplierStatus
	}

	Payment struct {
		ID         string
		SupplierID string
		// Snapshot of the supplier captured at creation time so the
		// payment history stays readable after supplier edits.
		SupplierName  string
		SupplierICE   string
		Amount        Money
		Date          Date
		Method        PaymentMethod
		Category      PaymentCategory
		Reference     string
		InvoiceNumber string
		Description   string
	}
)

// SupplierCategories is the fixed set offered by the supplier form.
var SupplierCategories = []string{
	"Matières premières",
	"Fournitures de bureau",
	"Services informatiques",
	"Transport et logistique",
	"Marketing et communication",
	"Maintenance et réparation",
	"Équipements",
	"Autre",
}

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidMethod   = errors.New("invalid payment method")
	ErrInvalidCategory = errors.New("invalid payment category")
	ErrInvalidStatus   = errors.New("invalid supplier status")
	ErrEmptyName       = errors.New("empty supplier name")
	ErrEmptyICE        = errors.New("empty ICE")
	ErrEmptySupplierID = errors.New("empty supplier id")
)

// ParseMethod maps a wire value to a PaymentMethod. Unknown values fail.
func ParseMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.TrimSpace(s))
	if !m.Valid() {
		return "", ErrInvalidMethod
	}
	return m, nil
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodBankTransfer, MethodCheque, MethodCash, MethodPromissoryNote:
		return true
	}
	return false
}

// Label returns the display name used in lists and reports.
func (m PaymentMethod) Label() string {
	switch m {
	case MethodBankTransfer:
		return "Virement bancaire"
	case MethodCheque:
		return "Chèque"
	case MethodCash:
		return "Espèces"
	case MethodPromissoryNote:
		return "Effet de commerce"
	}
	return string(m)
}

// ParseCategory maps a wire value to a PaymentCategory. Unknown values fail.
func ParseCategory(s string) (PaymentCategory, error) {
	c := PaymentCategory(strings.TrimSpace(s))
	if !c.Valid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

func (c PaymentCategory) Valid() bool {
	switch c {
	case CategoryPurchase, CategoryService, CategoryEquipment, CategoryMaintenance, CategoryOther:
		return true
	}
	return false
}

// Label returns the display name used in lists and reports.
func (c PaymentCategory) Label() string {
	switch c {
	case CategoryPurchase:
		return "Achat de marchandises"
	case CategoryService:
		return "Prestation de service"
	case CategoryEquipment:
		return "Équipement"
	case CategoryMaintenance:
		return "Maintenance"
	case CategoryOther:
		return "Autre"
	}
	return string(c)
}

func (s SupplierStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (s Supplier) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(s.ICE) == "" {
		return ErrEmptyICE
	}
	if !s.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// Validate checks a payment at the CRUD edge. The analytics pipeline does
// not re-validate; it tolerates bad amounts defensively.
func (p Payment) Validate() error {
	if strings.TrimSpace(p.SupplierID) == "" {
		return ErrEmptySupplierID
	}
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	if err := p.Date.Validate(); err != nil {
		return err
	}
	if !p.Method.Valid() {
		return ErrInvalidMethod
	}
	if !p.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}
