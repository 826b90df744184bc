package core

import (
	"testing"
	"time"
)

func TestParseMethod(t *testing.T) {
	cases := []struct {
		in   string
		want PaymentMethod
		ok   bool
	}{
		{"bank_transfer", MethodBankTransfer, true},
		{"cheque", MethodCheque, true},
		{"cash", MethodCash, true},
		{"promissory_note", MethodPromissoryNote, true},
		{" cheque ", MethodCheque, true},
		{"wire", "", false},
		{"", "", false},
	}
	for i, tc := range cases {
		got, err := ParseMethod(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("case %d: got (%q, %v), want %q", i, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d: expected error for %q", i, tc.in)
		}
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range []PaymentCategory{CategoryPurchase, CategoryService, CategoryEquipment, CategoryMaintenance, CategoryOther} {
		got, err := ParseCategory(string(c))
		if err != nil || got != c {
			t.Fatalf("expected %q to parse, got (%q, %v)", c, got, err)
		}
	}
	if _, err := ParseCategory("travel"); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -500}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestSupplierValidate(t *testing.T) {
	good := Supplier{Name: "Atlas Distribution", ICE: "001234567000089", Status: StatusActive}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Supplier{
		{Name: "", ICE: "001", Status: StatusActive},
		{Name: "Atlas", ICE: "", Status: StatusActive},
		{Name: "Atlas", ICE: "001", Status: "pending"},
	}
	for i, s := range bads {
		if err := s.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestPaymentValidate(t *testing.T) {
	good := Payment{
		SupplierID: "sup-1",
		Amount:     Money{Cents: 10000},
		Date:       NewDate(2024, 1, 5),
		Method:     MethodBankTransfer,
		Category:   CategoryPurchase,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Payment{
		{SupplierID: "", Amount: Money{Cents: 1}, Date: NewDate(2024, 1, 5), Method: MethodCash, Category: CategoryOther},
		{SupplierID: "s", Amount: Money{Cents: 0}, Date: NewDate(2024, 1, 5), Method: MethodCash, Category: CategoryOther},
		{SupplierID: "s", Amount: Money{Cents: 1}, Date: Date{Time: time.Time{}}, Method: MethodCash, Category: CategoryOther},
		{SupplierID: "s", Amount: Money{Cents: 1}, Date: NewDate(2024, 1, 5), Method: "paypal", Category: CategoryOther},
		{SupplierID: "s", Amount: Money{Cents: 1}, Date: NewDate(2024, 1, 5), Method: MethodCash, Category: "misc"},
	}
	for i, p := range bads {
		if err := p.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestPeriodWindowContains(t *testing.T) {
	w := PeriodWindow{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	cases := []struct {
		d    Date
		want bool
	}{
		{NewDate(2023, 12, 31), false},
		{NewDate(2024, 1, 1), true},
		{NewDate(2024, 1, 15), true},
		{NewDate(2024, 1, 31), true},
		{NewDate(2024, 2, 1), false},
	}
	for i, tc := range cases {
		if got := w.Contains(tc.d); got != tc.want {
			t.Fatalf("case %d: Contains(%v) = %v, want %v", i, tc.d, got, tc.want)
		}
	}

	open := PeriodWindow{Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	if !open.Contains(NewDate(2030, 6, 1)) {
		t.Fatalf("open window should contain any future date")
	}
}
