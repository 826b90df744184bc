// Package memory provides an in-memory record store used as the default
// backend and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"fournipay/internal/core"
	"fournipay/internal/records"
)

type Store struct {
	mu        sync.Mutex
	suppliers []core.Supplier
	payments  []core.Payment
	version   int64
}

var _ records.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// Seed replaces the store contents wholesale. Test helper.
func (s *Store) Seed(suppliers []core.Supplier, payments []core.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppliers = append([]core.Supplier(nil), suppliers...)
	s.payments = append([]core.Payment(nil), payments...)
	s.version++
}

func (s *Store) Suppliers(_ context.Context) ([]core.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Supplier(nil), s.suppliers...), nil
}

func (s *Store) GetSupplier(_ context.Context, id string) (core.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sup := range s.suppliers {
		if sup.ID == id {
			return sup, nil
		}
	}
	return core.Supplier{}, records.ErrNotFound
}

func (s *Store) AddSupplier(_ context.Context, sup core.Supplier) (core.Supplier, error) {
	if err := sup.Validate(); err != nil {
		return core.Supplier{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sup.ID == "" {
		sup.ID = uuid.NewString()
	}
	s.suppliers = append(s.suppliers, sup)
	s.version++
	return sup, nil
}

func (s *Store) UpdateSupplier(_ context.Context, sup core.Supplier) error {
	if err := sup.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.suppliers {
		if s.suppliers[i].ID == sup.ID {
			s.suppliers[i] = sup
			s.version++
			return nil
		}
	}
	return records.ErrNotFound
}

func (s *Store) DeleteSupplier(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.suppliers {
		if s.suppliers[i].ID == id {
			s.suppliers = append(s.suppliers[:i], s.suppliers[i+1:]...)
			s.version++
			return nil
		}
	}
	return records.ErrNotFound
}

func (s *Store) Payments(_ context.Context) ([]core.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Payment(nil), s.payments...), nil
}

func (s *Store) AddPayment(_ context.Context, p core.Payment) (core.Payment, error) {
	if err := p.Validate(); err != nil {
		return core.Payment{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.payments = append(s.payments, p)
	s.version++
	return p, nil
}

func (s *Store) DeletePayment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.payments {
		if s.payments[i].ID == id {
			s.payments = append(s.payments[:i], s.payments[i+1:]...)
			s.version++
			return nil
		}
	}
	return records.ErrNotFound
}

func (s *Store) Version(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version, nil
}

func (s *Store) Close() error { return nil }
