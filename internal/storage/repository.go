// Package storage implements the SQLite-backed record store.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"fournipay/internal/core"
	"fournipay/internal/records"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

var _ records.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Suppliers(ctx context.Context) ([]core.Supplier, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, ice, rc, tax_id, address, phone, email, website,
		       contact_person, payment_terms_days, category, status
		FROM suppliers ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var out []core.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetSupplier(ctx context.Context, id string) (core.Supplier, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, ice, rc, tax_id, address, phone, email, website,
		       contact_person, payment_terms_days, category, status
		FROM suppliers WHERE id = ?`, id)
	s, err := scanSupplier(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Supplier{}, records.ErrNotFound
	}
	return s, err
}

func (r *SQLiteRepository) AddSupplier(ctx context.Context, s core.Supplier) (core.Supplier, error) {
	if err := s.Validate(); err != nil {
		return core.Supplier{}, err
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	err := r.mutate(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO suppliers (id, name, ice, rc, tax_id, address, phone, email,
			                       website, contact_person, payment_terms_days, category, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ID, s.Name, s.ICE, s.RC, s.IF, s.Address, s.Phone, s.Email,
			s.Website, s.ContactPerson, s.PaymentTermsDays, s.Category, string(s.Status))
		return err
	})
	if err != nil {
		return core.Supplier{}, fmt.Errorf("insert supplier: %w", err)
	}

	slog.InfoContext(ctx, "Supplier saved", "supplier_id", s.ID, "name", s.Name)
	return s, nil
}

func (r *SQLiteRepository) UpdateSupplier(ctx context.Context, s core.Supplier) error {
	if err := s.Validate(); err != nil {
		return err
	}

	return r.mutate(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE suppliers SET name = ?, ice = ?, rc = ?, tax_id = ?, address = ?,
			       phone = ?, email = ?, website = ?, contact_person = ?,
			       payment_terms_days = ?, category = ?, status = ?
			WHERE id = ?`,
			s.Name, s.ICE, s.RC, s.IF, s.Address, s.Phone, s.Email, s.Website,
			s.ContactPerson, s.PaymentTermsDays, s.Category, string(s.Status), s.ID)
		if err != nil {
			return fmt.Errorf("update supplier: %w", err)
		}
		return requireRow(res)
	})
}

func (r *SQLiteRepository) DeleteSupplier(ctx context.Context, id string) error {
	return r.mutate(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM suppliers WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete supplier: %w", err)
		}
		return requireRow(res)
	})
}

func (r *SQLiteRepository) Payments(ctx context.Context) ([]core.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, supplier_id, supplier_name, supplier_ice, amount_cents, paid_on,
		       method, category, reference, invoice_number, description
		FROM payments ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []core.Payment
	for rows.Next() {
		var p core.Payment
		var paidOn string
		if err := rows.Scan(&p.ID, &p.SupplierID, &p.SupplierName, &p.SupplierICE,
			&p.Amount.Cents, &paidOn, &p.Method, &p.Category,
			&p.Reference, &p.InvoiceNumber, &p.Description); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		t, err := time.Parse(dateLayout, paidOn)
		if err != nil {
			return nil, fmt.Errorf("parse payment date %q: %w", paidOn, err)
		}
		p.Date = core.Date{Time: t}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) AddPayment(ctx context.Context, p core.Payment) (core.Payment, error) {
	if err := p.Validate(); err != nil {
		return core.Payment{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	err := r.mutate(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO payments (id, supplier_id, supplier_name, supplier_ice, amount_cents,
			                      paid_on, method, category, reference, invoice_number, description)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.SupplierID, p.SupplierName, p.SupplierICE, p.Amount.Cents,
			p.Date.Format(dateLayout), string(p.Method), string(p.Category),
			p.Reference, p.InvoiceNumber, p.Description)
		return err
	})
	if err != nil {
		return core.Payment{}, fmt.Errorf("insert payment: %w", err)
	}

	slog.InfoContext(ctx, "Payment saved",
		"payment_id", p.ID,
		"supplier_id", p.SupplierID,
		"amount_cents", p.Amount.Cents)
	return p, nil
}

func (r *SQLiteRepository) DeletePayment(ctx context.Context, id string) error {
	return r.mutate(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete payment: %w", err)
		}
		return requireRow(res)
	})
}

func (r *SQLiteRepository) Version(ctx context.Context) (int64, error) {
	var v int64
	err := r.db.QueryRowContext(ctx, `SELECT version FROM record_version WHERE id = 1`).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("read record version: %w", err)
	}
	return v, nil
}

// mutate runs fn in a transaction that also bumps the record-set version,
// so cached aggregates keyed by version are invalidated by any write.
func (r *SQLiteRepository) mutate(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE record_version SET version = version + 1 WHERE id = 1`); err != nil {
		return fmt.Errorf("bump record version: %w", err)
	}
	return tx.Commit()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return records.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSupplier(row rowScanner) (core.Supplier, error) {
	var s core.Supplier
	var status string
	err := row.Scan(&s.ID, &s.Name, &s.ICE, &s.RC, &s.IF, &s.Address, &s.Phone,
		&s.Email, &s.Website, &s.ContactPerson, &s.PaymentTermsDays, &s.Category, &status)
	if err != nil {
		return core.Supplier{}, err
	}
	s.Status = core.SupplierStatus(status)
	return s, nil
}
