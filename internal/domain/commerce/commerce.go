// Package commerce mirrors the customers and transactions of the storefront
// that license keys are issued against.
package commerce

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrEmailRequired       = errors.New("customer email is required")
	ErrInvalidTotal        = errors.New("transaction total cannot be negative")
)

type Customer struct {
	id        uint
	email     string
	name      string
	createdAt time.Time
}

func NewCustomer(id uint, email, name string) (*Customer, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	return &Customer{id: id, email: email, name: strings.TrimSpace(name), createdAt: time.Now().UTC()}, nil
}

// ReconstructCustomer rebuilds a customer from persistence
func ReconstructCustomer(id uint, email, name string, createdAt time.Time) *Customer {
	return &Customer{id: id, email: email, name: name, createdAt: createdAt}
}

func (c *Customer) ID() uint {
	return c.id
}

func (c *Customer) Email() string {
	return c.email
}

func (c *Customer) Name() string {
	return c.name
}

func (c *Customer) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Customer) SetID(id uint) {
	c.id = id
}

// DisplayName falls back to the email address when no name is recorded.
func (c *Customer) DisplayName() string {
	if c.name != "" {
		return c.name
	}
	return c.email
}

// Transaction is a completed purchase. Total is in minor currency units.
type Transaction struct {
	id         uint
	customerID uint
	total      int64
	createdAt  time.Time
}

func NewTransaction(id, customerID uint, total int64) (*Transaction, error) {
	if customerID == 0 {
		return nil, ErrCustomerNotFound
	}
	if total < 0 {
		return nil, ErrInvalidTotal
	}
	return &Transaction{id: id, customerID: customerID, total: total, createdAt: time.Now().UTC()}, nil
}

// ReconstructTransaction rebuilds a transaction from persistence
func ReconstructTransaction(id, customerID uint, total int64, createdAt time.Time) *Transaction {
	return &Transaction{id: id, customerID: customerID, total: total, createdAt: createdAt}
}

func (t *Transaction) ID() uint {
	return t.id
}

func (t *Transaction) CustomerID() uint {
	return t.customerID
}

func (t *Transaction) Total() int64 {
	return t.total
}

func (t *Transaction) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Transaction) SetID(id uint) {
	t.id = id
}

// CustomerRepository persists customer mirrors. GetByID returns nil, nil when missing.
type CustomerRepository interface {
	GetByID(ctx context.Context, id uint) (*Customer, error)
	Upsert(ctx context.Context, customer *Customer) error
}

// TransactionRepository persists transaction mirrors. GetByID returns nil, nil when missing.
type TransactionRepository interface {
	GetByID(ctx context.Context, id uint) (*Transaction, error)
	Upsert(ctx context.Context, transaction *Transaction) error
}
