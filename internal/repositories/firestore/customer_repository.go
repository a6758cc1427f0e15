package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/bouwshop/api/internal/domain"
	pfirestore "github.com/bouwshop/api/internal/platform/firestore"
	"github.com/bouwshop/api/internal/repositories"
)

const customersCollection = "customers"

type customerDocument struct {
	Name        string    `firestore:"name"`
	Email       string    `firestore:"email"`
	Phone       string    `firestore:"phone"`
	Address     string    `firestore:"address"`
	City        string    `firestore:"city"`
	PostalCode  string    `firestore:"postalCode"`
	Country     string    `firestore:"country"`
	TotalOrders int       `firestore:"totalOrders"`
	TotalSpent  float64   `firestore:"totalSpent"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

func (d customerDocument) toDomain(id string) domain.Customer {
	return domain.Customer{
		ID:          id,
		Name:        d.Name,
		Email:       d.Email,
		Phone:       d.Phone,
		Address:     d.Address,
		City:        d.City,
		PostalCode:  d.PostalCode,
		Country:     d.Country,
		TotalOrders: d.TotalOrders,
		TotalSpent:  d.TotalSpent,
		CreatedAt:   d.CreatedAt,
	}
}

// CustomerRepository reads the customer ledger. Ledger writes happen only
// inside the order creation transaction.
type CustomerRepository struct {
	provider  *pfirestore.Provider
	customers *pfirestore.Collection[customerDocument]
}

// NewCustomerRepository constructs a CustomerRepository bound to the provider.
func NewCustomerRepository(provider *pfirestore.Provider) (*CustomerRepository, error) {
	if provider == nil {
		return nil, errors.New("customer repository requires firestore provider")
	}
	return &CustomerRepository{
		provider:  provider,
		customers: pfirestore.NewCollection[customerDocument](provider, customersCollection),
	}, nil
}

func (r *CustomerRepository) List(ctx context.Context, query repositories.CustomerListQuery) ([]domain.Customer, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("customer repository not initialised")
	}

	docs, err := r.customers.Query(ctx, func(q firestore.Query) firestore.Query {
		q = q.OrderBy("createdAt", firestore.Desc)
		if query.Skip > 0 {
			q = q.Offset(query.Skip)
		}
		if query.Limit > 0 {
			q = q.Limit(query.Limit)
		}
		return q
	})
	if err != nil {
		return nil, fmt.Errorf("customers.list: %w", err)
	}

	customers := make([]domain.Customer, 0, len(docs))
	for _, doc := range docs {
		customers = append(customers, doc.Data.toDomain(doc.ID))
	}
	return customers, nil
}

// Find resolves by document id first, then by email.
func (r *CustomerRepository) Find(ctx context.Context, idOrEmail string) (domain.Customer, error) {
	if r == nil || r.provider == nil {
		return domain.Customer{}, errors.New("customer repository not initialised")
	}
	key := strings.TrimSpace(idOrEmail)
	if key == "" {
		return domain.Customer{}, errors.New("customer find: id or email is required")
	}

	doc, err := r.customers.Get(ctx, key)
	if err == nil {
		return doc.Data.toDomain(doc.ID), nil
	}
	if !pfirestore.IsNotFound(err) {
		return domain.Customer{}, fmt.Errorf("customers.find: %w", err)
	}

	email := strings.ToLower(key)
	docs, err := r.customers.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("email", "==", email).Limit(1)
	})
	if err != nil {
		return domain.Customer{}, fmt.Errorf("customers.find: %w", err)
	}
	if len(docs) == 0 {
		return domain.Customer{}, pfirestore.WrapError("customers.find", statusNotFound(fmt.Sprintf("customer %s not found", key)))
	}
	return docs[0].Data.toDomain(docs[0].ID), nil
}

func statusNotFound(message string) error {
	return status.Error(codes.NotFound, message)
}
