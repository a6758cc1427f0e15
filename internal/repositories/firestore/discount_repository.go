package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	domain "github.com/bouwshop/api/internal/domain"
	pfirestore "github.com/bouwshop/api/internal/platform/firestore"
	"github.com/bouwshop/api/internal/repositories"
)

const discountsCollection = "discounts"

type discountDocument struct {
	Code           string               `firestore:"code"`
	Name           domain.LocalizedText `firestore:"name"`
	Description    domain.LocalizedText `firestore:"description"`
	DiscountType   string               `firestore:"discountType"`
	DiscountValue  float64              `firestore:"discountValue"`
	MinOrderAmount float64              `firestore:"minOrderAmount"`
	MaxUses        int                  `firestore:"maxUses"`
	UsedCount      int                  `firestore:"usedCount"`
	IsActive       bool                 `firestore:"isActive"`
	ValidFrom      time.Time            `firestore:"validFrom"`
	ValidUntil     *time.Time           `firestore:"validUntil"`
	CreatedAt      time.Time            `firestore:"createdAt"`
}

func newDiscountDocument(discount domain.Discount) discountDocument {
	return discountDocument{
		Code:           domain.NormalizeCode(discount.Code),
		Name:           discount.Name,
		Description:    discount.Description,
		DiscountType:   string(discount.DiscountType),
		DiscountValue:  discount.DiscountValue,
		MinOrderAmount: discount.MinOrderAmount,
		MaxUses:        discount.MaxUses,
		UsedCount:      discount.UsedCount,
		IsActive:       discount.IsActive,
		ValidFrom:      discount.ValidFrom.UTC(),
		ValidUntil:     discount.ValidUntil,
		CreatedAt:      discount.CreatedAt.UTC(),
	}
}

func (d discountDocument) toDomain(id string) domain.Discount {
	return domain.Discount{
		ID:             id,
		Code:           d.Code,
		Name:           d.Name,
		Description:    d.Description,
		DiscountType:   domain.DiscountType(d.DiscountType),
		DiscountValue:  d.DiscountValue,
		MinOrderAmount: d.MinOrderAmount,
		MaxUses:        d.MaxUses,
		UsedCount:      d.UsedCount,
		IsActive:       d.IsActive,
		ValidFrom:      d.ValidFrom,
		ValidUntil:     d.ValidUntil,
		CreatedAt:      d.CreatedAt,
	}
}

// DiscountRepository persists promotional codes in Firestore. Codes are
// stored uppercase, which gives case-insensitive uniqueness and lookup.
type DiscountRepository struct {
	provider  *pfirestore.Provider
	discounts *pfirestore.Collection[discountDocument]
}

// NewDiscountRepository constructs a DiscountRepository bound to the provider.
func NewDiscountRepository(provider *pfirestore.Provider) (*DiscountRepository, error) {
	if provider == nil {
		return nil, errors.New("discount repository requires firestore provider")
	}
	return &DiscountRepository{
		provider:  provider,
		discounts: pfirestore.NewCollection[discountDocument](provider, discountsCollection),
	}, nil
}

func (r *DiscountRepository) List(ctx context.Context, query repositories.DiscountListQuery) ([]domain.Discount, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("discount repository not initialised")
	}

	docs, err := r.discounts.Query(ctx, func(q firestore.Query) firestore.Query {
		if query.ActiveOnly {
			q = q.Where("isActive", "==", true)
		}
		q = q.OrderBy("createdAt", firestore.Desc)
		if query.Limit > 0 {
			q = q.Limit(query.Limit)
		}
		return q
	})
	if err != nil {
		return nil, wrapDiscountError("discounts.list", err)
	}

	discounts := make([]domain.Discount, 0, len(docs))
	for _, doc := range docs {
		discounts = append(discounts, doc.Data.toDomain(doc.ID))
	}
	return discounts, nil
}

// FindByCode looks up an active discount by its canonical uppercase code.
func (r *DiscountRepository) FindByCode(ctx context.Context, code string) (domain.Discount, error) {
	if r == nil || r.provider == nil {
		return domain.Discount{}, errors.New("discount repository not initialised")
	}
	normalized := domain.NormalizeCode(code)
	if normalized == "" {
		return domain.Discount{}, errors.New("discount find: code is required")
	}

	docs, err := r.discounts.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("code", "==", normalized).Where("isActive", "==", true).Limit(1)
	})
	if err != nil {
		return domain.Discount{}, wrapDiscountError("discounts.find", err)
	}
	if len(docs) == 0 {
		return domain.Discount{}, repositories.NewDiscountError(repositories.DiscountErrorNotFound, fmt.Sprintf("discount code %s not found", normalized), nil)
	}
	return docs[0].Data.toDomain(docs[0].ID), nil
}

// Insert registers the discount, rejecting codes that already exist. The
// uniqueness check and the write share a transaction.
func (r *DiscountRepository) Insert(ctx context.Context, discount domain.Discount) error {
	if r == nil || r.provider == nil {
		return errors.New("discount repository not initialised")
	}
	if strings.TrimSpace(discount.ID) == "" {
		return errors.New("discount insert: id is required")
	}
	doc := newDiscountDocument(discount)
	if doc.Code == "" {
		return errors.New("discount insert: code is required")
	}

	err := r.provider.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		coll, err := r.discounts.Ref(ctx)
		if err != nil {
			return err
		}
		ref, err := r.discounts.DocumentRef(ctx, discount.ID)
		if err != nil {
			return err
		}

		codeQuery := coll.Where("code", "==", doc.Code).Limit(1)
		iter := tx.Documents(codeQuery)
		_, err = iter.Next()
		iter.Stop()
		if err == nil {
			return repositories.NewDiscountError(repositories.DiscountErrorDuplicateCode, fmt.Sprintf("discount code %s already exists", doc.Code), nil)
		}
		if !errors.Is(err, iterator.Done) {
			return err
		}
		return tx.Create(ref, doc)
	})
	if err != nil {
		return wrapDiscountError("discounts.insert", err)
	}
	return nil
}

func (r *DiscountRepository) Delete(ctx context.Context, discountID string) error {
	if r == nil || r.provider == nil {
		return errors.New("discount repository not initialised")
	}
	if strings.TrimSpace(discountID) == "" {
		return errors.New("discount delete: id is required")
	}
	if err := r.discounts.Delete(ctx, discountID); err != nil {
		if pfirestore.IsNotFound(err) {
			return repositories.NewDiscountError(repositories.DiscountErrorNotFound, fmt.Sprintf("discount %s not found", discountID), err)
		}
		return wrapDiscountError("discounts.delete", err)
	}
	return nil
}

// IncrementUsage bumps the usage counter transactionally, honouring the cap.
// A zero MaxUses means unlimited.
func (r *DiscountRepository) IncrementUsage(ctx context.Context, code string) (domain.Discount, error) {
	if r == nil || r.provider == nil {
		return domain.Discount{}, errors.New("discount repository not initialised")
	}
	normalized := domain.NormalizeCode(code)
	if normalized == "" {
		return domain.Discount{}, errors.New("discount increment: code is required")
	}

	var updated domain.Discount
	err := r.provider.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		coll, err := r.discounts.Ref(ctx)
		if err != nil {
			return err
		}
		codeQuery := coll.Where("code", "==", normalized).Where("isActive", "==", true).Limit(1)
		iter := tx.Documents(codeQuery)
		snap, err := iter.Next()
		iter.Stop()
		if errors.Is(err, iterator.Done) {
			return repositories.NewDiscountError(repositories.DiscountErrorNotFound, fmt.Sprintf("discount code %s not found", normalized), nil)
		}
		if err != nil {
			return err
		}
		doc, err := r.discounts.Decode(snap)
		if err != nil {
			return err
		}

		discount := doc.Data
		if discount.MaxUses > 0 && discount.UsedCount >= discount.MaxUses {
			return repositories.NewDiscountError(repositories.DiscountErrorExhausted, fmt.Sprintf("discount code %s is exhausted", normalized), nil)
		}
		discount.UsedCount++
		if err := tx.Set(snap.Ref, discount); err != nil {
			return err
		}
		updated = discount.toDomain(doc.ID)
		return nil
	})
	if err != nil {
		return domain.Discount{}, wrapDiscountError("discounts.increment_usage", err)
	}
	return updated, nil
}

func wrapDiscountError(op string, err error) error {
	if err == nil {
		return nil
	}
	var discountErr *repositories.DiscountError
	if errors.As(err, &discountErr) {
		if discountErr.Op == "" {
			discountErr.Op = op
		}
		return discountErr
	}
	return fmt.Errorf("%s: %w", op, err)
}
