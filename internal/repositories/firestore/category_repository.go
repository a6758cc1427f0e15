package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	domain "github.com/bouwshop/api/internal/domain"
	pfirestore "github.com/bouwshop/api/internal/platform/firestore"
	"github.com/bouwshop/api/internal/repositories"
)

const categoriesCollection = "categories"

type categoryDocument struct {
	Name        domain.LocalizedText `firestore:"name"`
	Description domain.LocalizedText `firestore:"description"`
	ParentID    string               `firestore:"parentId"`
	IsActive    bool                 `firestore:"isActive"`
	SortOrder   int                  `firestore:"sortOrder"`
	CreatedAt   time.Time            `firestore:"createdAt"`
	UpdatedAt   time.Time            `firestore:"updatedAt"`
}

func newCategoryDocument(category domain.Category) categoryDocument {
	return categoryDocument{
		Name:        category.Name,
		Description: category.Description,
		ParentID:    category.ParentID,
		IsActive:    category.IsActive,
		SortOrder:   category.SortOrder,
		CreatedAt:   category.CreatedAt.UTC(),
		UpdatedAt:   category.UpdatedAt.UTC(),
	}
}

func (d categoryDocument) toDomain(id string) domain.Category {
	return domain.Category{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		ParentID:    d.ParentID,
		IsActive:    d.IsActive,
		SortOrder:   d.SortOrder,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// CategoryRepository persists catalog categories in Firestore.
type CategoryRepository struct {
	provider   *pfirestore.Provider
	categories *pfirestore.Collection[categoryDocument]
}

// NewCategoryRepository constructs a CategoryRepository bound to the provider.
func NewCategoryRepository(provider *pfirestore.Provider) (*CategoryRepository, error) {
	if provider == nil {
		return nil, errors.New("category repository requires firestore provider")
	}
	return &CategoryRepository{
		provider:   provider,
		categories: pfirestore.NewCollection[categoryDocument](provider, categoriesCollection),
	}, nil
}

func (r *CategoryRepository) List(ctx context.Context, query repositories.CategoryListQuery) ([]domain.Category, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("category repository not initialised")
	}

	docs, err := r.categories.Query(ctx, func(q firestore.Query) firestore.Query {
		if query.ActiveOnly {
			q = q.Where("isActive", "==", true)
		}
		q = q.OrderBy("sortOrder", firestore.Asc)
		if query.Limit > 0 {
			q = q.Limit(query.Limit)
		}
		return q
	})
	if err != nil {
		return nil, wrapCatalogError("categories.list", err)
	}

	categories := make([]domain.Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, doc.Data.toDomain(doc.ID))
	}
	return categories, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, categoryID string) (domain.Category, error) {
	if r == nil || r.provider == nil {
		return domain.Category{}, errors.New("category repository not initialised")
	}
	if strings.TrimSpace(categoryID) == "" {
		return domain.Category{}, errors.New("category find: id is required")
	}

	doc, err := r.categories.Get(ctx, categoryID)
	if err != nil {
		if pfirestore.IsNotFound(err) {
			return domain.Category{}, repositories.NewCatalogError(repositories.CatalogErrorCategoryNotFound, fmt.Sprintf("category %s not found", categoryID), err)
		}
		return domain.Category{}, wrapCatalogError("categories.find", err)
	}
	return doc.Data.toDomain(doc.ID), nil
}

func (r *CategoryRepository) Insert(ctx context.Context, category domain.Category) error {
	if r == nil || r.provider == nil {
		return errors.New("category repository not initialised")
	}
	if strings.TrimSpace(category.ID) == "" {
		return errors.New("category insert: id is required")
	}
	if err := r.categories.Create(ctx, category.ID, newCategoryDocument(category)); err != nil {
		return wrapCatalogError("categories.insert", err)
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, category domain.Category) error {
	if r == nil || r.provider == nil {
		return errors.New("category repository not initialised")
	}
	if strings.TrimSpace(category.ID) == "" {
		return errors.New("category update: id is required")
	}
	if _, err := r.FindByID(ctx, category.ID); err != nil {
		return err
	}
	if err := r.categories.Set(ctx, category.ID, newCategoryDocument(category)); err != nil {
		return wrapCatalogError("categories.update", err)
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, categoryID string) error {
	if r == nil || r.provider == nil {
		return errors.New("category repository not initialised")
	}
	if strings.TrimSpace(categoryID) == "" {
		return errors.New("category delete: id is required")
	}
	if err := r.categories.Delete(ctx, categoryID); err != nil {
		if pfirestore.IsNotFound(err) {
			return repositories.NewCatalogError(repositories.CatalogErrorCategoryNotFound, fmt.Sprintf("category %s not found", categoryID), err)
		}
		return wrapCatalogError("categories.delete", err)
	}
	return nil
}

func wrapCatalogError(op string, err error) error {
	if err == nil {
		return nil
	}
	var catalogErr *repositories.CatalogError
	if errors.As(err, &catalogErr) {
		if catalogErr.Op == "" {
			catalogErr.Op = op
		}
		return catalogErr
	}
	return fmt.Errorf("%s: %w", op, err)
}
