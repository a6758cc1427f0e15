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

const productsCollection = "products"

type productDocument struct {
	Name           domain.LocalizedText `firestore:"name"`
	Description    domain.LocalizedText `firestore:"description"`
	Price          float64              `firestore:"price"`
	Stock          int                  `firestore:"stock"`
	SKU            string               `firestore:"sku"`
	CategoryID     string               `firestore:"categoryId"`
	IsActive       bool                 `firestore:"isActive"`
	Unit           string               `firestore:"unit"`
	Brand          string               `firestore:"brand"`
	Specifications map[string]string    `firestore:"specifications"`
	CreatedAt      time.Time            `firestore:"createdAt"`
	UpdatedAt      time.Time            `firestore:"updatedAt"`
}

func newProductDocument(product domain.Product) productDocument {
	return productDocument{
		Name:           product.Name,
		Description:    product.Description,
		Price:          product.Price,
		Stock:          product.Stock,
		SKU:            product.SKU,
		CategoryID:     product.CategoryID,
		IsActive:       product.IsActive,
		Unit:           string(product.Unit),
		Brand:          product.Brand,
		Specifications: product.Specifications,
		CreatedAt:      product.CreatedAt.UTC(),
		UpdatedAt:      product.UpdatedAt.UTC(),
	}
}

func (d productDocument) toDomain(id string) domain.Product {
	return domain.Product{
		ID:             id,
		Name:           d.Name,
		Description:    d.Description,
		Price:          d.Price,
		Stock:          d.Stock,
		SKU:            d.SKU,
		CategoryID:     d.CategoryID,
		IsActive:       d.IsActive,
		Unit:           domain.Unit(d.Unit),
		Brand:          d.Brand,
		Specifications: d.Specifications,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// matchesSearch mirrors the storefront search behaviour: a case-insensitive
// substring match over every name locale, the sku and the brand. Firestore
// has no text search, so the filter runs client side over the listed page.
func (d productDocument) matchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, candidate := range []string{d.Name.NL, d.Name.FR, d.Name.EN, d.Name.TR, d.SKU, d.Brand} {
		if strings.Contains(strings.ToLower(candidate), term) {
			return true
		}
	}
	return false
}

// ProductRepository persists catalog products in Firestore.
type ProductRepository struct {
	provider *pfirestore.Provider
	products *pfirestore.Collection[productDocument]
}

// NewProductRepository constructs a ProductRepository bound to the provider.
func NewProductRepository(provider *pfirestore.Provider) (*ProductRepository, error) {
	if provider == nil {
		return nil, errors.New("product repository requires firestore provider")
	}
	return &ProductRepository{
		provider: provider,
		products: pfirestore.NewCollection[productDocument](provider, productsCollection),
	}, nil
}

func (r *ProductRepository) List(ctx context.Context, query repositories.ProductListQuery) ([]domain.Product, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("product repository not initialised")
	}

	search := strings.TrimSpace(query.Search)
	docs, err := r.products.Query(ctx, func(q firestore.Query) firestore.Query {
		if query.ActiveOnly {
			q = q.Where("isActive", "==", true)
		}
		if query.CategoryID != "" {
			q = q.Where("categoryId", "==", query.CategoryID)
		}
		q = q.OrderBy("createdAt", firestore.Desc)
		// Search filtering happens after the fetch, so the query window
		// only narrows when no search term is present.
		if search == "" {
			if query.Skip > 0 {
				q = q.Offset(query.Skip)
			}
			if query.Limit > 0 {
				q = q.Limit(query.Limit)
			}
		}
		return q
	})
	if err != nil {
		return nil, wrapCatalogError("products.list", err)
	}

	products := make([]domain.Product, 0, len(docs))
	skipped := 0
	for _, doc := range docs {
		if search != "" {
			if !doc.Data.matchesSearch(search) {
				continue
			}
			if skipped < query.Skip {
				skipped++
				continue
			}
			if query.Limit > 0 && len(products) >= query.Limit {
				break
			}
		}
		products = append(products, doc.Data.toDomain(doc.ID))
	}
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, productID string) (domain.Product, error) {
	if r == nil || r.provider == nil {
		return domain.Product{}, errors.New("product repository not initialised")
	}
	if strings.TrimSpace(productID) == "" {
		return domain.Product{}, errors.New("product find: id is required")
	}

	doc, err := r.products.Get(ctx, productID)
	if err != nil {
		if pfirestore.IsNotFound(err) {
			return domain.Product{}, repositories.NewCatalogError(repositories.CatalogErrorProductNotFound, fmt.Sprintf("product %s not found", productID), err)
		}
		return domain.Product{}, wrapCatalogError("products.find", err)
	}
	return doc.Data.toDomain(doc.ID), nil
}

func (r *ProductRepository) Insert(ctx context.Context, product domain.Product) error {
	if r == nil || r.provider == nil {
		return errors.New("product repository not initialised")
	}
	if strings.TrimSpace(product.ID) == "" {
		return errors.New("product insert: id is required")
	}
	if err := r.products.Create(ctx, product.ID, newProductDocument(product)); err != nil {
		return wrapCatalogError("products.insert", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, product domain.Product) error {
	if r == nil || r.provider == nil {
		return errors.New("product repository not initialised")
	}
	if strings.TrimSpace(product.ID) == "" {
		return errors.New("product update: id is required")
	}
	if _, err := r.FindByID(ctx, product.ID); err != nil {
		return err
	}
	if err := r.products.Set(ctx, product.ID, newProductDocument(product)); err != nil {
		return wrapCatalogError("products.update", err)
	}
	return nil
}

// AdjustStock applies the signed delta inside a transaction so concurrent
// adjustments and order decrements serialise. Negative resulting stock
// rejects the adjustment rather than clamping.
func (r *ProductRepository) AdjustStock(ctx context.Context, adjustment repositories.StockAdjustment) (int, error) {
	if r == nil || r.provider == nil {
		return 0, errors.New("product repository not initialised")
	}
	if strings.TrimSpace(adjustment.ProductID) == "" {
		return 0, errors.New("product adjust stock: id is required")
	}

	now := adjustment.Now.UTC()
	var newStock int
	err := r.provider.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref, err := r.products.DocumentRef(ctx, adjustment.ProductID)
		if err != nil {
			return err
		}
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return repositories.NewCatalogError(repositories.CatalogErrorProductNotFound, fmt.Sprintf("product %s not found", adjustment.ProductID), err)
			}
			return err
		}
		doc, err := r.products.Decode(snap)
		if err != nil {
			return err
		}

		updated := doc.Data
		updated.Stock += adjustment.Delta
		if updated.Stock < 0 {
			return repositories.NewCatalogError(repositories.CatalogErrorInsufficientStock, fmt.Sprintf("stock for product %s cannot drop below zero", adjustment.ProductID), nil)
		}
		updated.UpdatedAt = now
		if err := tx.Set(ref, updated); err != nil {
			return err
		}
		newStock = updated.Stock
		return nil
	})
	if err != nil {
		return 0, wrapCatalogError("products.adjust_stock", err)
	}
	return newStock, nil
}

func (r *ProductRepository) Delete(ctx context.Context, productID string) error {
	if r == nil || r.provider == nil {
		return errors.New("product repository not initialised")
	}
	if strings.TrimSpace(productID) == "" {
		return errors.New("product delete: id is required")
	}
	if err := r.products.Delete(ctx, productID); err != nil {
		if pfirestore.IsNotFound(err) {
			return repositories.NewCatalogError(repositories.CatalogErrorProductNotFound, fmt.Sprintf("product %s not found", productID), err)
		}
		return wrapCatalogError("products.delete", err)
	}
	return nil
}
