package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	domain "github.com/bouwshop/api/internal/domain"
	"github.com/bouwshop/api/internal/repositories"
)

const maxListLimit = 200

// CatalogServiceDeps bundles dependencies required to construct a CatalogService implementation.
type CatalogServiceDeps struct {
	Categories repositories.CategoryRepository
	Products   repositories.ProductRepository
	Clock      func() time.Time
	IDGen      func() string
}

type catalogService struct {
	categories repositories.CategoryRepository
	products   repositories.ProductRepository
	clock      func() time.Time
	idGen      func() string
}

// NewCatalogService wires a CatalogService backed by the provided repositories.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Categories == nil || deps.Products == nil {
		return nil, ErrRepositoryMissing
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	idGen := deps.IDGen
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}
	return &catalogService{
		categories: deps.Categories,
		products:   deps.Products,
		clock:      func() time.Time { return clock().UTC() },
		idGen:      idGen,
	}, nil
}

func (s *catalogService) ListCategories(ctx context.Context, filter CategoryFilter) ([]domain.Category, error) {
	if s == nil || s.categories == nil {
		return nil, ErrRepositoryMissing
	}
	categories, err := s.categories.List(ctx, repositories.CategoryListQuery{
		ActiveOnly: filter.ActiveOnly,
		Limit:      maxListLimit,
	})
	if err != nil {
		return nil, s.mapCatalogError(err)
	}
	return categories, nil
}

func (s *catalogService) GetCategory(ctx context.Context, categoryID string) (domain.Category, error) {
	if s == nil || s.categories == nil {
		return domain.Category{}, ErrRepositoryMissing
	}
	if strings.TrimSpace(categoryID) == "" {
		return domain.Category{}, fmt.Errorf("%w: category id is required", ErrInvalidInput)
	}
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return domain.Category{}, s.mapCatalogError(err)
	}
	return category, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, cmd UpsertCategoryCommand) (domain.Category, error) {
	if s == nil || s.categories == nil {
		return domain.Category{}, ErrRepositoryMissing
	}
	if err := validateLocalizedName(cmd.Name); err != nil {
		return domain.Category{}, err
	}

	now := s.clock()
	category := domain.Category{
		ID:          s.idGen(),
		Name:        cmd.Name,
		Description: cmd.Description,
		ParentID:    strings.TrimSpace(cmd.ParentID),
		IsActive:    cmd.IsActive,
		SortOrder:   cmd.SortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categories.Insert(ctx, category); err != nil {
		return domain.Category{}, s.mapCatalogError(err)
	}
	return category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, categoryID string, cmd UpsertCategoryCommand) (domain.Category, error) {
	if s == nil || s.categories == nil {
		return domain.Category{}, ErrRepositoryMissing
	}
	if strings.TrimSpace(categoryID) == "" {
		return domain.Category{}, fmt.Errorf("%w: category id is required", ErrInvalidInput)
	}
	if err := validateLocalizedName(cmd.Name); err != nil {
		return domain.Category{}, err
	}

	existing, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return domain.Category{}, s.mapCatalogError(err)
	}

	updated := existing
	updated.Name = cmd.Name
	updated.Description = cmd.Description
	updated.ParentID = strings.TrimSpace(cmd.ParentID)
	updated.IsActive = cmd.IsActive
	updated.SortOrder = cmd.SortOrder
	updated.UpdatedAt = s.clock()
	if err := s.categories.Update(ctx, updated); err != nil {
		return domain.Category{}, s.mapCatalogError(err)
	}
	return updated, nil
}

// DeleteCategory removes the category only. Products keep their category_id;
// dangling references are tolerated.
func (s *catalogService) DeleteCategory(ctx context.Context, categoryID string) error {
	if s == nil || s.categories == nil {
		return ErrRepositoryMissing
	}
	if strings.TrimSpace(categoryID) == "" {
		return fmt.Errorf("%w: category id is required", ErrInvalidInput)
	}
	if err := s.categories.Delete(ctx, categoryID); err != nil {
		return s.mapCatalogError(err)
	}
	return nil
}

func (s *catalogService) ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	if s == nil || s.products == nil {
		return nil, ErrRepositoryMissing
	}
	if filter.Skip < 0 || filter.Limit < 0 {
		return nil, fmt.Errorf("%w: skip and limit must be >= 0", ErrInvalidInput)
	}
	limit := filter.Limit
	if limit == 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	products, err := s.products.List(ctx, repositories.ProductListQuery{
		CategoryID: strings.TrimSpace(filter.CategoryID),
		Search:     strings.TrimSpace(filter.Search),
		ActiveOnly: filter.ActiveOnly,
		Skip:       filter.Skip,
		Limit:      limit,
	})
	if err != nil {
		return nil, s.mapCatalogError(err)
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	if s == nil || s.products == nil {
		return domain.Product{}, ErrRepositoryMissing
	}
	if strings.TrimSpace(productID) == "" {
		return domain.Product{}, fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return domain.Product{}, s.mapCatalogError(err)
	}
	return product, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (domain.Product, error) {
	if s == nil || s.products == nil {
		return domain.Product{}, ErrRepositoryMissing
	}
	if err := validateLocalizedName(cmd.Name); err != nil {
		return domain.Product{}, err
	}
	if cmd.Price < 0 {
		return domain.Product{}, fmt.Errorf("%w: price must be >= 0", ErrInvalidInput)
	}
	if cmd.Stock < 0 {
		return domain.Product{}, fmt.Errorf("%w: stock must be >= 0", ErrInvalidInput)
	}
	unit := domain.UnitPiece
	if strings.TrimSpace(cmd.Unit) != "" {
		parsed, err := domain.ParseUnit(cmd.Unit)
		if err != nil {
			return domain.Product{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		unit = parsed
	}

	now := s.clock()
	product := domain.Product{
		ID:             s.idGen(),
		Name:           cmd.Name,
		Description:    cmd.Description,
		Price:          domain.Round2(cmd.Price),
		Stock:          cmd.Stock,
		SKU:            strings.TrimSpace(cmd.SKU),
		CategoryID:     strings.TrimSpace(cmd.CategoryID),
		IsActive:       cmd.IsActive,
		Unit:           unit,
		Brand:          strings.TrimSpace(cmd.Brand),
		Specifications: cmd.Specifications,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.products.Insert(ctx, product); err != nil {
		return domain.Product{}, s.mapCatalogError(err)
	}
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, productID string, cmd UpdateProductCommand) (domain.Product, error) {
	if s == nil || s.products == nil {
		return domain.Product{}, ErrRepositoryMissing
	}
	if strings.TrimSpace(productID) == "" {
		return domain.Product{}, fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}

	existing, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return domain.Product{}, s.mapCatalogError(err)
	}

	updated := existing
	if cmd.Name != nil {
		if err := validateLocalizedName(*cmd.Name); err != nil {
			return domain.Product{}, err
		}
		updated.Name = *cmd.Name
	}
	if cmd.Description != nil {
		updated.Description = *cmd.Description
	}
	if cmd.Price != nil {
		if *cmd.Price < 0 {
			return domain.Product{}, fmt.Errorf("%w: price must be >= 0", ErrInvalidInput)
		}
		updated.Price = domain.Round2(*cmd.Price)
	}
	if cmd.Stock != nil {
		if *cmd.Stock < 0 {
			return domain.Product{}, fmt.Errorf("%w: stock must be >= 0", ErrInvalidInput)
		}
		updated.Stock = *cmd.Stock
	}
	if cmd.SKU != nil {
		updated.SKU = strings.TrimSpace(*cmd.SKU)
	}
	if cmd.CategoryID != nil {
		updated.CategoryID = strings.TrimSpace(*cmd.CategoryID)
	}
	if cmd.IsActive != nil {
		updated.IsActive = *cmd.IsActive
	}
	if cmd.Unit != nil {
		parsed, err := domain.ParseUnit(*cmd.Unit)
		if err != nil {
			return domain.Product{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		updated.Unit = parsed
	}
	if cmd.Brand != nil {
		updated.Brand = strings.TrimSpace(*cmd.Brand)
	}
	if cmd.Specifications != nil {
		updated.Specifications = cmd.Specifications
	}
	updated.UpdatedAt = s.clock()

	if err := s.products.Update(ctx, updated); err != nil {
		return domain.Product{}, s.mapCatalogError(err)
	}
	return updated, nil
}

// AdjustStock applies a signed delta and returns the new stock level. The
// repository rejects adjustments that would drive stock negative.
func (s *catalogService) AdjustStock(ctx context.Context, productID string, delta int) (int, error) {
	if s == nil || s.products == nil {
		return 0, ErrRepositoryMissing
	}
	if strings.TrimSpace(productID) == "" {
		return 0, fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	newStock, err := s.products.AdjustStock(ctx, repositories.StockAdjustment{
		ProductID: productID,
		Delta:     delta,
		Now:       s.clock(),
	})
	if err != nil {
		return 0, s.mapCatalogError(err)
	}
	return newStock, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, productID string) error {
	if s == nil || s.products == nil {
		return ErrRepositoryMissing
	}
	if strings.TrimSpace(productID) == "" {
		return fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	if err := s.products.Delete(ctx, productID); err != nil {
		return s.mapCatalogError(err)
	}
	return nil
}

func (s *catalogService) mapCatalogError(err error) error {
	if err == nil {
		return nil
	}
	var catalogErr *repositories.CatalogError
	if errors.As(err, &catalogErr) {
		switch catalogErr.Code {
		case repositories.CatalogErrorProductNotFound:
			return ErrProductNotFound
		case repositories.CatalogErrorCategoryNotFound:
			return ErrCategoryNotFound
		case repositories.CatalogErrorInsufficientStock:
			return ErrInsufficientStock
		}
	}
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) && repoErr.IsUnavailable() {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func validateLocalizedName(name domain.LocalizedText) error {
	if strings.TrimSpace(name.NL) == "" && strings.TrimSpace(name.FR) == "" &&
		strings.TrimSpace(name.EN) == "" && strings.TrimSpace(name.TR) == "" {
		return fmt.Errorf("%w: name requires at least one translation", ErrInvalidInput)
	}
	return nil
}
