package services

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	domain "github.com/bouwshop/api/internal/domain"
	"github.com/bouwshop/api/internal/repositories"
)

// SeedServiceDeps bundles dependencies required to construct a SeedService implementation.
type SeedServiceDeps struct {
	Categories repositories.CategoryRepository
	Products   repositories.ProductRepository
	Discounts  repositories.DiscountRepository
	Clock      func() time.Time
	IDGen      func() string
}

type seedService struct {
	categories repositories.CategoryRepository
	products   repositories.ProductRepository
	discounts  repositories.DiscountRepository
	clock      func() time.Time
	idGen      func() string
}

// NewSeedService wires a SeedService backed by the provided repositories.
func NewSeedService(deps SeedServiceDeps) (SeedService, error) {
	if deps.Categories == nil || deps.Products == nil || deps.Discounts == nil {
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
	return &seedService{
		categories: deps.Categories,
		products:   deps.Products,
		discounts:  deps.Discounts,
		clock:      func() time.Time { return clock().UTC() },
		idGen:      idGen,
	}, nil
}

// Seed loads the sample catalog into an empty store. A store that already
// has categories is left untouched.
func (s *seedService) Seed(ctx context.Context) (SeedResult, error) {
	if s == nil || s.categories == nil {
		return SeedResult{}, ErrRepositoryMissing
	}

	existing, err := s.categories.List(ctx, repositories.CategoryListQuery{Limit: 1})
	if err != nil {
		return SeedResult{}, fmt.Errorf("seed service: check categories: %w", err)
	}
	if len(existing) > 0 {
		return SeedResult{Seeded: false}, nil
	}

	now := s.clock()
	categories := seedCategories(s.idGen, now)
	for _, category := range categories {
		if err := s.categories.Insert(ctx, category); err != nil {
			return SeedResult{}, fmt.Errorf("seed service: insert category: %w", err)
		}
	}

	products := seedProducts(s.idGen, categories, now)
	for _, product := range products {
		if err := s.products.Insert(ctx, product); err != nil {
			return SeedResult{}, fmt.Errorf("seed service: insert product: %w", err)
		}
	}

	discount := seedDiscount(s.idGen(), now)
	if err := s.discounts.Insert(ctx, discount); err != nil {
		return SeedResult{}, fmt.Errorf("seed service: insert discount: %w", err)
	}

	return SeedResult{
		Seeded:     true,
		Categories: len(categories),
		Products:   len(products),
		Discounts:  1,
	}, nil
}

func seedCategories(idGen func() string, now time.Time) []domain.Category {
	specs := []struct {
		name        domain.LocalizedText
		description domain.LocalizedText
		sortOrder   int
	}{
		{
			name:        domain.LocalizedText{NL: "Handgereedschap", FR: "Outils à main", EN: "Hand Tools", TR: "El Aletleri"},
			description: domain.LocalizedText{NL: "Alle handgereedschappen", FR: "Tous les outils à main", EN: "All hand tools", TR: "Tüm el aletleri"},
			sortOrder:   1,
		},
		{
			name:        domain.LocalizedText{NL: "Elektrisch gereedschap", FR: "Outils électriques", EN: "Power Tools", TR: "Elektrikli Aletler"},
			description: domain.LocalizedText{NL: "Elektrisch gereedschap", FR: "Outils électriques", EN: "Power tools", TR: "Elektrikli aletler"},
			sortOrder:   2,
		},
		{
			name:        domain.LocalizedText{NL: "Verf & Accessoires", FR: "Peinture & Accessoires", EN: "Paint & Accessories", TR: "Boya & Aksesuarlar"},
			description: domain.LocalizedText{NL: "Verf en schilderbenodigdheden", FR: "Peinture et fournitures de peinture", EN: "Paint and painting supplies", TR: "Boya ve boya malzemeleri"},
			sortOrder:   3,
		},
		{
			name:        domain.LocalizedText{NL: "Bevestigingsmaterialen", FR: "Fixations", EN: "Fasteners", TR: "Bağlantı Elemanları"},
			description: domain.LocalizedText{NL: "Schroeven, bouten en moeren", FR: "Vis, boulons et écrous", EN: "Screws, bolts and nuts", TR: "Vidalar, cıvatalar ve somunlar"},
			sortOrder:   4,
		},
		{
			name:        domain.LocalizedText{NL: "Sanitair", FR: "Plomberie", EN: "Plumbing", TR: "Sıhhi Tesisat"},
			description: domain.LocalizedText{NL: "Sanitaire artikelen", FR: "Articles de plomberie", EN: "Plumbing supplies", TR: "Sıhhi tesisat malzemeleri"},
			sortOrder:   5,
		},
		{
			name:        domain.LocalizedText{NL: "Elektriciteit", FR: "Électricité", EN: "Electrical", TR: "Elektrik"},
			description: domain.LocalizedText{NL: "Elektrische artikelen", FR: "Articles électriques", EN: "Electrical supplies", TR: "Elektrik malzemeleri"},
			sortOrder:   6,
		},
	}

	categories := make([]domain.Category, 0, len(specs))
	for _, spec := range specs {
		categories = append(categories, domain.Category{
			ID:          idGen(),
			Name:        spec.name,
			Description: spec.description,
			IsActive:    true,
			SortOrder:   spec.sortOrder,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return categories
}

func seedProducts(idGen func() string, categories []domain.Category, now time.Time) []domain.Product {
	specs := []struct {
		name          domain.LocalizedText
		description   domain.LocalizedText
		price         float64
		stock         int
		sku           string
		categoryIndex int
		unit          domain.Unit
		brand         string
		extra         map[string]string
	}{
		{
			name:          domain.LocalizedText{NL: "Professionele Hamer", FR: "Marteau professionnel", EN: "Professional Hammer", TR: "Profesyonel Çekiç"},
			description:   domain.LocalizedText{NL: "Hoogwaardige stalen hamer", FR: "Marteau en acier de haute qualité", EN: "High quality steel hammer", TR: "Yüksek kaliteli çelik çekiç"},
			price:         24.99,
			stock:         50,
			sku:           "HT-001",
			categoryIndex: 0,
			unit:          domain.UnitPiece,
			brand:         "Stanley",
			extra:         map[string]string{"weight": "500g", "material": "Steel"},
		},
		{
			name:          domain.LocalizedText{NL: "Schroevendraaierset 12-delig", FR: "Jeu de tournevis 12 pièces", EN: "Screwdriver Set 12-piece", TR: "12 Parça Tornavida Seti"},
			description:   domain.LocalizedText{NL: "Complete set schroevendraaiers", FR: "Jeu complet de tournevis", EN: "Complete set of screwdrivers", TR: "Komple tornavida seti"},
			price:         34.99,
			stock:         30,
			sku:           "HT-002",
			categoryIndex: 0,
			unit:          domain.UnitSet,
			brand:         "Bosch",
			extra:         map[string]string{"pieces": "12", "type": "Various"},
		},
		{
			name:          domain.LocalizedText{NL: "Accuboormachine 18V", FR: "Perceuse sans fil 18V", EN: "Cordless Drill 18V", TR: "Akülü Matkap 18V"},
			description:   domain.LocalizedText{NL: "Krachtige accuboormachine", FR: "Perceuse sans fil puissante", EN: "Powerful cordless drill", TR: "Güçlü akülü matkap"},
			price:         129.99,
			stock:         15,
			sku:           "PT-001",
			categoryIndex: 1,
			unit:          domain.UnitPiece,
			brand:         "DeWalt",
			extra:         map[string]string{"voltage": "18V", "battery": "2.0Ah"},
		},
		{
			name:          domain.LocalizedText{NL: "Muurverf Wit 10L", FR: "Peinture murale blanche 10L", EN: "Wall Paint White 10L", TR: "Duvar Boyası Beyaz 10L"},
			description:   domain.LocalizedText{NL: "Witte muurverf voor binnen", FR: "Peinture murale blanche pour intérieur", EN: "White wall paint for interior", TR: "İç mekan için beyaz duvar boyası"},
			price:         49.99,
			stock:         25,
			sku:           "PA-001",
			categoryIndex: 2,
			unit:          domain.UnitBucket,
			brand:         "Levis",
			extra:         map[string]string{"volume": "10L", "coverage": "80m²"},
		},
		{
			name:          domain.LocalizedText{NL: "Schroeven Assortiment", FR: "Assortiment de vis", EN: "Screw Assortment", TR: "Vida Çeşitleri"},
			description:   domain.LocalizedText{NL: "500 schroeven in diverse maten", FR: "500 vis de différentes tailles", EN: "500 screws in various sizes", TR: "Çeşitli boyutlarda 500 vida"},
			price:         19.99,
			stock:         100,
			sku:           "FA-001",
			categoryIndex: 3,
			unit:          domain.UnitBox,
			brand:         "Fischer",
			extra:         map[string]string{"quantity": "500", "sizes": "3-6mm"},
		},
		{
			name:          domain.LocalizedText{NL: "Waterkraan Mixer", FR: "Robinet mitigeur", EN: "Mixer Tap", TR: "Mikser Musluk"},
			description:   domain.LocalizedText{NL: "Moderne keukenkraan", FR: "Robinet de cuisine moderne", EN: "Modern kitchen tap", TR: "Modern mutfak musluğu"},
			price:         79.99,
			stock:         20,
			sku:           "PL-001",
			categoryIndex: 4,
			unit:          domain.UnitPiece,
			brand:         "Grohe",
			extra:         map[string]string{"material": "Chrome", "type": "Single lever"},
		},
	}

	products := make([]domain.Product, 0, len(specs))
	for _, spec := range specs {
		products = append(products, domain.Product{
			ID:             idGen(),
			Name:           spec.name,
			Description:    spec.description,
			Price:          spec.price,
			Stock:          spec.stock,
			SKU:            spec.sku,
			CategoryID:     categories[spec.categoryIndex].ID,
			IsActive:       true,
			Unit:           spec.unit,
			Brand:          spec.brand,
			Specifications: spec.extra,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return products
}

func seedDiscount(id string, now time.Time) domain.Discount {
	return domain.Discount{
		ID:   id,
		Code: "WELCOME10",
		Name: domain.LocalizedText{
			NL: "Welkomstkorting",
			FR: "Réduction de bienvenue",
			EN: "Welcome Discount",
			TR: "Hoşgeldin İndirimi",
		},
		Description: domain.LocalizedText{
			NL: "10% korting op uw eerste bestelling",
			FR: "10% de réduction sur votre première commande",
			EN: "10% off your first order",
			TR: "İlk siparişinizde %10 indirim",
		},
		DiscountType:   domain.DiscountTypePercentage,
		DiscountValue:  10,
		MinOrderAmount: 50,
		MaxUses:        0,
		UsedCount:      0,
		IsActive:       true,
		ValidFrom:      now,
		CreatedAt:      now,
	}
}
