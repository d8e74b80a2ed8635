package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/OyamaKema/Hardware-Jack/internal/domain"
	"github.com/OyamaKema/Hardware-Jack/internal/fetch"
	"github.com/OyamaKema/Hardware-Jack/internal/pricing"
	"github.com/OyamaKema/Hardware-Jack/internal/scrape"
	"github.com/OyamaKema/Hardware-Jack/internal/store"

	"go.uber.org/zap"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ImportResult is a freshly imported product plus the manual-review flag.
// When NeedsManualReview is set the operator is expected to follow up with
// a REPRICE mutation carrying the real base price.
type ImportResult struct {
	Product           domain.Product
	NeedsManualReview bool
}

// CatalogService owns the product catalog: importing listings from the
// marketplace and editorial mutations over the imported records.
type CatalogService interface {
	// Import fetches one listing page, extracts and prices it, and appends
	// the resulting product to the catalog. The category is the operator's
	// choice, never inferred from page content.
	Import(ctx context.Context, url, category string) (*ImportResult, error)

	List(ctx context.Context, category string) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)

	// Update shallow-merges the supplied fields into the record with the
	// given id. An unknown id is a no-op success; callers that care
	// re-read the catalog.
	Update(ctx context.Context, id string, fields map[string]any) error

	// Reprice re-applies the markup formula to an operator-supplied base
	// price. Manual corrections never set a final price directly.
	Reprice(ctx context.Context, id string, basePrice int) error

	// Delete removes the record from the active catalog ("mark sold").
	Delete(ctx context.Context, id string) error
}

type catalogService struct {
	products  store.DocumentStore[domain.Product]
	fetcher   *fetch.Fetcher
	extractor *scrape.Extractor
	pricer    *pricing.Engine
	logger    *zap.Logger
	now       func() time.Time
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(
	products store.DocumentStore[domain.Product],
	fetcher *fetch.Fetcher,
	extractor *scrape.Extractor,
	pricer *pricing.Engine,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		products:  products,
		fetcher:   fetcher,
		extractor: extractor,
		pricer:    pricer,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *catalogService) Import(ctx context.Context, url, category string) (*ImportResult, error) {
	html, err := s.fetcher.Page(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}

	candidate, err := s.extractor.Extract(html)
	if err != nil {
		return nil, fmt.Errorf("extract listing: %w", err)
	}

	price := s.pricer.Price(candidate.RawPriceText, category)

	images := candidate.Images
	if len(images) == 0 && candidate.CoverImage != "" {
		images = []string{candidate.CoverImage}
	}

	product := domain.Product{
		ID:          strconv.FormatInt(s.now().UnixMilli(), 10),
		Name:        candidate.Name,
		Price:       price,
		Image:       candidate.CoverImage,
		Images:      images,
		Description: candidate.Description,
		URL:         url,
		Category:    category,
	}

	// The append happens only after extraction and pricing completed in
	// memory; a failure above leaves the catalog untouched.
	if _, err := s.products.Update(ctx, func(all []domain.Product) ([]domain.Product, error) {
		return append(all, product), nil
	}); err != nil {
		return nil, fmt.Errorf("append to catalog: %w", err)
	}

	needsReview := s.pricer.NeedsManualReview(price)
	s.logger.Info("Listing imported",
		zap.String("product_id", product.ID),
		zap.String("category", category),
		zap.Int("price", price),
		zap.Int("images", len(images)),
		zap.Bool("needs_manual_review", needsReview),
	)
	return &ImportResult{Product: product, NeedsManualReview: needsReview}, nil
}

func (s *catalogService) List(ctx context.Context, category string) ([]domain.Product, error) {
	all, err := s.products.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if category == "" || category == "All" {
		return all, nil
	}
	filtered := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (s *catalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	all, err := s.products.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, ErrProductNotFound
}

func (s *catalogService) Update(ctx context.Context, id string, fields map[string]any) error {
	_, err := s.products.Update(ctx, func(all []domain.Product) ([]domain.Product, error) {
		for i := range all {
			if all[i].ID == id {
				all[i] = applyFields(all[i], fields)
			}
		}
		return all, nil
	})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (s *catalogService) Reprice(ctx context.Context, id string, basePrice int) error {
	found := false
	_, err := s.products.Update(ctx, func(all []domain.Product) ([]domain.Product, error) {
		for i := range all {
			if all[i].ID == id {
				all[i].Price = s.pricer.Reprice(basePrice, all[i].Category)
				found = true
			}
		}
		return all, nil
	})
	if err != nil {
		return fmt.Errorf("reprice product: %w", err)
	}
	if !found {
		return ErrProductNotFound
	}
	return nil
}

func (s *catalogService) Delete(ctx context.Context, id string) error {
	found := false
	_, err := s.products.Update(ctx, func(all []domain.Product) ([]domain.Product, error) {
		kept := make([]domain.Product, 0, len(all))
		for _, p := range all {
			if p.ID == id {
				found = true
				continue
			}
			kept = append(kept, p)
		}
		return kept, nil
	})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if !found {
		return ErrProductNotFound
	}
	return nil
}

// applyFields shallow-merges editable fields into a product. Unknown keys
// are ignored; numbers arrive as float64 from decoded JSON.
func applyFields(p domain.Product, fields map[string]any) domain.Product {
	for key, value := range fields {
		switch key {
		case "name":
			if s, ok := value.(string); ok {
				p.Name = s
			}
		case "description":
			if s, ok := value.(string); ok {
				p.Description = s
			}
		case "image":
			if s, ok := value.(string); ok {
				p.Image = s
			}
		case "url":
			if s, ok := value.(string); ok {
				p.URL = s
			}
		case "category":
			if s, ok := value.(string); ok {
				p.Category = s
			}
		case "price":
			switch n := value.(type) {
			case float64:
				p.Price = int(n)
			case int:
				p.Price = n
			}
		case "images":
			switch imgs := value.(type) {
			case []string:
				p.Images = imgs
			case []any:
				urls := make([]string, 0, len(imgs))
				for _, v := range imgs {
					if s, ok := v.(string); ok {
						urls = append(urls, s)
					}
				}
				p.Images = urls
			}
		}
	}
	return p
}
