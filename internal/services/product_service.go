package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"productapi/internal/cache"
	"productapi/internal/models"
	"productapi/internal/repositories"
)

const productListKey = "products:all"

// EventPublisher publishes product lifecycle events to a message broker.
type EventPublisher interface {
	PublishProductEvent(event map[string]interface{}) error
}

// ProductService handles business logic related to products. The event
// publisher and cache are optional; a nil publisher disables events and a
// nil cache disables read caching.
type ProductService struct {
	repo     repositories.ProductRepository
	events   EventPublisher
	cache    *cache.Cache
	validate *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, events EventPublisher, productCache *cache.Cache) *ProductService {
	return &ProductService{
		repo:     repo,
		events:   events,
		cache:    productCache,
		validate: validator.New(),
	}
}

// GetAllProducts retrieves all products, serving from the cache when a
// fresh list entry exists.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	ctx := context.Background()

	var cached []models.Product
	hit, err := s.cache.Get(ctx, productListKey, &cached)
	if err != nil {
		log.Printf("Cache read for product list failed: %v", err)
	}
	if hit {
		return cached, nil
	}

	products, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, productListKey, products); err != nil {
		log.Printf("Cache write for product list failed: %v", err)
	}
	return products, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	ctx := context.Background()
	key := productKey(id)

	var cached models.Product
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Printf("Cache read for product %d failed: %v", id, err)
	}
	if hit {
		return &cached, nil
	}

	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, product); err != nil {
		log.Printf("Cache write for product %d failed: %v", id, err)
	}
	return product, nil
}

// CreateProduct creates a new product. The store assigns the ID.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := s.validate.Struct(product); err != nil {
		return fmt.Errorf("invalid product: %w", err)
	}
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.invalidate(product.ID)
	s.publishEvent("product.created", map[string]interface{}{"product": product})
	return nil
}

// UpdateProduct overwrites an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if err := s.validate.Struct(product); err != nil {
		return fmt.Errorf("invalid product: %w", err)
	}
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.invalidate(product.ID)
	s.publishEvent("product.updated", map[string]interface{}{"product": product})
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidate(id)
	s.publishEvent("product.deleted", map[string]interface{}{"product_id": id})
	return nil
}

// invalidate drops the per-product entry and the list entry so reads
// after a write never observe stale data.
func (s *ProductService) invalidate(id uint) {
	if err := s.cache.Delete(context.Background(), productKey(id), productListKey); err != nil {
		log.Printf("Cache invalidation for product %d failed: %v", id, err)
	}
}

// publishEvent sends a product lifecycle event. Publishing is best
// effort: failures are logged and never fail the request.
func (s *ProductService) publishEvent(action string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	event := map[string]interface{}{
		"event_id":    uuid.New().String(),
		"action":      action,
		"occurred_at": time.Now().Format(time.RFC3339),
	}
	for k, v := range payload {
		event[k] = v
	}
	if err := s.events.PublishProductEvent(event); err != nil {
		log.Printf("Failed to publish %s event: %v", action, err)
	}
}

func productKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}
