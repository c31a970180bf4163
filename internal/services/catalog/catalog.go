// Package catalog manages menu products and their categories. Both are
// soft-disabled, never hard-deleted, so historical order items keep valid
// references.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"comanda-system/internal/apperr"
	"comanda-system/internal/database/models"
)

const (
	CATALOG_PRODUCT_CACHE_KEY  = "catalog:products"
	CATALOG_CATEGORY_CACHE_KEY = "catalog:categories"
	CACHE_TTL                  = 5 * time.Minute
)

type Service struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewService(db *gorm.DB, redisClient *redis.Client) *Service {
	return &Service{db: db, redis: redisClient}
}

// DisableResult reports a soft-disable outcome. Disabling an already
// disabled entity is a no-op, not an error.
type DisableResult struct {
	Changed bool   `json:"changed"`
	Message string `json:"message"`
}

func (s *Service) invalidateCaches(ctx context.Context) {
	if s.redis == nil {
		return
	}
	_ = s.redis.Del(ctx, CATALOG_PRODUCT_CACHE_KEY, CATALOG_CATEGORY_CACHE_KEY)
}

// -- Categories --

type CategoryInput struct {
	Name string `json:"name" binding:"required"`
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if in.Name == "" {
		return nil, apperr.Validationf("category name is required")
	}
	category := models.Category{Name: in.Name, Active: true}
	if err := s.db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflictf("category %q already exists", in.Name)
		}
		return nil, err
	}
	s.invalidateCaches(ctx)
	return &category, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, CATALOG_CATEGORY_CACHE_KEY).Result(); err == nil {
			var out []models.Category
			if json.Unmarshal([]byte(cached), &out) == nil {
				return out, nil
			}
		}
	}

	var out []models.Category
	if err := s.db.Order("name").Find(&out).Error; err != nil {
		return nil, err
	}

	if s.redis != nil {
		if payload, err := json.Marshal(out); err == nil {
			_ = s.redis.Set(ctx, CATALOG_CATEGORY_CACHE_KEY, payload, CACHE_TTL)
		}
	}
	return out, nil
}

func (s *Service) GetCategory(id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("category %d not found", id)
		}
		return nil, err
	}
	return &category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, apperr.Validationf("category name is required")
	}
	category.Name = in.Name
	if err := s.db.Save(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflictf("category %q already exists", in.Name)
		}
		return nil, err
	}
	s.invalidateCaches(ctx)
	return category, nil
}

func (s *Service) DisableCategory(ctx context.Context, id uint) (*DisableResult, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}
	if !category.Active {
		return &DisableResult{Changed: false, Message: "category is already disabled"}, nil
	}
	if err := s.db.Model(category).Update("active", false).Error; err != nil {
		return nil, err
	}
	s.invalidateCaches(ctx)
	return &DisableResult{Changed: true, Message: "category disabled"}, nil
}

// -- Products --

type ProductInput struct {
	Name        string          `json:"name" binding:"required"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Available   bool            `json:"available"`
	CategoryID  uint            `json:"category_id" binding:"required"`
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if in.Name == "" {
		return nil, apperr.Validationf("product name is required")
	}
	if in.Price.IsNegative() {
		return nil, apperr.Validationf("price must not be negative")
	}
	category, err := s.GetCategory(in.CategoryID)
	if err != nil {
		return nil, err
	}
	if !category.Active {
		return nil, apperr.Validationf("category %q is disabled", category.Name)
	}

	product := models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Available:   in.Available,
		CategoryID:  in.CategoryID,
		Active:      true,
	}
	if err := s.db.Create(&product).Error; err != nil {
		return nil, err
	}
	s.invalidateCaches(ctx)
	return &product, nil
}

func (s *Service) GetProduct(id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("product %d not found", id)
		}
		return nil, err
	}
	return &product, nil
}

type ProductFilter struct {
	CategoryID    *uint
	AvailableOnly bool
}

func (s *Service) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	cacheable := filter.CategoryID == nil && !filter.AvailableOnly

	if cacheable && s.redis != nil {
		if cached, err := s.redis.Get(ctx, CATALOG_PRODUCT_CACHE_KEY).Result(); err == nil {
			var out []models.Product
			if json.Unmarshal([]byte(cached), &out) == nil {
				return out, nil
			}
		}
	}

	query := s.db.Model(&models.Product{}).Preload("Category").Order("name")
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.AvailableOnly {
		query = query.Where("available = ? AND active = ?", true, true)
	}

	var out []models.Product
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}

	if cacheable && s.redis != nil {
		if payload, err := json.Marshal(out); err == nil {
			_ = s.redis.Set(ctx, CATALOG_PRODUCT_CACHE_KEY, payload, CACHE_TTL)
		}
	}
	return out, nil
}

type ProductUpdate struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Available   *bool            `json:"available"`
	CategoryID  *uint            `json:"category_id"`
}

func (s *Service) UpdateProduct(ctx context.Context, id uint, in ProductUpdate) (*models.Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperr.Validationf("product name is required")
		}
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, apperr.Validationf("price must not be negative")
		}
		product.Price = *in.Price
	}
	if in.Available != nil {
		product.Available = *in.Available
	}
	if in.CategoryID != nil {
		category, err := s.GetCategory(*in.CategoryID)
		if err != nil {
			return nil, err
		}
		if !category.Active {
			return nil, apperr.Validationf("category %q is disabled", category.Name)
		}
		product.CategoryID = *in.CategoryID
	}
	product.Category = nil
	if err := s.db.Save(product).Error; err != nil {
		return nil, err
	}
	s.invalidateCaches(ctx)
	return product, nil
}

// DisableProduct soft-disables and forces the product unavailable. Price and
// category stay untouched for existing order items.
func (s *Service) DisableProduct(ctx context.Context, id uint) (*DisableResult, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}
	if !product.Active && !product.Available {
		return &DisableResult{Changed: false, Message: "product is already disabled"}, nil
	}
	updates := map[string]interface{}{"active": false, "available": false}
	if err := s.db.Model(product).Updates(updates).Error; err != nil {
		return nil, err
	}
	s.invalidateCaches(ctx)
	return &DisableResult{Changed: true, Message: "product disabled and marked unavailable"}, nil
}
