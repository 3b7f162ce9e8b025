package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/WillBillChiang/sheep-rentals/internal/apperr"
	"github.com/WillBillChiang/sheep-rentals/internal/blob"
	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/repository"
	"github.com/WillBillChiang/sheep-rentals/internal/store"
)

// PropertyService 房源服务接口
type PropertyService interface {
	Create(ctx context.Context, caller *domain.User, req CreatePropertyRequest) (*domain.Property, error)
	Get(ctx context.Context, id string) (*domain.Property, error)
	List(ctx context.Context, req ListPropertiesRequest) ([]domain.Property, Page, error)
	Update(ctx context.Context, caller *domain.User, id string, fields store.Item) (*domain.Property, error)
	SetStatus(ctx context.Context, caller *domain.User, id string, status domain.PropertyStatus) (*domain.Property, error)
	Delete(ctx context.Context, caller *domain.User, id string) error
	AddImage(ctx context.Context, caller *domain.User, id, filename string, data []byte, contentType string) (*domain.Property, error)
}

type propertyService struct {
	propertiesRepo repository.PropertiesRepository
	blobStore      blob.Store
	logger         *zap.Logger
}

// NewPropertyService 创建房源服务
func NewPropertyService(propertiesRepo repository.PropertiesRepository, blobStore blob.Store, logger *zap.Logger) PropertyService {
	return &propertyService{
		propertiesRepo: propertiesRepo,
		blobStore:      blobStore,
		logger:         logger,
	}
}

// CreatePropertyRequest 创建房源请求
type CreatePropertyRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	ZipCode      string  `json:"zipCode"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    float64 `json:"bathrooms"`
	SquareFeet   int     `json:"squareFeet"`
	PropertyType string  `json:"propertyType"`
}

// ListPropertiesRequest 房源列表过滤条件（公开接口）
type ListPropertiesRequest struct {
	Status   string
	City     string
	MinPrice float64
	MaxPrice float64
	Bedrooms int
	Page     int
	Limit    int
}

func (s *propertyService) Create(ctx context.Context, caller *domain.User, req CreatePropertyRequest) (*domain.Property, error) {
	if req.Title == "" {
		return nil, apperr.Validation("title is required")
	}
	if req.Price <= 0 {
		return nil, apperr.Validation("price must be positive")
	}

	property := &domain.Property{
		OwnerID:      caller.ID,
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		SquareFeet:   req.SquareFeet,
		PropertyType: req.PropertyType,
		Status:       domain.PropertyAvailable,
	}
	if err := s.propertiesRepo.Create(ctx, property); err != nil {
		return nil, apperr.Upstream("failed to create property", err)
	}

	s.logger.Info("Property created",
		zap.String("property_id", property.ID),
		zap.String("owner_id", caller.ID),
	)
	return property, nil
}

func (s *propertyService) Get(ctx context.Context, id string) (*domain.Property, error) {
	property, err := s.propertiesRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("property not found")
		}
		return nil, apperr.Upstream("failed to load property", err)
	}
	return property, nil
}

func (s *propertyService) List(ctx context.Context, req ListPropertiesRequest) ([]domain.Property, Page, error) {
	properties, _, err := s.propertiesRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, Page{}, apperr.Upstream("failed to list properties", err)
	}

	// 过滤（scan 后在 Go 侧完成）
	filtered := make([]domain.Property, 0, len(properties))
	for _, p := range properties {
		if req.Status != "" && string(p.Status) != req.Status {
			continue
		}
		if req.City != "" && p.City != req.City {
			continue
		}
		if req.MinPrice > 0 && p.Price < req.MinPrice {
			continue
		}
		if req.MaxPrice > 0 && p.Price > req.MaxPrice {
			continue
		}
		if req.Bedrooms > 0 && p.Bedrooms < req.Bedrooms {
			continue
		}
		filtered = append(filtered, p)
	}

	// 最新发布在前
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt > filtered[j].CreatedAt
	})

	items, page := paginate(filtered, req.Page, req.Limit)
	return items, page, nil
}

func (s *propertyService) Update(ctx context.Context, caller *domain.User, id string, fields store.Item) (*domain.Property, error) {
	if _, err := s.getOwned(ctx, caller, id); err != nil {
		return nil, err
	}

	// 只允许更新展示字段；归属、状态、图片走各自的接口
	allowed := map[string]bool{
		"title": true, "description": true, "price": true,
		"address": true, "city": true, "state": true, "zipCode": true,
		"bedrooms": true, "bathrooms": true, "squareFeet": true, "propertyType": true,
	}
	update := store.Item{}
	for k, v := range fields {
		if allowed[k] {
			update[k] = v
		}
	}
	if len(update) == 0 {
		return nil, apperr.Validation("no updatable fields provided")
	}
	if price, ok := update["price"].(float64); ok && price <= 0 {
		return nil, apperr.Validation("price must be positive")
	}

	property, err := s.propertiesRepo.Update(ctx, id, update)
	if err != nil {
		return nil, apperr.Upstream("failed to update property", err)
	}
	return property, nil
}

func (s *propertyService) SetStatus(ctx context.Context, caller *domain.User, id string, status domain.PropertyStatus) (*domain.Property, error) {
	if !status.Valid() {
		return nil, apperr.Validation("invalid property status: %s", status)
	}
	if _, err := s.getOwned(ctx, caller, id); err != nil {
		return nil, err
	}

	property, err := s.propertiesRepo.Update(ctx, id, store.Item{"status": string(status)})
	if err != nil {
		return nil, apperr.Upstream("failed to update property status", err)
	}
	return property, nil
}

func (s *propertyService) Delete(ctx context.Context, caller *domain.User, id string) error {
	property, err := s.getOwned(ctx, caller, id)
	if err != nil {
		return err
	}

	if err := s.propertiesRepo.Delete(ctx, id); err != nil {
		return apperr.Upstream("failed to delete property", err)
	}

	// 图片清理 best-effort
	if len(property.Images) > 0 {
		if err := s.blobStore.DeleteMany(ctx, property.Images); err != nil {
			s.logger.Warn("Failed to clean up property images",
				zap.String("property_id", id),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Property deleted", zap.String("property_id", id))
	return nil
}

func (s *propertyService) AddImage(ctx context.Context, caller *domain.User, id, filename string, data []byte, contentType string) (*domain.Property, error) {
	property, err := s.getOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, apperr.Validation("image file is empty")
	}

	path := fmt.Sprintf("properties/%s/%s%s", id, uuid.NewString(), filepath.Ext(filename))
	url, err := s.blobStore.Upload(ctx, path, data, contentType)
	if err != nil {
		return nil, apperr.Upstream("failed to upload image", err)
	}

	images := append(property.Images, url)
	updated, err := s.propertiesRepo.Update(ctx, id, store.Item{"images": images})
	if err != nil {
		return nil, apperr.Upstream("failed to attach image", err)
	}
	return updated, nil
}

// getOwned 加载房源并校验调用方为所有者
func (s *propertyService) getOwned(ctx context.Context, caller *domain.User, id string) (*domain.Property, error) {
	property, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if property.OwnerID != caller.ID {
		return nil, apperr.Authorization("you do not own this property")
	}
	return property, nil
}
