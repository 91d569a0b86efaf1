package character

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service 角色服务，维护角色的版本链
type Service struct {
	db *gorm.DB
}

// NewService 创建服务
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// AutoMigrate 自动迁移表结构
func (s *Service) AutoMigrate() error {
	return s.db.AutoMigrate(&Character{})
}

// ============================================================================
// 角色 CRUD
// ============================================================================

// Create 创建角色
func (s *Service) Create(ctx context.Context, creatorID string, req *CreateCharacterRequest) (*Character, error) {
	ch := &Character{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Avatar:      req.Avatar,
		CreatorID:   creatorID,
	}
	if err := s.db.WithContext(ctx).Create(ch).Error; err != nil {
		return nil, fmt.Errorf("创建角色失败: %w", err)
	}
	return ch, nil
}

// Get 根据ID获取角色
// 历史引用（聊天消息、characterStates）中的ID即使已隐藏也必须可解析，
// 因此这里不过滤 is_hidden
func (s *Service) Get(ctx context.Context, id string) (*Character, error) {
	var ch Character
	if err := s.db.WithContext(ctx).First(&ch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFound("角色不存在")
		}
		return nil, err
	}
	return &ch, nil
}

// List 获取可见角色列表（排除已隐藏的历史版本）
func (s *Service) List(ctx context.Context, query *ListQuery) ([]Character, int64, error) {
	if query.PageSize <= 0 || query.PageSize > 100 {
		query.PageSize = 20
	}
	if query.Page <= 0 {
		query.Page = 1
	}

	db := s.db.WithContext(ctx).Model(&Character{}).Where("is_hidden = ?", false)
	if query.CreatorID != "" {
		db = db.Where("creator_id = ?", query.CreatorID)
	}
	if query.Keyword != "" {
		db = db.Where("name LIKE ?", "%"+query.Keyword+"%")
	}

	var total int64
	db.Count(&total)

	var characters []Character
	offset := (query.Page - 1) * query.PageSize
	err := db.Order("created_at DESC").Limit(query.PageSize).Offset(offset).Find(&characters).Error

	return characters, total, err
}

// Update 编辑角色：隐藏当前行并插入携带合并字段的新行
// 新行的 OriginalID 指向版本链起点，旧ID的历史引用保持可解析
func (s *Service) Update(ctx context.Context, id, requesterID string, req *UpdateCharacterRequest) (*Character, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.CreatorID != requesterID {
		return nil, common.NewForbidden("仅角色创建者可以编辑角色")
	}

	next := &Character{
		ID:          uuid.New().String(),
		Name:        existing.Name,
		Description: existing.Description,
		Avatar:      existing.Avatar,
		OriginalID:  existing.ChainRootID(),
		CreatorID:   existing.CreatorID,
	}
	if req.Name != nil {
		next.Name = *req.Name
	}
	if req.Description != nil {
		next.Description = *req.Description
	}
	if req.Avatar != nil {
		next.Avatar = *req.Avatar
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 链中唯一的原地写：旧行打上隐藏标记
		if err := tx.Model(&Character{}).Where("id = ?", existing.ID).
			Update("is_hidden", true).Error; err != nil {
			return err
		}
		return tx.Create(next).Error
	})
	if err != nil {
		return nil, fmt.Errorf("更新角色失败: %w", err)
	}
	return next, nil
}

// Delete 删除角色（仅隐藏，不插入新行）
func (s *Service) Delete(ctx context.Context, id, requesterID string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.CreatorID != requesterID {
		return common.NewForbidden("仅角色创建者可以删除角色")
	}
	return s.db.WithContext(ctx).Model(&Character{}).
		Where("id = ?", id).Update("is_hidden", true).Error
}

// History 返回指定版本链上的全部角色行，按创建时间升序
// originalID 可以是链首ID或链上任意一行的ID
func (s *Service) History(ctx context.Context, originalID string) ([]Character, error) {
	root, err := s.Get(ctx, originalID)
	if err != nil {
		return nil, err
	}
	rootID := root.ChainRootID()

	var chain []Character
	err = s.db.WithContext(ctx).
		Where("id = ? OR original_id = ?", rootID, rootID).
		Order("created_at ASC").
		Find(&chain).Error
	return chain, err
}

// Current 返回版本链上当前（未隐藏）的角色行
func (s *Service) Current(ctx context.Context, originalID string) (*Character, error) {
	chain, err := s.History(ctx, originalID)
	if err != nil {
		return nil, err
	}
	for i := len(chain) - 1; i >= 0; i-- {
		if !chain[i].IsHidden {
			return &chain[i], nil
		}
	}
	return nil, common.NewNotFound("该版本链上没有可见角色")
}
