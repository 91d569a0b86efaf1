package world

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/common"
	"backend/internal/gamestate"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service 世界与频道服务
type Service struct {
	db *gorm.DB
}

// NewService 创建服务
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// AutoMigrate 自动迁移表结构
func (s *Service) AutoMigrate() error {
	return s.db.AutoMigrate(&World{}, &Channel{})
}

// ============================================================================
// 世界 CRUD
// ============================================================================

// CreateWorld 创建世界
func (s *Service) CreateWorld(ctx context.Context, creatorID string, req *CreateWorldRequest) (*World, error) {
	w := &World{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Rules:       req.Rules,
		CreatorID:   creatorID,
	}
	if w.Tags == nil {
		w.Tags = []string{}
	}
	if err := s.db.WithContext(ctx).Create(w).Error; err != nil {
		return nil, fmt.Errorf("创建世界失败: %w", err)
	}
	return w, nil
}

// GetWorld 获取世界
func (s *Service) GetWorld(ctx context.Context, id string) (*World, error) {
	var w World
	if err := s.db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFound("世界不存在")
		}
		return nil, err
	}
	return &w, nil
}

// ListWorlds 获取世界列表
func (s *Service) ListWorlds(ctx context.Context, creatorID string, page, pageSize int) ([]World, int64, error) {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}

	db := s.db.WithContext(ctx).Model(&World{})
	if creatorID != "" {
		db = db.Where("creator_id = ?", creatorID)
	}

	var total int64
	db.Count(&total)

	var worlds []World
	offset := (page - 1) * pageSize
	err := db.Order("updated_at DESC").Limit(pageSize).Offset(offset).Find(&worlds).Error

	return worlds, total, err
}

// UpdateWorld 更新世界基本信息
func (s *Service) UpdateWorld(ctx context.Context, id string, req *UpdateWorldRequest) (*World, error) {
	w, err := s.GetWorld(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Rules != nil {
		updates["rules"] = *req.Rules
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(w).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	if req.Tags != nil {
		w.Tags = *req.Tags
		if err := s.db.WithContext(ctx).Model(w).Update("tags", w.Tags).Error; err != nil {
			return nil, err
		}
	}
	return s.GetWorld(ctx, id)
}

// DeleteWorld 删除世界，级联删除其频道、世界状态和角色关联
func (s *Service) DeleteWorld(ctx context.Context, id string) error {
	if _, err := s.GetWorld(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var states []gamestate.WorldState
		if err := tx.Where("world_id = ?", id).Find(&states).Error; err != nil {
			return err
		}
		for i := range states {
			if err := tx.Model(&states[i]).Association("Characters").Clear(); err != nil {
				return err
			}
		}
		if err := tx.Delete(&gamestate.WorldState{}, "world_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&Channel{}, "world_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&World{}, "id = ?", id).Error
	})
}

// ============================================================================
// 频道管理
// ============================================================================

// CreateChannel 在世界下创建频道（初始不绑定世界状态）
func (s *Service) CreateChannel(ctx context.Context, worldID string, req *CreateChannelRequest) (*Channel, error) {
	if _, err := s.GetWorld(ctx, worldID); err != nil {
		return nil, err
	}
	ch := &Channel{
		ID:      uuid.New().String(),
		WorldID: worldID,
		Name:    req.Name,
		Type:    req.Type,
	}
	if err := s.db.WithContext(ctx).Create(ch).Error; err != nil {
		return nil, fmt.Errorf("创建频道失败: %w", err)
	}
	return ch, nil
}

// GetChannel 获取频道
func (s *Service) GetChannel(ctx context.Context, id string) (*Channel, error) {
	var ch Channel
	if err := s.db.WithContext(ctx).First(&ch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFound("频道不存在")
		}
		return nil, err
	}
	return &ch, nil
}

// ListChannels 获取世界下的频道列表
func (s *Service) ListChannels(ctx context.Context, worldID string) ([]Channel, error) {
	var channels []Channel
	err := s.db.WithContext(ctx).
		Where("world_id = ?", worldID).
		Order("created_at ASC").
		Find(&channels).Error
	return channels, err
}

// BindChannel 将频道绑定到世界状态
// 多个频道可以绑定同一个世界状态（如场内/场外频道共享实时状态）
func (s *Service) BindChannel(ctx context.Context, channelID, worldStateID string) (*Channel, error) {
	ch, err := s.GetChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}

	var ws gamestate.WorldState
	if err := s.db.WithContext(ctx).First(&ws, "id = ?", worldStateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFound("世界状态不存在")
		}
		return nil, err
	}
	if ws.WorldID != ch.WorldID {
		return nil, common.NewInvalidRequest("世界状态不属于该频道所在世界")
	}

	if err := s.db.WithContext(ctx).Model(ch).
		Update("world_state_id", worldStateID).Error; err != nil {
		return nil, err
	}
	ch.WorldStateID = &worldStateID
	return ch, nil
}

// UnbindChannel 解除频道与世界状态的绑定
func (s *Service) UnbindChannel(ctx context.Context, channelID string) (*Channel, error) {
	ch, err := s.GetChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(ch).
		Update("world_state_id", nil).Error; err != nil {
		return nil, err
	}
	ch.WorldStateID = nil
	return ch, nil
}

// UnbindChannelsForState 解除指定世界状态的全部频道绑定（删除世界状态前调用）
func (s *Service) UnbindChannelsForState(ctx context.Context, worldStateID string) error {
	return s.db.WithContext(ctx).Model(&Channel{}).
		Where("world_state_id = ?", worldStateID).
		Update("world_state_id", nil).Error
}

// DeleteChannel 删除频道
func (s *Service) DeleteChannel(ctx context.Context, id string) error {
	if _, err := s.GetChannel(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&Channel{}, "id = ?", id).Error
}

// ResolveChannelState 返回频道当前绑定的世界状态ID
// 频道不存在或未绑定任何世界状态时报不存在
func (s *Service) ResolveChannelState(ctx context.Context, channelID string) (string, error) {
	ch, err := s.GetChannel(ctx, channelID)
	if err != nil {
		return "", err
	}
	if ch.WorldStateID == nil || *ch.WorldStateID == "" {
		return "", common.NewNotFound("频道未绑定世界状态")
	}
	return *ch.WorldStateID, nil
}
