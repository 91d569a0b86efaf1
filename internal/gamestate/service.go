package gamestate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"backend/internal/character"
	"backend/internal/common"
	"backend/internal/logger"
	"backend/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// maxCASAttempts 乐观锁冲突后的最大重试次数（含首次）
const maxCASAttempts = 3

// Service 世界状态变更服务
// 所有变更操作共享同一形态：加载 → 变换 → 持久化 → 广播 → 返回完整文档。
// 持久化按加载时读到的版本号做比较交换，冲突时基于新文档重放变换。
type Service struct {
	db          *gorm.DB
	broadcaster Broadcaster
}

// NewService 创建服务，广播器为必填依赖（测试可传 NopBroadcaster）
func NewService(db *gorm.DB, broadcaster Broadcaster) *Service {
	if broadcaster == nil {
		broadcaster = NopBroadcaster{}
	}
	return &Service{db: db, broadcaster: broadcaster}
}

// AutoMigrate 自动迁移表结构
func (s *Service) AutoMigrate() error {
	return s.db.AutoMigrate(&WorldState{})
}

// ============================================================================
// 读取与生命周期
// ============================================================================

// Create 创建空的世界状态
func (s *Service) Create(ctx context.Context, worldID string) (*WorldState, error) {
	ws := &WorldState{
		ID:      uuid.New().String(),
		WorldID: worldID,
		State:   datatypes.NewJSONType(NewStateDocument()),
	}
	if err := s.db.WithContext(ctx).Create(ws).Error; err != nil {
		return nil, fmt.Errorf("创建世界状态失败: %w", err)
	}
	ws.Characters = []character.Character{}
	return ws, nil
}

// Get 加载世界状态（带反规范化的角色列表）
func (s *Service) Get(ctx context.Context, id string) (*WorldState, error) {
	return s.load(ctx, id)
}

// Delete 删除世界状态及其角色关联
func (s *Service) Delete(ctx context.Context, id string) error {
	ws, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(ws).Association("Characters").Clear(); err != nil {
			return err
		}
		return tx.Delete(&WorldState{}, "id = ?", id).Error
	})
}

// ResolveItems 返回物品表的模板合并视图
func (s *Service) ResolveItems(ctx context.Context, id string) (map[string]ResolvedItem, error) {
	ws, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := ws.Document()
	return ResolveItems(doc.Items, doc.ItemTemplates), nil
}

// ============================================================================
// 角色状态变更
// ============================================================================

// UpdateCharacterStat 设置角色单项属性的当前值
// 属性不存在时先创建 {current:0} 条目再赋值
func (s *Service) UpdateCharacterStat(ctx context.Context, wsID string, req *UpdateCharacterStatRequest) (*WorldState, error) {
	return s.mutate(ctx, wsID, "updateCharacterStat", func(doc *StateDocument) error {
		cs := ensureCharacterState(doc, req.CharacterID)
		stat := cs.Stats[req.StatName]
		stat.Current = *req.NewValue
		cs.Stats[req.StatName] = stat
		doc.CharacterStates[req.CharacterID] = *cs
		return nil
	})
}

// UpdateCharacterNumericFields 合并角色数值字段
// 逐顶层键浅合并：提供的键整体替换，未提供的键保持不变
func (s *Service) UpdateCharacterNumericFields(ctx context.Context, wsID string, req *UpdateCharacterNumericFieldsRequest) (*WorldState, error) {
	return s.mutate(ctx, wsID, "updateCharacterNumericFields", func(doc *StateDocument) error {
		cs := ensureCharacterState(doc, req.CharacterID)
		for name, value := range req.Stats {
			cs.Stats[name] = value
		}
		for name, value := range req.Attributes {
			cs.Attributes[name] = value
		}
		doc.CharacterStates[req.CharacterID] = *cs
		return nil
	})
}

// UpdateCharacterPropertiesAndKnowledge 合并角色自由属性与知识
func (s *Service) UpdateCharacterPropertiesAndKnowledge(ctx context.Context, wsID string, req *UpdateCharacterPropertiesRequest) (*WorldState, error) {
	return s.mutate(ctx, wsID, "updateCharacterPropertiesAndKnowledge", func(doc *StateDocument) error {
		cs := ensureCharacterState(doc, req.CharacterID)
		for name, value := range req.Properties {
			cs.Properties[name] = value
		}
		for name, value := range req.Knowledge {
			cs.Knowledge[name] = value
		}
		doc.CharacterStates[req.CharacterID] = *cs
		return nil
	})
}

// UpdateCharacterGoals 合并角色目标
func (s *Service) UpdateCharacterGoals(ctx context.Context, wsID string, req *UpdateCharacterGoalsRequest) (*WorldState, error) {
	return s.mutate(ctx, wsID, "updateCharacterGoals", func(doc *StateDocument) error {
		cs := ensureCharacterState(doc, req.CharacterID)
		for name, value := range req.Goals {
			cs.Goals[name] = value
		}
		doc.CharacterStates[req.CharacterID] = *cs
		return nil
	})
}

// UpdateCharacterSecrets 合并角色秘密
func (s *Service) UpdateCharacterSecrets(ctx context.Context, wsID string, req *UpdateCharacterSecretsRequest) (*WorldState, error) {
	return s.mutate(ctx, wsID, "updateCharacterSecrets", func(doc *StateDocument) error {
		cs := ensureCharacterState(doc, req.CharacterID)
		for name, value := range req.Secrets {
			cs.Secrets[name] = value
		}
		doc.CharacterStates[req.CharacterID] = *cs
		return nil
	})
}

// UpdateCharacterLocation 设置角色当前所在地点（软引用，不校验地点存在）
func (s *Service) UpdateCharacterLocation(ctx context.Context, wsID string, req *UpdateCharacterLocationRequest) (*WorldState, error) {
	return s.mutate(ctx, wsID, "updateCharacterLocation", func(doc *StateDocument) error {
		cs := ensureCharacterState(doc, req.CharacterID)
		cs.CurrentLocationName = req.LocationName
		doc.CharacterStates[req.CharacterID] = *cs
		return nil
	})
}

// UpdateCharacterInfo 更新角色静态信息
// 写的是 characters 关系里的角色行，不是嵌入的动态状态
func (s *Service) UpdateCharacterInfo(ctx context.Context, wsID string, req *UpdateCharacterInfoRequest) (*WorldState, error) {
	ws, err := s.load(ctx, wsID)
	if err != nil {
		return nil, err
	}
	if !containsCharacter(ws.Characters, req.CharacterID) {
		return nil, common.NewNotFound("角色未挂接到该世界状态")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&character.Character{}).
			Where("id = ?", req.CharacterID).Updates(updates).Error; err != nil {
			metrics.MutationsTotal.WithLabelValues("updateCharacterInfo", "error").Inc()
			return nil, fmt.Errorf("更新角色信息失败: %w", err)
		}
	}

	updated, err := s.load(ctx, wsID)
	if err != nil {
		return nil, err
	}
	metrics.MutationsTotal.WithLabelValues("updateCharacterInfo", "ok").Inc()
	s.broadcaster.WorldStateUpdated(ctx, updated)
	return updated, nil
}

// ============================================================================
// 地点变更
// ============================================================================

// UpdateLocationDetails 更新已存在的地点，按名字查找，缺失即报不存在
// 地点不会被此操作隐式创建，新增走 AddLocation
func (s *Service) UpdateLocationDetails(ctx context.Context, wsID string, req *UpdateLocationRequest) (*WorldState, error) {
	return s.mutate(ctx, wsID, "updateLocationDetails", func(doc *StateDocument) error {
		for i := range doc.Locations {
			if doc.Locations[i].Name != req.LocationName {
				continue
			}
			applyPartialLocation(&doc.Locations[i], &req.Location)
			return nil
		}
		return common.NewNotFound("地点不存在: " + req.LocationName)
	})
}

// AddLocation 新增地点，名字大小写不敏感查重
func (s *Service) AddLocation(ctx context.Context, wsID string, req *AddLocationRequest) (*WorldState, error) {
	if strings.TrimSpace(req.Location.Name) == "" {
		return nil, common.NewInvalidRequest("地点名不能为空")
	}
	return s.mutate(ctx, wsID, "addLocation", func(doc *StateDocument) error {
		for i := range doc.Locations {
			if strings.EqualFold(doc.Locations[i].Name, req.Location.Name) {
				return common.NewConflict("地点已存在: " + doc.Locations[i].Name)
			}
		}
		doc.Locations = append(doc.Locations, req.Location)
		return nil
	})
}

// ============================================================================
// 剧情变更
// ============================================================================

// UpdatePlotDetails 更新已存在的剧情，按标题查找
func (s *Service) UpdatePlotDetails(ctx context.Context, wsID string, req *UpdatePlotRequest) (*WorldState, error) {
	return s.mutate(ctx, wsID, "updatePlotDetails", func(doc *StateDocument) error {
		for i := range doc.Plots {
			if doc.Plots[i].Title != req.PlotTitle {
				continue
			}
			applyPartialPlot(&doc.Plots[i], &req.Plot)
			return nil
		}
		return common.NewNotFound("剧情不存在: " + req.PlotTitle)
	})
}

// AddPlot 新增剧情，标题查重
func (s *Service) AddPlot(ctx context.Context, wsID string, req *AddPlotRequest) (*WorldState, error) {
	if strings.TrimSpace(req.Plot.Title) == "" {
		return nil, common.NewInvalidRequest("剧情标题不能为空")
	}
	plot := req.Plot
	if plot.Status == "" {
		plot.Status = PlotStatusActive
	}
	if plot.Importance == "" {
		plot.Importance = PlotImportanceSide
	}
	return s.mutate(ctx, wsID, "addPlot", func(doc *StateDocument) error {
		for i := range doc.Plots {
			if doc.Plots[i].Title == plot.Title {
				return common.NewConflict("剧情已存在: " + plot.Title)
			}
		}
		doc.Plots = append(doc.Plots, plot)
		return nil
	})
}

// ============================================================================
// 物品变更
// ============================================================================

// AddItem 新增物品记录，key 在一个世界状态内唯一
func (s *Service) AddItem(ctx context.Context, wsID string, req *AddItemRequest) (*WorldState, error) {
	if strings.TrimSpace(req.Item.Key) == "" {
		return nil, common.NewInvalidRequest("物品 key 不能为空")
	}
	return s.mutate(ctx, wsID, "addItem", func(doc *StateDocument) error {
		if _, ok := doc.Items[req.Item.Key]; ok {
			return common.NewConflict("物品已存在: " + req.Item.Key)
		}
		doc.Items[req.Item.Key] = req.Item
		return nil
	})
}

// UpdateItemProperty 更新物品的单个字段
// 物品不会被此操作隐式创建；未知字段名落入 properties
func (s *Service) UpdateItemProperty(ctx context.Context, wsID string, req *UpdateItemPropertyRequest) (*WorldState, error) {
	return s.mutate(ctx, wsID, "updateItemProperty", func(doc *StateDocument) error {
		item, ok := doc.Items[req.ItemKey]
		if !ok {
			return common.NewNotFound("物品不存在: " + req.ItemKey)
		}
		if err := setItemProperty(&item, req.PropertyName, req.NewValue); err != nil {
			return err
		}
		doc.Items[req.ItemKey] = item
		return nil
	})
}

// DeleteItem 删除整条物品记录
func (s *Service) DeleteItem(ctx context.Context, wsID, itemKey string) (*WorldState, error) {
	return s.mutate(ctx, wsID, "deleteItem", func(doc *StateDocument) error {
		if _, ok := doc.Items[itemKey]; !ok {
			return common.NewNotFound("物品不存在: " + itemKey)
		}
		delete(doc.Items, itemKey)
		return nil
	})
}

// AddItemTemplate 新增或替换同名物品模板
// 模板合并在读取时重新计算，模板的变更立即影响所有未覆盖字段的实例
func (s *Service) AddItemTemplate(ctx context.Context, wsID string, req *AddItemTemplateRequest) (*WorldState, error) {
	if strings.TrimSpace(req.Template.Name) == "" {
		return nil, common.NewInvalidRequest("模板名不能为空")
	}
	return s.mutate(ctx, wsID, "addItemTemplate", func(doc *StateDocument) error {
		for i := range doc.ItemTemplates {
			if doc.ItemTemplates[i].Name == req.Template.Name {
				doc.ItemTemplates[i] = req.Template
				return nil
			}
		}
		doc.ItemTemplates = append(doc.ItemTemplates, req.Template)
		return nil
	})
}

// AddItemToCharacterInventory 向角色背包追加物品 key
// 请求附带完整物品对象时同时 upsert 到 state.items
func (s *Service) AddItemToCharacterInventory(ctx context.Context, wsID string, req *InventoryRequest) (*WorldState, error) {
	return s.mutate(ctx, wsID, "addItemToCharacterInventory", func(doc *StateDocument) error {
		if req.Item != nil {
			item := *req.Item
			if item.Key == "" {
				item.Key = req.ItemKey
			}
			doc.Items[item.Key] = item
		}
		cs := ensureCharacterState(doc, req.CharacterID)
		for _, key := range cs.Inventory {
			if key == req.ItemKey {
				return nil // 已持有，幂等
			}
		}
		cs.Inventory = append(cs.Inventory, req.ItemKey)
		doc.CharacterStates[req.CharacterID] = *cs
		return nil
	})
}

// RemoveItemFromCharacterInventory 从角色背包移除物品 key
// key 不在背包中时为幂等空操作，物品记录本身不受影响
func (s *Service) RemoveItemFromCharacterInventory(ctx context.Context, wsID string, req *InventoryRequest) (*WorldState, error) {
	return s.mutate(ctx, wsID, "removeItemFromCharacterInventory", func(doc *StateDocument) error {
		cs := ensureCharacterState(doc, req.CharacterID)
		filtered := cs.Inventory[:0]
		for _, key := range cs.Inventory {
			if key != req.ItemKey {
				filtered = append(filtered, key)
			}
		}
		cs.Inventory = filtered
		doc.CharacterStates[req.CharacterID] = *cs
		return nil
	})
}

// ============================================================================
// 传说与事件
// ============================================================================

// AddLoreEntry 追加传说条目
func (s *Service) AddLoreEntry(ctx context.Context, wsID string, req *AddLoreRequest) (*WorldState, error) {
	if strings.TrimSpace(req.Lore.Title) == "" {
		return nil, common.NewInvalidRequest("传说标题不能为空")
	}
	return s.mutate(ctx, wsID, "addLoreEntry", func(doc *StateDocument) error {
		doc.Lore = append(doc.Lore, req.Lore)
		return nil
	})
}

// AppendKeyEvent 追加关键事件，未指定游戏时间时取文档当前时钟
func (s *Service) AppendKeyEvent(ctx context.Context, wsID string, req *AppendEventRequest) (*WorldState, error) {
	if strings.TrimSpace(req.Event.Title) == "" {
		return nil, common.NewInvalidRequest("事件标题不能为空")
	}
	return s.mutate(ctx, wsID, "appendKeyEvent", func(doc *StateDocument) error {
		event := req.Event
		if event.GameTime == "" {
			event.GameTime = doc.CurrentGameTime
		}
		doc.KeyEventsLog = append(doc.KeyEventsLog, event)
		return nil
	})
}

// ============================================================================
// 元信息
// ============================================================================

// UpdateMetadata 合并顶层元信息，仅提供的字段被替换
func (s *Service) UpdateMetadata(ctx context.Context, wsID string, req *UpdateMetadataRequest) (*WorldState, error) {
	return s.mutate(ctx, wsID, "updateWorldStateMetadata", func(doc *StateDocument) error {
		if req.CurrentGameTime != nil {
			doc.CurrentGameTime = *req.CurrentGameTime
		}
		if req.Outline != nil {
			doc.Outline = *req.Outline
		}
		return nil
	})
}

// ============================================================================
// 角色挂接
// ============================================================================

// UpdateWorldStateCharacters 挂接角色：并集语义，从不移除
// 对每个此前没有状态条目的新角色插入默认状态；
// 已有条目（包括移除后重新挂接）保持原样
func (s *Service) UpdateWorldStateCharacters(ctx context.Context, wsID string, req *UpdateCharactersRequest) (*WorldState, error) {
	ws, err := s.load(ctx, wsID)
	if err != nil {
		return nil, err
	}

	attached := make(map[string]struct{}, len(ws.Characters))
	for _, ch := range ws.Characters {
		attached[ch.ID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(req.CharacterIDs))
	var newIDs []string
	for _, id := range req.CharacterIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := attached[id]; !ok {
			newIDs = append(newIDs, id)
		}
	}

	if len(newIDs) > 0 {
		var chars []character.Character
		if err := s.db.WithContext(ctx).Where("id IN ?", newIDs).Find(&chars).Error; err != nil {
			return nil, err
		}
		if len(chars) != len(newIDs) {
			return nil, common.NewNotFound("存在未知的角色ID")
		}

		if _, err := s.mutateSilent(ctx, wsID, "updateWorldStateCharacters", func(doc *StateDocument) error {
			for _, id := range newIDs {
				if _, ok := doc.CharacterStates[id]; !ok {
					doc.CharacterStates[id] = NewCharacterState()
				}
			}
			return nil
		}); err != nil {
			return nil, err
		}

		if err := s.db.WithContext(ctx).Model(&WorldState{ID: wsID}).
			Association("Characters").Append(&chars); err != nil {
			return nil, fmt.Errorf("挂接角色失败: %w", err)
		}
	}

	updated, err := s.load(ctx, wsID)
	if err != nil {
		return nil, err
	}
	s.broadcaster.CharactersUpdated(ctx, wsID, updated.Characters)
	return updated, nil
}

// RemoveCharacterFromWorldState 从关系中移除角色
// characterStates 条目保留（历史不丢），重新挂接时不会被重置
func (s *Service) RemoveCharacterFromWorldState(ctx context.Context, wsID, characterID string) (*WorldState, error) {
	ws, err := s.load(ctx, wsID)
	if err != nil {
		return nil, err
	}
	if !containsCharacter(ws.Characters, characterID) {
		return nil, common.NewNotFound("角色未挂接到该世界状态")
	}

	if err := s.db.WithContext(ctx).Model(ws).
		Association("Characters").Delete(&character.Character{ID: characterID}); err != nil {
		return nil, fmt.Errorf("移除角色失败: %w", err)
	}

	updated, err := s.load(ctx, wsID)
	if err != nil {
		return nil, err
	}
	s.broadcaster.CharactersUpdated(ctx, wsID, updated.Characters)
	return updated, nil
}

// ============================================================================
// 内部方法
// ============================================================================

func (s *Service) load(ctx context.Context, id string) (*WorldState, error) {
	var ws WorldState
	err := s.db.WithContext(ctx).Preload("Characters").First(&ws, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFound("世界状态不存在")
		}
		return nil, err
	}
	if ws.Characters == nil {
		ws.Characters = []character.Character{}
	}
	return &ws, nil
}

// mutate 执行一次带广播的文档变更
func (s *Service) mutate(ctx context.Context, wsID, op string, transform func(*StateDocument) error) (*WorldState, error) {
	ws, err := s.mutateSilent(ctx, wsID, op, transform)
	if err != nil {
		return nil, err
	}
	s.broadcaster.WorldStateUpdated(ctx, ws)
	return ws, nil
}

// mutateSilent 加载 → 变换 → 比较交换持久化，不广播
// 版本冲突时基于最新文档重放变换，最多 maxCASAttempts 次
func (s *Service) mutateSilent(ctx context.Context, wsID, op string, transform func(*StateDocument) error) (*WorldState, error) {
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		ws, err := s.load(ctx, wsID)
		if err != nil {
			if _, ok := common.AsBusinessError(err); ok {
				metrics.MutationsTotal.WithLabelValues(op, "not_found").Inc()
			} else {
				metrics.MutationsTotal.WithLabelValues(op, "error").Inc()
			}
			return nil, err
		}

		doc := ws.Document()
		doc.ensureMaps()
		if err := transform(&doc); err != nil {
			if bizErr, ok := common.AsBusinessError(err); ok {
				outcome := "error"
				switch bizErr.Code {
				case common.CodeNotFound:
					outcome = "not_found"
				case common.CodeConflict:
					outcome = "conflict"
				}
				metrics.MutationsTotal.WithLabelValues(op, outcome).Inc()
			}
			return nil, err
		}

		result := s.db.WithContext(ctx).Model(&WorldState{}).
			Where("id = ? AND version = ?", ws.ID, ws.Version).
			Updates(map[string]interface{}{
				"state":   datatypes.NewJSONType(doc),
				"version": ws.Version + 1,
			})
		if result.Error != nil {
			metrics.MutationsTotal.WithLabelValues(op, "error").Inc()
			logger.WithContext(ctx).Error("世界状态持久化失败",
				zap.String("worldStateId", wsID),
				zap.String("operation", op),
				zap.Error(result.Error),
			)
			return nil, fmt.Errorf("持久化世界状态失败: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// 版本已被并发写推进，重放变换
			metrics.MutationRetries.Inc()
			logger.WithContext(ctx).Debug("世界状态版本冲突，重试",
				zap.String("worldStateId", wsID),
				zap.String("operation", op),
				zap.Int64("version", ws.Version),
			)
			continue
		}

		ws.State = datatypes.NewJSONType(doc)
		ws.Version++
		metrics.MutationsTotal.WithLabelValues(op, "ok").Inc()
		return ws, nil
	}

	metrics.MutationsTotal.WithLabelValues(op, "conflict").Inc()
	return nil, common.NewConflict("并发修改冲突，请重试")
}

// ensureCharacterState 取出角色状态条目，缺失时惰性创建默认条目
func ensureCharacterState(doc *StateDocument, characterID string) *CharacterState {
	cs, ok := doc.CharacterStates[characterID]
	if !ok {
		cs = NewCharacterState()
	}
	if cs.Stats == nil {
		cs.Stats = make(map[string]StatValue)
	}
	if cs.Attributes == nil {
		cs.Attributes = make(map[string]float64)
	}
	if cs.Properties == nil {
		cs.Properties = make(map[string]any)
	}
	if cs.Knowledge == nil {
		cs.Knowledge = make(map[string]any)
	}
	if cs.Goals == nil {
		cs.Goals = make(map[string]any)
	}
	if cs.Secrets == nil {
		cs.Secrets = make(map[string]any)
	}
	return &cs
}

func containsCharacter(characters []character.Character, id string) bool {
	for _, ch := range characters {
		if ch.ID == id {
			return true
		}
	}
	return false
}

func applyPartialLocation(loc *Location, partial *PartialLocation) {
	if partial.Description != nil {
		loc.Description = *partial.Description
	}
	if partial.ConnectedLocations != nil {
		loc.ConnectedLocations = *partial.ConnectedLocations
	}
	if partial.NotableFeatures != nil {
		loc.NotableFeatures = *partial.NotableFeatures
	}
	if partial.CurrentOccupants != nil {
		loc.CurrentOccupants = *partial.CurrentOccupants
	}
	if partial.HiddenSecrets != nil {
		loc.HiddenSecrets = *partial.HiddenSecrets
	}
	if partial.Items != nil {
		loc.Items = *partial.Items
	}
}

func applyPartialPlot(plot *Plot, partial *PartialPlot) {
	if partial.Description != nil {
		plot.Description = *partial.Description
	}
	if partial.Status != nil {
		plot.Status = *partial.Status
	}
	if partial.Importance != nil {
		plot.Importance = *partial.Importance
	}
	if partial.Participants != nil {
		plot.Participants = *partial.Participants
	}
	if partial.KeyEvents != nil {
		plot.KeyEvents = *partial.KeyEvents
	}
	if partial.NextSteps != nil {
		plot.NextSteps = *partial.NextSteps
	}
}

// setItemProperty 设置物品的已知字段，未知字段名落入 properties
func setItemProperty(item *Item, name string, value any) error {
	asString := func() (string, error) {
		str, ok := value.(string)
		if !ok {
			return "", common.NewInvalidRequest(fmt.Sprintf("字段 %s 需要字符串值", name))
		}
		return str, nil
	}

	switch name {
	case "name":
		str, err := asString()
		if err != nil {
			return err
		}
		item.Name = str
	case "description":
		str, err := asString()
		if err != nil {
			return err
		}
		item.Description = str
	case "type":
		str, err := asString()
		if err != nil {
			return err
		}
		item.Type = str
	case "rarity":
		str, err := asString()
		if err != nil {
			return err
		}
		item.Rarity = str
	case "templateName":
		str, err := asString()
		if err != nil {
			return err
		}
		item.TemplateName = str
	case "count":
		num, ok := value.(float64) // JSON 数值反序列化为 float64
		if !ok {
			return common.NewInvalidRequest("字段 count 需要数值")
		}
		item.Count = int(num)
	default:
		if item.Properties == nil {
			item.Properties = make(map[string]any)
		}
		item.Properties[name] = value
	}
	return nil
}
