package gamestate

// ResolveItem 合并物品实例与其模板，返回展示视图
// 规则：实例字段优先，模板补缺，name 最终回退到物品 key；
// properties/stats 逐键浅合并，实例键覆盖模板键，仅模板有的键保留。
// 每次读取重新计算，模板的修改会立刻影响所有未覆盖该字段的实例。
func ResolveItem(item Item, templates []ItemTemplate) ResolvedItem {
	var tpl *ItemTemplate
	if item.TemplateName != "" {
		for i := range templates {
			if templates[i].Name == item.TemplateName {
				tpl = &templates[i]
				break
			}
		}
		// 模板不存在不是错误，软引用按无模板处理
	}

	resolved := ResolvedItem{
		Key:         item.Key,
		Count:       item.Count,
		Name:        item.Name,
		Description: item.Description,
		Type:        item.Type,
		Rarity:      item.Rarity,
	}

	if tpl != nil {
		if resolved.Name == "" {
			resolved.Name = tpl.Name
		}
		if resolved.Description == "" {
			resolved.Description = tpl.Description
		}
		if resolved.Type == "" {
			resolved.Type = tpl.Type
		}
		if resolved.Rarity == "" {
			resolved.Rarity = tpl.Rarity
		}
		resolved.Properties = mergeMaps(tpl.Properties, item.Properties)
		resolved.Stats = mergeMaps(tpl.Stats, item.Stats)
	} else {
		resolved.Properties = mergeMaps(nil, item.Properties)
		resolved.Stats = mergeMaps(nil, item.Stats)
	}

	if resolved.Name == "" {
		resolved.Name = item.Key
	}
	return resolved
}

// ResolveItems 解析整个物品表
func ResolveItems(items map[string]Item, templates []ItemTemplate) map[string]ResolvedItem {
	resolved := make(map[string]ResolvedItem, len(items))
	for key, item := range items {
		resolved[key] = ResolveItem(item, templates)
	}
	return resolved
}

// mergeMaps 浅合并：overlay 的键覆盖 base 的键
func mergeMaps(base, overlay map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}
