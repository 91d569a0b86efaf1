package gamestate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveItemInstanceWins(t *testing.T) {
	templates := []ItemTemplate{
		{
			Name:        "治疗药水",
			Description: "恢复少量生命",
			Type:        "consumable",
			Rarity:      "common",
			Properties:  map[string]any{"a": float64(1), "b": float64(2)},
		},
	}
	item := Item{
		Key:          "healing_potion_1",
		Count:        3,
		TemplateName: "治疗药水",
		Description:  "特制的治疗药水",
		Properties:   map[string]any{"b": float64(9)},
	}

	resolved := ResolveItem(item, templates)
	// 实例字段覆盖模板，缺失字段由模板补默认值
	require.Equal(t, "特制的治疗药水", resolved.Description)
	require.Equal(t, "consumable", resolved.Type)
	require.Equal(t, "common", resolved.Rarity)
	require.Equal(t, 3, resolved.Count)
	// map 浅合并：实例键覆盖同名模板键，其余模板键保留
	require.Equal(t, float64(1), resolved.Properties["a"])
	require.Equal(t, float64(9), resolved.Properties["b"])
	// 实例没有名字时由模板名补上
	require.Equal(t, "治疗药水", resolved.Name)
}

func TestResolveItemNameFallsBackToKey(t *testing.T) {
	item := Item{Key: "mystery_box"}
	resolved := ResolveItem(item, nil)
	require.Equal(t, "mystery_box", resolved.Name)
}

func TestResolveItemMissingTemplate(t *testing.T) {
	item := Item{
		Key:          "rusty_sword",
		Name:         "锈剑",
		TemplateName: "不存在的模板",
	}
	// 模板缺失不是错误，仅用实例自身的字段
	resolved := ResolveItem(item, []ItemTemplate{{Name: "别的模板"}})
	require.Equal(t, "锈剑", resolved.Name)
	require.Empty(t, resolved.Type)
}

func TestResolveItemTemplateChangeVisibleOnRead(t *testing.T) {
	item := Item{Key: "potion", TemplateName: "药水"}

	before := ResolveItem(item, []ItemTemplate{{Name: "药水", Rarity: "common"}})
	require.Equal(t, "common", before.Rarity)

	// 同一实例在模板更新后重新解析，未覆盖字段立即跟随模板
	after := ResolveItem(item, []ItemTemplate{{Name: "药水", Rarity: "rare"}})
	require.Equal(t, "rare", after.Rarity)
}

func TestResolveItemsMap(t *testing.T) {
	items := map[string]Item{
		"a": {Key: "a", Name: "甲"},
		"b": {Key: "b"},
	}
	resolved := ResolveItems(items, nil)
	require.Len(t, resolved, 2)
	require.Equal(t, "甲", resolved["a"].Name)
	require.Equal(t, "b", resolved["b"].Name)
}

func TestResolveLocationRefs(t *testing.T) {
	locations := []Location{
		{Name: "酒馆", Description: "热闹的酒馆"},
		{Name: "城门"},
	}

	refs := ResolveLocationRefs([]string{"酒馆", "废弃矿井"}, locations)
	require.Len(t, refs, 2)

	require.True(t, refs[0].Resolved)
	require.NotNil(t, refs[0].Location)
	require.Equal(t, "热闹的酒馆", refs[0].Location.Description)

	// 软引用允许悬空：未解析的名字保留，不报错
	require.False(t, refs[1].Resolved)
	require.Nil(t, refs[1].Location)
	require.Equal(t, "废弃矿井", refs[1].Name)
}
