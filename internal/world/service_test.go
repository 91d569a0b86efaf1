package world

import (
	"context"
	"fmt"
	"testing"

	"backend/internal/character"
	"backend/internal/common"
	"backend/internal/gamestate"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupWorldTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:world_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&character.Character{}, &World{}, &Channel{}, &gamestate.WorldState{}))
	return db
}

func TestWorldCRUD(t *testing.T) {
	ctx := context.Background()
	db := setupWorldTestDB(t)
	svc := NewService(db)

	w, err := svc.CreateWorld(ctx, "user-1", &CreateWorldRequest{
		Name: "灰烬大陆",
		Tags: []string{"奇幻", "战役"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, w.ID)

	name := "灰烬大陆·重制"
	tags := []string{"奇幻"}
	updated, err := svc.UpdateWorld(ctx, w.ID, &UpdateWorldRequest{Name: &name, Tags: &tags})
	require.NoError(t, err)
	require.Equal(t, "灰烬大陆·重制", updated.Name)
	require.Equal(t, []string{"奇幻"}, updated.Tags)

	worlds, total, err := svc.ListWorlds(ctx, "user-1", 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, worlds, 1)

	_, err = svc.GetWorld(ctx, "missing")
	bizErr, ok := common.AsBusinessError(err)
	require.True(t, ok)
	require.Equal(t, common.CodeNotFound, bizErr.Code)
}

func TestChannelBinding(t *testing.T) {
	ctx := context.Background()
	db := setupWorldTestDB(t)
	svc := NewService(db)
	states := gamestate.NewService(db, nil)

	w, err := svc.CreateWorld(ctx, "user-1", &CreateWorldRequest{Name: "灰烬大陆"})
	require.NoError(t, err)
	ch, err := svc.CreateChannel(ctx, w.ID, &CreateChannelRequest{Name: "主战役", Type: ChannelTypeInCharacter})
	require.NoError(t, err)

	// 未绑定时解析报不存在
	_, err = svc.ResolveChannelState(ctx, ch.ID)
	bizErr, ok := common.AsBusinessError(err)
	require.True(t, ok)
	require.Equal(t, common.CodeNotFound, bizErr.Code)

	ws, err := states.Create(ctx, w.ID)
	require.NoError(t, err)

	bound, err := svc.BindChannel(ctx, ch.ID, ws.ID)
	require.NoError(t, err)
	require.Equal(t, ws.ID, *bound.WorldStateID)

	resolved, err := svc.ResolveChannelState(ctx, ch.ID)
	require.NoError(t, err)
	require.Equal(t, ws.ID, resolved)

	// 多个频道可以绑定同一个世界状态
	ch2, err := svc.CreateChannel(ctx, w.ID, &CreateChannelRequest{Name: "场外", Type: ChannelTypeOutOfCharacter})
	require.NoError(t, err)
	_, err = svc.BindChannel(ctx, ch2.ID, ws.ID)
	require.NoError(t, err)

	unbound, err := svc.UnbindChannel(ctx, ch.ID)
	require.NoError(t, err)
	require.Nil(t, unbound.WorldStateID)

	// 跨世界绑定被拒绝
	other, err := svc.CreateWorld(ctx, "user-1", &CreateWorldRequest{Name: "另一个世界"})
	require.NoError(t, err)
	otherCh, err := svc.CreateChannel(ctx, other.ID, &CreateChannelRequest{Name: "主频道", Type: ChannelTypeInCharacter})
	require.NoError(t, err)
	_, err = svc.BindChannel(ctx, otherCh.ID, ws.ID)
	bizErr, ok = common.AsBusinessError(err)
	require.True(t, ok)
	require.Equal(t, common.CodeInvalidRequest, bizErr.Code)

	// 绑定不存在的世界状态
	_, err = svc.BindChannel(ctx, ch.ID, "missing")
	bizErr, ok = common.AsBusinessError(err)
	require.True(t, ok)
	require.Equal(t, common.CodeNotFound, bizErr.Code)
}

func TestUnbindChannelsForState(t *testing.T) {
	ctx := context.Background()
	db := setupWorldTestDB(t)
	svc := NewService(db)
	states := gamestate.NewService(db, nil)

	w, err := svc.CreateWorld(ctx, "user-1", &CreateWorldRequest{Name: "灰烬大陆"})
	require.NoError(t, err)
	ws, err := states.Create(ctx, w.ID)
	require.NoError(t, err)

	ch1, err := svc.CreateChannel(ctx, w.ID, &CreateChannelRequest{Name: "场内", Type: ChannelTypeInCharacter})
	require.NoError(t, err)
	ch2, err := svc.CreateChannel(ctx, w.ID, &CreateChannelRequest{Name: "场外", Type: ChannelTypeOutOfCharacter})
	require.NoError(t, err)
	_, err = svc.BindChannel(ctx, ch1.ID, ws.ID)
	require.NoError(t, err)
	_, err = svc.BindChannel(ctx, ch2.ID, ws.ID)
	require.NoError(t, err)

	require.NoError(t, svc.UnbindChannelsForState(ctx, ws.ID))
	for _, id := range []string{ch1.ID, ch2.ID} {
		ch, err := svc.GetChannel(ctx, id)
		require.NoError(t, err)
		require.Nil(t, ch.WorldStateID)
	}
}

func TestDeleteWorldCascade(t *testing.T) {
	ctx := context.Background()
	db := setupWorldTestDB(t)
	svc := NewService(db)
	states := gamestate.NewService(db, nil)

	w, err := svc.CreateWorld(ctx, "user-1", &CreateWorldRequest{Name: "灰烬大陆"})
	require.NoError(t, err)
	ch, err := svc.CreateChannel(ctx, w.ID, &CreateChannelRequest{Name: "主战役", Type: ChannelTypeInCharacter})
	require.NoError(t, err)
	ws, err := states.Create(ctx, w.ID)
	require.NoError(t, err)
	_, err = svc.BindChannel(ctx, ch.ID, ws.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteWorld(ctx, w.ID))

	_, err = svc.GetWorld(ctx, w.ID)
	require.Error(t, err)
	_, err = svc.GetChannel(ctx, ch.ID)
	require.Error(t, err)
	_, err = states.Get(ctx, ws.ID)
	require.Error(t, err)
}
