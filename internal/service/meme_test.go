package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memeworks/memebuilder-back/internal/db"
)

func TestMemeCreate(t *testing.T) {
	t.Run("persists meme with layers in z order", func(t *testing.T) {
		gdb := newTestDB(t)
		svc := NewMemes(gdb, testLogger())

		meme, err := svc.Create(MemeCreate{
			Title: "New Meme",
			Layers: []LayerSpec{
				{LayerType: db.LayerTypeText, Content: "Bottom", ZIndex: 2},
				{LayerType: db.LayerTypeSticker, Content: "stickers/sunglass.png", ZIndex: 1},
				{LayerType: db.LayerTypeText, Content: "Hello", ZIndex: 1, Properties: map[string]interface{}{
					"x": float64(10), "y": float64(20), "color": "#FF0000",
				}},
			},
		})
		require.NoError(t, err)
		require.NotZero(t, meme.ID)
		require.Len(t, meme.Layers, 3)

		// z_index ascending, ties by submission order.
		assert.Equal(t, "stickers/sunglass.png", meme.Layers[0].Content)
		assert.Equal(t, "Hello", meme.Layers[1].Content)
		assert.Equal(t, "Bottom", meme.Layers[2].Content)
		assert.Equal(t, "#FF0000", meme.Layers[1].Properties["color"])
	})

	t.Run("rejects empty title", func(t *testing.T) {
		gdb := newTestDB(t)
		svc := NewMemes(gdb, testLogger())

		_, err := svc.Create(MemeCreate{Title: "   "})
		validationErr := &ValidationError{}
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("rejects unknown layer type", func(t *testing.T) {
		gdb := newTestDB(t)
		svc := NewMemes(gdb, testLogger())

		_, err := svc.Create(MemeCreate{
			Title:  "Bad",
			Layers: []LayerSpec{{LayerType: "video", Content: "clip.mp4"}},
		})
		validationErr := &ValidationError{}
		require.ErrorAs(t, err, &validationErr)

		var memes int64
		gdb.Model(&db.Meme{}).Count(&memes)
		assert.Zero(t, memes)
	})

	t.Run("rejects layer without content", func(t *testing.T) {
		gdb := newTestDB(t)
		svc := NewMemes(gdb, testLogger())

		_, err := svc.Create(MemeCreate{
			Title:  "Bad",
			Layers: []LayerSpec{{LayerType: db.LayerTypeText, Content: "   "}},
		})
		validationErr := &ValidationError{}
		require.ErrorAs(t, err, &validationErr)

		var memes int64
		gdb.Model(&db.Meme{}).Count(&memes)
		assert.Zero(t, memes)
	})

	t.Run("mid-creation failure leaves nothing behind", func(t *testing.T) {
		gdb := newTestDB(t)
		svc := NewMemes(gdb, testLogger())

		// The second layer's properties cannot be serialized, so its insert
		// fails after the meme row and first layer were already written
		// inside the transaction.
		_, err := svc.Create(MemeCreate{
			Title: "Doomed",
			Layers: []LayerSpec{
				{LayerType: db.LayerTypeText, Content: "fine"},
				{LayerType: db.LayerTypeText, Content: "broken", Properties: map[string]interface{}{
					"bad": make(chan int),
				}},
			},
		})
		persistenceErr := &PersistenceError{}
		require.ErrorAs(t, err, &persistenceErr)

		var memes, layers int64
		gdb.Model(&db.Meme{}).Count(&memes)
		gdb.Model(&db.MemeLayer{}).Count(&layers)
		assert.Zero(t, memes)
		assert.Zero(t, layers)
	})
}

func TestMemeGet(t *testing.T) {
	t.Run("missing id is not found", func(t *testing.T) {
		gdb := newTestDB(t)
		svc := NewMemes(gdb, testLogger())

		_, err := svc.Get(424242)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("returns layers ordered", func(t *testing.T) {
		gdb := newTestDB(t)
		svc := NewMemes(gdb, testLogger())

		created, err := svc.Create(MemeCreate{
			Title: "Ordered",
			Layers: []LayerSpec{
				{LayerType: db.LayerTypeText, Content: "z5", ZIndex: 5},
				{LayerType: db.LayerTypeText, Content: "z0-first"},
				{LayerType: db.LayerTypeText, Content: "z0-second"},
			},
		})
		require.NoError(t, err)

		meme, err := svc.Get(created.ID)
		require.NoError(t, err)
		require.Len(t, meme.Layers, 3)
		assert.Equal(t, "z0-first", meme.Layers[0].Content)
		assert.Equal(t, "z0-second", meme.Layers[1].Content)
		assert.Equal(t, "z5", meme.Layers[2].Content)
	})
}

func TestMemeList(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewMemes(gdb, testLogger())

	user := db.User{Username: "memelord", Email: "memelord@example.com"}
	require.NoError(t, gdb.Create(&user).Error)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(MemeCreate{Title: "anon", Layers: nil})
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := svc.Create(MemeCreate{Title: "owned", UserID: &user.ID})
		require.NoError(t, err)
	}

	all, total, err := svc.List(1, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, all, 5)

	owned, total, err := svc.List(1, 10, &user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, owned, 2)

	empty, total, err := svc.List(3, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Empty(t, empty)
}

func TestMemeLayerCascadeDelete(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewMemes(gdb, testLogger())

	meme, err := svc.Create(MemeCreate{
		Title:  "Cascade",
		Layers: []LayerSpec{{LayerType: db.LayerTypeText, Content: "x"}},
	})
	require.NoError(t, err)

	require.NoError(t, gdb.Delete(&db.Meme{}, meme.ID).Error)

	var layers int64
	gdb.Model(&db.MemeLayer{}).Where("meme_id = ?", meme.ID).Count(&layers)
	assert.Zero(t, layers)
}

func TestMemeTemplateDeleteSetsNull(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewMemes(gdb, testLogger())

	template := db.MemeTemplate{Name: "Doomed Template"}
	require.NoError(t, gdb.Create(&template).Error)

	meme, err := svc.Create(MemeCreate{Title: "Survivor", TemplateID: &template.ID})
	require.NoError(t, err)

	require.NoError(t, gdb.Delete(&db.MemeTemplate{}, template.ID).Error)

	survivor, err := svc.Get(meme.ID)
	require.NoError(t, err)
	assert.Nil(t, survivor.TemplateID)
}
