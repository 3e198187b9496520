package service

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/memeworks/memebuilder-back/internal/db"
)

type (
	// LayerSpec is one layer of a meme submission, in paint-stack order.
	LayerSpec struct {
		LayerType  string
		Content    string
		Properties map[string]interface{}
		ZIndex     int
	}

	MemeCreate struct {
		Title      string
		ImageURL   *string
		UserID     *uint64
		TemplateID *uint64
		Layers     []LayerSpec
	}

	Memes struct {
		db     *gorm.DB
		logger *zap.SugaredLogger
	}
)

func NewMemes(gdb *gorm.DB, l *zap.SugaredLogger) *Memes {
	return &Memes{
		db:     gdb,
		logger: l,
	}
}

// Create persists a meme and its layers as one unit. Either every layer
// lands or none do. Returns the meme with layers in paint order.
func (s *Memes) Create(in MemeCreate) (*db.Meme, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, NewValidationError("title is required")
	}
	for i := range in.Layers {
		if !db.ValidLayerType(in.Layers[i].LayerType) {
			return nil, NewValidationError("layer %d: invalid layer_type %q", i, in.Layers[i].LayerType)
		}
		if strings.TrimSpace(in.Layers[i].Content) == "" {
			return nil, NewValidationError("layer %d: content is required", i)
		}
	}

	meme := db.Meme{
		Title:      in.Title,
		ImageURL:   in.ImageURL,
		UserID:     in.UserID,
		TemplateID: in.TemplateID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if res := tx.Create(&meme); res.Error != nil {
			return errors.Wrap(res.Error, "create meme")
		}
		// Layers are created one by one so row ids carry submission order,
		// which breaks z-index ties on read.
		for i := range in.Layers {
			layer := db.MemeLayer{
				MemeID:     meme.ID,
				LayerType:  in.Layers[i].LayerType,
				Content:    in.Layers[i].Content,
				Properties: datatypes.JSONMap(in.Layers[i].Properties),
				ZIndex:     in.Layers[i].ZIndex,
			}
			if res := tx.Create(&layer); res.Error != nil {
				return errors.Wrapf(res.Error, "create layer %d", i)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Errorw("Meme creation rolled back.", "error", err)
		return nil, &PersistenceError{Err: err}
	}

	return s.Get(meme.ID)
}

// Get returns a meme with its layers ordered by z_index, ties by creation.
func (s *Memes) Get(id uint64) (*db.Meme, error) {
	meme := db.Meme{}
	res := s.db.
		Preload("Layers", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("z_index ASC, id ASC")
		}).
		First(&meme, id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(res.Error, "load meme")
	}
	return &meme, nil
}

// List returns one page of memes and the total of the filtered set.
func (s *Memes) List(page, perPage int, userID *uint64) ([]db.Meme, int64, error) {
	countQ := s.db.Model(&db.Meme{})
	if userID != nil {
		countQ = countQ.Where("user_id = ?", *userID)
	}
	var total int64
	if res := countQ.Count(&total); res.Error != nil {
		return nil, 0, errors.Wrap(res.Error, "count memes")
	}

	pageQ := s.db.
		Preload("Layers", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("z_index ASC, id ASC")
		})
	if userID != nil {
		pageQ = pageQ.Where("user_id = ?", *userID)
	}
	memes := make([]db.Meme, 0)
	res := pageQ.
		Order("id").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&memes)
	if res.Error != nil {
		return nil, 0, errors.Wrap(res.Error, "load memes")
	}

	return memes, total, nil
}
