package db

import (
	"regexp"
	"time"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Layer types accepted on a finalized meme. Draft payloads are deliberately
// not checked against this set.
const (
	LayerTypeText    = "text"
	LayerTypeSticker = "sticker"
	LayerTypeImage   = "image"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type (
	GormForkedModel struct {
		ID        uint64 `gorm:"primarykey"`
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	User struct {
		GormForkedModel
		Username string `gorm:"size:64;uniqueIndex;not null"`
		Email    string `gorm:"size:120;uniqueIndex;not null"`
		Memes    []Meme
		Drafts   []MemeDraft
	}

	TemplateCategory struct {
		GormForkedModel
		Name      string         `gorm:"size:64;unique;not null"`
		Templates []MemeTemplate `gorm:"foreignKey:CategoryID"`
	}

	MemeTemplate struct {
		GormForkedModel
		Name       string `gorm:"size:128;index;not null"`
		ImageURL   string `gorm:"size:256"`
		CategoryID *uint64
		Category   *TemplateCategory `gorm:"constraint:OnDelete:SET NULL"`
		Fields     []TemplateField   `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
	}

	TemplateField struct {
		GormForkedModel
		TemplateID    uint64 `gorm:"not null;index"`
		Name          string `gorm:"size:64"`
		XPos          int
		YPos          int
		Width         int
		Height        int
		DefaultFontID *uint64
		DefaultFont   *Font  `gorm:"constraint:OnDelete:SET NULL"`
		DefaultColor  string `gorm:"size:7;default:#FFFFFF"`
	}

	StickerCategory struct {
		GormForkedModel
		Name     string    `gorm:"size:64;unique;not null"`
		Stickers []Sticker `gorm:"foreignKey:CategoryID"`
	}

	Sticker struct {
		GormForkedModel
		Name       string `gorm:"size:64;not null"`
		ImageURL   string `gorm:"size:256"`
		CategoryID *uint64
		Category   *StickerCategory `gorm:"constraint:OnDelete:SET NULL"`
	}

	Font struct {
		GormForkedModel
		Name     string `gorm:"size:64;unique;not null"`
		FilePath string `gorm:"size:256"`
	}

	Meme struct {
		GormForkedModel
		Title      string `gorm:"size:128;not null"`
		ImageURL   *string
		UserID     *uint64
		User       *User `gorm:"constraint:OnDelete:SET NULL"`
		TemplateID *uint64
		Template   *MemeTemplate `gorm:"constraint:OnDelete:SET NULL"`
		Layers     []MemeLayer   `gorm:"foreignKey:MemeID;constraint:OnDelete:CASCADE"`
	}

	MemeLayer struct {
		GormForkedModel
		MemeID     uint64 `gorm:"not null;index"`
		LayerType  string `gorm:"size:32;not null"`
		Content    string `gorm:"type:text"`
		Properties datatypes.JSONMap
		ZIndex     int `gorm:"default:0"`
	}

	MemeDraft struct {
		GormForkedModel
		Title      string `gorm:"size:128;not null"`
		UserID     *uint64
		User       *User `gorm:"constraint:OnDelete:SET NULL"`
		TemplateID *uint64
		Template   *MemeTemplate     `gorm:"constraint:OnDelete:SET NULL"`
		Data       datatypes.JSONMap `gorm:"not null"`
	}
)

// BeforeSave rejects any color that is not a full six-digit hex value.
func (f *TemplateField) BeforeSave(tx *gorm.DB) error {
	if f.DefaultColor != "" && !colorPattern.MatchString(f.DefaultColor) {
		return errors.Errorf("invalid default_color %q", f.DefaultColor)
	}
	return nil
}

func ValidLayerType(t string) bool {
	switch t {
	case LayerTypeText, LayerTypeSticker, LayerTypeImage:
		return true
	}
	return false
}
