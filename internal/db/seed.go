package db

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seed inserts the reference catalog: categories, fonts, stickers and the
// canonical templates. Safe to run repeatedly; existing rows are looked up
// by name and left alone.
func Seed(db *gorm.DB, logger *zap.SugaredLogger) error {
	templateCats := map[string]*TemplateCategory{}
	for _, name := range []string{"Classic", "Modern", "Dank"} {
		cat, err := findOrCreateTemplateCategory(db, name)
		if err != nil {
			return err
		}
		templateCats[name] = cat
	}

	fonts := map[string]*Font{}
	for _, f := range []Font{
		{Name: "Impact", FilePath: "fonts/Impact.ttf"},
		{Name: "Arial", FilePath: "fonts/Arial.ttf"},
		{Name: "Comic Sans", FilePath: "fonts/Comic.ttf"},
	} {
		font := Font{}
		res := db.Where("name = ?", f.Name).First(&font)
		if res.Error != nil {
			if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return errors.Wrap(res.Error, "lookup font")
			}
			font = f
			if res := db.Create(&font); res.Error != nil {
				return errors.Wrap(res.Error, "create font")
			}
		}
		fonts[font.Name] = &font
	}

	stickerCats := map[string]*StickerCategory{}
	for _, name := range []string{"Faces", "Objects", "Symbols"} {
		cat := StickerCategory{}
		res := db.Where("name = ?", name).First(&cat)
		if res.Error != nil {
			if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return errors.Wrap(res.Error, "lookup sticker category")
			}
			cat = StickerCategory{Name: name}
			if res := db.Create(&cat); res.Error != nil {
				return errors.Wrap(res.Error, "create sticker category")
			}
		}
		stickerCats[name] = &cat
	}

	impactID := fonts["Impact"].ID
	templates := []MemeTemplate{
		{
			Name:       "Drake Hotline Bling",
			ImageURL:   "https://i.imgflip.com/30b1gx.jpg",
			CategoryID: &templateCats["Classic"].ID,
			Fields: []TemplateField{
				{Name: "Top Text", XPos: 310, YPos: 0, Width: 290, Height: 300, DefaultFontID: &impactID, DefaultColor: "#000000"},
				{Name: "Bottom Text", XPos: 310, YPos: 300, Width: 290, Height: 300, DefaultFontID: &impactID, DefaultColor: "#000000"},
			},
		},
		{
			Name:       "Expanding Brain",
			ImageURL:   "https://i.imgflip.com/1jwhww.jpg",
			CategoryID: &templateCats["Classic"].ID,
		},
		{
			Name:       "Distracted Boyfriend",
			ImageURL:   "https://i.imgflip.com/1ur9b0.jpg",
			CategoryID: &templateCats["Modern"].ID,
		},
	}
	for i := range templates {
		existing := MemeTemplate{}
		res := db.Where("name = ?", templates[i].Name).First(&existing)
		if res.Error == nil {
			continue
		}
		if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return errors.Wrap(res.Error, "lookup template")
		}
		if res := db.Create(&templates[i]); res.Error != nil {
			return errors.Wrap(res.Error, "create template")
		}
	}

	stickers := []Sticker{
		{Name: "Sunglass", ImageURL: "stickers/sunglass.png", CategoryID: &stickerCats["Objects"].ID},
		{Name: "Troll Face", ImageURL: "stickers/trollface.png", CategoryID: &stickerCats["Faces"].ID},
	}
	for i := range stickers {
		existing := Sticker{}
		res := db.Where("name = ?", stickers[i].Name).First(&existing)
		if res.Error == nil {
			continue
		}
		if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return errors.Wrap(res.Error, "lookup sticker")
		}
		if res := db.Create(&stickers[i]); res.Error != nil {
			return errors.Wrap(res.Error, "create sticker")
		}
	}

	logger.Info("Database seeded.")
	return nil
}

func findOrCreateTemplateCategory(db *gorm.DB, name string) (*TemplateCategory, error) {
	cat := TemplateCategory{}
	res := db.Where("name = ?", name).First(&cat)
	if res.Error == nil {
		return &cat, nil
	}
	if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(res.Error, "lookup template category")
	}
	cat = TemplateCategory{Name: name}
	if res := db.Create(&cat); res.Error != nil {
		return nil, errors.Wrap(res.Error, "create template category")
	}
	return &cat, nil
}
