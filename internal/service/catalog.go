package service

import (
	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/memeworks/memebuilder-back/internal/db"
)

// Catalog is the read-only surface over templates, stickers, fonts and
// their categories. Seeding writes this data; the API only reads it.
type Catalog struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewCatalog(gdb *gorm.DB, l *zap.SugaredLogger) *Catalog {
	return &Catalog{
		db:     gdb,
		logger: l,
	}
}

// TemplateList returns one page of templates plus the total size of the
// filtered set. search matches name substrings case-insensitively.
func (s *Catalog) TemplateList(page, perPage int, categoryID *uint64, search string) ([]db.MemeTemplate, int64, error) {
	w := squirrel.And{}
	if categoryID != nil {
		w = append(w, squirrel.Eq{"category_id": *categoryID})
	}
	if search != "" {
		w = append(w, squirrel.Expr("LOWER(name) LIKE LOWER(?)", "%"+search+"%"))
	}

	countSQL, countArgs, err := squirrel.
		Select("COUNT(*)").From("meme_templates").
		Where(w).
		ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "build count sql")
	}

	var total int64
	res := s.db.Raw(countSQL, countArgs...).Scan(&total)
	if res.Error != nil {
		return nil, 0, errors.Wrap(res.Error, "count templates")
	}

	pageSQL, pageArgs, err := squirrel.
		Select("id").From("meme_templates").
		Where(w).
		OrderBy("id").
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "build page sql")
	}

	ids := make([]uint64, 0)
	res = s.db.Raw(pageSQL, pageArgs...).Scan(&ids)
	if res.Error != nil {
		return nil, 0, errors.Wrap(res.Error, "scan template ids")
	}

	templates := make([]db.MemeTemplate, 0)
	if len(ids) == 0 {
		return templates, total, nil
	}

	res = s.db.
		Preload("Category").
		Preload("Fields").
		Where("id IN ?", ids).
		Order("id").
		Find(&templates)
	if res.Error != nil {
		return nil, 0, errors.Wrap(res.Error, "load templates")
	}

	return templates, total, nil
}

// TemplateGet returns a template with its category and field set.
func (s *Catalog) TemplateGet(id uint64) (*db.MemeTemplate, error) {
	template := db.MemeTemplate{}
	res := s.db.
		Preload("Category").
		Preload("Fields").
		First(&template, id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(res.Error, "load template")
	}
	return &template, nil
}

func (s *Catalog) StickerList(categoryID *uint64) ([]db.Sticker, error) {
	stickers := make([]db.Sticker, 0)
	q := s.db.Preload("Category").Order("id")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	res := q.Find(&stickers)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "load stickers")
	}
	return stickers, nil
}

func (s *Catalog) FontList() ([]db.Font, error) {
	fonts := make([]db.Font, 0)
	res := s.db.Order("id").Find(&fonts)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "load fonts")
	}
	return fonts, nil
}

// CategoryList returns template and sticker categories side by side.
func (s *Catalog) CategoryList() ([]db.TemplateCategory, []db.StickerCategory, error) {
	templateCats := make([]db.TemplateCategory, 0)
	res := s.db.Order("id").Find(&templateCats)
	if res.Error != nil {
		return nil, nil, errors.Wrap(res.Error, "load template categories")
	}

	stickerCats := make([]db.StickerCategory, 0)
	res = s.db.Order("id").Find(&stickerCats)
	if res.Error != nil {
		return nil, nil, errors.Wrap(res.Error, "load sticker categories")
	}

	return templateCats, stickerCats, nil
}
