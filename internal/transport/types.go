package transport

import (
	"time"

	"github.com/memeworks/memebuilder-back/internal/db"
)

type (
	ErrorResp struct {
		Error      string  `json:"error"`
		Message    *string `json:"message"`
		StatusCode int     `json:"status_code"`
	}

	Paginated struct {
		Page    int         `json:"page"`
		PerPage int         `json:"per_page"`
		Total   int64       `json:"total"`
		Items   interface{} `json:"items"`
	}

	CategoryResp struct {
		ID   uint64 `json:"id"`
		Name string `json:"name"`
	}

	TemplateFieldResp struct {
		ID            uint64  `json:"id"`
		Name          string  `json:"name"`
		XPos          int     `json:"x_pos"`
		YPos          int     `json:"y_pos"`
		Width         int     `json:"width"`
		Height        int     `json:"height"`
		DefaultFontID *uint64 `json:"default_font_id"`
		DefaultColor  string  `json:"default_color"`
	}

	TemplateResp struct {
		ID         uint64              `json:"id"`
		Name       string              `json:"name"`
		ImageURL   string              `json:"image_url"`
		CategoryID *uint64             `json:"category_id,omitempty"`
		Category   *CategoryResp       `json:"category"`
		Fields     []TemplateFieldResp `json:"fields"`
		CreatedAt  time.Time           `json:"created_at"`
	}

	StickerResp struct {
		ID         uint64        `json:"id"`
		Name       string        `json:"name"`
		ImageURL   string        `json:"image_url"`
		CategoryID *uint64       `json:"category_id,omitempty"`
		Category   *CategoryResp `json:"category"`
	}

	FontResp struct {
		ID       uint64 `json:"id"`
		Name     string `json:"name"`
		FilePath string `json:"file_path"`
	}

	AssetCategoriesResp struct {
		Templates []CategoryResp `json:"templates"`
		Stickers  []CategoryResp `json:"stickers"`
	}

	LayerReq struct {
		LayerType  string                 `json:"layer_type" validate:"required"`
		Content    string                 `json:"content" validate:"required"`
		Properties map[string]interface{} `json:"properties"`
		ZIndex     int                    `json:"z_index"`
	}

	MemeCreateReq struct {
		Title      string     `json:"title" validate:"required"`
		ImageURL   *string    `json:"image_url"`
		UserID     *uint64    `json:"user_id"`
		TemplateID *uint64    `json:"template_id"`
		Layers     []LayerReq `json:"layers" validate:"omitempty,dive"`
	}

	LayerResp struct {
		ID         uint64                 `json:"id"`
		LayerType  string                 `json:"layer_type"`
		Content    string                 `json:"content"`
		Properties map[string]interface{} `json:"properties"`
		ZIndex     int                    `json:"z_index"`
	}

	MemeResp struct {
		ID         uint64      `json:"id"`
		Title      string      `json:"title"`
		ImageURL   *string     `json:"image_url"`
		UserID     *uint64     `json:"user_id"`
		TemplateID *uint64     `json:"template_id"`
		CreatedAt  time.Time   `json:"created_at"`
		Layers     []LayerResp `json:"layers"`
	}

	DraftCreateReq struct {
		Title      string                 `json:"title" validate:"required"`
		TemplateID *uint64                `json:"template_id"`
		Data       map[string]interface{} `json:"data"`
		UserID     *uint64                `json:"user_id"`
	}

	DraftUpdateReq struct {
		Title      *string                `json:"title"`
		TemplateID *uint64                `json:"template_id"`
		Data       map[string]interface{} `json:"data"`
	}

	DraftSummaryResp struct {
		ID        uint64    `json:"id"`
		Title     string    `json:"title"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	DraftResp struct {
		ID         uint64                 `json:"id"`
		Title      string                 `json:"title"`
		UserID     *uint64                `json:"user_id"`
		TemplateID *uint64                `json:"template_id"`
		Data       map[string]interface{} `json:"data"`
		CreatedAt  time.Time              `json:"created_at"`
		UpdatedAt  time.Time              `json:"updated_at"`
	}

	MessageResp struct {
		Message string `json:"message"`
	}
)

func toCategoryResp(c *db.TemplateCategory) *CategoryResp {
	if c == nil {
		return nil
	}
	return &CategoryResp{ID: c.ID, Name: c.Name}
}

func toStickerCategoryResp(c *db.StickerCategory) *CategoryResp {
	if c == nil {
		return nil
	}
	return &CategoryResp{ID: c.ID, Name: c.Name}
}

func toTemplateResp(t *db.MemeTemplate) TemplateResp {
	fields := make([]TemplateFieldResp, len(t.Fields))
	for i := range t.Fields {
		f := t.Fields[i]
		fields[i] = TemplateFieldResp{
			ID:            f.ID,
			Name:          f.Name,
			XPos:          f.XPos,
			YPos:          f.YPos,
			Width:         f.Width,
			Height:        f.Height,
			DefaultFontID: f.DefaultFontID,
			DefaultColor:  f.DefaultColor,
		}
	}
	return TemplateResp{
		ID:         t.ID,
		Name:       t.Name,
		ImageURL:   t.ImageURL,
		CategoryID: t.CategoryID,
		Category:   toCategoryResp(t.Category),
		Fields:     fields,
		CreatedAt:  t.CreatedAt,
	}
}

func toStickerResp(s *db.Sticker) StickerResp {
	return StickerResp{
		ID:         s.ID,
		Name:       s.Name,
		ImageURL:   s.ImageURL,
		CategoryID: s.CategoryID,
		Category:   toStickerCategoryResp(s.Category),
	}
}

func toMemeResp(m *db.Meme) MemeResp {
	layers := make([]LayerResp, len(m.Layers))
	for i := range m.Layers {
		l := m.Layers[i]
		layers[i] = LayerResp{
			ID:         l.ID,
			LayerType:  l.LayerType,
			Content:    l.Content,
			Properties: l.Properties,
			ZIndex:     l.ZIndex,
		}
	}
	return MemeResp{
		ID:         m.ID,
		Title:      m.Title,
		ImageURL:   m.ImageURL,
		UserID:     m.UserID,
		TemplateID: m.TemplateID,
		CreatedAt:  m.CreatedAt,
		Layers:     layers,
	}
}

func toDraftSummaryResp(d *db.MemeDraft) DraftSummaryResp {
	return DraftSummaryResp{
		ID:        d.ID,
		Title:     d.Title,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toDraftResp(d *db.MemeDraft) DraftResp {
	return DraftResp{
		ID:         d.ID,
		Title:      d.Title,
		UserID:     d.UserID,
		TemplateID: d.TemplateID,
		Data:       d.Data,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}
