package service

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/memeworks/memebuilder-back/internal/db"
)

type (
	DraftCreate struct {
		Title      string
		Data       map[string]interface{}
		UserID     *uint64
		TemplateID *uint64
	}

	// DraftPatch carries a partial update. Nil fields are left untouched.
	DraftPatch struct {
		Title      *string
		Data       map[string]interface{}
		TemplateID *uint64
	}

	// Drafts stores work-in-progress compositions. The data document is
	// opaque on purpose: the editor saves whatever state it has, valid
	// layers or not, and gets it back verbatim.
	Drafts struct {
		db     *gorm.DB
		logger *zap.SugaredLogger
	}
)

func NewDrafts(gdb *gorm.DB, l *zap.SugaredLogger) *Drafts {
	return &Drafts{
		db:     gdb,
		logger: l,
	}
}

func (s *Drafts) Create(in DraftCreate) (*db.MemeDraft, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, NewValidationError("title is required")
	}
	if in.Data == nil {
		return nil, NewValidationError("data is required")
	}

	draft := db.MemeDraft{
		Title:      in.Title,
		UserID:     in.UserID,
		TemplateID: in.TemplateID,
		Data:       datatypes.JSONMap(in.Data),
	}
	if res := s.db.Create(&draft); res.Error != nil {
		s.logger.Errorw("Draft creation failed.", "error", res.Error)
		return nil, &PersistenceError{Err: res.Error}
	}

	return &draft, nil
}

func (s *Drafts) Get(id uint64) (*db.MemeDraft, error) {
	draft := db.MemeDraft{}
	res := s.db.First(&draft, id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(res.Error, "load draft")
	}
	return &draft, nil
}

// Update applies a partial patch. updated_at is refreshed on every
// successful call, including an empty patch.
func (s *Drafts) Update(id uint64, patch DraftPatch) (*db.MemeDraft, error) {
	draft, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, NewValidationError("title must not be empty")
		}
		updates["title"] = *patch.Title
	}
	if patch.Data != nil {
		updates["data"] = datatypes.JSONMap(patch.Data)
	}
	if patch.TemplateID != nil {
		updates["template_id"] = *patch.TemplateID
	}

	res := s.db.Model(draft).Updates(updates)
	if res.Error != nil {
		s.logger.Errorw("Draft update failed.", "draft_id", id, "error", res.Error)
		return nil, &PersistenceError{Err: res.Error}
	}

	return s.Get(id)
}

// Delete removes a draft for good. Deleting a missing id is ErrNotFound,
// so a second delete of the same draft reports failure, not success.
func (s *Drafts) Delete(id uint64) error {
	draft, err := s.Get(id)
	if err != nil {
		return err
	}

	res := s.db.Delete(draft)
	if res.Error != nil {
		s.logger.Errorw("Draft delete failed.", "draft_id", id, "error", res.Error)
		return &PersistenceError{Err: res.Error}
	}
	return nil
}

func (s *Drafts) List(page, perPage int, userID *uint64) ([]db.MemeDraft, int64, error) {
	countQ := s.db.Model(&db.MemeDraft{})
	if userID != nil {
		countQ = countQ.Where("user_id = ?", *userID)
	}
	var total int64
	if res := countQ.Count(&total); res.Error != nil {
		return nil, 0, errors.Wrap(res.Error, "count drafts")
	}

	pageQ := s.db.Order("id").Limit(perPage).Offset((page - 1) * perPage)
	if userID != nil {
		pageQ = pageQ.Where("user_id = ?", *userID)
	}
	drafts := make([]db.MemeDraft, 0)
	if res := pageQ.Find(&drafts); res.Error != nil {
		return nil, 0, errors.Wrap(res.Error, "load drafts")
	}

	return drafts, total, nil
}
