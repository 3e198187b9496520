package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/memeworks/memebuilder-back/internal/config"
)

func NewGormClient(cfg *config.Config) (*gorm.DB, error) {
	newLogger := logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Info,
		Colorful:                  true,
		IgnoreRecordNotFoundError: false,
	})

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate brings the schema up to date. Order matters: referenced tables
// before referencing ones.
func Migrate(db *gorm.DB) error {
	models := []struct {
		name  string
		value interface{}
	}{
		{"user", &User{}},
		{"template_category", &TemplateCategory{}},
		{"font", &Font{}},
		{"meme_template", &MemeTemplate{}},
		{"template_field", &TemplateField{}},
		{"sticker_category", &StickerCategory{}},
		{"sticker", &Sticker{}},
		{"meme", &Meme{}},
		{"meme_layer", &MemeLayer{}},
		{"meme_draft", &MemeDraft{}},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m.value); err != nil {
			return errors.Wrapf(err, "migrate %s", m.name)
		}
	}
	return nil
}
