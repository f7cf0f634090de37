package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/cppla/discussions/models"
)

const (
	maxSlugBase  = 240
	fallbackSlug = "discussion"
)

// underscores separate words like any other punctuation
var underscoreReplacer = strings.NewReplacer("_", " ")

// Slugify turns a title into a lowercase, hyphen separated ASCII slug.
// Letters are transliterated, so "Straße" becomes "strasse".
func Slugify(title string) string {
	s := slug.MakeLang(underscoreReplacer.Replace(title), "en")
	if len(s) > maxSlugBase {
		s = strings.TrimRight(s[:maxSlugBase], "-")
	}
	if s == "" {
		return fallbackSlug
	}
	return s
}

// suffixSlug appends the unix timestamp in seconds.
func suffixSlug(base string, now time.Time) string {
	return base + "-" + strconv.FormatInt(now.Unix(), 10)
}

// uniqueSlug returns base when no live discussion uses it, otherwise base with a
// timestamp suffix. Soft-deleted rows are ignored here; the unique index still
// sees them, which is why Create retries once on a duplicate key.
func uniqueSlug(ctx context.Context, db *gorm.DB, base string, now time.Time) (string, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Discussion{}).Where("slug = ?", base).Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return base, nil
	}
	return suffixSlug(base, now), nil
}
