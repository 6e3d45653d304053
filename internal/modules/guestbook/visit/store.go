package visit

import (
	"context"
	"errors"

	"github.com/mx-space/guestbook/internal/models"
	"gorm.io/gorm"
)

const openPredicate = "ip = ? AND visited_at > ? AND author IS NULL AND message IS NULL"

// GormStore implements Store and the timeline queries on top of gorm.
type GormStore struct{ db *gorm.DB }

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) openRows(ctx context.Context, ip string, since int64) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Visit{}).Where(openPredicate, ip, since)
}

// latestOpenID returns the id of the newest open anonymous row, or "".
func (s *GormStore) latestOpenID(ctx context.Context, ip string, since int64) (string, error) {
	var v models.Visit
	err := s.openRows(ctx, ip, since).
		Select("id").
		Order("visited_at DESC").
		Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v.ID, nil
}

// updateOpen updates only the newest open row, re-checking the full predicate
// so a row promoted in the meantime is left alone.
func (s *GormStore) updateOpen(ctx context.Context, ip string, since int64, values map[string]interface{}) (bool, error) {
	id, err := s.latestOpenID(ctx, ip, since)
	if err != nil || id == "" {
		return false, err
	}
	result := s.openRows(ctx, ip, since).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *GormStore) RefreshOpen(ctx context.Context, ip string, since, at int64) (bool, error) {
	return s.updateOpen(ctx, ip, since, map[string]interface{}{
		"visited_at": at,
	})
}

func (s *GormStore) PromoteOpen(ctx context.Context, ip string, since int64, author, message string, at int64) (bool, error) {
	return s.updateOpen(ctx, ip, since, map[string]interface{}{
		"author":     author,
		"message":    message,
		"visited_at": at,
	})
}

func (s *GormStore) Insert(ctx context.Context, v *models.Visit) error {
	return s.db.WithContext(ctx).Create(v).Error
}

func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) authored(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Where("author IS NOT NULL AND message IS NOT NULL").
		Order("visited_at DESC")
}

// AuthoredSince returns authored visits with visited_at after since, newest first.
func (s *GormStore) AuthoredSince(ctx context.Context, since int64) ([]models.Visit, error) {
	var visits []models.Visit
	if err := s.authored(ctx).Where("visited_at > ?", since).Find(&visits).Error; err != nil {
		return nil, err
	}
	return visits, nil
}

// LatestAuthored returns the limit most recent authored visits, newest first.
func (s *GormStore) LatestAuthored(ctx context.Context, limit int) ([]models.Visit, error) {
	if limit <= 0 {
		return nil, nil
	}
	var visits []models.Visit
	if err := s.authored(ctx).Limit(limit).Find(&visits).Error; err != nil {
		return nil, err
	}
	return visits, nil
}

// PruneAnonymous deletes anonymous visits last active before cutoff. Authored
// visits are kept forever.
func (s *GormStore) PruneAnonymous(ctx context.Context, before int64) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("visited_at < ? AND author IS NULL AND message IS NULL", before).
		Delete(&models.Visit{})
	return result.RowsAffected, result.Error
}
