package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lineshop/backend/internal/domain/linking"
	"github.com/lineshop/backend/internal/infrastructure/persistence/models"
)

// GormLineLinkRepository implements LinkRepository using GORM
type GormLineLinkRepository struct {
	db *gorm.DB
}

// NewGormLineLinkRepository creates a new GormLineLinkRepository
func NewGormLineLinkRepository(db *gorm.DB) *GormLineLinkRepository {
	return &GormLineLinkRepository{db: db}
}

// ---------------------------------------------------------------------------
// LinkReader implementation
// ---------------------------------------------------------------------------

// FindByUserID finds the link owned by a store account
func (r *GormLineLinkRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*linking.LineLink, error) {
	var model models.LineLinkModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, linking.ErrLinkNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLineUserID finds the link claimed by a LINE account
func (r *GormLineLinkRepository) FindByLineUserID(ctx context.Context, lineUserID string) (*linking.LineLink, error) {
	var model models.LineLinkModel
	if err := r.db.WithContext(ctx).First(&model, "line_user_id = ?", lineUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, linking.ErrLinkNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns links ordered by creation time, newest first
func (r *GormLineLinkRepository) List(ctx context.Context, limit int) ([]linking.LineLink, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var linkModels []models.LineLinkModel
	if err := query.Find(&linkModels).Error; err != nil {
		return nil, err
	}

	links := make([]linking.LineLink, len(linkModels))
	for i, model := range linkModels {
		links[i] = *model.ToDomain()
	}
	return links, nil
}

// CountLinked returns the total number of links
func (r *GormLineLinkRepository) CountLinked(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.LineLinkModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ---------------------------------------------------------------------------
// LinkWriter implementation
// ---------------------------------------------------------------------------

// Upsert saves a link, replacing any previous link the same account
// owns. A LINE account already claimed by a different store account
// surfaces as ErrLinkConflict.
func (r *GormLineLinkRepository) Upsert(ctx context.Context, link *linking.LineLink) error {
	var model models.LineLinkModel
	model.FromDomain(link)

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"line_user_id", "display_name", "picture_url", "updated_at",
			}),
		}).
		Create(&model).Error
	if err != nil {
		if isUniqueViolation(err) {
			return linking.ErrLinkConflict
		}
		return err
	}
	return nil
}

// DeleteByUserID removes the link owned by a store account
func (r *GormLineLinkRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LineLinkModel{}, "user_id = ?", userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return linking.ErrLinkNotFound
	}
	return nil
}

// DeleteOrphans removes links whose store account no longer exists
func (r *GormLineLinkRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id NOT IN (?)", r.db.Model(&models.UserModel{}).Select("id")).
		Delete(&models.LineLinkModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// isUniqueViolation reports whether err is a unique constraint failure.
// The pgx driver surfaces it as *pgconn.PgError, the lib/pq driver used
// by the migrate CLI and test harness as *pq.Error.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
