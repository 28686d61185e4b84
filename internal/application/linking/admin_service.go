package linking

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lineshop/backend/internal/domain/identity"
	"github.com/lineshop/backend/internal/domain/linking"
)

// AdminService serves the back-office link management operations.
type AdminService struct {
	links  linking.LinkRepository
	users  identity.UserRepository
	sink   linking.ProfileSink
	logger *zap.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(links linking.LinkRepository, users identity.UserRepository, sink linking.ProfileSink, logger *zap.Logger) *AdminService {
	return &AdminService{links: links, users: users, sink: sink, logger: logger}
}

// ListLinks removes orphaned links and returns the remaining ones.
func (s *AdminService) ListLinks(ctx context.Context, limit int) (*LinkListResult, error) {
	removed, err := s.links.DeleteOrphans(ctx)
	if err != nil {
		return nil, err
	}
	if removed > 0 {
		s.logger.Info("removed orphaned links", zap.Int64("count", removed))
	}

	links, err := s.links.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.links.CountLinked(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]LinkSummary, len(links))
	for i, link := range links {
		summaries[i] = LinkSummary{
			UserID:      link.UserID,
			LineUserID:  link.LineUserID,
			DisplayName: link.DisplayName,
			PictureURL:  link.PictureURL,
			LinkedAt:    link.CreatedAt,
		}
	}

	return &LinkListResult{
		Links:          summaries,
		Total:          total,
		OrphansRemoved: removed,
	}, nil
}

// InspectLink reports the state of one account's link, including
// whether the account still exists and whether the profile sink mirror
// agrees with the canonical row.
func (s *AdminService) InspectLink(ctx context.Context, userID uuid.UUID) (*LinkInspection, error) {
	link, err := s.links.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}

	inspection := &LinkInspection{
		Link: LinkSummary{
			UserID:      link.UserID,
			LineUserID:  link.LineUserID,
			DisplayName: link.DisplayName,
			PictureURL:  link.PictureURL,
			LinkedAt:    link.CreatedAt,
		},
		UserExists: exists,
	}

	if s.sink == nil {
		return inspection, nil
	}

	mirrored, err := s.sink.ReadMirroredID(ctx, userID)
	switch {
	case err == nil:
		inspection.MirroredLineUserID = mirrored
		inspection.MirrorInSync = mirrored == link.LineUserID
	case errors.Is(err, linking.ErrLinkNotFound):
		// No mirror entry yet, reported as out of sync
	default:
		s.logger.Warn("profile sink read failed",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
	return inspection, nil
}

// Unlink removes the link owned by a store account.
func (s *AdminService) Unlink(ctx context.Context, userID uuid.UUID) error {
	if err := s.links.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("account unlinked", zap.String("user_id", userID.String()))
	return nil
}

// BackfillSink mirrors every stored link into the profile sink. Links
// that fail to mirror are counted and skipped.
func (s *AdminService) BackfillSink(ctx context.Context) (*BackfillResult, error) {
	if s.sink == nil {
		return nil, errors.New("no profile sink configured")
	}

	links, err := s.links.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	result := &BackfillResult{}
	for _, link := range links {
		err := s.sink.MirrorProfile(ctx, link.UserID, link.LineUserID, link.DisplayName, link.PictureURL)
		if err != nil {
			result.Failed++
			s.logger.Warn("backfill mirror failed",
				zap.String("user_id", link.UserID.String()),
				zap.Error(err))
			continue
		}
		result.Mirrored++
	}

	s.logger.Info("profile sink backfill finished",
		zap.Int("mirrored", result.Mirrored),
		zap.Int("failed", result.Failed))
	return result, nil
}
