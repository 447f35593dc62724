package core

import (
	"context"

	"github.com/JJeris/blendio/internal/domain"
)

// CheckConnectivity probes the build feed with the configured timeout
func (s *Service) CheckConnectivity(ctx context.Context) error {
	return s.report(ctx, "checking connectivity", s.feed.CheckConnectivity(ctx))
}

// DownloadableBuilds lists the feed builds for this platform. The feed is
// probed first so an offline machine fails fast.
func (s *Service) DownloadableBuilds(ctx context.Context) ([]domain.DownloadableBuild, error) {
	if err := s.feed.CheckConnectivity(ctx); err != nil {
		return nil, s.report(ctx, "listing downloadable builds", err)
	}
	builds, err := s.feed.FetchDownloadable(ctx)
	if err != nil {
		return nil, s.report(ctx, "listing downloadable builds", err)
	}
	s.log.Debug("fetched build feed", "count", len(builds))
	return builds, nil
}

// FindDownloadable returns the feed build whose file name or URL matches.
func (s *Service) FindDownloadable(ctx context.Context, nameOrURL string) (*domain.DownloadableBuild, error) {
	builds, err := s.DownloadableBuilds(ctx)
	if err != nil {
		return nil, err
	}
	for i := range builds {
		if builds[i].FileName == nameOrURL || builds[i].URL == nameOrURL {
			return &builds[i], nil
		}
	}
	return nil, s.report(ctx, "finding downloadable build", domain.NotFound("downloadable build", nameOrURL))
}
