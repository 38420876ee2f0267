package session

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/clipforge/realtime/internal/model"
)

// projectFetcher is implemented by fetchers that can also report project
// state. Optional; task refresh works without it.
type projectFetcher interface {
	GetProjectStatus(ctx context.Context, projectID string) (model.ProjectSnapshot, error)
}

// refreshChannels fetches the authoritative REST snapshot for every task
// and project in the channel list. It runs after each (re)connect to
// recover updates missed while offline. Fetch failures are logged and
// skipped; the live stream remains the primary source either way.
func (s *Session) refreshChannels(channels []string) {
	if s.fetcher == nil {
		return
	}

	ids := taskIDs(channels)
	pf, _ := s.fetcher.(projectFetcher)
	var projects []string
	if pf != nil {
		projects = projectIDs(channels)
	}
	if len(ids) == 0 && len(projects) == 0 {
		return
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(s.cfg.RefreshConcurrency)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
			defer cancel()

			snap, err := s.fetcher.GetTaskProgress(fetchCtx, id)
			if err != nil {
				s.logger.Warn("task refresh failed",
					"task_id", id,
					"error", err,
				)
				return nil
			}
			s.router.Authoritative(id, snap)
			return nil
		})
	}

	for _, id := range projects {
		id := id
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
			defer cancel()

			snap, err := pf.GetProjectStatus(fetchCtx, id)
			if err != nil {
				s.logger.Warn("project refresh failed",
					"project_id", id,
					"error", err,
				)
				return nil
			}
			s.router.AuthoritativeProject(id, snap)
			return nil
		})
	}

	g.Wait()
	s.logger.Debug("channel refresh complete",
		"tasks", len(ids),
		"projects", len(projects),
	)
}
