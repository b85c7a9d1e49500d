package corpus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seoulbites/matzip/internal/domain"
)

// Provider loads the corpus artifacts once, on first use, and serves the
// same snapshot to every caller afterwards. A failed load is cached too;
// the process does not retry a broken artifact set.
type Provider struct {
	dir string
	log *zap.Logger

	once sync.Once
	snap *Snapshot
	err  error
}

// NewProvider creates a lazy corpus provider over the artifact directory.
func NewProvider(dir string, log *zap.Logger) *Provider {
	return &Provider{dir: dir, log: log}
}

// Snapshot returns the loaded corpus snapshot, loading it on first call.
func (p *Provider) Snapshot(ctx context.Context) (*Snapshot, error) {
	p.once.Do(p.load)
	if p.err != nil {
		return nil, p.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.snap, nil
}

// Restaurant looks one document up by place id. A missing document wraps
// domain.ErrRestaurantNotFound.
func (p *Provider) Restaurant(ctx context.Context, placeID string) (*domain.Restaurant, error) {
	snap, err := p.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Corpus.Get(placeID)
}

// HealthCheck reports corpus availability, triggering the load if it has
// not happened yet.
func (p *Provider) HealthCheck(ctx context.Context) error {
	_, err := p.Snapshot(ctx)
	return err
}

func (p *Provider) load() {
	started := time.Now()
	snap, err := Load(p.dir)
	if err != nil {
		p.err = err
		p.log.Error("corpus load failed", zap.String("dir", p.dir), zap.Error(err))
		return
	}
	p.snap = snap
	p.log.Info("corpus loaded",
		zap.String("dir", p.dir),
		zap.Int("documents", snap.Corpus.Len()),
		zap.Int("embedding_dim", snap.Corpus.Dim()),
		zap.Duration("took", time.Since(started)))
}
