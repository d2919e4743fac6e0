package service

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"leadradar_backend/internal/leads/repository"
	"leadradar_backend/internal/leads/transport"
	"leadradar_backend/internal/ranking"
	"leadradar_backend/internal/scoring"
	"leadradar_backend/platform/apperr"
	"leadradar_backend/platform/cache"
	"leadradar_backend/platform/config"
	"leadradar_backend/platform/logger"
	"leadradar_backend/platform/metrics"
	"leadradar_backend/platform/sanitize"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	cacheScore    = "score"
	cacheSections = "sections"

	defaultRescoreBatch = 200
)

// Cache stores JSON documents. GetJSON returns cache.ErrMiss for absent keys.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

// RescoreEnqueuer schedules the background rescoring job.
type RescoreEnqueuer interface {
	EnqueueLeadRescore(ctx context.Context, batchSize int, force bool) (string, error)
}

type Service struct {
	repo     repository.LeadsRepository
	cfg      config.RankingConfig
	cache    Cache
	enqueuer RescoreEnqueuer
	metrics  *metrics.Metrics
	log      *logger.Logger
	now      func() time.Time
}

func New(repo repository.LeadsRepository, cfg config.RankingConfig, m *metrics.Metrics, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		cfg:     cfg,
		metrics: m,
		log:     log,
		now:     time.Now,
	}
}

// SetCache enables result caching.
func (s *Service) SetCache(c Cache) {
	s.cache = c
}

// SetRescoreEnqueuer enables EnqueueRescore.
func (s *Service) SetRescoreEnqueuer(e RescoreEnqueuer) {
	s.enqueuer = e
}

// ScoreLead scores the stored analysis of one lead.
func (s *Service) ScoreLead(ctx context.Context, id uuid.UUID) (scoring.Result, error) {
	lead, err := s.repo.GetLead(ctx, id)
	if err != nil {
		return scoring.Result{}, err
	}
	return s.score(ctx, scoring.DecodeAnalysis(lead.Analysis)), nil
}

// Preview scores an analysis that is not stored.
func (s *Service) Preview(ctx context.Context, req transport.PreviewRequest) scoring.Result {
	return s.score(ctx, scoring.AnalysisRecord(req.Analysis))
}

func (s *Service) score(ctx context.Context, rec scoring.AnalysisRecord) scoring.Result {
	key := ""
	if s.cache != nil {
		if hash, err := analysisHash(rec); err == nil {
			key = "score:" + scoring.Version + ":" + hash
		}
	}

	var result scoring.Result
	if s.lookup(ctx, cacheScore, key, &result) {
		return result
	}

	start := time.Now()
	result = scoring.Score(rec)
	s.metrics.ObserveEngine("score", time.Since(start))

	s.store(ctx, key, result, s.cfg.GetScoreCacheTTL())
	return result
}

// ForYou ranks the recent lead pool for a user and assembles the sections.
func (s *Service) ForYou(ctx context.Context, userID uuid.UUID) (transport.ForYouResponse, error) {
	now := s.now()
	limit := min(s.cfg.GetLeadPoolLimit(), ranking.MaxPoolSize)
	since := now.Add(-s.cfg.GetLeadPoolWindow())

	var (
		pool    []repository.Lead
		profile *ranking.UserProfile
		actions []ranking.Action
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pool, err = s.repo.ListRecentPool(gctx, since, limit)
		return err
	})
	g.Go(func() error {
		var err error
		profile, err = s.repo.GetUserProfile(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		actions, err = s.repo.ListUserActions(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		if apperr.GetKind(err) == apperr.KindUnknown {
			s.log.WithContext(ctx).DatabaseError("load ranking snapshot", err)
		}
		return transport.ForYouResponse{}, err
	}

	if len(pool) > ranking.MaxPoolSize {
		pool = pool[:ranking.MaxPoolSize]
	}

	key := ""
	if s.cache != nil {
		if fp, err := poolFingerprint(pool, profile, actions); err == nil {
			key = "sections:" + userID.String() + ":" + fp
		}
	}

	var resp transport.ForYouResponse
	if s.lookup(ctx, cacheSections, key, &resp) {
		return resp, nil
	}

	leads := make([]ranking.Lead, 0, len(pool))
	for _, l := range pool {
		leads = append(leads, toRankingLead(l))
	}
	behavior := ranking.SummarizeBehavior(actions)

	start := time.Now()
	ranked := ranking.Rank(leads, profile, behavior)
	sections := ranking.AssembleSections(ranked, profile, behavior, now)
	s.metrics.ObserveEngine("rank", time.Since(start))

	resp = transport.ForYouResponse{
		Sections:           sections,
		ProfileComplete:    profile.Complete(),
		TotalLeadsAnalyzed: len(pool),
		CalculatedAt:       now.UTC(),
		CapacityRemaining:  profile.CapacityRemaining(),
	}

	s.store(ctx, key, resp, s.cfg.GetSectionsCacheTTL())
	return resp, nil
}

// EnqueueRescore schedules a background rescoring of every stored lead.
func (s *Service) EnqueueRescore(ctx context.Context, req transport.RescoreRequest) (transport.RescoreResponse, error) {
	if s.enqueuer == nil {
		return transport.RescoreResponse{}, apperr.Unavailable("background jobs are not configured")
	}
	batch := req.BatchSize
	if batch <= 0 {
		batch = defaultRescoreBatch
	}

	taskID, err := s.enqueuer.EnqueueLeadRescore(ctx, batch, req.Force)
	if err != nil {
		return transport.RescoreResponse{}, err
	}
	return transport.RescoreResponse{TaskID: taskID, Status: "queued"}, nil
}

// Rescore recomputes and stores the score of every lead, batchSize at a
// time. A failed update is logged and counted, the walk continues.
func (s *Service) Rescore(ctx context.Context, batchSize int, force bool) (processed, failed int, err error) {
	if batchSize <= 0 {
		batchSize = defaultRescoreBatch
	}
	defer func() { s.metrics.LeadsRescored(processed, failed) }()

	params := repository.RescorePageParams{
		Limit:   batchSize,
		Version: scoring.Version,
		Force:   force,
	}
	for {
		if err := ctx.Err(); err != nil {
			return processed, failed, err
		}

		page, err := s.repo.ListLeadsForRescore(ctx, params)
		if err != nil {
			return processed, failed, err
		}

		for _, l := range page {
			result := scoring.Score(scoring.DecodeAnalysis(l.Analysis))
			update := repository.ScoreUpdate{
				Score:    result.OverallScore,
				Quality:  string(result.Quality),
				Version:  scoring.Version,
				ScoredAt: s.now().UTC(),
			}
			if err := s.repo.UpdateLeadScore(ctx, l.ID, update); err != nil {
				failed++
				s.log.Warn("failed to store lead score", "leadId", l.ID, "error", err)
				continue
			}
			processed++
		}

		if len(page) < batchSize {
			return processed, failed, nil
		}
		last := page[len(page)-1]
		params.After = &repository.RescoreCursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
}

// lookup reads key into dst. Cache failures are logged and reported as a miss.
func (s *Service) lookup(ctx context.Context, name, key string, dst any) bool {
	if s.cache == nil || key == "" {
		return false
	}

	err := s.cache.GetJSON(ctx, key, dst)
	switch {
	case err == nil:
		s.metrics.CacheLookup(name, metrics.OutcomeHit)
		return true
	case errors.Is(err, cache.ErrMiss):
		s.metrics.CacheLookup(name, metrics.OutcomeMiss)
	default:
		s.metrics.CacheLookup(name, metrics.OutcomeError)
		s.log.WithContext(ctx).CacheError("get", key, err)
	}
	return false
}

func (s *Service) store(ctx context.Context, key string, v any, ttl time.Duration) {
	if s.cache == nil || key == "" {
		return
	}
	if err := s.cache.SetJSON(ctx, key, v, ttl); err != nil {
		s.log.WithContext(ctx).CacheError("set", key, err)
	}
}

func toRankingLead(l repository.Lead) ranking.Lead {
	return ranking.Lead{
		ID:           l.ID,
		BusinessName: sanitize.Text(l.BusinessName),
		WebsiteURL:   strings.TrimSpace(l.WebsiteURL),
		City:         sanitize.Text(l.City),
		Category:     sanitize.Text(l.Category),
		Score:        l.Score,
		Analysis:     scoring.DecodeAnalysis(l.Analysis),
		CreatedAt:    l.CreatedAt,
	}
}

// analysisHash is the SHA-256 of the record's canonical JSON encoding.
// encoding/json sorts map keys, so equal records hash equally.
func analysisHash(rec scoring.AnalysisRecord) (string, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// poolFingerprint identifies everything the sections depend on: every lead
// field the ranker or the section entries read, the profile and the action
// log including the joined lead category and city.
func poolFingerprint(pool []repository.Lead, profile *ranking.UserProfile, actions []ranking.Action) (string, error) {
	h := sha256.New()
	var buf [8]byte

	writeTime := func(t time.Time) {
		binary.BigEndian.PutUint64(buf[:], uint64(t.UnixNano()))
		h.Write(buf[:])
	}
	// each string is terminated so adjacent fields cannot run together
	writeString := func(v string) {
		h.Write([]byte(v))
		h.Write([]byte{0})
	}

	for _, l := range pool {
		h.Write(l.ID[:])
		writeTime(l.CreatedAt)
		binary.BigEndian.PutUint64(buf[:], uint64(l.Score))
		h.Write(buf[:])
		sum := sha256.Sum256(l.Analysis)
		h.Write(sum[:])
		writeString(l.BusinessName)
		writeString(l.WebsiteURL)
		writeString(l.City)
		writeString(l.Category)
	}
	h.Write([]byte{0})

	rawProfile, err := json.Marshal(profile)
	if err != nil {
		return "", err
	}
	h.Write(rawProfile)
	h.Write([]byte{0})

	for _, a := range actions {
		h.Write(a.LeadID[:])
		writeString(string(a.Type))
		writeString(a.Category)
		writeString(a.City)
		writeTime(a.CreatedAt)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
