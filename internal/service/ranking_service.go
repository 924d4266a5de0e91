package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"resumerank/internal/domain"
	"resumerank/internal/embedding/vectorizer"
	"resumerank/internal/embedding/vocabulary"
	"resumerank/internal/ranker"
)

// SnapshotStore persists fitted vocabularies.
type SnapshotStore interface {
	Enabled() bool
	Save(ctx context.Context, v *vocabulary.Vocabulary, path string) error
}

// Report is the outcome of one ranking run.
type Report struct {
	Results    domain.RankedResult
	Vocabulary *vocabulary.Vocabulary
	// SnapshotPath is set when the vocabulary was persisted.
	SnapshotPath string
	// SnapshotErr records a failed snapshot write. Results stay valid.
	SnapshotErr error
}

// RankingService runs the ranking pipeline. It holds no per-run state and is
// safe for concurrent use.
type RankingService struct {
	snapshots    SnapshotStore
	snapshotPath string
	logger       *slog.Logger
}

// NewRankingService creates a service. snapshots may be nil to disable persistence.
func NewRankingService(snapshots SnapshotStore, snapshotPath string, logger *slog.Logger) *RankingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RankingService{snapshots: snapshots, snapshotPath: snapshotPath, logger: logger}
}

// Rank fits a vocabulary over candidates and reference, then ranks the
// candidates by cosine similarity to the reference.
func (s *RankingService) Rank(ctx context.Context, reference *domain.Document, candidates []domain.Document) (*Report, error) {
	if err := validate(reference, candidates); err != nil {
		return nil, err
	}
	start := time.Now()
	corpus := make([]domain.Document, 0, len(candidates)+1)
	corpus = append(corpus, candidates...)
	corpus = append(corpus, *reference)

	vocab, err := vocabulary.Build(corpus)
	if err != nil {
		return nil, fmt.Errorf("build vocabulary: %w", err)
	}
	s.logger.Debug("vocabulary built", "tokens", vocab.Len(), "documents", len(corpus), "elapsed", time.Since(start))

	report, err := s.rank(ctx, vocab, *reference, candidates)
	if err != nil {
		return nil, err
	}
	s.persist(ctx, report)
	return report, nil
}

// RankWithVocabulary ranks with a previously fitted vocabulary, typically one
// loaded from a snapshot. Tokens unknown to vocab are ignored. No snapshot is written.
func (s *RankingService) RankWithVocabulary(ctx context.Context, vocab *vocabulary.Vocabulary, reference *domain.Document, candidates []domain.Document) (*Report, error) {
	if vocab == nil {
		return nil, vocabulary.ErrNilVocabulary
	}
	if err := validate(reference, candidates); err != nil {
		return nil, err
	}
	return s.rank(ctx, vocab, *reference, candidates)
}

func (s *RankingService) rank(ctx context.Context, vocab *vocabulary.Vocabulary, reference domain.Document, candidates []domain.Document) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vz, err := vectorizer.New(vocab)
	if err != nil {
		return nil, err
	}
	refVec := vz.Transform(reference)
	cands := make([]ranker.Candidate, len(candidates))
	for i, doc := range candidates {
		cands[i] = ranker.Candidate{ID: doc.ID, Vector: vz.Transform(doc)}
	}
	if refVec.IsZero() {
		s.logger.Warn("reference document shares no tokens with the vocabulary", "reference", reference.ID)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results, err := ranker.Rank(cands, refVec)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}
	s.logger.Info("candidates ranked", "reference", reference.ID, "candidates", len(results), "dimension", vz.Dimension())
	return &Report{Results: results, Vocabulary: vocab}, nil
}

func (s *RankingService) persist(ctx context.Context, report *Report) {
	if s.snapshots == nil || !s.snapshots.Enabled() {
		s.logger.Debug("snapshot persistence disabled")
		return
	}
	if err := ctx.Err(); err != nil {
		report.SnapshotErr = &domain.SnapshotWriteError{Path: s.snapshotPath, Err: err}
		return
	}
	if err := s.snapshots.Save(ctx, report.Vocabulary, s.snapshotPath); err != nil {
		s.logger.Error("snapshot write failed", "path", s.snapshotPath, "error", err)
		if !errors.Is(err, domain.ErrSnapshotWrite) {
			err = &domain.SnapshotWriteError{Path: s.snapshotPath, Err: err}
		}
		report.SnapshotErr = err
		return
	}
	report.SnapshotPath = s.snapshotPath
	s.logger.Debug("snapshot written", "path", s.snapshotPath, "tokens", report.Vocabulary.Len())
}

func validate(reference *domain.Document, candidates []domain.Document) error {
	if reference == nil {
		if len(candidates) == 0 {
			return domain.ErrEmptyCorpus
		}
		return domain.ErrNoReferenceDocument
	}
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.ID]; ok {
			return fmt.Errorf("%w: %q", domain.ErrDuplicateID, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}
