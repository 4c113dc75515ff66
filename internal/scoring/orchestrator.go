package scoring

import (
	"context"
	"encoding/json"

	"github.com/yoockh/hirex/internal/models"
	"golang.org/x/sync/errgroup"
)

// Result is what gets attached to an application submission.
type Result struct {
	Analysis   models.AIAnalysis
	Similarity float64
}

// Orchestrator runs both scoring calls at once. Either failure fails the whole
// score and cancels the other call. There is no retry and no timeout beyond ctx.
type Orchestrator struct {
	ranker     Ranker
	similarity SimilarityScorer
}

func NewOrchestrator(r Ranker, s SimilarityScorer) *Orchestrator {
	return &Orchestrator{ranker: r, similarity: s}
}

func (o *Orchestrator) Score(ctx context.Context, structuredResume json.RawMessage, jobDescription, resumeText string) (*Result, error) {
	g, gctx := errgroup.WithContext(ctx)

	var (
		analysis   *models.AIAnalysis
		similarity float64
	)
	g.Go(func() error {
		a, err := o.ranker.Rank(gctx, structuredResume, jobDescription)
		if err != nil {
			return err
		}
		analysis = a
		return nil
	})
	g.Go(func() error {
		s, err := o.similarity.Similarity(gctx, jobDescription, resumeText)
		if err != nil {
			return err
		}
		similarity = s
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Result{Analysis: *analysis, Similarity: similarity}, nil
}
