package rag

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"topic-rag/internal/domain/entity"
	"topic-rag/internal/domain/repository"
)

// topicOutcome is the structured result of one topic's sub-query: either a
// chunk list, a skip (unknown topic) or an error. Collected per topic so
// aggregation is explicit instead of control-flow suppression.
type topicOutcome struct {
	topic   string
	chunks  []repository.ScoredChunk
	skipped bool
	err     error
}

// QueryCrossTopic fans the question out across all requested topics in
// parallel with a fixed smaller topK per topic. Unknown or failing topics
// are skipped; the call fails only when zero topics succeed.
func (e *Engine) QueryCrossTopic(ctx context.Context, topics []string, query string) (*Result, error) {
	e.log.Info("cross-topic rag query", zap.Strings("topics", topics), zap.String("query", query))

	outcomes := make([]topicOutcome, len(topics))
	var wg sync.WaitGroup
	for i, topicID := range topics {
		wg.Add(1)
		go func(i int, topicID string) {
			defer wg.Done()
			outcomes[i] = e.queryOneTopic(ctx, topicID, query)
		}(i, topicID)
	}
	wg.Wait()

	var allChunks []repository.ScoredChunk
	succeeded := 0
	for _, outcome := range outcomes {
		switch {
		case outcome.skipped:
			e.log.Warn("topic not found, skipping", zap.String("topic", outcome.topic))
		case outcome.err != nil:
			e.log.Warn("topic query failed, skipping",
				zap.String("topic", outcome.topic),
				zap.Error(outcome.err))
		default:
			succeeded++
			allChunks = append(allChunks, outcome.chunks...)
			e.log.Info("topic contributed chunks",
				zap.String("topic", outcome.topic),
				zap.Int("count", len(outcome.chunks)))
		}
	}
	if succeeded == 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrNoTopicsSucceeded, strings.Join(topics, ", "))
	}

	contextText := assembleCrossTopicContext(allChunks)

	prompt := synthesisPrompt(topics, contextText, query)
	answer, err := e.generator.Complete(ctx, prompt)
	if err != nil {
		e.log.Error("cross-topic generation failed", zap.Strings("topics", topics), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", entity.ErrGeneration, err)
	}

	return &Result{
		Query:       query,
		Topics:      topics,
		Answer:      answer,
		SourceCount: len(allChunks),
	}, nil
}

// queryOneTopic runs a single topic's retrieval with its own timeout so a
// slow topic cannot block the others past the deadline.
func (e *Engine) queryOneTopic(ctx context.Context, topicID, query string) topicOutcome {
	if !e.catalog.Has(topicID) {
		return topicOutcome{topic: topicID, skipped: true}
	}

	ctx, cancel := context.WithTimeout(ctx, e.opts.CrossTopicTimeout)
	defer cancel()

	chunks, err := e.retrieve(ctx, topicID, query, e.opts.CrossTopicTopK)
	if err != nil {
		return topicOutcome{topic: topicID, err: err}
	}
	return topicOutcome{topic: topicID, chunks: chunks}
}

// assembleCrossTopicContext labels every chunk with its topic so the
// generation backend can attribute domains.
func assembleCrossTopicContext(hits []repository.ScoredChunk) string {
	var b strings.Builder
	for _, hit := range hits {
		chunk := hit.Chunk

		docTopic := chunk.Topic
		if docTopic == "" {
			docTopic = "unknown"
		}
		filename := chunk.Filename
		if filename == "" {
			filename = "unknown"
		}

		b.WriteString("[")
		b.WriteString(strings.ToUpper(docTopic))
		b.WriteString("] ")
		b.WriteString(filename)
		b.WriteString(":\n")
		b.WriteString(chunk.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}
