// Package dedupe suggests which known person a newly detected one might be.
// Suggestions are never written to the store.
package dedupe

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/deepmemory/internal/core/common"
	"github.com/agenthands/deepmemory/internal/core/model"
	"github.com/agenthands/deepmemory/internal/llm"
)

// DefaultMatchPrompt takes the new description and the known people as JSON.
const DefaultMatchPrompt = `A newly detected person is described as: "%s"

These are the people already in my memory:
%s

Is the new description very likely one of these people?
If so, answer with JSON: {"match_found": true, "suggested_id": "...", "reason": "..."}
If it resembles nobody, answer: {"match_found": false}

Answer with JSON only.`

const noTraits = "No description"

type Matcher struct {
	LLM            llm.LLMClient
	Prompt         string
	MaxConcurrency int
	Log            *zap.Logger
}

func NewMatcher(llmClient llm.LLMClient, prompt string, maxConcurrency int, log *zap.Logger) *Matcher {
	if prompt == "" {
		prompt = DefaultMatchPrompt
	}
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Matcher{
		LLM:            llmClient,
		Prompt:         prompt,
		MaxConcurrency: maxConcurrency,
		Log:            log,
	}
}

// FindBestMatch asks the model whether description fits a known person.
// Failures and untrusted replies come back as no match.
func (m *Matcher) FindBestMatch(ctx context.Context, description string, known []model.Node) model.MatchResult {
	candidates := make(map[string]model.Node, len(known))
	summary := make([]string, 0, len(known))
	for _, n := range known {
		if n.IsRoot() {
			continue
		}
		candidates[n.ID] = n
		summary = append(summary, serializeNode(n))
	}
	if len(candidates) == 0 {
		return model.NoMatch()
	}

	people, err := json.Marshal(summary)
	if err != nil {
		return model.NoMatch()
	}

	response, err := m.LLM.Generate(ctx, fmt.Sprintf(m.Prompt, description, people))
	if err != nil {
		m.Log.Warn("identity match failed", zap.Error(err))
		return model.NoMatch()
	}

	result, err := common.ParseJSON[model.MatchResult](response)
	if err != nil {
		m.Log.Warn("unparseable identity match", zap.Error(err))
		return model.NoMatch()
	}
	if !result.MatchFound {
		return model.NoMatch()
	}

	node, ok := candidates[result.SuggestedID]
	if !ok {
		m.Log.Warn("identity match names an unknown node", zap.String("suggested_id", result.SuggestedID))
		return model.NoMatch()
	}
	result.SuggestedName = node.Name
	return result
}

// SuggestIdentities runs FindBestMatch for every entity the analysis could
// not name, at most MaxConcurrency at a time. The result is index-aligned
// with entities; named entities and error records get no match.
func (m *Matcher) SuggestIdentities(ctx context.Context, entities []model.DetectedEntity, known []model.Node) ([]model.MatchResult, error) {
	results := make([]model.MatchResult, len(entities))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.MaxConcurrency)

	for i, e := range entities {
		if e.SuggestedName != "" || e.Error != "" || e.Description == "" {
			continue
		}
		i, e := i, e
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = m.FindBestMatch(gctx, e.Description, known)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func serializeNode(n model.Node) string {
	desc := n.Description
	if desc == "" {
		desc = noTraits
	}
	return fmt.Sprintf("ID: %s, Name: %s, Known Traits: %s", n.ID, n.Name, desc)
}
