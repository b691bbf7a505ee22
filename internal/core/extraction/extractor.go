// Package extraction asks the analysis model which people appear in a photo
// or a journal entry. Replies are untrusted: they are parsed leniently and
// validated, and a failed call becomes a single error record.
package extraction

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/agenthands/deepmemory/internal/config"
	"github.com/agenthands/deepmemory/internal/core/common"
	"github.com/agenthands/deepmemory/internal/core/model"
	"github.com/agenthands/deepmemory/internal/llm"
)

// MentionedDescription is used for text mentions the model gave no traits for.
const MentionedDescription = "Mentioned in text"

type Analyzer struct {
	LLM     llm.Client
	Prompts config.Prompts
	Log     *zap.Logger
}

func NewAnalyzer(client llm.Client, prompts config.Prompts, log *zap.Logger) *Analyzer {
	if prompts.Image == "" {
		prompts.Image = DefaultImagePrompt
	}
	if prompts.Text == "" {
		prompts.Text = DefaultTextPrompt
	}
	return &Analyzer{
		LLM:     client,
		Prompts: prompts,
		Log:     log,
	}
}

// AnalyzeImage detects the people in the image at path.
func (a *Analyzer) AnalyzeImage(ctx context.Context, path, clues string) []model.DetectedEntity {
	img, err := llm.ReadImage(path)
	if err != nil {
		return a.failed("image", err)
	}

	response, err := a.LLM.Describe(ctx, fmt.Sprintf(a.Prompts.Image, clues), img)
	if err != nil {
		return a.failed("image", fmt.Errorf("analysis failed: %w", err))
	}

	entities, err := common.ParseJSONList[model.DetectedEntity](response)
	if err != nil {
		a.Log.Warn("unparseable image analysis, treating as empty", zap.Error(err))
		return []model.DetectedEntity{}
	}
	return a.validated("image", entities)
}

// AnalyzeText extracts the people mentioned in a journal entry.
func (a *Analyzer) AnalyzeText(ctx context.Context, text string) []model.DetectedEntity {
	response, err := a.LLM.Generate(ctx, fmt.Sprintf(a.Prompts.Text, text))
	if err != nil {
		return a.failed("text", fmt.Errorf("analysis failed: %w", err))
	}

	mentions, err := common.ParseJSONList[model.MentionedPerson](response)
	if err != nil {
		a.Log.Warn("unparseable text analysis, treating as empty", zap.Error(err))
		return []model.DetectedEntity{}
	}

	entities := make([]model.DetectedEntity, 0, len(mentions))
	for _, p := range mentions {
		if p.Error != "" {
			return a.reported("text", p.Error)
		}
		if p.Name == "" {
			continue
		}
		desc := p.Description
		if desc == "" {
			desc = MentionedDescription
		}
		entities = append(entities, model.DetectedEntity{
			Description:   desc,
			SuggestedName: p.Name,
			RelationType:  p.Relation,
		})
	}
	return a.validated("text", entities)
}

func (a *Analyzer) failed(kind string, err error) []model.DetectedEntity {
	a.Log.Error("analysis call failed", zap.String("kind", kind), zap.Error(err))
	return model.ErrorEntities(err.Error())
}

// reported passes an error marker written by the model itself to the caller.
func (a *Analyzer) reported(kind, msg string) []model.DetectedEntity {
	a.Log.Warn("model reported an analysis error", zap.String("kind", kind), zap.String("error", msg))
	return model.ErrorEntities(msg)
}

// validated drops records without a description and discards boxes that are
// out of range. Any record carrying an error marker turns the whole result
// into the error sentinel.
func (a *Analyzer) validated(kind string, entities []model.DetectedEntity) []model.DetectedEntity {
	for _, e := range entities {
		if e.Error != "" {
			return a.reported(kind, e.Error)
		}
	}

	out := make([]model.DetectedEntity, 0, len(entities))
	for _, e := range entities {
		if err := model.Validate(e); err != nil && len(e.Box) > 0 {
			e.Box = nil
		}
		if err := model.Validate(e); err != nil {
			a.Log.Debug("dropping invalid entity", zap.Error(err))
			continue
		}
		out = append(out, e)
	}
	return out
}
