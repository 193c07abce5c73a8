package logger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/idea-screener/internal/idea"
)

// Structured field keys shared by every component.
const (
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"
	// FieldStage names the AI request step that failed.
	FieldStage = "ai_stage"

	FieldCandidateID    = "candidate_id"
	FieldCandidateTitle = "candidate_title"

	FieldStrategy       = "strategy"
	FieldRecommendation = "recommendation"
	FieldScore          = "similarity_score"
	FieldMostSimilar    = "most_similar"
)

// nonEmpty builds string fields from key/value pairs, trimming values and
// skipping pairs whose value is blank.
func nonEmpty(pairs ...string) []zap.Field {
	fields := make([]zap.Field, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if value := strings.TrimSpace(pairs[i+1]); value != "" {
			fields = append(fields, zap.String(pairs[i], value))
		}
	}
	return fields
}

// WithFields attaches fields to the logger. A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// Provider returns the fields describing an AI backend.
func Provider(provider, model string) []zap.Field {
	return nonEmpty(FieldProvider, provider, FieldModel, model)
}

func WithProvider(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, Provider(provider, model)...)
}

// Candidate returns the fields identifying a screened idea.
func Candidate(id, title string) []zap.Field {
	return nonEmpty(FieldCandidateID, id, FieldCandidateTitle, title)
}

// Verdict summarizes a verdict for a single log line.
func Verdict(v *idea.Verdict) []zap.Field {
	if v == nil {
		return nil
	}

	fields := []zap.Field{
		zap.String(FieldStrategy, string(v.Strategy)),
		zap.String(FieldRecommendation, string(v.Recommendation)),
		zap.Float64(FieldScore, v.SimilarityScore),
	}
	if v.MostSimilarEntry != nil {
		fields = append(fields, nonEmpty(FieldMostSimilar, v.MostSimilarEntry.Name)...)
	}
	return fields
}
