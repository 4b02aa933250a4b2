package importer

import (
	"time"

	"airquiz/types"
)

// BuildPayload merges a normalized record with its rehosted image locations
// into the exact shape the destination upsert procedure expects, stamping
// provenance metadata. Pure merge: validation already happened, no I/O.
func BuildPayload(rec types.NormalizedRecord, rehosted types.RehostResult, importedAt time.Time) types.FinalPayload {
	meta := rec.Metadata
	meta.ImportedAt = importedAt.UTC().Format(time.RFC3339)

	return types.FinalPayload{
		SourceID:      rec.SourceID,
		Question:      rec.Question,
		Choices:       rec.Choices,
		Explanations:  rec.Explanations,
		CorrectIndex:  rec.CorrectIndex,
		QuestionImage: rehosted.QuestionImage,
		ChoiceImages:  rehosted.ChoiceImages,

		CategorySlugs: rec.CategorySlugs,
		CategoryPath:  rec.CategoryPath,

		Difficulty: rec.Difficulty,
		ATA:        rec.ATA,

		RequiresAircraft: rec.RequiresAircraft,
		Aircraft:         rec.Aircraft,

		AccessTier: rec.AccessTier,
		ExamPool:   rec.ExamPool,
		Status:     rec.Status,

		Metadata: meta,
	}
}
