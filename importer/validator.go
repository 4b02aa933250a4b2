package importer

import (
	"strings"

	"airquiz/types"
)

// Rule violation codes reported by Validate.
const (
	ErrQuestionMissing           = "question_missing"
	ErrChoicesInvalid            = "choices_invalid"
	ErrCorrectIndexInvalid       = "correctIndex_invalid"
	ErrCorrectIndexMissingChoice = "correctIndex_missing_choice"
	ErrCategorySlugsRequired     = "category_slugs_required"
	ErrAircraftRequired          = "aircraft_required_when_requires_aircraft"
	ErrExplanationsLengthInvalid = "explanations_length_invalid"
	ErrChoiceImagesLengthInvalid = "choice_images_length_invalid"
)

// Validate checks a normalized record against every business rule and
// returns the full set of violations. It never stops at the first failure:
// dry-run diff reports need the complete error list per record.
func Validate(rec types.NormalizedRecord) types.ValidationResult {
	errs := []string{}

	if strings.TrimSpace(rec.Question) == "" {
		errs = append(errs, ErrQuestionMissing)
	}

	choicesOK := len(rec.Choices) == types.ChoiceCount
	if choicesOK {
		for _, c := range rec.Choices {
			if strings.TrimSpace(c) == "" {
				choicesOK = false
				break
			}
		}
	}
	if !choicesOK {
		errs = append(errs, ErrChoicesInvalid)
	}

	if rec.CorrectIndex < 0 || rec.CorrectIndex >= types.ChoiceCount {
		errs = append(errs, ErrCorrectIndexInvalid)
	} else if rec.CorrectIndex >= len(rec.Choices) || strings.TrimSpace(rec.Choices[rec.CorrectIndex]) == "" {
		// In-range index pointing at a padded empty slot: the "correct"
		// answer doesn't actually exist.
		errs = append(errs, ErrCorrectIndexMissingChoice)
	}

	if len(rec.CategorySlugs) == 0 {
		errs = append(errs, ErrCategorySlugsRequired)
	}

	if rec.RequiresAircraft && len(rec.Aircraft) == 0 {
		errs = append(errs, ErrAircraftRequired)
	}

	// Guards against normalizer contract violations.
	if len(rec.Explanations) != types.ChoiceCount {
		errs = append(errs, ErrExplanationsLengthInvalid)
	}
	if len(rec.ChoiceImages) != types.ChoiceCount {
		errs = append(errs, ErrChoiceImagesLengthInvalid)
	}

	return types.ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}
