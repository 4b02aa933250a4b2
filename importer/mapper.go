package importer

import (
	"strings"

	"airquiz/source"
	"airquiz/types"
)

// answerLetters is the ordered letter set answers are keyed by. The index of
// a resolved letter is the correct choice index.
var answerLetters = []string{"A", "B", "C", "D"}

// Mapper extracts a flat MappedRecord from one source page. It is pure and
// total: fields that don't parse become empty strings, nil slices or the -1
// sentinel, never an error. Malformed source data surfaces downstream as
// validation failures instead of aborting a whole page.
type Mapper struct {
	props source.PropertyMap
}

// NewMapper creates a mapper reading the given property names.
func NewMapper(props source.PropertyMap) *Mapper {
	return &Mapper{props: props}
}

// Map extracts the raw fields of one page.
func (m *Mapper) Map(page source.Page) types.MappedRecord {
	get := func(name string) source.Property {
		return page.Properties[name]
	}

	choices := make([]string, 0, len(answerLetters))
	explanations := make([]string, 0, len(answerLetters))
	choiceImages := make([]string, 0, len(answerLetters))
	for _, letter := range answerLetters {
		choices = append(choices, source.RichText(get(m.props.ChoiceProperty(letter))))
		explanations = append(explanations, source.RichText(get(m.props.ExplanationProperty(letter))))
		choiceImages = append(choiceImages, source.FirstFileURL(get(m.props.ChoiceImageProperty(letter))))
	}

	rec := types.MappedRecord{
		SourceID:      page.ID,
		Question:      source.AnyText(get(m.props.Question)),
		Choices:       choices,
		Explanations:  explanations,
		CorrectIndex:  resolveAnswerIndex(source.AnyText(get(m.props.CorrectAnswer))),
		QuestionImage: source.FirstFileURL(get(m.props.QuestionImage)),
		ChoiceImages:  choiceImages,

		Difficulty:  source.AnyText(get(m.props.Difficulty)),
		Level:       source.AnyText(get(m.props.Level)),
		Domain:      source.AnyText(get(m.props.Domain)),
		Subject:     source.AnyText(get(m.props.Subject)),
		Subcategory: source.AnyText(get(m.props.Subcategory)),
		ATA:         source.AnyText(get(m.props.ATA)),

		CategorySlugsRaw: source.MultiSelectValues(get(m.props.CategorySlugs)),

		RequiresAircraft: source.CheckboxValue(get(m.props.RequiresAircraft)),
		Aircraft:         source.MultiSelectValues(get(m.props.Aircraft)),

		AccessTier: source.AnyText(get(m.props.AccessTier)),
		ExamPool:   source.CheckboxValue(get(m.props.ExamPool)),
		Status:     source.AnyText(get(m.props.Status)),
	}

	rec.CategoryPathRaw = source.RichText(get(m.props.CategoryPath))
	if strings.TrimSpace(rec.CategoryPathRaw) == "" {
		rec.CategoryPathRaw = deriveCategoryPath(rec)
	}

	return rec
}

// resolveAnswerIndex maps an answer marker ("A".."D", any case, padded) to
// its choice index. Anything else yields -1, the "undetermined" sentinel the
// validator later reports as correctIndex_invalid.
func resolveAnswerIndex(raw string) int {
	letter := strings.ToUpper(strings.TrimSpace(raw))
	for i, l := range answerLetters {
		if letter == l {
			return i
		}
	}
	return -1
}

// deriveCategoryPath synthesizes a classification path when the source
// doesn't carry one: {aircraft|general} > {subject|domain|general} >
// {subcategory}, with the trailing segment dropped when subcategory is
// absent. Every mapped record ends up with some classification signal even
// when data entry was incomplete.
func deriveCategoryPath(rec types.MappedRecord) string {
	head := "general"
	if len(rec.Aircraft) > 0 && strings.TrimSpace(rec.Aircraft[0]) != "" {
		head = strings.TrimSpace(rec.Aircraft[0])
	}

	mid := strings.TrimSpace(rec.Subject)
	if mid == "" {
		mid = strings.TrimSpace(rec.Domain)
	}
	if mid == "" {
		mid = "general"
	}

	segments := []string{head, mid}
	if tail := strings.TrimSpace(rec.Subcategory); tail != "" {
		segments = append(segments, tail)
	}
	return strings.Join(segments, " > ")
}
