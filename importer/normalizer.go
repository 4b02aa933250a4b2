package importer

import (
	"regexp"
	"strings"

	"airquiz/types"
)

var (
	slugRunRe   = regexp.MustCompile(`[a-z0-9]+`)
	pathSplitRe = regexp.MustCompile(`[>/|]`)
)

// Normalize coerces a mapped record into the canonical shape. Pure and
// deterministic: no timestamps, no randomness, same input always yields the
// same output. By construction it cannot fail; semantic validity is the
// validator's job.
func Normalize(m types.MappedRecord) types.NormalizedRecord {
	path := SplitCategoryPath(m.CategoryPathRaw)

	slugs := slugifyAll(m.CategorySlugsRaw)
	explicit := len(slugs) > 0
	if !explicit {
		// Manually curated slugs always win; only fall back to the derived
		// path when curation is absent.
		slugs = slugifyAll(path)
	}

	rec := types.NormalizedRecord{
		SourceID:      m.SourceID,
		Question:      strings.TrimSpace(m.Question),
		Choices:       padStrings(m.Choices, types.ChoiceCount),
		Explanations:  padStrings(m.Explanations, types.ChoiceCount),
		CorrectIndex:  m.CorrectIndex,
		QuestionImage: strings.TrimSpace(m.QuestionImage),
		ChoiceImages:  padStrings(m.ChoiceImages, types.ChoiceCount),

		CategorySlugs: slugs,
		CategoryPath:  path,

		Difficulty: strings.TrimSpace(m.Difficulty),
		ATA:        strings.TrimSpace(m.ATA),

		RequiresAircraft: m.RequiresAircraft,
		Aircraft:         slugifyAll(m.Aircraft),

		AccessTier: collapseTier(m.AccessTier),
		ExamPool:   m.ExamPool,
		Status:     strings.ToLower(strings.TrimSpace(m.Status)),

		Metadata: types.RecordMetadata{
			Level:    strings.TrimSpace(m.Level),
			SourceID: m.SourceID,
		},

		SlugsExplicit: explicit,
	}

	return rec
}

// Slugify lowercases its input and joins the [a-z0-9] runs with hyphens:
// "IFR / Night Ops" -> "ifr-night-ops". Empty input yields "".
func Slugify(s string) string {
	runs := slugRunRe.FindAllString(strings.ToLower(s), -1)
	return strings.Join(runs, "-")
}

// SplitCategoryPath splits a raw path on ">", "/" or "|", trimming each
// segment and dropping empties.
func SplitCategoryPath(raw string) []string {
	out := []string{}
	for _, seg := range pathSplitRe.Split(raw, -1) {
		if seg = strings.TrimSpace(seg); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// padStrings forces a slice to exactly n elements: right-pad with "" and
// truncate anything beyond. Inputs are trimmed along the way.
func padStrings(in []string, n int) []string {
	out := make([]string, n)
	for i := 0; i < n && i < len(in); i++ {
		out[i] = strings.TrimSpace(in[i])
	}
	return out
}

// collapseTier maps any access-tier value other than the exact literal "pro"
// to "free". Unrecognized tier strings must never grant access.
func collapseTier(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), "pro") {
		return "pro"
	}
	return "free"
}

func slugifyAll(in []string) []string {
	out := []string{}
	for _, s := range in {
		if slug := Slugify(s); slug != "" {
			out = append(out, slug)
		}
	}
	return out
}
