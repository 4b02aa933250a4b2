package types

// ChoiceCount is the fixed number of answer choices every question carries.
// Normalization pads or truncates every per-choice array to this length so
// downstream consumers can index 0-3 without bounds checks.
const ChoiceCount = 4

// MappedRecord is the flat, loosely-typed record extracted from one source
// page. No validation has happened yet: every field may be empty, nil or a
// sentinel. It lives only between the mapper and the normalizer.
type MappedRecord struct {
	SourceID      string   `json:"source_id"`
	Question      string   `json:"question"`
	Choices       []string `json:"choices"`
	Explanations  []string `json:"explanations"`
	CorrectIndex  int      `json:"correct_index"` // -1 when the answer letter did not resolve
	QuestionImage string   `json:"question_image,omitempty"`
	ChoiceImages  []string `json:"choice_images,omitempty"`

	Difficulty  string `json:"difficulty,omitempty"`
	Level       string `json:"level,omitempty"`
	Domain      string `json:"domain,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
	ATA         string `json:"ata,omitempty"`

	CategoryPathRaw  string   `json:"category_path_raw,omitempty"`
	CategorySlugsRaw []string `json:"category_slugs_raw,omitempty"`

	RequiresAircraft bool     `json:"requires_aircraft"`
	Aircraft         []string `json:"aircraft,omitempty"`

	AccessTier string `json:"access_tier,omitempty"`
	ExamPool   bool   `json:"exam_pool"`
	Status     string `json:"status,omitempty"`
}

// RecordMetadata carries non-canonical audit hints forward through the
// pipeline and onto the written row.
type RecordMetadata struct {
	Level      string `json:"level,omitempty"`
	SourceID   string `json:"source_id"`
	ImportedAt string `json:"imported_at,omitempty"`
}

// NormalizedRecord is the canonical question shape. All per-choice arrays are
// exactly ChoiceCount long; slugs are lower-kebab-case; the access tier is a
// closed free/pro enum. Immutable once built.
type NormalizedRecord struct {
	SourceID      string   `json:"source_id"`
	Question      string   `json:"question"`
	Choices       []string `json:"choices"`
	Explanations  []string `json:"explanations"`
	CorrectIndex  int      `json:"correct_index"`
	QuestionImage string   `json:"question_image,omitempty"`
	ChoiceImages  []string `json:"choice_images"`

	CategorySlugs []string `json:"category_slugs"`
	CategoryPath  []string `json:"category_path"`

	Difficulty string `json:"difficulty,omitempty"`
	ATA        string `json:"ata,omitempty"`

	RequiresAircraft bool     `json:"requires_aircraft"`
	Aircraft         []string `json:"aircraft"`

	AccessTier string `json:"access_tier"`
	ExamPool   bool   `json:"exam_pool"`
	Status     string `json:"status"`

	Metadata RecordMetadata `json:"metadata"`

	// SlugsExplicit records whether category slugs came from the source's own
	// slug tokens (true) or were derived from the category path (false). The
	// orchestrator uses it to flag needs_review rows.
	SlugsExplicit bool `json:"-"`
}

// ValidationResult lists every rule a normalized record violates. Valid is
// true exactly when Errors is empty.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Rehost modes recorded per image in ImagesMeta.
const (
	RehostModeNone        = "none"
	RehostModeDryRun      = "dry-run"
	RehostModeDevStub     = "dev-stub"
	RehostModeS3          = "s3"
	RehostModePassthrough = "passthrough"
)

// ImageMeta records how a single image reference was handled.
type ImageMeta struct {
	Mode   string `json:"mode"`
	Reason string `json:"reason,omitempty"`
}

// RehostResult carries the (possibly rewritten) image URLs for one record
// plus per-image diagnostics. ChoiceImages is always ChoiceCount long.
type RehostResult struct {
	QuestionImage string               `json:"question_image,omitempty"`
	ChoiceImages  []string             `json:"choice_images"`
	ImagesMeta    map[string]ImageMeta `json:"images_meta"`
}

// FinalPayload is the exact argument shape of the destination's upsert
// procedure: the normalized record with rehosted image locations and an
// imported_at provenance stamp. Built once, sent once, then discarded.
type FinalPayload struct {
	SourceID      string   `json:"source_id"`
	Question      string   `json:"question"`
	Choices       []string `json:"choices"`
	Explanations  []string `json:"explanations"`
	CorrectIndex  int      `json:"correct_index"`
	QuestionImage string   `json:"question_image,omitempty"`
	ChoiceImages  []string `json:"choice_images"`

	CategorySlugs []string `json:"category_slugs"`
	CategoryPath  []string `json:"category_path"`

	Difficulty string `json:"difficulty,omitempty"`
	ATA        string `json:"ata,omitempty"`

	RequiresAircraft bool     `json:"requires_aircraft"`
	Aircraft         []string `json:"aircraft"`

	AccessTier string `json:"access_tier"`
	ExamPool   bool   `json:"exam_pool"`
	Status     string `json:"status"`

	Metadata RecordMetadata `json:"metadata"`
}
