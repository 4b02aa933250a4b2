package source

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PropertyMap names the source database columns each logical field is read
// from. Operators can override individual names with a YAML file so renamed
// columns don't require a rebuild.
type PropertyMap struct {
	Question          string `yaml:"question"`
	ChoicePrefix      string `yaml:"choice_prefix"`
	ExplanationPrefix string `yaml:"explanation_prefix"`
	CorrectAnswer     string `yaml:"correct_answer"`
	QuestionImage     string `yaml:"question_image"`
	ChoiceImagePrefix string `yaml:"choice_image_prefix"`
	Difficulty        string `yaml:"difficulty"`
	Level             string `yaml:"level"`
	Domain            string `yaml:"domain"`
	Subject           string `yaml:"subject"`
	Subcategory       string `yaml:"subcategory"`
	ATA               string `yaml:"ata"`
	CategoryPath      string `yaml:"category_path"`
	CategorySlugs     string `yaml:"category_slugs"`
	RequiresAircraft  string `yaml:"requires_aircraft"`
	Aircraft          string `yaml:"aircraft"`
	AccessTier        string `yaml:"access_tier"`
	ExamPool          string `yaml:"exam_pool"`
	Status            string `yaml:"status"`
}

// DefaultPropertyMap returns the canonical property names used by the shared
// question database.
func DefaultPropertyMap() PropertyMap {
	return PropertyMap{
		Question:          "Question",
		ChoicePrefix:      "Choice",
		ExplanationPrefix: "Explanation",
		CorrectAnswer:     "Correct Answer",
		QuestionImage:     "Question Image",
		ChoiceImagePrefix: "Choice Image",
		Difficulty:        "Difficulty",
		Level:             "Level",
		Domain:            "Domain",
		Subject:           "Subject",
		Subcategory:       "Subcategory",
		ATA:               "ATA",
		CategoryPath:      "Category Path",
		CategorySlugs:     "Category Slugs",
		RequiresAircraft:  "Requires Aircraft",
		Aircraft:          "Aircraft",
		AccessTier:        "Access Tier",
		ExamPool:          "Exam Pool",
		Status:            "Status",
	}
}

// LoadPropertyMap reads a YAML override file on top of the defaults. Fields
// missing from the file keep their default names.
func LoadPropertyMap(path string) (PropertyMap, error) {
	m := DefaultPropertyMap()

	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("read mapping file: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parse mapping file: %w", err)
	}
	return m, nil
}

// ChoiceProperty returns the column name for the choice at the given letter,
// e.g. "Choice A".
func (m PropertyMap) ChoiceProperty(letter string) string {
	return m.ChoicePrefix + " " + letter
}

// ExplanationProperty returns the column name for the explanation at the
// given letter.
func (m PropertyMap) ExplanationProperty(letter string) string {
	return m.ExplanationPrefix + " " + letter
}

// ChoiceImageProperty returns the column name for the choice image at the
// given letter.
func (m PropertyMap) ChoiceImageProperty(letter string) string {
	return m.ChoiceImagePrefix + " " + letter
}
