package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSkills(t *testing.T) {
	extractor := NewSkillExtractorService(DefaultSkillVocabulary)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty text yields no skills",
			text: "",
			want: nil,
		},
		{
			name: "case insensitive match",
			text: "Senior Python Engineer",
			want: []string{"python"},
		},
		{
			name: "result is sorted and deduplicated",
			text: "docker and DOCKER and aws, then Docker again",
			want: []string{"aws", "docker"},
		},
		{
			name: "substring containment has no word boundaries",
			text: "worked with MySQL databases",
			want: []string{"mysql", "sql"},
		},
		{
			name: "no recognized skills",
			text: "fluent in French and German",
			want: nil,
		},
		{
			name: "multi-word entries",
			text: "built REST API services and computer vision pipelines",
			want: []string{"computer vision", "rest api"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractor.ExtractSkills(tt.text))
		})
	}
}

func TestExtractSkillsSubsetOfVocabulary(t *testing.T) {
	vocab := []string{"go", "rust"}
	extractor := NewSkillExtractorService(vocab)

	got := extractor.ExtractSkills("go rust python java go")

	vocabSet := map[string]struct{}{"go": {}, "rust": {}}
	for _, skill := range got {
		_, ok := vocabSet[skill]
		assert.True(t, ok, "extracted skill %q not in vocabulary", skill)
	}
	assert.Equal(t, []string{"go", "rust"}, got)
}

func TestExtractSkillsVocabularyNormalized(t *testing.T) {
	extractor := NewSkillExtractorService([]string{"Python", "SQL"})

	assert.Equal(t, []string{"python"}, extractor.ExtractSkills("python"))
}
