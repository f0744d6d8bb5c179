package services

import (
	"sort"
	"strings"
)

// DefaultSkillVocabulary is the fixed set of recognized technical terms used
// for lexical matching. Entries must be lowercase.
var DefaultSkillVocabulary = []string{
	"python", "java", "c++", "c#", "javascript", "react", "node.js", "node", "flask", "django", "streamlit",
	"sql", "mysql", "postgresql", "mongodb", "aws", "azure", "gcp", "docker", "kubernetes", "git", "html",
	"css", "tensorflow", "pytorch", "scikit-learn", "nlp", "computer vision", "rest api", "graphql",
	"excel", "power bi", "tableau", "spring", "hibernate", "linux",
}

type SkillExtractorService interface {
	ExtractSkills(text string) []string
}

type skillExtractorService struct {
	vocabulary []string
}

func NewSkillExtractorService(vocabulary []string) SkillExtractorService {
	vocab := make([]string, len(vocabulary))
	for i, skill := range vocabulary {
		vocab[i] = strings.ToLower(skill)
	}
	return &skillExtractorService{vocabulary: vocab}
}

// ExtractSkills returns the vocabulary entries found in text, deduplicated and
// sorted. Matching is case-insensitive substring containment with no word
// boundary check, so "sql" matches inside "mysql".
func (s *skillExtractorService) ExtractSkills(text string) []string {
	if text == "" {
		return nil
	}

	textLower := strings.ToLower(text)

	found := make(map[string]struct{})
	for _, skill := range s.vocabulary {
		if strings.Contains(textLower, skill) {
			found[skill] = struct{}{}
		}
	}

	skills := make([]string, 0, len(found))
	for skill := range found {
		skills = append(skills, skill)
	}
	sort.Strings(skills)

	return skills
}
