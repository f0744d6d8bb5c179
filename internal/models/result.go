package models

type RankedCandidate struct {
	Rank          int      `json:"rank"`
	CandidateID   string   `json:"candidate_id"`
	ATSScore      float64  `json:"ats_score"`
	SimilarityPct float64  `json:"similarity_pct"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
	SnippetHTML   string   `json:"snippet_html"`
	ResumeText    string   `json:"resume_text,omitempty"`
}

type ScreenResponse struct {
	ID         string            `json:"id"`
	Status     string            `json:"status"`
	TopK       int               `json:"top_k"`
	Total      int               `json:"total_candidates"`
	Candidates []RankedCandidate `json:"candidates"`
}

type ScreeningResponse struct {
	ID             string            `json:"id"`
	Status         string            `json:"status"`
	JobDescription string            `json:"job_description"`
	TopK           int               `json:"top_k"`
	Total          int               `json:"total_candidates"`
	Candidates     []RankedCandidate `json:"candidates"`
	ErrorMessage   *string           `json:"error_message,omitempty"`
}
