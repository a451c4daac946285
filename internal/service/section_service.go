package service

import "github.com/ecopoints/kiosk_api/pkg/fuzzy"

// SectionService corrects free-text section input against the configured
// canonical list. Pure and deterministic.
type SectionService struct {
	sections []string
}

// NewSectionService constructs a SectionService over the canonical names.
func NewSectionService(sections []string) *SectionService {
	return &SectionService{sections: sections}
}

// Normalize returns the canonical spelling for the input, or an empty match
// when nothing is close enough.
func (s *SectionService) Normalize(input string) fuzzy.Match {
	return fuzzy.ClosestMatch(input, s.sections, fuzzy.DefaultThreshold)
}

// NormalizePtr returns the corrected section as a nullable value for the
// ledger: nil when the input matched nothing.
func (s *SectionService) NormalizePtr(input string) *string {
	m := s.Normalize(input)
	if m.Corrected == "" {
		return nil
	}
	return &m.Corrected
}

// Sections returns the canonical list.
func (s *SectionService) Sections() []string {
	return s.sections
}
