package model

// Severity represents how far a page deviates from the content standard.
// It orders findings so that structural breakage surfaces before style nits.
type Severity int

const (
	// SeverityInfo marks observations that need no action, such as an
	// optional section being absent.
	SeverityInfo Severity = iota

	// SeverityLow marks cosmetic deviations: an overlong section, a repeated
	// heading, a gallery image without embedded credit.
	SeverityLow

	// SeverityMedium marks rubric deviations a reviewer will send back:
	// required sections missing, thin sections, wrong narrative voice.
	SeverityMedium

	// SeverityHigh marks sections out of canonical order.
	SeverityHigh

	// SeverityCritical marks documents that could not be read or parsed.
	SeverityCritical
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Finding types produced by the validator and rubric.
const (
	FindingOrderViolation         = "order_violation"
	FindingMissingSection         = "missing_section"
	FindingMissingOptionalSection = "missing_optional_section"
	FindingDuplicateSection       = "duplicate_section"
	FindingUnrecognizedCategory   = "unrecognized_category"
	FindingWordCountLow           = "word_count_below_minimum"
	FindingWordCountHigh          = "word_count_above_maximum"
	FindingNarrativeVoice         = "narrative_voice"
	FindingBannedPhrase           = "banned_phrase"
	FindingGalleryCreditMissing   = "gallery_credit_missing"
	FindingDocumentError          = "document_error"
)

// FindingInfo contains metadata about a finding type including severity,
// impact description, and remediation recommendation.
type FindingInfo struct {
	Severity       Severity
	Impact         string
	Recommendation string
}

// findingInfoMapping is the single source of severity and guidance per finding type.
var findingInfoMapping = map[string]FindingInfo{
	FindingDocumentError: {
		Severity:       SeverityCritical,
		Impact:         "The document could not be read or parsed, so none of its sections were checked.",
		Recommendation: "Fix the file so it can be read as HTML and validate it again.",
	},
	FindingOrderViolation: {
		Severity:       SeverityHigh,
		Impact:         "Readers meet this section earlier than the content standard allows, breaking the page flow shared by every port guide.",
		Recommendation: "Move the section so it follows the canonical order.",
	},
	FindingMissingSection: {
		Severity:       SeverityMedium,
		Impact:         "A section required by the content standard is absent.",
		Recommendation: "Add the section, or mark it optional for this page in .sectioncheck.",
	},
	FindingWordCountLow: {
		Severity:       SeverityMedium,
		Impact:         "The section is thinner than the standard's minimum and is unlikely to answer a visitor's questions.",
		Recommendation: "Expand the section with concrete, first-hand detail.",
	},
	FindingNarrativeVoice: {
		Severity:       SeverityMedium,
		Impact:         "The section does not read as a first-person account.",
		Recommendation: "Rewrite the section in the first person, describing what you saw and did.",
	},
	FindingBannedPhrase: {
		Severity:       SeverityMedium,
		Impact:         "The section uses wording the content standard rules out.",
		Recommendation: "Replace the phrase with specific, concrete language.",
	},
	FindingWordCountHigh: {
		Severity:       SeverityLow,
		Impact:         "The section is longer than the standard's maximum.",
		Recommendation: "Tighten the section or split it into sub-sections.",
	},
	FindingDuplicateSection: {
		Severity:       SeverityLow,
		Impact:         "More than one block introduces the same section; only the first is used for ordering.",
		Recommendation: "Merge the repeated blocks or rename the later heading.",
	},
	FindingGalleryCreditMissing: {
		Severity:       SeverityLow,
		Impact:         "A gallery image has no embedded Artist or Copyright metadata.",
		Recommendation: "Embed the photographer credit in the image EXIF data.",
	},
	FindingMissingOptionalSection: {
		Severity:       SeverityInfo,
		Impact:         "An optional section is absent.",
		Recommendation: "No action needed unless the port warrants the section.",
	},
	FindingUnrecognizedCategory: {
		Severity:       SeverityInfo,
		Impact:         "A rule produced a category that the canonical order does not rank, so its position was not checked.",
		Recommendation: "Add the category to the standard's order or remove its rule.",
	},
}

// GetSeverity returns the severity level for a finding type.
// Returns SeverityInfo if the finding type is not in the mapping.
func GetSeverity(findingType string) Severity {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info.Severity
	}
	return SeverityInfo
}

// GetFindingInfo returns the full finding information for a finding type.
// Returns a default FindingInfo with SeverityInfo if the type is not in the mapping.
func GetFindingInfo(findingType string) FindingInfo {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info
	}
	return FindingInfo{
		Severity:       SeverityInfo,
		Impact:         "Unknown finding type. Review manually.",
		Recommendation: "Check the section against the content standard.",
	}
}

// NewFinding builds a Finding of the given type with severity and guidance
// filled in from the mapping.
func NewFinding(findingType, title, description string) Finding {
	info := GetFindingInfo(findingType)
	return Finding{
		Type:           findingType,
		Severity:       info.Severity,
		SeverityText:   info.Severity.String(),
		Title:          title,
		Description:    description,
		Impact:         info.Impact,
		Recommendation: info.Recommendation,
	}
}
