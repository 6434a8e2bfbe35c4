package model

// Canonical labels for the sharable private-data categories. Requests,
// grants and record gating all operate on these labels only.
const (
	FieldContactInfo     = "Contact Information"
	FieldPersonalDetails = "Personal Details"
	FieldAcademicSummary = "Academic Summary & Division"
	FieldSubjectScores   = "Detailed Subject Scores"

	// FieldBasicVerification is stored when an employer submits a request
	// without selecting any category.
	FieldBasicVerification = "Basic Verification"
)

// FieldCatalog lists every sharable category in display order.
var FieldCatalog = []string{
	FieldContactInfo,
	FieldPersonalDetails,
	FieldAcademicSummary,
	FieldSubjectScores,
}

// PublicFields are visible to any viewer, with or without a grant.
var PublicFields = []string{"name", "degree", "university", "graduationYear"}

// fieldAliases maps the short ids used by request forms to canonical labels.
var fieldAliases = map[string]string{
	"email":    FieldContactInfo,
	"contact":  FieldContactInfo,
	"personal": FieldPersonalDetails,
	"division": FieldAcademicSummary,
	"summary":  FieldAcademicSummary,
	"subjects": FieldSubjectScores,
	"scores":   FieldSubjectScores,
	"basic":    FieldBasicVerification,
}

var canonicalFields = map[string]bool{
	FieldContactInfo:       true,
	FieldPersonalDetails:   true,
	FieldAcademicSummary:   true,
	FieldSubjectScores:     true,
	FieldBasicVerification: true,
}

// CanonicalField resolves a shorthand id or a canonical label. The second
// return value is false for names outside the catalog.
func CanonicalField(name string) (string, bool) {
	if canonicalFields[name] {
		return name, true
	}
	if label, ok := fieldAliases[name]; ok {
		return label, true
	}
	return "", false
}

// NormalizeFields maps every entry to its canonical label, dropping unknown
// names and duplicates while preserving first-seen order. Mapping happens
// once, at the boundary where a request or grant is constructed.
func NormalizeFields(names []string) []string {
	normalized := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		label, ok := CanonicalField(name)
		if !ok || seen[label] {
			continue
		}
		seen[label] = true
		normalized = append(normalized, label)
	}
	return normalized
}
