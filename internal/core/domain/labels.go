package domain

// DomainLabel is a fixed category of municipal service. Every document,
// structured record and query carries exactly one label; unclassifiable
// inputs resolve to DomainGeneral.
type DomainLabel string

const (
	DomainByLaws      DomainLabel = "by-laws"
	DomainLicensing   DomainLabel = "licensing"
	DomainBilling     DomainLabel = "billing"
	DomainIncidents   DomainLabel = "incidents"
	DomainNotices     DomainLabel = "notices"
	DomainContacts    DomainLabel = "contacts"
	DomainDepartments DomainLabel = "departments"
	DomainFAQ         DomainLabel = "faq"
	DomainGlossary    DomainLabel = "glossary"
	DomainServices    DomainLabel = "services"
	DomainUtilities   DomainLabel = "utilities"
	DomainGeneral     DomainLabel = "general"
)

// DomainPriority orders labels from most specific to least. Keyword
// classification breaks score ties by this order; general always loses.
func DomainPriority() []DomainLabel {
	return []DomainLabel{
		DomainByLaws,
		DomainLicensing,
		DomainBilling,
		DomainIncidents,
		DomainNotices,
		DomainContacts,
		DomainDepartments,
		DomainFAQ,
		DomainGlossary,
		DomainServices,
		DomainUtilities,
		DomainGeneral,
	}
}

func ParseDomain(s string) (DomainLabel, bool) {
	for _, label := range DomainPriority() {
		if string(label) == s {
			return label, true
		}
	}
	return DomainGeneral, false
}

func (d DomainLabel) Valid() bool {
	_, ok := ParseDomain(string(d))
	return ok
}
