package semantic

import "fmt"

// Anchor is one fixed reference phrasing of a business-pain category (or of
// a known noise category), compared by embedding similarity against post
// text.
type Anchor struct {
	Label  string
	Phrase string
}

// positiveAnchors are distinct phrasings of concrete business pain,
// parameterized by industry so the embedding sits in the right topical
// neighborhood.
func positiveAnchors(industry string) []Anchor {
	return []Anchor{
		{
			Label:  "manual_work",
			Phrase: fmt.Sprintf("I waste hours every week on manual record keeping and repetitive paperwork in %s", industry),
		},
		{
			Label:  "error_cost",
			Phrase: fmt.Sprintf("We lose money to compliance problems and costly bookkeeping errors in our %s business", industry),
		},
		{
			Label:  "bad_tooling",
			Phrase: fmt.Sprintf("The software we use for %s is expensive, broken, and constantly gets in the way", industry),
		},
	}
}

// negativeAnchors are phrasings of off-topic venting that superficially
// resembles business pain.
func negativeAnchors(industry string) []Anchor {
	return []Anchor{
		{
			Label:  "career_noise",
			Phrase: fmt.Sprintf("I am burned out and frustrated with my career and my boss in the %s industry", industry),
		},
		{
			Label:  "student_noise",
			Phrase: fmt.Sprintf("I am a student studying for my %s certification exam and need advice", industry),
		},
		{
			Label:  "satisfaction_noise",
			Phrase: fmt.Sprintf("I wonder whether people working in %s actually enjoy their jobs", industry),
		},
	}
}
