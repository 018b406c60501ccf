// Package classify maps raw headline/summary text onto the closed event
// taxonomy and estimates incident severity. Both functions are pure and
// total; unmatched input degrades to TypeOther / the neutral score.
package classify

import (
	"regexp"
	"strings"

	"github.com/ppiankov/crisiswatch/internal/model"
)

type rule struct {
	eventType model.EventType
	pattern   *regexp.Regexp
}

// rules is scanned in order; the first match wins. The order encodes the
// priority tie-break (airstrike > missile > explosion > alert >
// military_movement > humanitarian > political) and is a behavioral
// contract, do not re-sort it.
var rules = []rule{
	{model.TypeAirstrike, regexp.MustCompile(`(?i)airstrike|air\s*strike|bomb(?:ing|ed|s)|strikes?\s+on|struck|` +
		`sortie|fighter\s*jet|warplane|b-2|stealth|bunker\s*buster`)},
	{model.TypeMissile, regexp.MustCompile(`(?i)missile|ballistic|cruise\s*missile|intercept|iron\s*dome|` +
		`patriot|arrow\s*system|thaad|s-?300|launch(?:ed|es)?.*(?:missile|rocket)|` +
		`rocket|drone\s*strike|drone\s*attack|UAV`)},
	{model.TypeExplosion, regexp.MustCompile(`(?i)explosion|blast|detonat|explod|boom|fire\b|burning|` +
		`smoke\s*(?:rising|seen|billowing)|damage`)},
	{model.TypeAlert, regexp.MustCompile(`(?i)siren|alert|warning|shelter|evacuat|airspace\s*clos|` +
		`take\s*cover|emergency|no-fly\s*zone`)},
	{model.TypeMilitaryMovement, regexp.MustCompile(`(?i)military\s*movement|troop|deploy|naval|carrier|fleet|` +
		`aircraft\s*carrier|destroyer|submarine|convoy|mobiliz|` +
		`operation\b|combat\s*operation|regiment|battalion|` +
		`pentagon|defense\s*minister|IDF|IRGC|5th\s*fleet`)},
	{model.TypeHumanitarian, regexp.MustCompile(`(?i)casualt|killed|dead|wounded|injur|hospital|refugee|` +
		`humanitarian|civilian|school|children|rescue|aid\b|red\s*cross|` +
		`red\s*crescent|relief`)},
	{model.TypePolitical, regexp.MustCompile(`(?i)sanction|diplomat|UN\b|united\s*nations|security\s*council|` +
		`president\b|prime\s*minister|foreign\s*minister|condemn|` +
		`statement|ceasefire|negotiat|peace\s*talk|resolution|` +
		`urge.*restraint|calls\s+on|appeals?\s+to`)},
}

var (
	sevCritical   = regexp.MustCompile(`killed|dead|casualt|mass|catastroph`)
	sevStrike     = regexp.MustCompile(`airstrike|struck|missile\s*hit|explosion`)
	sevKinetic    = regexp.MustCompile(`launch|intercept|siren|alert`)
	sevDiplomatic = regexp.MustCompile(`condemn|urge|statement|negotiat|diplomat`)
	sevProcedural = regexp.MustCompile(`suspend.*flight|close.*airspace`)
)

// Categorize returns the first matching event type for the combined
// title and summary text, or TypeOther.
func Categorize(title, summary string) model.EventType {
	combined := title + " " + summary
	for _, r := range rules {
		if r.pattern.MatchString(combined) {
			return r.eventType
		}
	}
	return model.TypeOther
}

// EstimateSeverity scores 1-5 from a neutral 3: confirmed strikes and
// casualty language escalate, diplomatic/procedural language caps the
// score down. Always clamped into range.
func EstimateSeverity(title, summary string) int {
	combined := strings.ToLower(title + " " + summary)

	score := 3
	switch {
	case sevCritical.MatchString(combined):
		score = 5
	case sevStrike.MatchString(combined):
		score = 4
	case sevKinetic.MatchString(combined):
		score = 4
	}

	if sevDiplomatic.MatchString(combined) && score > 2 {
		score = 2
	}
	if sevProcedural.MatchString(combined) && score > 3 {
		score = 3
	}

	return model.ClampSeverity(score)
}
