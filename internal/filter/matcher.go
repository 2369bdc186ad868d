package filter

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Outcome int

const (
	Included Outcome = iota
	ExcludedExplicit
	ExcludedImplicit
)

func (o Outcome) String() string {
	switch o {
	case Included:
		return "included"
	case ExcludedExplicit:
		return "excluded_explicit"
	case ExcludedImplicit:
		return "excluded_implicit"
	}
	return "unknown"
}

// Verdict is the result of classifying a title. Word holds the matching
// exclude word for ExcludedExplicit, or the first matching include word.
type Verdict struct {
	Outcome Outcome
	Word    string
}

// Lists holds the title filter word lists. Words are matched as written, so
// only lower-case words can match.
type Lists struct {
	Exclude []string
	Include []string
}

// lower folds s to lower case. A Caser is stateful, so each call gets its own.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Classify matches filter words as plain substrings of the lower-cased title.
// Exclusion is checked first and the first exclude word in list order wins.
// An empty include list disables inclusion filtering.
func Classify(title string, exclude, include []string) Verdict {
	t := lower(title)

	for _, word := range exclude {
		if strings.Contains(t, word) {
			return Verdict{Outcome: ExcludedExplicit, Word: word}
		}
	}

	if len(include) == 0 {
		return Verdict{Outcome: Included}
	}

	for _, word := range include {
		if strings.Contains(t, word) {
			return Verdict{Outcome: Included, Word: word}
		}
	}
	return Verdict{Outcome: ExcludedImplicit}
}

// Classify applies the lists to a title.
func (l Lists) Classify(title string) Verdict {
	return Classify(title, l.Exclude, l.Include)
}
