package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		exclude  []string
		include  []string
		expected Verdict
	}{
		{
			name:     "Exclusion beats inclusion",
			title:    "QA Cloud Engineer",
			exclude:  []string{"qa"},
			include:  []string{"cloud"},
			expected: Verdict{Outcome: ExcludedExplicit, Word: "qa"},
		},
		{
			name:     "Empty include list accepts",
			title:    "Cloud Engineer",
			exclude:  []string{"data"},
			expected: Verdict{Outcome: Included},
		},
		{
			name:     "Empty include list still excludes",
			title:    "Data Engineer",
			exclude:  []string{"data"},
			expected: Verdict{Outcome: ExcludedExplicit, Word: "data"},
		},
		{
			name:     "First exclude word in list order",
			title:    "Senior Java Developer",
			exclude:  []string{"developer", "java"},
			expected: Verdict{Outcome: ExcludedExplicit, Word: "developer"},
		},
		{
			name:     "Substring match on partial token",
			title:    "Deportivo Saprissa Ops",
			exclude:  []string{"sap"},
			include:  []string{"ops"},
			expected: Verdict{Outcome: ExcludedExplicit, Word: "sap"},
		},
		{
			name:     "No include match",
			title:    "Marketing Manager",
			exclude:  []string{"qa"},
			include:  []string{"devops", "cloud"},
			expected: Verdict{Outcome: ExcludedImplicit},
		},
		{
			name:     "Include match reports first word",
			title:    "DevOps / Cloud Engineer",
			include:  []string{"cloud", "devops"},
			expected: Verdict{Outcome: Included, Word: "cloud"},
		},
		{
			name:     "Accented title lower-cased",
			title:    "Ingeniero HÍBRIDO DevOps",
			exclude:  []string{"híbrido"},
			include:  []string{"devops"},
			expected: Verdict{Outcome: ExcludedExplicit, Word: "híbrido"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.title, tt.exclude, tt.include)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDefaultListsClassify(t *testing.T) {
	l := Lists{Exclude: DefaultExclude, Include: DefaultInclude}

	assert.Equal(t, Included, l.Classify("Site Reliability Engineer (SRE)").Outcome)
	assert.Equal(t, ExcludedExplicit, l.Classify("Python Developer").Outcome)
	assert.Equal(t, ExcludedImplicit, l.Classify("Contador General").Outcome)
}

func TestNormalizeWords(t *testing.T) {
	got := NormalizeWords([]string{" QA ", "", "Cloud", "  "})
	assert.Equal(t, []string{"qa", "cloud"}, got)
}

func TestCompactWords(t *testing.T) {
	got := CompactWords([]string{" sap ", "", "Cloud", "  "})
	assert.Equal(t, []string{" sap ", "Cloud", "  "}, got)
}

func TestClassify_PaddedExcludeWord(t *testing.T) {
	exclude := []string{" sap "}

	assert.Equal(t, Included, Classify("Saprissa Cloud Engineer", exclude, nil).Outcome)
	assert.Equal(t, Verdict{Outcome: ExcludedExplicit, Word: " sap "}, Classify("Cloud SAP Basis", exclude, nil))
	assert.Equal(t, Included, Classify("Cloud Engineer", []string{"Cloud"}, nil).Outcome, "upper-case words never match")
}
