// Package symptoms scores a fixed disease knowledge base against a selected
// symptom set. The rule-based path is fully deterministic and serves as the
// fallback whenever the remote assessment service is absent or failing.
package symptoms

import (
	"sort"

	"github.com/waterwatch/go-water-watch/internal/models"
)

const maxConditions = 3

// Match scores every disease as |selected ∩ disease.symptoms| /
// |disease.symptoms|, keeps positive scores, and returns the top 3 sorted
// by score descending. Equal scores order by disease id so repeated calls
// rank identically.
func Match(selected []string) []models.ConditionMatch {
	chosen := make(map[string]bool, len(selected))
	for _, s := range selected {
		chosen[s] = true
	}

	var matches []models.ConditionMatch
	for _, d := range knowledgeBase {
		overlap := 0
		for _, s := range d.Symptoms {
			if chosen[s] {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}
		matches = append(matches, models.ConditionMatch{
			DiseaseID:  d.ID,
			Name:       d.Name,
			MatchScore: float64(overlap) / float64(len(d.Symptoms)),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].MatchScore != matches[j].MatchScore {
			return matches[i].MatchScore > matches[j].MatchScore
		}
		return matches[i].DiseaseID < matches[j].DiseaseID
	})

	if len(matches) > maxConditions {
		matches = matches[:maxConditions]
	}
	return matches
}

// Risk averages the severity weight of every selected symptom and maps the
// average to a tier: >= 2.5 high, >= 1.5 medium, otherwise low. Unknown
// symptom ids weigh as mild.
func Risk(selected []string) models.RiskLevel {
	if len(selected) == 0 {
		return models.RiskLow
	}

	total := 0
	for _, s := range selected {
		w, ok := symptomWeights[s]
		if !ok {
			w = weightMild
		}
		total += w
	}

	avg := float64(total) / float64(len(selected))
	switch {
	case avg >= 2.5:
		return models.RiskHigh
	case avg >= 1.5:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// Recommendations builds the advice list: one risk-tier line, symptom-
// specific additions, then two general hygiene tips that always apply.
func Recommendations(selected []string, risk models.RiskLevel) []string {
	var recs []string

	switch risk {
	case models.RiskHigh:
		recs = append(recs, "Seek medical attention promptly; your symptoms indicate a potentially serious condition.")
	case models.RiskMedium:
		recs = append(recs, "Monitor your symptoms closely and visit a clinic if they persist beyond 48 hours.")
	default:
		recs = append(recs, "Your symptoms appear mild; rest and keep your fluid intake up.")
	}

	chosen := make(map[string]bool, len(selected))
	for _, s := range selected {
		chosen[s] = true
	}

	if chosen["diarrhea"] || chosen["vomiting"] {
		recs = append(recs, "Use oral rehydration solution to replace lost fluids and salts.")
	}
	if chosen["high_fever"] {
		recs = append(recs, "Check and record your temperature every few hours; seek care if it stays above 39°C.")
	}

	recs = append(recs,
		"Drink only boiled or properly treated water.",
		"Wash hands with soap before eating and after using the toilet.",
	)

	return recs
}

// Evaluate is the full rule-based assessment for a selected symptom set.
func Evaluate(selected []string) models.Assessment {
	risk := Risk(selected)
	return models.Assessment{
		Symptoms:        selected,
		Conditions:      Match(selected),
		RiskLevel:       risk,
		Recommendations: Recommendations(selected, risk),
		Source:          "rules",
	}
}
