package symptoms

// Severity weights used for risk scoring.
const (
	weightMild     = 1
	weightModerate = 2
	weightSevere   = 3
)

// symptomWeights maps symptom ids to their severity weight. Symptoms not in
// the table score as mild.
var symptomWeights = map[string]int{
	"high_fever":       weightSevere,
	"bloody_stool":     weightSevere,
	"dehydration":      weightSevere,
	"jaundice":         weightSevere,
	"diarrhea":         weightModerate,
	"vomiting":         weightModerate,
	"fever":            weightModerate,
	"abdominal_pain":   weightModerate,
	"muscle_cramps":    weightModerate,
	"nausea":           weightMild,
	"fatigue":          weightMild,
	"headache":         weightMild,
	"loss_of_appetite": weightMild,
}

type Disease struct {
	ID       string
	Name     string
	Symptoms []string
}

// knowledgeBase is the fixed waterborne-disease catalog the rule-based
// matcher scores against.
var knowledgeBase = []Disease{
	{
		ID:       "cholera",
		Name:     "Cholera",
		Symptoms: []string{"diarrhea", "vomiting", "dehydration", "muscle_cramps"},
	},
	{
		ID:       "dysentery",
		Name:     "Dysentery",
		Symptoms: []string{"diarrhea", "bloody_stool", "abdominal_pain", "fever"},
	},
	{
		ID:       "gastroenteritis",
		Name:     "Gastroenteritis",
		Symptoms: []string{"diarrhea", "vomiting", "nausea", "abdominal_pain", "fever"},
	},
	{
		ID:       "giardiasis",
		Name:     "Giardiasis",
		Symptoms: []string{"diarrhea", "abdominal_pain", "nausea", "fatigue"},
	},
	{
		ID:       "hepatitis_a",
		Name:     "Hepatitis A",
		Symptoms: []string{"jaundice", "fatigue", "nausea", "abdominal_pain", "loss_of_appetite"},
	},
	{
		ID:       "typhoid",
		Name:     "Typhoid Fever",
		Symptoms: []string{"fever", "high_fever", "abdominal_pain", "headache", "loss_of_appetite", "fatigue"},
	},
}
