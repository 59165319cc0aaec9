package models

// QuizQuestion is one normalized multiple-choice question. Options always
// has exactly 4 entries and CorrectAnswer is one of A-D.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
}

// CodingProblem is one normalized practice problem. ComplexityRating is
// clamped to [1,5] and TimeRequiredMinutes to [5,60].
type CodingProblem struct {
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Hints               []string `json:"hints"`
	ComplexityRating    int      `json:"complexityRating"`
	TimeRequiredMinutes int      `json:"timeRequiredMinutes"`
	Difficulty          string   `json:"difficulty"`
}

// KeyConcept is one timestamped concept extracted from the video.
// TimestampSeconds is floored to a whole second and clamped to the video's
// duration when timing is known.
type KeyConcept struct {
	TimestampSeconds int    `json:"timestamp"`
	Name             string `json:"name"`
	Description      string `json:"description"`
}

// VideoSummary is the summary artifact envelope payload.
type VideoSummary struct {
	Title           string   `json:"title"`
	DurationSeconds int      `json:"duration"`
	Topics          []string `json:"topics"`
	Points          []string `json:"points"`
	KeyTopics       []string `json:"keyTopics"`
}

// Section is one entry of the section breakdown.
type Section struct {
	Title            string   `json:"title"`
	TimestampSeconds int      `json:"timestamp"`
	Points           []string `json:"points"`
}

// FormulaFusion types: the one artifact whose model output is a single JSON
// object rather than an array of flat records.

type Derivation struct {
	Title  string   `json:"title"`
	Steps  []string `json:"steps"`
	Result string   `json:"result"`
}

type EquationEntry struct {
	Name        string   `json:"name"`
	Equation    string   `json:"equation"`
	Description string   `json:"description"`
	Variables   []string `json:"variables"`
}

type EquationCategory struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Equations   []string `json:"equations"`
}

type FormulaFusionModule struct {
	Derivations      []Derivation       `json:"derivations"`
	EquationDatabase []EquationEntry    `json:"equationDatabase"`
	Categories       []EquationCategory `json:"categories"`
}
