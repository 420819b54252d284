package core

// Project status values after normalization.
const (
	StatusProposed   = "Proposed"
	StatusInProgress = "In Progress"
	StatusBlocked    = "Blocked"
	StatusCompleted  = "Completed"
)

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Severity and feasibility levels share the same scale.
const (
	LevelHigh   = "high"
	LevelMedium = "medium"
	LevelLow    = "low"
)

// Project is detailed information about the main project discussed in a
// meeting.
type Project struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Owner         string `json:"owner"`
	Status        string `json:"status"`
	TimelineHints string `json:"timeline_hints"`
}

// RiskItem is one blocker or risk raised in a meeting.
type RiskItem struct {
	Description string `json:"description"`
	Project     string `json:"project"`
	Severity    string `json:"severity"`
}

// CommitmentSignal is a phrase that indicates (lack of) commitment,
// such as a non-committal "we'll see".
type CommitmentSignal struct {
	Text           string `json:"text"`
	Interpretation string `json:"interpretation"`
	Project        string `json:"project"`
}

// HealthSignals aggregates project health indicators from one meeting.
type HealthSignals struct {
	Owners            []string           `json:"owners"`
	Blockers          []RiskItem         `json:"blockers"`
	Risks             []RiskItem         `json:"risks"`
	CommitmentSignals []CommitmentSignal `json:"commitment_signals"`
}

// EmptyHealthSignals returns the neutral default for HealthSignals.
func EmptyHealthSignals() HealthSignals {
	return HealthSignals{
		Owners:            []string{},
		Blockers:          []RiskItem{},
		Risks:             []RiskItem{},
		CommitmentSignals: []CommitmentSignal{},
	}
}

// SpeakerSentiment is one speaker's sentiment within a meeting.
type SpeakerSentiment struct {
	Speaker         string  `json:"speaker"`
	Sentiment       string  `json:"sentiment"`
	SentimentScore  float64 `json:"sentiment_score"`
	EngagementLevel string  `json:"engagement_level"`
}

// BehavioralCue is an observed behavioral pattern (engagement,
// collaboration, conflict, alignment).
type BehavioralCue struct {
	Cue  string `json:"cue"`
	Type string `json:"type"`
}

// Pulse is the sentiment/tone analysis of a meeting. SentimentScore is
// always within [0, 1].
type Pulse struct {
	OverallSentiment  string             `json:"overall_sentiment"`
	SentimentScore    float64            `json:"sentiment_score"`
	Tone              []string           `json:"tone"`
	SpeakerSentiments []SpeakerSentiment `json:"speaker_sentiments"`
	BehavioralCues    []BehavioralCue    `json:"behavioral_cues"`
	KeyInsights       []string           `json:"key_insights"`
}

// NeutralPulse returns the neutral default for Pulse.
func NeutralPulse() Pulse {
	return Pulse{
		OverallSentiment:  SentimentNeutral,
		SentimentScore:    0.5,
		Tone:              []string{},
		SpeakerSentiments: []SpeakerSentiment{},
		BehavioralCues:    []BehavioralCue{},
		KeyInsights:       []string{},
	}
}

// ProjectPainPoint is a challenge tied to a specific project.
type ProjectPainPoint struct {
	Project   string `json:"project"`
	PainPoint string `json:"pain_point"`
	Severity  string `json:"severity"`
	Impact    string `json:"impact"`
}

// GeneralPainPoint is an organizational, process, or team-level issue.
type GeneralPainPoint struct {
	PainPoint string `json:"pain_point"`
	Category  string `json:"category"`
	Severity  string `json:"severity"`
	Impact    string `json:"impact"`
}

// PainPoints splits pain points into project-specific and general buckets.
type PainPoints struct {
	ProjectSpecific []ProjectPainPoint `json:"project_specific"`
	General         []GeneralPainPoint `json:"general"`
}

// EmptyPainPoints returns the empty default for PainPoints.
func EmptyPainPoints() PainPoints {
	return PainPoints{
		ProjectSpecific: []ProjectPainPoint{},
		General:         []GeneralPainPoint{},
	}
}

// Idea is an external idea or opportunity separate from the main project.
type Idea struct {
	Idea           string `json:"idea"`
	Description    string `json:"description"`
	Scope          string `json:"scope"`
	Feasibility    string `json:"feasibility"`
	PotentialValue string `json:"potential_value"`
	SuggestedBy    string `json:"suggested_by"`
	RelatedTo      string `json:"related_to"`
}

// ExtractionRecord is the full structured intelligence extracted from one
// document. Every field is always present with a well-typed default, even
// when individual capabilities fail; the record is never partially absent.
type ExtractionRecord struct {
	DocumentID       ID            `json:"document_id"`
	Summary          string        `json:"summary"`
	ProjectName      string        `json:"project_name"`
	Projects         []Project     `json:"projects"`
	Health           HealthSignals `json:"health_signals"`
	Pulse            Pulse         `json:"pulse"`
	PainPoints       PainPoints    `json:"pain_points"`
	Ideas            []Idea        `json:"external_ideas"`
	OverallSentiment string        `json:"overall_sentiment"`
}

// EmptyExtractionRecord returns a record for the document with every
// capability at its documented default.
func EmptyExtractionRecord(documentID ID) *ExtractionRecord {
	return &ExtractionRecord{
		DocumentID:       documentID,
		Summary:          "",
		ProjectName:      "Unnamed Project",
		Projects:         []Project{},
		Health:           EmptyHealthSignals(),
		Pulse:            NeutralPulse(),
		PainPoints:       EmptyPainPoints(),
		Ideas:            []Idea{},
		OverallSentiment: SentimentNeutral,
	}
}
