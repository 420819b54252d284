// Copyright 2025 The Meetlens Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package extract

import (
	"strconv"
	"strings"

	"github.com/meetlens/meetlens/core"
)

// The normalization functions in this file convert whatever JSON shape
// the model produced into the stable record types. Each one tries the
// expected top-level key, a capability-specific set of synonym keys,
// then a bare list, and finally falls back to the capability's neutral
// default. List items are rebuilt field by field so a missing field can
// never escape as an absent key downstream.

// maxProjectNameLength bounds resolved project names.
const maxProjectNameLength = 100

// unsureSentinels are model answers that mean "no project identified",
// matched case-insensitively.
var unsureSentinels = map[string]bool{
	"unsure":             true,
	"unknown":            true,
	"unnamed project":    true,
	"general discussion": true,
}

// ResolveProjectName cleans a model-produced project name and applies
// the fallback chain: an unsure or empty answer falls back to the
// meeting title truncated to 100 characters, then to "Unnamed Project".
func ResolveProjectName(raw, title string) string {
	name := strings.TrimSpace(raw)
	name = strings.Trim(name, `"'`)
	if len(name) > maxProjectNameLength {
		name = name[:maxProjectNameLength]
	}

	if name == "" || unsureSentinels[strings.ToLower(name)] {
		if title = strings.TrimSpace(title); title != "" {
			if len(title) > maxProjectNameLength {
				title = title[:maxProjectNameLength]
			}
			return title
		}
		return "Unnamed Project"
	}
	return name
}

// NormalizeStatus maps a raw status string onto the canonical set. The
// raw value is lower-cased with underscores treated as spaces; known
// statuses map exactly and anything else is title-cased word by word.
func NormalizeStatus(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		s = "proposed"
	}
	lower := strings.ReplaceAll(strings.ToLower(s), "_", " ")
	lower = strings.Join(strings.Fields(lower), " ")

	switch lower {
	case "in progress":
		return core.StatusInProgress
	case "proposed":
		return core.StatusProposed
	case "blocked":
		return core.StatusBlocked
	case "completed":
		return core.StatusCompleted
	}

	words := strings.Fields(lower)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// ClampScore forces a sentiment score into [0, 1].
func ClampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// NormalizeProjects accepts the project-detail payload under "projects"
// or "data", as a single bare object, or as a bare list.
func NormalizeProjects(raw any) []core.Project {
	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case map[string]any:
		if payload, ok := firstKey(v, "projects", "data"); ok {
			items = asList(payload)
		} else {
			// A single project object without an envelope.
			items = []any{v}
		}
	}

	projects := make([]core.Project, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		projects = append(projects, core.Project{
			Name:          stringOr(m["name"], "Unnamed Project"),
			Description:   asText(m["description"]),
			Owner:         asText(m["owner"]),
			Status:        NormalizeStatus(asText(m["status"])),
			TimelineHints: asText(m["timeline_hints"]),
		})
	}
	return projects
}

// NormalizeHealth rebuilds the health-signal payload, defaulting every
// missing section to empty.
func NormalizeHealth(raw any) core.HealthSignals {
	m, ok := raw.(map[string]any)
	if !ok {
		return core.EmptyHealthSignals()
	}
	return core.HealthSignals{
		Owners:            asStringList(m["owners"]),
		Blockers:          normalizeRiskItems(m["blockers"]),
		Risks:             normalizeRiskItems(m["risks"]),
		CommitmentSignals: normalizeCommitmentSignals(m["commitment_signals"]),
	}
}

func normalizeRiskItems(raw any) []core.RiskItem {
	items := asList(raw)
	out := make([]core.RiskItem, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, core.RiskItem{
			Description: asText(m["description"]),
			Project:     asText(m["project"]),
			Severity:    stringOr(m["severity"], core.LevelMedium),
		})
	}
	return out
}

func normalizeCommitmentSignals(raw any) []core.CommitmentSignal {
	items := asList(raw)
	out := make([]core.CommitmentSignal, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, core.CommitmentSignal{
			Text:           asText(m["text"]),
			Interpretation: asText(m["interpretation"]),
			Project:        asText(m["project"]),
		})
	}
	return out
}

// NormalizePulse rebuilds the pulse payload with a neutral default for
// every missing field and the sentiment score clamped into [0, 1].
func NormalizePulse(raw any) core.Pulse {
	m, ok := raw.(map[string]any)
	if !ok {
		return core.NeutralPulse()
	}

	pulse := core.Pulse{
		OverallSentiment:  stringOr(m["overall_sentiment"], core.SentimentNeutral),
		SentimentScore:    ClampScore(asNumber(m["sentiment_score"], 0.5)),
		Tone:              asStringList(m["tone"]),
		SpeakerSentiments: []core.SpeakerSentiment{},
		BehavioralCues:    []core.BehavioralCue{},
		KeyInsights:       asStringList(m["key_insights"]),
	}

	for _, item := range asList(m["speaker_sentiments"]) {
		sm, ok := item.(map[string]any)
		if !ok {
			continue
		}
		pulse.SpeakerSentiments = append(pulse.SpeakerSentiments, core.SpeakerSentiment{
			Speaker:         asText(sm["speaker"]),
			Sentiment:       stringOr(sm["sentiment"], core.SentimentNeutral),
			SentimentScore:  ClampScore(asNumber(sm["sentiment_score"], 0.5)),
			EngagementLevel: stringOr(sm["engagement_level"], core.LevelMedium),
		})
	}

	for _, item := range asList(m["behavioral_cues"]) {
		cm, ok := item.(map[string]any)
		if !ok {
			continue
		}
		pulse.BehavioralCues = append(pulse.BehavioralCues, core.BehavioralCue{
			Cue:  asText(cm["cue"]),
			Type: asText(cm["type"]),
		})
	}
	return pulse
}

// NormalizePainPoints rebuilds the pain-point payload, defaulting both
// sections to empty.
func NormalizePainPoints(raw any) core.PainPoints {
	m, ok := raw.(map[string]any)
	if !ok {
		return core.EmptyPainPoints()
	}

	result := core.EmptyPainPoints()
	for _, item := range asList(m["project_specific"]) {
		pm, ok := item.(map[string]any)
		if !ok {
			continue
		}
		result.ProjectSpecific = append(result.ProjectSpecific, core.ProjectPainPoint{
			Project:   asText(pm["project"]),
			PainPoint: asText(pm["pain_point"]),
			Severity:  stringOr(pm["severity"], core.LevelMedium),
			Impact:    asText(pm["impact"]),
		})
	}
	for _, item := range asList(m["general"]) {
		gm, ok := item.(map[string]any)
		if !ok {
			continue
		}
		result.General = append(result.General, core.GeneralPainPoint{
			PainPoint: asText(gm["pain_point"]),
			Category:  stringOr(gm["category"], "other"),
			Severity:  stringOr(gm["severity"], core.LevelMedium),
			Impact:    asText(gm["impact"]),
		})
	}
	return result
}

// NormalizeIdeas accepts the ideas payload under "ideas", "scope",
// "external_ideas" or "data", or as a bare list.
func NormalizeIdeas(raw any) []core.Idea {
	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case map[string]any:
		if payload, ok := firstKey(v, "ideas", "scope", "external_ideas", "data"); ok {
			items = asList(payload)
		}
	}

	ideas := make([]core.Idea, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ideas = append(ideas, core.Idea{
			Idea:           asText(m["idea"]),
			Description:    asText(m["description"]),
			Scope:          asText(m["scope"]),
			Feasibility:    stringOr(m["feasibility"], core.LevelMedium),
			PotentialValue: asText(m["potential_value"]),
			SuggestedBy:    asText(m["suggested_by"]),
			RelatedTo:      asText(m["related_to"]),
		})
	}
	return ideas
}

func firstKey(m map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			return v, true
		}
	}
	return nil, false
}

func asList(v any) []any {
	if list, ok := v.([]any); ok {
		return list
	}
	return nil
}

// asText coerces a JSON scalar to a string; composites and nil yield "".
func asText(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

func stringOr(v any, fallback string) string {
	if s := asText(v); s != "" {
		return s
	}
	return fallback
}

// asNumber coerces a JSON value to a float, accepting numeric strings.
func asNumber(v any, fallback float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return parsed
		}
	case bool:
		if n {
			return 1
		}
		return 0
	}
	return fallback
}

func asStringList(v any) []string {
	items := asList(v)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := asText(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
