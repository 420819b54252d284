package transcript

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/meetlens/meetlens/core"
)

var (
	// Matches "Speaker Name: utterance" at the start of a line.
	speakerPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z\s]+?):\s*(.+)$`)
	// Matches "Meeting ID:" or "Title:" metadata lines.
	titlePattern = regexp.MustCompile(`(?i)^(Meeting ID|Title):\s*(.+)$`)
)

// maxInferredTitleLength bounds a first line treated as an inferred title.
const maxInferredTitleLength = 100

// Parse normalizes an arbitrary transcript input into the canonical form.
//
// Accepted inputs:
//   - map[string]any: a JSON-shaped structured value
//   - string that parses as JSON: treated as the structured value
//   - string that does not parse as JSON: treated as freeform prose
//
// Anything else is an unsupported input error.
func Parse(input any) (*core.Transcript, error) {
	switch v := input.(type) {
	case map[string]any:
		return parseDict(v), nil
	case string:
		return ParseString(v), nil
	case json.RawMessage:
		return ParseString(string(v)), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedInputType, input)
	}
}

// ParseString normalizes a string input, trying JSON first and falling back
// to freeform prose.
func ParseString(text string) *core.Transcript {
	var value any
	if err := json.Unmarshal([]byte(text), &value); err == nil {
		switch v := value.(type) {
		case map[string]any:
			return parseDict(v)
		case []any:
			// A bare JSON array is a segment list without an envelope.
			return parseSegments(v, map[string]any{})
		}
	}
	return parsePlainText(text)
}

// parsePlainText handles freeform prose, detecting "Speaker: utterance"
// lines. Once any line matches, the whole document is treated as
// speaker-tagged and non-matching lines continue the prior utterance.
func parsePlainText(text string) *core.Transcript {
	lines := strings.Split(text, "\n")

	var (
		segments    []core.Segment
		speakers    []string
		speakerSeen = make(map[string]bool)
		leading     []string
		title       string
		externalID  string
	)

	hasSpeakerTags := false

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Scan the first few lines for title/metadata before speaker
		// detection begins.
		if i < 3 && title == "" {
			if m := titlePattern.FindStringSubmatch(line); m != nil {
				if strings.EqualFold(m[1], "meeting id") {
					externalID = strings.TrimSpace(m[2])
				} else {
					title = strings.TrimSpace(m[2])
				}
				continue
			}
			if i == 0 && !speakerPattern.MatchString(line) && len(line) < maxInferredTitleLength {
				title = line
				continue
			}
		}

		if m := speakerPattern.FindStringSubmatch(line); m != nil {
			hasSpeakerTags = true
			speaker := strings.TrimSpace(m[1])
			content := CleanText(m[2])
			if content == "" {
				continue
			}
			segments = append(segments, core.Segment{Speaker: speaker, Text: content})
			if !speakerSeen[speaker] {
				speakerSeen[speaker] = true
				speakers = append(speakers, speaker)
			}
			continue
		}

		if hasSpeakerTags && len(segments) > 0 {
			// Continuation of the prior speaker's utterance.
			if cleaned := CleanText(line); cleaned != "" {
				last := &segments[len(segments)-1]
				last.Text += " " + cleaned
			}
			continue
		}

		leading = append(leading, line)
	}

	if hasSpeakerTags && len(segments) > 0 {
		// Untagged prose encountered before the first speaker line keeps
		// its place as an unattributed opening segment.
		if len(leading) > 0 {
			opening := core.Segment{Speaker: "Unknown", Text: CleanText(strings.Join(leading, " "))}
			segments = append([]core.Segment{opening}, segments...)
		}
		return &core.Transcript{
			Format:       core.FormatSpeakerTagged,
			Text:         core.JoinSegments(segments),
			Segments:     segments,
			Speakers:     speakers,
			Title:        title,
			ExternalID:   externalID,
			LanguageHint: "auto",
		}
	}

	// No speaker pattern anywhere: the whole text is one segment under an
	// "Unknown" speaker.
	cleaned := CleanText(text)
	result := &core.Transcript{
		Format:       core.FormatPlainText,
		Text:         cleaned,
		Segments:     []core.Segment{},
		Speakers:     []string{},
		Title:        title,
		ExternalID:   externalID,
		LanguageHint: "auto",
	}
	if cleaned != "" {
		result.Segments = []core.Segment{{Speaker: "Unknown", Text: cleaned}}
	}
	return result
}

// parseDict handles a JSON-shaped structured value. Three decreasing levels
// of structure are recognized: a "segments" list, a "transcript" list, and
// a bare dict carrying a single text field.
func parseDict(data map[string]any) *core.Transcript {
	if segs, ok := data["segments"].([]any); ok {
		return parseSegments(segs, data)
	}
	if segs, ok := data["transcript"].([]any); ok {
		return parseSegments(segs, data)
	}

	// Bare dict: plain text stored under "text" or "content".
	text := asString(data["text"])
	if text == "" {
		text = asString(data["content"])
	}
	text = CleanText(text)

	result := &core.Transcript{
		Format:       core.FormatStructured,
		Text:         text,
		Segments:     []core.Segment{},
		Speakers:     []string{},
		Title:        asString(data["title"]),
		ExternalID:   asString(data["meeting_id"]),
		LanguageHint: languageHint(data),
	}
	if text != "" {
		result.Segments = []core.Segment{{Speaker: "Unknown", Text: text}}
	}
	return result
}

// parseSegments handles a structured segment list. Each segment admits
// speaker/name, text/content, and any of timestamp, time, start, end;
// only non-null fields are retained.
func parseSegments(items []any, data map[string]any) *core.Transcript {
	if len(items) == 0 {
		// An empty segments list is valid and yields an empty canonical
		// document, not an error.
		slog.Warn("empty segments list in transcript input")
		return &core.Transcript{
			Format:       core.FormatSpeakerTagged,
			Text:         "",
			Segments:     []core.Segment{},
			Speakers:     []string{},
			Title:        asString(data["title"]),
			ExternalID:   asString(data["meeting_id"]),
			LanguageHint: languageHint(data),
		}
	}

	var (
		segments    []core.Segment
		speakers    []string
		speakerSeen = make(map[string]bool)
	)

	for _, item := range items {
		var seg core.Segment
		if m, ok := item.(map[string]any); ok {
			seg.Speaker = asString(m["speaker"])
			if seg.Speaker == "" {
				seg.Speaker = asString(m["name"])
			}
			if seg.Speaker == "" {
				seg.Speaker = "Unknown"
			}
			seg.Text = asString(m["text"])
			if seg.Text == "" {
				seg.Text = asString(m["content"])
			}
			seg.Timestamp = asString(m["timestamp"])
			if seg.Timestamp == "" {
				seg.Timestamp = asString(m["time"])
			}
			seg.Start = asString(m["start"])
			seg.End = asString(m["end"])
		} else {
			seg.Speaker = "Unknown"
			seg.Text = asString(item)
		}

		seg.Text = CleanText(seg.Text)
		if seg.Text == "" {
			continue
		}

		segments = append(segments, seg)
		if !speakerSeen[seg.Speaker] {
			speakerSeen[seg.Speaker] = true
			speakers = append(speakers, seg.Speaker)
		}
	}

	if segments == nil {
		segments = []core.Segment{}
	}
	if speakers == nil {
		speakers = []string{}
	}

	return &core.Transcript{
		Format:       core.FormatSpeakerTagged,
		Text:         core.JoinSegments(segments),
		Segments:     segments,
		Speakers:     speakers,
		Title:        asString(data["title"]),
		ExternalID:   asString(data["meeting_id"]),
		LanguageHint: languageHint(data),
	}
}

func languageHint(data map[string]any) string {
	if hint := asString(data["language_hint"]); hint != "" {
		return hint
	}
	return "auto"
}

// asString coerces a JSON scalar to its string form. Maps, slices, and nil
// yield "".
func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		if s == float64(int64(s)) {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprintf("%g", s)
	case bool:
		return fmt.Sprintf("%t", s)
	case int:
		return fmt.Sprintf("%d", s)
	default:
		return ""
	}
}
