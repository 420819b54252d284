package extract

import (
	"fmt"
	"strings"
)

// Generation temperatures per capability. Structured extraction runs
// cooler than summarization and tone analysis.
const (
	summaryTemperature    = 0.5
	identityTemperature   = 0.3
	projectsTemperature   = 0.3
	healthTemperature     = 0.3
	pulseTemperature      = 0.4
	painPointsTemperature = 0.3
	ideasTemperature      = 0.4
)

// identityMaxTokens bounds the project-name answer, which is a short
// phrase rather than a JSON document.
const identityMaxTokens = 50

const summarySystemPrompt = `You are an expert at analyzing meeting transcripts and writing sharp, short executive summaries.

Extract:
1. Key decisions made
2. Main outcomes and action items
3. Important discussions and context
4. Critical information leadership needs to know

The transcript may mix languages or contain informal phrasing; interpret it correctly.

Keep the summary SHARP and SHORT. Two to three paragraphs at most, covering only what matters.`

const identitySystemPrompt = `You are an expert at identifying the main project or initiative a meeting is about.

Your task:
1. Identify the primary project or initiative this meeting covers
2. Take the name directly from the transcript content
3. If several projects come up, pick the MAIN one
4. If you cannot clearly identify a project name, return "UNSURE" (exactly this word)

The transcript may mix languages or contain informal phrasing; interpret it correctly.

Return ONLY the project name, typically 2-5 words.
Examples: "Mobile App Launch", "Q4 Roadmap Planning", "API Integration Project", "Customer Portal Redesign".
If unsure, return exactly "UNSURE".`

const projectsSystemPrompt = `You are an expert at extracting detailed information about the MAIN project discussed in a meeting.

Extract details ONLY for the primary project this meeting is about. Ignore projects mentioned in passing.

Extract:
1. Project name (the main project)
2. A detailed description of what the project involves
3. Owner or responsible person, if mentioned
4. Current status: Proposed, In Progress, Blocked, or Completed
5. Timeline hints or deadlines mentioned

The transcript may mix languages; tentative phrasing ("we'll see") can signal an uncertain status.

Return a JSON array with ONE object for the main project:
[
  {
    "name": "Main project name",
    "description": "Detailed description",
    "owner": "Person responsible (if mentioned)",
    "status": "Proposed|In Progress|Blocked|Completed",
    "timeline_hints": "Any timeline information mentioned"
  }
]

If the main project cannot be clearly identified, return an empty array [].`

const healthSystemPrompt = `You are an expert at identifying project health signals in meeting conversations.

Identify:
1. Project owners and assignees
2. Blockers and impediments
3. Risks and concerns
4. Commitment signals, including non-committal replies ("we'll see", "maybe") that may hide blockers

The transcript may mix languages. Watch for hesitation, uncertainty and blockers phrased as optimism.

Return a JSON object:
{
  "owners": ["Person 1", "Person 2"],
  "blockers": [
    {"description": "Blocker description", "project": "Project name (if applicable)", "severity": "high|medium|low"}
  ],
  "risks": [
    {"description": "Risk description", "project": "Project name (if applicable)", "severity": "high|medium|low"}
  ],
  "commitment_signals": [
    {"text": "The actual phrase", "interpretation": "What it likely means", "project": "Project name (if applicable)"}
  ]
}`

const pulseSystemPrompt = `You are an expert at analyzing meeting dynamics and team pulse.

Analyze:
1. Overall sentiment (positive, neutral, negative)
2. Tone (optimistic, cautious, frustrated, enthusiastic)
3. Behavioral cues such as engagement and participation patterns
4. Per-speaker sentiment when speakers are identified
5. Team dynamics and collaboration signals

The transcript may mix languages; account for cultural context.

Return a JSON object:
{
  "overall_sentiment": "positive|neutral|negative",
  "sentiment_score": 0.0 to 1.0 (0 = very negative, 1 = very positive),
  "tone": ["optimistic", "cautious", "frustrated", etc.],
  "speaker_sentiments": [
    {"speaker": "Speaker name", "sentiment": "positive|neutral|negative", "sentiment_score": 0.0 to 1.0, "engagement_level": "high|medium|low"}
  ],
  "behavioral_cues": [
    {"cue": "Description of behavioral pattern", "type": "engagement|collaboration|conflict|alignment"}
  ],
  "key_insights": ["Insight 1", "Insight 2"]
}`

const painPointsSystemPrompt = `You are an expert at identifying pain points, challenges and problems in meeting conversations.

Identify:
1. Project-specific pain points tied to particular projects or initiatives
2. General pain points at the organizational, process or team level
3. For each: description, affected project or area, severity, impact

The transcript may mix languages; frustration can be phrased indirectly.

Return a JSON object:
{
  "project_specific": [
    {"project": "Project name (if mentioned)", "pain_point": "Description", "severity": "high|medium|low", "impact": "Description of impact"}
  ],
  "general": [
    {"pain_point": "Description", "category": "process|tool|team|resource|other", "severity": "high|medium|low", "impact": "Description of impact"}
  ]
}`

const ideasSystemPrompt = `You are an expert at spotting external ideas and opportunities for new work in meeting conversations.

Identify ideas that are ADDITIONAL to the main project being discussed:
1. New initiatives or projects that could be built
2. Additional features or products mentioned
3. Opportunities for expansion emerging from side conversations
4. Ideas that go beyond the current project scope

The transcript may mix languages; interpret it correctly.

Return a JSON object with an "ideas" key:
{
  "ideas": [
    {
      "idea": "Name or title of the idea",
      "description": "What could be built",
      "scope": "The scope and potential of this idea",
      "feasibility": "high|medium|low",
      "potential_value": "Why it is valuable or what problem it solves",
      "suggested_by": "Person who suggested it (if mentioned)",
      "related_to": "How it relates to the main discussion (if applicable)"
    }
  ]
}

If no external ideas are present, return {"ideas": []}.`

func summaryPrompt(text string) string {
	return fmt.Sprintf(`Analyze the following meeting transcript and write a SHARP, SHORT executive summary.

Focus on:
- Key decisions and commitments
- Important outcomes
- Critical action items
- Significant discussions

Be direct and concise. Keep only what leadership needs to know.

Transcript:
%s

Executive Summary (keep it sharp and short):`, text)
}

func identityPrompt(text, title string) string {
	titleContext := ""
	if title != "" {
		titleContext = fmt.Sprintf("\n\nMeeting Title: %s\n(If you are unsure about the project name from the transcript, return 'UNSURE' and the title will be used as fallback)\n", title)
	}
	return fmt.Sprintf(`Analyze the following meeting transcript and identify the MAIN project or initiative it is about.

Take the name directly from the transcript content:
- Project names explicitly mentioned
- The primary project being discussed
- The main initiative or work item in the conversation
- If several projects come up, pick the PRIMARY one

Be concise - return only the project name (typically 2-5 words).
If you cannot clearly identify a project name, return exactly "UNSURE".
%s
Transcript:
%s

Main Project Name:`, titleContext, text)
}

func projectsPrompt(text string) string {
	return fmt.Sprintf(`Analyze the following meeting transcript and extract the details of the main project.

Look for:
- Explicit project mentions
- What the project involves and who owns it
- Status signals and timeline hints

Transcript:
%s

Return a JSON array of projects. If no project is found, return an empty array [].`, text)
}

func healthPrompt(text string) string {
	return fmt.Sprintf(`Analyze the following meeting transcript and extract project health signals.

Look for:
- People assigned to projects or tasks (owners)
- Blockers and impediments
- Risks and concerns raised
- Non-committal or hesitant responses ("we'll see", "maybe")

Pay attention to phrasing that hides a lack of commitment or a blocker behind optimism.

Transcript:
%s

Return a JSON object with health signals.`, text)
}

func pulsePrompt(text string, speakers []string) string {
	speakersContext := ""
	if len(speakers) > 0 {
		speakersContext = fmt.Sprintf("\n\nSpeakers identified in the meeting: %s\n", strings.Join(speakers, ", "))
	}
	return fmt.Sprintf(`Analyze the following meeting transcript and extract team pulse indicators.

Analyze:
- Overall sentiment and tone
- Individual speaker sentiment and engagement (if speakers are identified)
- Behavioral patterns and team dynamics
- Key insights about morale and collaboration
%s
Transcript:
%s

Return a JSON object with pulse analysis.`, speakersContext, text)
}

func painPointsPrompt(text string) string {
	return fmt.Sprintf(`Analyze the following meeting transcript and identify every pain point, challenge and problem mentioned.

Look for:
- Project-specific challenges or blockers
- General organizational or process issues
- Frustrations or concerns expressed
- Areas of difficulty or struggle

Be thorough, including pain points mentioned only briefly or indirectly.

Transcript:
%s

Return a JSON object with pain points analysis.`, text)
}

func ideasPrompt(text string) string {
	return fmt.Sprintf(`Analyze the following meeting transcript and identify EXTERNAL ideas and opportunities for new work.

Focus on:
- Ideas for NEW projects or initiatives separate from the main project
- Additional scope or opportunities mentioned
- Features or products that could be created
- Side conversations that suggest new work

Look for phrasing like "we could also build...", "what if we created...", "another idea would be...".

Only include ideas that are ADDITIONAL to the current project scope.

Transcript:
%s

Return a JSON object with an "ideas" key containing an array of external ideas. If none are found, return {"ideas": []}.`, text)
}
