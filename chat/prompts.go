package chat

import (
	"fmt"
	"strings"

	"github.com/meetlens/meetlens/core"
)

const systemPrompt = `You are a helpful assistant that answers questions about meeting transcripts.

You have access to relevant meeting chunks retrieved for the user's query.
Use the provided context to answer accurately. If the context doesn't contain enough information, say so.

Be concise but comprehensive. Focus on:
- Specific details mentioned in meetings
- Decisions and commitments
- Project status and health
- People and responsibilities
- Timeline and deadlines`

const answerTemperature = 0.7

// noContextAnswer is returned verbatim when retrieval finds nothing, so
// the generator is never asked to answer from an empty context.
const noContextAnswer = "I couldn't find any relevant information in the meeting transcripts to answer your question."

func unknownProjectAnswer(project string) string {
	return fmt.Sprintf("I couldn't find any meetings for the project '%s'.", project)
}

// buildContext labels each retrieved chunk with its owning meeting so
// the generator can attribute details.
func buildContext(chunks []*core.RetrievedChunk) string {
	parts := make([]string, len(chunks))
	for i, chunk := range chunks {
		parts[i] = fmt.Sprintf("[Meeting %d, Chunk %d]:\n%s", chunk.OwnerID, i+1, chunk.Text)
	}
	return strings.Join(parts, "\n\n")
}

// The four answer prompts differ only in how they describe the scope of
// the context block.

func singleMeetingPrompt(id core.ID, context, question string) string {
	return fmt.Sprintf(`Based on the following meeting transcript chunks, answer the user's question.

Context from Meeting %d:
%s

Question: %s

Answer:`, id, context, question)
}

func projectPrompt(project, context, question string) string {
	return fmt.Sprintf(`Based on the following meeting transcript chunks from meetings related to project '%s', answer the user's question.

Context from meetings:
%s

Question: %s

Answer:`, project, context, question)
}

func unrestrictedPrompt(context, question string) string {
	return fmt.Sprintf(`Based on the following meeting transcript chunks from various meetings, answer the user's question.

Context from meetings:
%s

Question: %s

Answer:`, context, question)
}
