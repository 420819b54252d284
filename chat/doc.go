// Package chat composes retrieval-grounded answers to questions about
// the ingested meeting corpus.
//
// A question carries a scope: one meeting, every meeting under a
// project name, or the whole corpus. Retrieval runs once per question;
// when it yields nothing the composer returns a fixed answer instead of
// letting the generator invent one. Answered exchanges are filed with
// the history repository after the answer is fully delivered.
package chat
