// Package extract runs the seven analysis capabilities over a meeting
// document: executive summary, project identity, project details,
// health signals, team pulse, pain points and external ideas.
//
// The generation capability does not reliably return the key or shape
// a capability asks for, so every JSON payload goes through a tolerant
// normalization layer before it reaches the stable record types. Each
// capability degrades to a neutral default on failure; extraction as a
// whole never fails.
package extract
