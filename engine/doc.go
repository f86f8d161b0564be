// Package engine orchestrates one search round: criteria extraction from
// the conversation, normalization of every criteria section against the
// reference catalogs, the company count call, and the deliver-or-refine
// decision. The engine is stateless across rounds; the conversation and
// the refinement round counter belong to the caller.
package engine
