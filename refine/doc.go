// Package refine decides whether a search result set is ready to deliver
// or needs another narrowing question. The controller is stateless: the
// refinement round counter travels with the conversation, so a single
// controller instance serves concurrent requests without synchronization.
package refine
