// Package generate runs the article generation pipeline.
//
// A batch run pulls pending keywords, gathers question-and-answer
// context for each one, asks the model for an article, sanitizes the
// HTML, and stores the result. Items fail independently; a tripped
// circuit aborts the rest of the batch because every remaining item
// would fail the same way.
package generate
