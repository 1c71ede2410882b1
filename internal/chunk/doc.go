// Package chunk implements the chunk processor: for every file in a work
// unit it detects the language, extracts risk patterns, builds a review
// prompt, invokes the classifier, and assembles a FileReviewResult. A
// failure on one file substitutes a NORMAL-severity stub and never aborts
// the chunk; chunk severity is the maximum across the primary files'
// suggestions.
package chunk
