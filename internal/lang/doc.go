// Package lang detects a file's language from its extension and scans file
// content for risk patterns in three fixed categories (security risks,
// performance issues, error-prone constructs). Matches enrich the review
// prompt; they are hints for the classifier, not findings themselves.
package lang
