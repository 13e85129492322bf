// Package report turns an analysis result into a readable report: emotion
// summaries, an overview of the conversation, its tone and most repeated
// words. It also defines the states a report view moves through while an
// upload is processed.
package report
