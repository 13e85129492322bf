// Package transcription defines the speech-to-text result shape and the
// provider interface backends implement.
package transcription
