// Package diarization defines the speaker-attribution result shape and the
// provider interface backends implement.
package diarization
