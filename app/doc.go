// Package app wires the voicelens services onto a bootstrap.App: staging
// storage, the speech service and prosody clients, the analysis orchestrator,
// the synthesis proxy, and the HTTP server that exposes them.
package app
