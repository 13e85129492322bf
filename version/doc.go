// Package version holds build information set at link time:
//
//	go build -ldflags "-X github.com/kbukum/voicelens/version.Version=1.0.0"
package version
