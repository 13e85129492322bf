// Package logger provides structured logging on top of zerolog.
//
// A Logger is created from Config (level, format, output) and tagged per
// component. Request-scoped values such as the request ID travel through the
// context and are attached by WithContext.
//
//	log := logger.WithComponent("prosody")
//	log.Info("job submitted", logger.Fields(logger.FieldJobID, id))
package logger
