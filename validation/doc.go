// Package validation checks request bodies and configuration.
//
// Struct tags go through go-playground/validator and produce a 400 AppError
// whose message lists every failing field by its json name:
//
//	type Request struct {
//	    Text string `json:"text" validate:"required"`
//	}
//	err := validation.Validate(req)
//
// Validator collects checks that tags cannot express:
//
//	v := validation.New()
//	v.Required("hume.base_url", cfg.BaseURL).Positive("prosody.max_attempts", cfg.MaxAttempts)
//	err := v.Err()
package validation
