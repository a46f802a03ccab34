// Package validator builds field validation for request inputs out of small
// Rule values.
//
// A Rule pairs a Check func with the ValidationError reported when the check
// fails. Apply evaluates every rule and returns the failures as
// ValidationErrors, which implements error:
//
//	err := validator.Apply(
//	    validator.Required("userName", in.UserName),
//	    validator.Email("emailAddress", in.EmailAddress),
//	    validator.Password("password", in.Password, validator.DefaultPasswordPolicy()),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    for _, f := range verrs.Fields() { ... }
//	}
//
// Each ValidationError carries a localization key and values next to the
// English message so a caller can translate it.
package validator
