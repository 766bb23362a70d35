// Package response holds the user-facing wording shared by the HTTP
// handlers and middleware. The wording is part of the contract: conflict
// and credential messages stay generic so responses cannot be used to
// probe which accounts exist, and internal failures always surface the
// same sentence regardless of where they were caught.
package response

const (
	// MsgInvalidBody is returned for request bodies that fail to parse.
	MsgInvalidBody = "invalid request body"
	// MsgInvalidCredentials covers every login failure cause.
	MsgInvalidCredentials = "invalid email or password"
	// MsgConflict is returned for duplicate signups without naming
	// the conflicting field.
	MsgConflict = "an account with these details already exists"
	// MsgInternal is the only wording an unexpected failure may expose.
	MsgInternal = "something went wrong"
)
