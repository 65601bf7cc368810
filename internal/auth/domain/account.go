package domain

// Account is one entry in the fixed login directory. Loaded once at
// startup and never mutated at runtime.
type Account struct {
	ID          string
	DisplayName string

	// PINReference is either the literal 4-digit PIN or an Argon2id PHC
	// string. Only cryptox.VerifyPIN should ever look inside it.
	PINReference string

	Demo    bool
	Premium bool
}
