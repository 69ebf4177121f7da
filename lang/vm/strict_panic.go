//go:build blockscript_strict

package vm

// recoverStackCorruption is a no-op under blockscript_strict: a stack
// corruption panic propagates to the host uncaught instead of being
// turned into a returned error.
func recoverStackCorruption(errp *error) {}
