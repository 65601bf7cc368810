// Package cryptox holds the credential primitives for PIN verification.
//
// A PIN reference is either the literal digit string or an Argon2id hash
// in PHC format ($argon2id$v=19$m=...,t=...,p=...$salt$hash). VerifyPIN
// accepts both so directories can migrate to hashed references without
// touching callers.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argonPrefix = "$argon2id$"

	saltLength  = 16
	iterations  = 3
	memory      = 64 * 1024
	parallelism = 2
	keyLength   = 32
)

// IsHashedReference reports whether a PIN reference is an Argon2id PHC string.
func IsHashedReference(reference string) bool {
	return strings.HasPrefix(reference, argonPrefix)
}

// VerifyPIN compares a supplied PIN against a stored reference.
// The comparison runs in constant time with respect to the supplied value.
func VerifyPIN(reference, supplied string) bool {
	if IsHashedReference(reference) {
		return verifyArgon2(reference, supplied)
	}

	// Digesting both sides first keeps the comparison independent of
	// length and content.
	refSum := sha256.Sum256([]byte(reference))
	gotSum := sha256.Sum256([]byte(supplied))
	return subtle.ConstantTimeCompare(refSum[:], gotSum[:]) == 1
}

// HashPIN produces a PHC-format Argon2id reference for a PIN.
func HashPIN(pin string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(pin), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func verifyArgon2(encoded, pin string) bool {
	params, salt, want, err := decodePHC(encoded)
	if err != nil {
		return false
	}

	got := argon2.IDKey([]byte(pin), salt, params.iterations, params.memory, params.parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}

type argonParams struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
}

func decodePHC(encoded string) (argonParams, []byte, []byte, error) {
	// Expected: ["", "argon2id", "v=19", "m=X,t=Y,p=Z", salt, hash]
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return argonParams{}, nil, nil, errors.New("cryptox: invalid PHC string")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return argonParams{}, nil, nil, errors.New("cryptox: unsupported argon2 version")
	}

	var p argonParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &p.parallelism); err != nil {
		return argonParams{}, nil, nil, errors.New("cryptox: invalid argon2 parameters")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return argonParams{}, nil, nil, errors.New("cryptox: invalid salt encoding")
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return argonParams{}, nil, nil, errors.New("cryptox: invalid hash encoding")
	}

	return p, salt, hash, nil
}
