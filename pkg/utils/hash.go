package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPasscode hashes the configured admin passcode with bcrypt so the plain
// value never sits in memory past startup.
func HashPasscode(passcode string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasscode compares a submitted passcode with the stored hash.
func CheckPasscode(plain, hashed string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	return err == nil
}
