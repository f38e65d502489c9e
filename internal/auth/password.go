package auth

import "golang.org/x/crypto/bcrypt"

// PasswordCost is the bcrypt work factor.
const PasswordCost = 10

// HashPassword fails for passwords longer than 72 bytes.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches hash. A malformed hash is
// a mismatch.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
