package users

import "golang.org/x/crypto/bcrypt"

type PasswordHasher interface {
	Hash(raw string) (string, error)
	Compare(hash, raw string) error
}

// BcryptHasher: Cost 0 usa bcrypt.DefaultCost. Los tests bajan a bcrypt.MinCost.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(raw string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(raw), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h BcryptHasher) Compare(hash, raw string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw))
}
