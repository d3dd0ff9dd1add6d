package mongo

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/adminhub/user-management/internal/core/domain"
)

// demoPassword is shared by all seeded accounts.
const demoPassword = "password123"

var demoUsers = []domain.User{
	{Username: "admin", FirstName: "Ada", LastName: "Admin", Gender: domain.GenderFemale, BirthDate: date(1985, 4, 12), Role: domain.RoleAdmin},
	{Username: "jdoe", FirstName: "John", LastName: "Doe", Gender: domain.GenderMale, BirthDate: date(1990, 7, 1), Role: domain.RoleUser},
	{Username: "msmith", FirstName: "Mary", LastName: "Smith", Gender: domain.GenderFemale, BirthDate: date(1993, 11, 23), Role: domain.RoleUser},
	{Username: "alee", FirstName: "Alex", LastName: "Lee", Gender: domain.GenderOther, BirthDate: date(1988, 2, 9), Role: domain.RoleUser},
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Seed inserts the demo accounts when the users collection is empty.
// Called once at startup, after EnsureIndexes.
func (r *UserRepository) Seed(ctx context.Context, bcryptCost int) error {
	count, err := r.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcryptCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, u := range demoUsers {
		u.PasswordHash = string(hash)
		u.CreatedAt = now
		u.UpdatedAt = now
		if _, err := r.Create(ctx, &u); err != nil {
			return err
		}
	}
	return nil
}
