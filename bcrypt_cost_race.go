//go:build race

package userapi

import "golang.org/x/crypto/bcrypt"

func passwordHashCost() int {
	// Lower cost under the race detector so the test suite stays within timeouts.
	return bcrypt.DefaultCost
}
