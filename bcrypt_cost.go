//go:build !race

package userapi

func passwordHashCost() int {
	return 14
}
