package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(hash, "hunter2") {
		t.Fatal("matching password rejected")
	}
	if CheckPassword(hash, "hunter3") || CheckPassword("garbage", "hunter2") {
		t.Fatal("wrong password accepted")
	}
}
