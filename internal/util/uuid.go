package util

import "github.com/google/uuid"

func NewUUID() string {
	return uuid.New().String()
}

func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
