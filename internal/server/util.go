package server

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
)

func newJoinCode() string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "AAAAAA"
	}
	for i := range buf {
		buf[i] = alphabet[int(buf[i])%len(alphabet)]
	}
	return string(buf)
}

func newPlayerToken() string {
	return uuid.NewString()
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
