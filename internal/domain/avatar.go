package domain

import (
	"crypto/md5" //nolint:gosec // Gravatar's API requires md5 hashes.
	"encoding/hex"
	"fmt"
	"strings"
)

// GravatarURL returns the deterministic fallback avatar for an email
// address, using Gravatar's identicon default.
func GravatarURL(email string, size int) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email)))) //nolint:gosec
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=identicon&s=%d", hex.EncodeToString(sum[:]), size)
}

// ResolveAvatarURL returns the user's avatar, preferring a stored URL over
// the Gravatar fallback.
func ResolveAvatarURL(u *User, size int) string {
	if u.AvatarURL != "" {
		return u.AvatarURL
	}
	return GravatarURL(u.Email, size)
}
