package service

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// gravatarURL derives a stable avatar reference from the registration email.
func gravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=200&r=pg&d=mm", hex.EncodeToString(sum[:]))
}
