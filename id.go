package datasmith

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID generates a unique identifier with an optional prefix, in the form
// <prefix>_<unix-millis>_<8 chars>. The suffix is taken from a random UUID,
// which makes collisions within one millisecond practically impossible.
func NewID(prefix string) string {
	millis := time.Now().UnixMilli()
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if prefix == "" {
		return fmt.Sprintf("%d_%s", millis, suffix)
	}
	return fmt.Sprintf("%s_%d_%s", prefix, millis, suffix)
}
