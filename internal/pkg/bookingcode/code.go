// Package bookingcode generates the human-readable codes seekers and
// owners use to refer to a booking (e.g. "KST-20250601-4F7A2C").
package bookingcode

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const prefix = "KST"

// New returns a code of the form KST-YYYYMMDD-XXXXXX. The random suffix
// is 3 bytes of entropy; uniqueness is ultimately enforced by the unique
// index on bookings.code, callers retry on collision.
func New(now time.Time) string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the platform source is broken;
		// fall back to a time-derived suffix.
		return fmt.Sprintf("%s-%s-%06X", prefix, now.Format("20060102"), now.UnixNano()&0xFFFFFF)
	}
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), strings.ToUpper(hex.EncodeToString(buf)))
}
