package files

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// timestampLayout renders as a 14-digit YYYYMMDDHHMMSS stamp.
const timestampLayout = "20060102150405"

// NameGenerator derives collision-resistant storage names. The random
// 128-bit component carries the uniqueness guarantee; the timestamp is
// there for operability, not uniqueness. No filesystem existence checks
// are performed.
type NameGenerator struct {
	now func() time.Time
}

// NewNameGenerator creates a NameGenerator backed by the wall clock.
func NewNameGenerator() *NameGenerator {
	return &NameGenerator{now: time.Now}
}

// Generate returns "{32 hex chars}_{timestamp}.{ext}". The extension
// must be the validated, lower-cased one, never the raw user input.
func (g *NameGenerator) Generate(ext string) string {
	id := uuid.New()
	return fmt.Sprintf("%s_%s.%s", hex.EncodeToString(id[:]), g.now().Format(timestampLayout), ext)
}
