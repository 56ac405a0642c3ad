// Package orderid generates human-readable order identifiers of the form
// <prefix>-YYYYMMDD-XXXXXX. The suffix is random; uniqueness is still
// enforced by the orders table, never assumed here.
package orderid

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Generator struct {
	Prefix string
	Now    func() time.Time
}

func New(prefix string) Generator {
	return Generator{Prefix: prefix, Now: time.Now}
}

func (g Generator) NewID() string {
	now := g.Now().UTC()
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("%s-%s-%s", g.Prefix, now.Format("20060102"), raw[:6])
}
