package render

import (
	"sync/atomic"

	"github.com/grovetools/teamwatch/pkg/locale"
)

// Localizer holds the active locale table. Renderers read it once per call,
// so a table swapped by a hot reload takes effect on the next render pass.
type Localizer struct {
	table atomic.Pointer[locale.Table]
}

// NewLocalizer returns a Localizer holding t, or the default table when t
// is nil.
func NewLocalizer(t *locale.Table) *Localizer {
	l := &Localizer{}
	l.Set(t)
	return l
}

// Table returns the active table.
func (l *Localizer) Table() *locale.Table {
	return l.table.Load()
}

// Set swaps the active table. A nil table restores the default.
func (l *Localizer) Set(t *locale.Table) {
	if t == nil {
		t = locale.Default()
	}
	l.table.Store(t)
}
