package census

import (
	"context"

	"github.com/okian/census/internal/domain/city"
)

// Source is what a listener sees of the office that notified it.
type Source interface {
	// Number returns the office number.
	Number() int
	// LastReport returns the record being reported, false before the first report.
	LastReport() (city.Record, bool)
}

// Listener is notified synchronously, on the reporting goroutine, every time
// an office it is registered on reports. The listener reads the new record
// from src.
//
// Listeners are kept in a duplicate-free registry, so implementations must be
// comparable; pointer receivers are the norm. Register refuses listeners whose
// type is not comparable.
type Listener interface {
	OnReport(ctx context.Context, src Source) error
}

type funcListener struct {
	fn func(ctx context.Context, src Source) error
}

func (l *funcListener) OnReport(ctx context.Context, src Source) error {
	return l.fn(ctx, src)
}

// ListenerFunc adapts fn to a Listener. Every call returns a distinct
// listener, so registering the same function twice via two calls adds two
// entries; keep the returned value to unregister it later.
func ListenerFunc(fn func(ctx context.Context, src Source) error) Listener {
	return &funcListener{fn: fn}
}
