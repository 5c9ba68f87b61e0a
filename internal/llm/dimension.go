package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrDimensionMismatch indica que el proveedor devolvio un vector de otro tamano
// que la columna vector de la base.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

type fixedDimension struct {
	next Embedder
	dims int
}

// WithDimensions rechaza vectores cuyo largo no sea dims. Con dims <= 0 no valida.
func WithDimensions(next Embedder, dims int) Embedder {
	if next == nil || dims <= 0 {
		return next
	}
	return &fixedDimension{next: next, dims: dims}
}

func (f *fixedDimension) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := f.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(vec) != f.dims {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec), f.dims)
	}
	return vec, nil
}
