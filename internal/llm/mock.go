package llm

import "context"

// MockEmbedder permite tests sin llamar a un proveedor real.
type MockEmbedder struct {
	Vector []float32
	Err    error
	Calls  []string
}

func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.Calls = append(m.Calls, text)
	return m.Vector, m.Err
}
