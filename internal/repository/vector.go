package repository

import (
	pgvector "github.com/pgvector/pgvector-go"
)

// vectorArg convierte un embedding en parametro; vacio se guarda como NULL.
func vectorArg(v []float32) any {
	if len(v) == 0 {
		return nil
	}
	return pgvector.NewVector(v)
}

func vectorSlice(v *pgvector.Vector) []float32 {
	if v == nil {
		return nil
	}
	return v.Slice()
}
