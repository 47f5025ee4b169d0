package types

// JSONMap stores loosely structured metadata as a jsonb column.
type JSONMap map[string]any
