package domain

import "errors"

// Taxonomía de errores del relay. Ningún componente reintenta: todo fallo es
// terminal para el request en curso.
var (
	// ErrInvalidRequest: campos faltantes o discriminadores inválidos. Se
	// detecta antes de cualquier llamada al gateway generativo.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUpstream: fallo del modelo generativo o de la API de calendario.
	ErrUpstream = errors.New("upstream failure")

	// ErrPersistence: fallo guardando el transcript. Se loggea y se traga en
	// el camino del exchange; el intercambio visible sigue completándose.
	ErrPersistence = errors.New("persistence failure")

	// ErrParse: el modelo no devolvió el JSON esperado en el camino one-shot.
	ErrParse = errors.New("unparseable model output")
)
