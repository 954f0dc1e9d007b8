package stream

import (
	"io"
	"net/http"
)

// Encoder escribe frames sobre una respuesta HTTP de larga vida, un frame por
// fragment, con flush después de cada uno para que la transferencia sea
// incremental y sin buffering.
type Encoder struct {
	w       io.Writer
	flusher http.Flusher
}

// NewEncoder crea un encoder sobre el writer de la respuesta. Si el writer
// soporta flush incremental, se usa.
func NewEncoder(w io.Writer) *Encoder {
	f, _ := w.(http.Flusher)
	return &Encoder{w: w, flusher: f}
}

// PrepareHeaders establece los headers de transferencia incremental keep-alive.
// Debe llamarse antes del primer frame.
func PrepareHeaders(h http.Header) {
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
}

// Encode escribe un frame completo y hace flush.
func (e *Encoder) Encode(f Frame) error {
	unit, err := f.Marshal()
	if err != nil {
		return err
	}
	if _, err := e.w.Write(unit); err != nil {
		return err
	}
	if e.flusher != nil {
		e.flusher.Flush()
	}
	return nil
}

// WriteChunk emite un frame de fragment.
func (e *Encoder) WriteChunk(text string) error {
	return e.Encode(ChunkFrame(text))
}

// WriteError emite el único frame de error terminal. El canal nunca se cierra
// en silencio tras un fallo del gateway.
func (e *Encoder) WriteError(msg string) error {
	return e.Encode(ErrorFrame(msg))
}
