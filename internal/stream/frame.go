package stream

import (
	"encoding/json"
	"fmt"
)

// Delimitadores del protocolo de frames. Cada frame es una línea UTF-8
// "data: {json}" terminada por el delimitador doble; un frame nunca se
// interpreta hasta que su delimitador completo haya llegado.
const (
	dataPrefix = "data: "
	delimiter  = "\n\n"
)

// Frame es la representación en cable de un fragment (chunk) o de un error
// terminal. Exactamente uno de los dos campos está presente.
type Frame struct {
	Chunk *string `json:"chunk,omitempty"`
	Error *string `json:"error,omitempty"`
}

// ChunkFrame arma un frame de fragmento.
func ChunkFrame(text string) Frame {
	return Frame{Chunk: &text}
}

// ErrorFrame arma un frame de error terminal.
func ErrorFrame(msg string) Frame {
	return Frame{Error: &msg}
}

// IsChunk indica si el frame transporta un fragment.
func (f Frame) IsChunk() bool { return f.Chunk != nil }

// IsError indica si el frame transporta un error terminal.
func (f Frame) IsError() bool { return f.Error != nil }

// ChunkText devuelve el payload del fragment, o cadena vacía.
func (f Frame) ChunkText() string {
	if f.Chunk == nil {
		return ""
	}
	return *f.Chunk
}

// ErrorText devuelve el mensaje de error, o cadena vacía.
func (f Frame) ErrorText() string {
	if f.Error == nil {
		return ""
	}
	return *f.Error
}

// Marshal serializa el frame como unidad de cable completa.
func (f Frame) Marshal() ([]byte, error) {
	payload, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal frame: %w", err)
	}
	out := make([]byte, 0, len(dataPrefix)+len(payload)+len(delimiter))
	out = append(out, dataPrefix...)
	out = append(out, payload...)
	out = append(out, delimiter...)
	return out, nil
}
