package stream

import (
	"bytes"
	"encoding/json"
	"io"
)

// Decoder reconstituye la secuencia de frames desde un canal de bytes cuyas
// lecturas no están alineadas con los límites de frame. Bufferea la unidad
// parcial entre lecturas y solo entrega un frame cuando su delimitador
// completo fue observado.
//
// Política de parsing laxa: líneas sin el prefijo esperado o con payload no
// parseable se descartan sin abortar el stream.
type Decoder struct {
	r   io.Reader
	buf []byte
	err error
}

// NewDecoder crea un decoder sobre el reader del transporte.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Next devuelve el siguiente frame válido. Al agotarse el stream devuelve
// io.EOF; una unidad parcial al final se descarta.
func (d *Decoder) Next() (Frame, error) {
	for {
		if idx := bytes.Index(d.buf, []byte(delimiter)); idx >= 0 {
			unit := d.buf[:idx]
			d.buf = d.buf[idx+len(delimiter):]

			if f, ok := parseUnit(unit); ok {
				return f, nil
			}
			// Unidad malformada: se ignora y se sigue con la próxima.
			continue
		}

		if d.err != nil {
			return Frame{}, d.err
		}

		chunk := make([]byte, 4096)
		n, err := d.r.Read(chunk)
		if n > 0 {
			d.buf = append(d.buf, chunk[:n]...)
		}
		if err != nil {
			// Se difiere el error hasta drenar lo ya bufferado.
			d.err = err
		}
	}
}

func parseUnit(unit []byte) (Frame, bool) {
	line := bytes.TrimSpace(unit)
	if !bytes.HasPrefix(line, []byte(dataPrefix)) {
		return Frame{}, false
	}
	payload := line[len(dataPrefix):]

	var f Frame
	if err := json.Unmarshal(payload, &f); err != nil {
		return Frame{}, false
	}
	if !f.IsChunk() && !f.IsError() {
		return Frame{}, false
	}
	return f, true
}
