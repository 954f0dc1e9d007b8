package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"omni-relay/internal/domain"
)

// TextExtractor es la frontera con los lectores de documentos externos
// (bytes -> texto). La corrección del parseo por formato queda delegada al
// colaborador inyectado.
type TextExtractor interface {
	Extract(name string, data []byte) (string, error)
}

// PlainText trata el payload como texto plano UTF-8. Sirve para .txt/.md/.csv
// y como extractor por defecto cuando no hay un lector dedicado configurado.
type PlainText struct{}

func (PlainText) Extract(name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty document %q", domain.ErrInvalidRequest, name)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %q is not readable as text", domain.ErrInvalidRequest, name)
	}
	return strings.TrimSpace(string(data)), nil
}
