package domain

import "fmt"

// PromptKind discrimina las variantes de PromptRequest.
type PromptKind string

const (
	KindChat        PromptKind = "chat"
	KindAction      PromptKind = "action"
	KindCompose     PromptKind = "compose"
	KindAnalyze     PromptKind = "analyze"
	KindDocument    PromptKind = "document"
	KindCreateEvent PromptKind = "create_event"
)

// Acciones y plantillas válidas.
const (
	ActionRephrase  = "rephrase"
	ActionSummarize = "summarize"

	TemplateFormalEmail = "formal_email"
	TemplateTweetIdeas  = "tweet_ideas"
)

// ComposeContext son los campos del formulario de composición.
type ComposeContext struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Points  string `json:"points"`
	Topic   string `json:"topic"`
}

// PromptRequest es la unión etiquetada sobre las familias de acciones. Cada
// variante usa solo los campos que su plantilla requiere.
type PromptRequest struct {
	Kind     PromptKind
	Message  string
	Context  string
	Action   string
	Text     string
	Template string
	Compose  ComposeContext
	Question string
}

// Validate verifica los campos requeridos de la variante. Debe pasar antes de
// llegar al gateway generativo; un fallo aquí nunca genera tráfico de red.
func (r PromptRequest) Validate() error {
	switch r.Kind {
	case KindChat:
		if r.Message == "" {
			return fmt.Errorf("%w: message is required", ErrInvalidRequest)
		}
	case KindAction:
		if r.Action == "" || r.Text == "" {
			return fmt.Errorf("%w: action and text are required", ErrInvalidRequest)
		}
		if r.Action != ActionRephrase && r.Action != ActionSummarize {
			return fmt.Errorf("%w: unknown action %q", ErrInvalidRequest, r.Action)
		}
	case KindCompose:
		if r.Template == "" {
			return fmt.Errorf("%w: template is required", ErrInvalidRequest)
		}
		if r.Template != TemplateFormalEmail && r.Template != TemplateTweetIdeas {
			return fmt.Errorf("%w: unknown template %q", ErrInvalidRequest, r.Template)
		}
	case KindAnalyze:
		if r.Question == "" || r.Context == "" {
			return fmt.Errorf("%w: question and context are required", ErrInvalidRequest)
		}
	case KindDocument:
		if r.Context == "" {
			return fmt.Errorf("%w: document text is required", ErrInvalidRequest)
		}
	case KindCreateEvent:
		if r.Text == "" {
			return fmt.Errorf("%w: text is required", ErrInvalidRequest)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, r.Kind)
	}
	return nil
}
