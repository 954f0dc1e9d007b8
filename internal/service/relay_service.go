package service

import (
	"context"

	"go.uber.org/zap"

	"omni-relay/internal/domain"
	"omni-relay/internal/llm"
)

// RelayService ata una configuración del prompt builder al gateway generativo.
// Un handler por familia de acción delega aquí; la validación corta antes de
// cualquier llamada de red.
type RelayService struct {
	llmClient llm.Client
	builder   PromptBuilder
	logger    *zap.Logger
}

// NewRelayService crea el servicio de relay con sus dependencias.
func NewRelayService(llmClient llm.Client, builder PromptBuilder, logger *zap.Logger) *RelayService {
	return &RelayService{
		llmClient: llmClient,
		builder:   builder,
		logger:    logger,
	}
}

// Stream valida el request, arma el prompt y abre el stream de fragments.
func (s *RelayService) Stream(ctx context.Context, req domain.PromptRequest) (<-chan llm.Fragment, error) {
	prompt, err := s.builder.Build(req)
	if err != nil {
		return nil, err
	}

	fragments, err := s.llmClient.GenerateStream(ctx, prompt)
	if err != nil {
		s.logger.Error("generation stream failed to open",
			zap.String("kind", string(req.Kind)),
			zap.Error(err),
		)
		return nil, err
	}
	return fragments, nil
}
