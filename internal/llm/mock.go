package llm

import "context"

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response  string
	Fragments []string
	Err       error
	StreamErr error

	GenerateCalls int
	StreamCalls   int
	LastPrompt    string
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.GenerateCalls++
	m.LastPrompt = prompt
	return m.Response, m.Err
}

func (m *MockClient) GenerateStream(ctx context.Context, prompt string) (<-chan Fragment, error) {
	m.StreamCalls++
	m.LastPrompt = prompt
	if m.Err != nil {
		return nil, m.Err
	}

	out := make(chan Fragment, len(m.Fragments)+1)
	for _, f := range m.Fragments {
		out <- Fragment{Text: f}
	}
	if m.StreamErr != nil {
		out <- Fragment{Err: m.StreamErr}
	}
	close(out)
	return out, nil
}
