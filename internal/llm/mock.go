package llm

import "context"

// MockClient permite tests sin llamar a un LLM real. Si Responses tiene
// elementos, cada llamada consume el siguiente; si se agotan, repite el
// ultimo. Response simple cubre el caso de una sola respuesta fija.
type MockClient struct {
	Response  string
	Responses []string
	Err       error

	Calls   int
	Prompts []string
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.Calls++
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) > 0 {
		idx := m.Calls - 1
		if idx >= len(m.Responses) {
			idx = len(m.Responses) - 1
		}
		return m.Responses[idx], nil
	}
	return m.Response, nil
}
