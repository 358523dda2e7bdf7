package llm

import "context"

// MockClient is a test double for the Client interface.
type MockClient struct {
	ReplyText string
	Err       error
	Calls     [][]Message // records history sent per call
}

// Reply records the call and returns the mock response.
func (m *MockClient) Reply(ctx context.Context, systemPrompt string, history []Message) (string, error) {
	m.Calls = append(m.Calls, history)
	if m.Err != nil {
		return "", m.Err
	}
	if m.ReplyText == "" {
		return "", ErrEmptyReply
	}
	return m.ReplyText, nil
}
