package llm

import "context"

// disabledClient fails every generation so callers fall through to their
// deterministic paths. Used when TELOS_LLM_ENABLED is off.
type disabledClient struct{}

// NewDisabledClient returns a Client whose calls always report the model
// as unavailable.
func NewDisabledClient() Client {
	return disabledClient{}
}

func (disabledClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	return nil, ErrUnavailable
}

func (disabledClient) Available(ctx context.Context) bool {
	return false
}
