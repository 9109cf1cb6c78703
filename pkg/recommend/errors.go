package recommend

import "fmt"

// ExternalError wraps a failure from an upstream service (LLM, embeddings,
// metadata lookup). These are caught at the component boundary that made
// the call and degrade the step instead of aborting the invocation.
type ExternalError struct {
	Service string
	Err     error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}
