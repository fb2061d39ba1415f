package collector

import "fmt"

// TransportError is a network failure or a non-2xx response from a provider.
type TransportError struct {
	Op         string
	StatusCode int // 0 when the request never got a response
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d, body: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means the payload did not have the expected shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("%s: decode: %v", e.Op, e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }

// ProviderError is an error the provider reported inside a successful response.
type ProviderError struct {
	Op      string
	Message string
}

func (e *ProviderError) Error() string { return fmt.Sprintf("%s: provider error: %s", e.Op, e.Message) }

// EmptyResultError is returned when the first page holds no candles and the
// caller did not allow an empty range.
type EmptyResultError struct {
	Op string
}

func (e *EmptyResultError) Error() string { return fmt.Sprintf("%s: no candles in range", e.Op) }
