package social

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// ProviderError captures normalized provider response details.
type ProviderError struct {
	Provider    string
	Operation   string
	Status      int
	Description string
	Err         error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "provider error"
	}

	scope := fmt.Sprintf("%s %s", e.Provider, e.Operation)
	switch {
	case e.Description != "":
		return fmt.Sprintf("%s failed: %s", scope, e.Description)
	case e.Err != nil:
		return fmt.Sprintf("%s failed: %v", scope, e.Err)
	default:
		return fmt.Sprintf("%s failed with status %d", scope, e.Status)
	}
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ProviderError) metadata() map[string]any {
	if e == nil {
		return nil
	}

	meta := map[string]any{
		"provider":  e.Provider,
		"operation": e.Operation,
	}
	if e.Status != 0 {
		meta["status"] = e.Status
	}
	if e.Description != "" {
		meta["description"] = e.Description
	}

	return meta
}

// WrapProviderError attaches provider metadata to one of the classified base
// errors so callers can match on the text code while logs keep the detail.
func WrapProviderError(base *goerrors.Error, provider, operation string, err error) error {
	if base == nil {
		return err
	}

	meta := map[string]any{
		"provider":  provider,
		"operation": operation,
	}

	var perr *ProviderError
	if errors.As(err, &perr) && perr != nil {
		for k, v := range perr.metadata() {
			meta[k] = v
		}
	} else if err != nil {
		meta["error"] = err.Error()
	}

	clone := base.Clone()
	if clone == nil {
		clone = base
	}
	if err != nil {
		clone.Source = err
	}
	clone.WithMetadata(meta)

	return clone
}
