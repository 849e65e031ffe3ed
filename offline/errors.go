package offline

import "fmt"

// ConfigurationError reports a missing or invalid setting. It is returned
// before any storage call is made.
type ConfigurationError struct {
	Setting string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("Swagger setting %s %s", e.Setting, e.Message)
}

// StorageError wraps a failure of the storage backend
type StorageError struct {
	Op   string
	Name string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q failed: %v", e.Op, e.Name, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// GenerationError wraps a failure to enumerate, generate or encode the docs of a path
type GenerationError struct {
	Path string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate docs for %q: %v", e.Path, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
