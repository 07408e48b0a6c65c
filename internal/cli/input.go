package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/eshaffer321/inventory-allocator/internal/domain/allocator"
)

// AllocationInput is the file format read by the allocate command.
// JSON is accepted too since the YAML decoder understands it.
//
//	order:
//	  apple: 2
//	warehouses:
//	  - name: owd
//	    inventory: {apple: 1}
type AllocationInput struct {
	Order      allocator.ItemQuantities `yaml:"order"`
	Warehouses []allocator.Warehouse    `yaml:"warehouses"`
}

// ErrEmptyInput is returned when the request document is blank.
var ErrEmptyInput = errors.New("allocation request is empty")

// ReadInput decodes an allocation request from r.
func ReadInput(r io.Reader) (*AllocationInput, error) {
	var input AllocationInput
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&input); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyInput
		}
		return nil, fmt.Errorf("failed to parse allocation request: %w", err)
	}
	return &input, nil
}

// LoadInput reads the request from path, or from stdin when path is "-".
func LoadInput(path string, stdin io.Reader) (*AllocationInput, error) {
	if path == "-" || path == "" {
		return ReadInput(stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return ReadInput(f)
}
