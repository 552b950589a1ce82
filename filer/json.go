// Package filer persists arbitrary values to and from disk. jobs/schedulefile.go
// uses it to load the declarative schedule definitions the scheduler replays
// on startup.
package filer

import (
	"encoding/json"
	"os"

	"infracore/errkind"
)

// JsonFiler saves and loads a value as a JSON file.
type JsonFiler interface {
	Save(name string, i any) error
	Load(name string, in any) error
}

type jsonFiler struct{}

// NewJsonLoader returns the JSON-backed JsonFiler implementation.
func NewJsonLoader() JsonFiler {
	return &jsonFiler{}
}

// Save marshals i to JSON and writes it to name, truncating any existing
// contents. Intended for the small, infrequently-written configuration and
// schedule files this module deals with, not bulk data — a streaming encoder
// would be the better fit past a few tens of megabytes.
func (e jsonFiler) Save(name string, i any) error {
	b, err := json.Marshal(i)
	if err != nil {
		return errkind.Wrap(errkind.Serialization, err, "filer: marshal to JSON")
	}

	if err := os.WriteFile(name, b, 0o644); err != nil {
		return errkind.Wrap(errkind.Transport, err, "filer: write file "+name)
	}

	return nil
}

// Load reads name and unmarshals its JSON contents into in.
func (e jsonFiler) Load(name string, in any) error {
	b, err := os.ReadFile(name)
	if err != nil {
		return errkind.Wrap(errkind.Transport, err, "filer: read file "+name)
	}

	if err := json.Unmarshal(b, in); err != nil {
		return errkind.Wrap(errkind.Serialization, err, "filer: unmarshal JSON from "+name)
	}

	return nil
}
