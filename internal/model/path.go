// Package model defines the data structures shared by the pyright pipeline.
package model

// Path represents a file system path.
type Path string

// VenvStatus describes the isolated dependency environment of a project.
// It is re-derived on every request and never cached, since environments
// can change between calls.
type VenvStatus struct {
	Exists    bool
	Path      Path
	Activated bool
}
