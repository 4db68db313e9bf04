// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Block is one tikzpicture environment encountered while scanning a document.
type Block struct {
	// Index is the 0-based position of the block among all blocks in the document.
	Index int `json:"index" yaml:"index"`

	// Name is the explicit name from a preceding "%%% name" line, empty if none.
	Name string `json:"name" yaml:"name"`

	// Included reports whether the selection kept this block.
	Included bool `json:"included" yaml:"included"`
}

// Artifact is a per-figure PDF produced by the compiler. Index is the
// emission order among included blocks, not the original block index.
type Artifact struct {
	Index int    `json:"index" yaml:"index"`
	Path  string `json:"path" yaml:"path"`
}

// ResolvedOutput is the final file stem and extension chosen for an artifact.
type ResolvedOutput struct {
	Stem string `json:"stem" yaml:"stem"`
	Ext  string `json:"ext" yaml:"ext"`
}

// Filename returns stem+ext.
func (r ResolvedOutput) Filename() string {
	return r.Stem + r.Ext
}

// ExportStatus indicates the outcome of exporting a single figure.
type ExportStatus string

const (
	ExportDone   ExportStatus = "exported"
	ExportFailed ExportStatus = "failed"
)

// ExportRecord describes one exported figure. It is what the manifest stores.
type ExportRecord struct {
	RunID      string       `json:"run_id" yaml:"run_id"`
	Source     string       `json:"source" yaml:"source"`
	Index      int          `json:"index" yaml:"index"`
	Name       string       `json:"name" yaml:"name"`
	Output     string       `json:"output" yaml:"output"`
	Format     string       `json:"format" yaml:"format"`
	Status     ExportStatus `json:"status" yaml:"status"`
	Error      string       `json:"error,omitempty" yaml:"error,omitempty"`
	ExportedAt time.Time    `json:"exported_at" yaml:"exported_at"`
}
