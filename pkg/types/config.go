// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrUnknownFormat is returned when a requested output format is not one of
// the recognized extensions.
var ErrUnknownFormat = errors.New("unknown output format")

// Format is an output file extension including the leading dot.
type Format string

const (
	FormatPDF Format = ".pdf"
	FormatEPS Format = ".eps"
	FormatSVG Format = ".svg"
)

// Formats lists the recognized output formats.
var Formats = []Format{FormatPDF, FormatEPS, FormatSVG}

// ParseFormat accepts "pdf", ".pdf" (case-insensitive, surrounding spaces
// ignored) and returns the matching Format.
func ParseFormat(s string) (Format, error) {
	f := strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(f, ".") {
		f = "." + f
	}
	for _, known := range Formats {
		if Format(f) == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w %q: use pdf, eps, or svg", ErrUnknownFormat, s)
}

// Name returns the format without the leading dot.
func (f Format) Name() string {
	return strings.TrimPrefix(string(f), ".")
}

// Backend selects where the TeX and conversion tools run.
type Backend string

const (
	BackendLocal     Backend = "local"
	BackendContainer Backend = "container"
)

// DefaultImage is the container image used by the container backend.
const DefaultImage = "texlive/texlive:latest"

// ExportConfig holds settings for an export run.
type ExportConfig struct {
	// Input is the path of the LaTeX source document.
	Input string `json:"input" yaml:"input"`

	// Prefix is the stem used for unnamed figures (default "<input base>-figure").
	Prefix string `json:"prefix" yaml:"prefix"`

	// Dest is the destination folder for exported figures (default ".").
	Dest string `json:"dest" yaml:"dest"`

	// Format is the default output format for figures without an explicit extension.
	Format Format `json:"format" yaml:"format"`

	// Figures keeps only the listed figure indices. Empty keeps all.
	Figures []int `json:"figures,omitempty" yaml:"figures,omitempty"`

	// Names keeps only figures whose name matches one of these glob patterns.
	Names []string `json:"names,omitempty" yaml:"names,omitempty"`

	// Backend selects the toolchain: local or container.
	Backend Backend `json:"backend" yaml:"backend"`

	// Image is the container image for the container backend.
	Image string `json:"image,omitempty" yaml:"image,omitempty"`

	// KeepWorkDir leaves the compilation directory in place after the run.
	KeepWorkDir bool `json:"keep_work_dir" yaml:"keep_work_dir"`

	// Manifest is the path of the SQLite export history. Empty disables it.
	Manifest string `json:"manifest,omitempty" yaml:"manifest,omitempty"`
}

// Validate checks the config before any processing happens.
func (c ExportConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Input, validation.Required),
		validation.Field(&c.Dest, validation.Required),
		validation.Field(&c.Format, validation.Required, validation.In(FormatPDF, FormatEPS, FormatSVG)),
		validation.Field(&c.Backend, validation.Required, validation.In(BackendLocal, BackendContainer)),
		validation.Field(&c.Image, validation.When(c.Backend == BackendContainer, validation.Required)),
		validation.Field(&c.Figures, validation.Each(validation.Min(0))),
	)
}
