// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package figures extracts tikzpicture blocks from a LaTeX document,
// filters them by index or name, and resolves the output filename of every
// figure the compiler produces.
package figures

import (
	"regexp"
	"strings"

	"github.com/pdiddy/tikz-export/pkg/types"
)

// NameDirective is the line prefix that names the next tikzpicture.
const NameDirective = "%%% "

// Preamble is injected right before \begin{document}. It makes TikZ
// externalize every picture into <jobname>-figure<N>.pdf.
const Preamble = "\\usetikzlibrary{external}\n" +
	"\\tikzset{external/system call={pdflatex \\tikzexternalcheckshellescape" +
	"-halt-on-error -interaction=batchmode -jobname \"\\image\" \"\\texsource\"" +
	"}}\n" +
	"\\tikzexternalize[shell escape=-enable-write18]\n"

var (
	beginDocumentRe = regexp.MustCompile(`^\s*\\begin\s*\{\s*document\s*\}`)
	endDocumentRe   = regexp.MustCompile(`^\s*\\end\s*\{\s*document\s*\}`)
	beginPictureRe  = regexp.MustCompile(`^\s*\\begin\s*\{\s*tikzpicture\s*\}`)

	// Inside a block, markers count wherever they appear on the line.
	nestedBeginRe = regexp.MustCompile(`\\begin\s*\{\s*tikzpicture\s*\}`)
	nestedEndRe   = regexp.MustCompile(`\\end\s*\{\s*tikzpicture\s*\}`)
)

// Predicate decides whether the block at index with the given name is kept.
type Predicate func(index int, name string) bool

// All keeps every block.
func All(int, string) bool { return true }

// None drops every block.
func None(int, string) bool { return false }

// Result is the output of Filter.
type Result struct {
	// Lines is the filtered document, one entry per line without newlines.
	Lines []string

	// Names holds the name of every emitted block in emission order.
	Names []string

	// Blocks lists every block encountered, included or not.
	Blocks []types.Block

	// Terminated reports whether \end{document} was seen.
	Terminated bool
}

// Text joins Lines into a newline-terminated document.
func (r Result) Text() string {
	if len(r.Lines) == 0 {
		return ""
	}
	return strings.Join(r.Lines, "\n") + "\n"
}

type mode int

const (
	beforeBody mode = iota
	inBody
	inBlock
)

// scanState is everything carried from one line to the next.
type scanState struct {
	mode     mode
	next     int    // index of the next block
	pending  string // name waiting for the next block
	included bool   // whether the current block is emitted
	depth    int    // unmatched begin markers, the block's own included
}

// closeIfBalanced leaves the current block once every begin marker seen
// in it has been matched by an end marker.
func (s *scanState) closeIfBalanced() {
	if s.depth > 0 {
		return
	}
	s.mode = inBody
	s.included = false
	s.depth = 0
}

// emitting reports whether an ordinary line is copied to the output.
func (s scanState) emitting() bool {
	return s.mode != inBlock || s.included
}

// Filter scans lines once and returns the filtered document. Every block
// gets the next index whether or not include keeps it, so index filters are
// stable. Scanning stops after \end{document}; when it is missing the whole
// input is processed.
func Filter(lines []string, include Predicate) Result {
	if include == nil {
		include = All
	}

	var res Result
	var st scanState

	for _, line := range lines {
		if strings.HasPrefix(line, NameDirective) {
			st.pending = strings.TrimSpace(line[len(NameDirective):])
			continue
		}

		switch st.mode {
		case beforeBody:
			if beginDocumentRe.MatchString(line) {
				res.Lines = append(res.Lines, strings.Split(strings.TrimSuffix(Preamble, "\n"), "\n")...)
				st.mode = inBody
			}
			res.Lines = append(res.Lines, line)
			continue

		case inBody:
			if beginPictureRe.MatchString(line) {
				b := types.Block{Index: st.next, Name: st.pending}
				st.next++
				st.pending = ""
				b.Included = include(b.Index, b.Name)
				res.Blocks = append(res.Blocks, b)

				st.mode = inBlock
				st.included = b.Included
				st.depth = 1 + nesting(line[len(beginPictureRe.FindString(line)):])
				if b.Included {
					res.Names = append(res.Names, b.Name)
					res.Lines = append(res.Lines, line)
				}
				st.closeIfBalanced()
				continue
			}

		case inBlock:
			if nestedBeginRe.MatchString(line) || nestedEndRe.MatchString(line) {
				if st.included {
					res.Lines = append(res.Lines, line)
				}
				st.depth += nesting(line)
				st.closeIfBalanced()
				continue
			}
		}

		if endDocumentRe.MatchString(line) {
			res.Lines = append(res.Lines, line)
			res.Terminated = true
			return res
		}

		if st.emitting() {
			res.Lines = append(res.Lines, line)
		}
	}

	return res
}

// nesting is the number of tikzpicture begin markers on line minus the
// number of end markers.
func nesting(line string) int {
	return len(nestedBeginRe.FindAllStringIndex(line, -1)) - len(nestedEndRe.FindAllStringIndex(line, -1))
}

// SplitLines splits document text into lines, dropping line terminators.
// A trailing newline does not produce an empty final line.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
