package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Request describes one document assembly. Files are root-relative paths of
// the selected leaves, in tree order.
type Request struct {
	Root        string
	Files       []string
	Instruction string

	IncludeTaskType bool
	TaskTypeName    string
	TaskTypeBody    string

	IncludePreset bool
	PresetName    string
	PresetBody    string
}

// Document is an assembled prompt plus bookkeeping for the status line.
type Document struct {
	Text      string
	FileCount int
	Skipped   []string // files that could not be read
}

// Assemble concatenates the enabled blocks, the instruction, and the
// selected file contents into a single document. File reads are
// best-effort: a failed read is logged and the file skipped, never fatal.
func Assemble(req Request, logger *zap.Logger) Document {
	if logger == nil {
		logger = zap.NewNop()
	}

	var sections []string

	if req.IncludeTaskType && req.TaskTypeName != "" {
		sections = append(sections, fmt.Sprintf("<!-- Tasktype: %s -->", req.TaskTypeName))
		sections = append(sections, req.TaskTypeBody)
	}

	sections = append(sections, "<!-- Task Instruction -->")
	sections = append(sections, req.Instruction)

	var doc Document
	var files []string
	for _, rel := range req.Files {
		content, err := os.ReadFile(filepath.Join(req.Root, rel))
		if err != nil {
			logger.Warn("skipping unreadable file", zap.String("file", rel), zap.Error(err))
			doc.Skipped = append(doc.Skipped, rel)
			continue
		}
		files = append(files, fmt.Sprintf("<!-- %s -->\n%s\n<!-- end of %s -->", rel, strings.TrimSuffix(string(content), "\n"), rel))
		doc.FileCount++
	}
	if len(files) > 0 {
		sections = append(sections, "<!-- Selected Files -->")
		sections = append(sections, strings.Join(files, "\n\n"))
	}

	if req.IncludePreset && req.PresetName != "" {
		sections = append(sections, fmt.Sprintf("<!-- Preset: %s -->", req.PresetName))
		sections = append(sections, req.PresetBody)
	}

	doc.Text = strings.Join(sections, "\n\n")
	return doc
}
