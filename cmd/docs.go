package cmd

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// https://pmarsceill.github.io/just-the-docs/docs/navigation-structure/
const rootDoc = `---
layout: default
title: %s
nav_order: %d
permalink: /
---
`

// meta is for describing the position/info for a command doc page
type meta struct {
	title    string
	navOrder int
}

// map from the base Markdown file name to its build meta
var metaMap = map[string]meta{
	"shregeas": {
		"shregeas",
		0,
	},
}

// newDocsCmd is for generating the Markdown docs of every command
func newDocsCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "docs [dir]",
		Short:  "Write Markdown documentation for the command line to a directory",
		Hidden: true,
		Args:   cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := makeDocs(cmd.Root(), args[0]); err != nil {
				return fmt.Errorf("failed to write docs: %w", err)
			}
			return nil
		},
	}
}

// makeDocs parses the custom commands and outputs Markdown documentation files
func makeDocs(root *cobra.Command, dir string) error {
	root.DisableAutoGenTag = true
	return doc.GenMarkdownTreeCustom(root, dir, filePrepender, linkHandler)
}

// filePrepender adds YAML headings that are required by the just-the-docs theme
// https://github.com/spf13/cobra/blob/master/doc/md_docs.md
func filePrepender(filename string) string {
	name := filepath.Base(filename)
	base := strings.TrimSuffix(name, path.Ext(name))
	m, ok := metaMap[base]
	if !ok {
		return ""
	}
	return fmt.Sprintf(rootDoc, m.title, m.navOrder)
}

// linkHandler returns the URL to a documentation page
func linkHandler(filename string) string {
	name := filepath.Base(filename)
	base := strings.TrimSuffix(name, path.Ext(name))

	if base == "shregeas" {
		return "/"
	}
	return base
}
