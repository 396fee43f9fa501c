// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/CruzerUzer/potterytracker/lib/schema"
)

// summaryRenderer converts the generated Markdown to HTML. GFM for
// tables; the configuration never changes, so one instance is shared.
var summaryRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// renderSummary produces the optional human-readable summary document
// for an export: an HTML page listing the potter's stages, materials,
// and items. The packer treats any failure here as "export without a
// summary", never as an export failure.
func renderSummary(potter schema.Potter, stages []schema.Stage, materials []schema.Material, items []schema.Item, photos []schema.Photo) ([]byte, error) {
	var md strings.Builder

	fmt.Fprintf(&md, "# Workshop export: %s\n\n", potter.Name)
	fmt.Fprintf(&md, "%d stages · %d materials · %d items · %d photos\n\n",
		len(stages), len(materials), len(items), len(photos))

	if len(stages) > 0 {
		md.WriteString("## Workflow stages\n\n")
		for i, stage := range stages {
			fmt.Fprintf(&md, "%d. %s\n", i+1, stage.Name)
		}
		md.WriteString("\n")
	}

	if len(materials) > 0 {
		md.WriteString("## Materials\n\n")
		md.WriteString("| Name | Kind | Notes |\n|---|---|---|\n")
		for _, material := range materials {
			fmt.Fprintf(&md, "| %s | %s | %s |\n",
				tableCell(material.Name), tableCell(material.Kind), tableCell(material.Notes))
		}
		md.WriteString("\n")
	}

	if len(items) > 0 {
		stageNames := make(map[int64]string, len(stages))
		for _, stage := range stages {
			stageNames[stage.ID] = stage.Name
		}

		md.WriteString("## Items\n\n")
		md.WriteString("| Name | Stage | Created | Notes |\n|---|---|---|---|\n")
		for _, item := range items {
			stageName := ""
			if item.StageID != nil {
				stageName = stageNames[*item.StageID]
			}
			fmt.Fprintf(&md, "| %s | %s | %s | %s |\n",
				tableCell(item.Name), tableCell(stageName), item.CreatedAt, tableCell(item.Notes))
		}
		md.WriteString("\n")
	}

	var body bytes.Buffer
	if err := summaryRenderer.Convert([]byte(md.String()), &body); err != nil {
		return nil, fmt.Errorf("archive: rendering summary: %w", err)
	}

	var page bytes.Buffer
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>Workshop export: %s</title></head>\n<body>\n", potter.Name)
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// tableCell escapes the characters that would break a Markdown table
// row.
func tableCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
