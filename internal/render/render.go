// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render writes records into a two-column XLSX workbook with a fixed
// layout: bold topic column, a thin bottom rule under every cell, and fixed
// column widths.
package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/topicsheet/pkg/types"
)

const (
	// SheetName is the single worksheet in every workbook.
	SheetName = "Sheet1"

	HeaderTopic       = "Topic"
	HeaderDescription = "Description"

	// TopicWidth and DescriptionWidth are column widths in character units.
	TopicWidth       = 30.0
	DescriptionWidth = 50.0

	// borderThin is excelize's style index for a thin continuous line.
	borderThin = 1
)

func bottomRule() []excelize.Border {
	return []excelize.Border{{Type: "bottom", Color: "000000", Style: borderThin}}
}

// Render builds the workbook in memory and returns its bytes. An empty
// records slice produces a workbook holding only the header row.
func Render(records []types.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// The header row is bold in both columns; data rows only in the topic column.
	bold, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: bottomRule(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating bold style: %w", err)
	}
	plain, err := f.NewStyle(&excelize.Style{Border: bottomRule()})
	if err != nil {
		return nil, fmt.Errorf("creating plain style: %w", err)
	}

	if err := writeRow(f, 1, HeaderTopic, HeaderDescription, bold, bold); err != nil {
		return nil, err
	}
	for i, r := range records {
		if err := writeRow(f, i+2, r.Topic, r.Description, bold, plain); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", TopicWidth); err != nil {
		return nil, fmt.Errorf("setting topic column width: %w", err)
	}
	if err := f.SetColWidth(SheetName, "B", "B", DescriptionWidth); err != nil {
		return nil, fmt.Errorf("setting description column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encoding workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// writeRow writes one two-cell row (1-based) and applies a style to each cell.
func writeRow(f *excelize.File, row int, topic, desc string, topicStyle, descStyle int) error {
	a, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	b, err := excelize.CoordinatesToCellName(2, row)
	if err != nil {
		return err
	}

	if err := f.SetCellStr(SheetName, a, topic); err != nil {
		return fmt.Errorf("writing %s: %w", a, err)
	}
	if err := f.SetCellStr(SheetName, b, desc); err != nil {
		return fmt.Errorf("writing %s: %w", b, err)
	}
	if err := f.SetCellStyle(SheetName, a, a, topicStyle); err != nil {
		return fmt.Errorf("styling %s: %w", a, err)
	}
	if err := f.SetCellStyle(SheetName, b, b, descStyle); err != nil {
		return fmt.Errorf("styling %s: %w", b, err)
	}
	return nil
}
