package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadCSVTableSkipsHeaderAndFillsMissingDescriptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statutes.csv")
	content := "Section,Description\nS1,theft of property\nS2,\nS3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	sections, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}
	if sections[0].SectionID != "S1" || sections[0].Description != "theft of property" {
		t.Fatalf("unexpected first row: %+v", sections[0])
	}
	if sections[1].Description != "" || sections[2].Description != "" {
		t.Fatalf("missing descriptions should be empty strings: %+v", sections[1:])
	}
}

func TestReadCSVTableWithoutHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statutes.csv")
	if err := os.WriteFile(path, []byte("S1,first\nS2,second\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	sections, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
}

func TestReadXLSXTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statutes.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := [][]string{
		{"Section", "Description"},
		{"S1", "criminal trespass"},
		{"S2", "robbery"},
	}
	for r, row := range cells {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}

	sections, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[1].SectionID != "S2" || sections[1].Description != "robbery" {
		t.Fatalf("unexpected second row: %+v", sections[1])
	}
}

func TestReadTableRejectsUnknownFormat(t *testing.T) {
	if _, err := ReadTable("statutes.parquet"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
