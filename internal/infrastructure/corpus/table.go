package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/fir-intake/internal/core/domain"
)

// ReadTable loads a raw statute table, dispatching on file extension.
// The first row is treated as a header when its first cell reads
// "section"; missing descriptions become empty strings, mirroring how
// the build pipeline treats sparse source tables.
func ReadTable(path string) ([]domain.StatuteSection, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSVTable(path)
	case ".xlsx":
		return readXLSXTable(path)
	default:
		return nil, fmt.Errorf("unsupported statute table format %q", filepath.Ext(path))
	}
}

func readCSVTable(path string) ([]domain.StatuteSection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open statute table: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var sections []domain.StatuteSection
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read statute table row: %w", err)
		}
		if first {
			first = false
			if isHeaderRow(record) {
				continue
			}
		}
		sections = append(sections, rowToSection(record))
	}
	return sections, nil
}

func readXLSXTable(path string) ([]domain.StatuteSection, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open statute workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("statute workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read statute workbook rows: %w", err)
	}

	var sections []domain.StatuteSection
	for i, row := range rows {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		if len(row) == 0 {
			continue
		}
		sections = append(sections, rowToSection(row))
	}
	return sections, nil
}

func isHeaderRow(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "section")
}

func rowToSection(record []string) domain.StatuteSection {
	section := domain.StatuteSection{}
	if len(record) > 0 {
		section.SectionID = strings.TrimSpace(record[0])
	}
	if len(record) > 1 {
		section.Description = strings.TrimSpace(record[1])
	}
	return section
}
