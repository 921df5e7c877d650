package deck

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vytor/econgraph/internal/logger"
	"github.com/vytor/econgraph/internal/models"
	"github.com/xuri/excelize/v2"
)

// Sheet names of a spreadsheet deck. Every sheet has a header row.
const (
	SheetCards       = "Cards"
	SheetKeyElements = "KeyElements"
	SheetSteps       = "Steps"
)

// Cards columns: id, title, question, answer_image, explanation, base_image.
// KeyElements columns: card_id, element, description.
// Steps columns: card_id, step, action, type, path, image, stroke_color,
// stroke_width, x, y, label, explanation.

// LoadXLSX builds a deck from a workbook. The KeyElements and Steps sheets
// are optional.
func LoadXLSX(path string) (*Deck, error) {
	log := logger.Default().WithPrefix("deck")

	f, err := excelize.OpenFile(path)
	if err != nil {
		log.Error("failed to open workbook: %v", err)
		return nil, fmt.Errorf("deck: open workbook: %w", err)
	}
	defer f.Close()

	cardRows, err := f.GetRows(SheetCards)
	if err != nil {
		return nil, fmt.Errorf("deck: read %s sheet: %w", SheetCards, err)
	}

	var graphs []models.Graph
	index := map[int]int{}
	for i, row := range dataRows(cardRows) {
		id, err := strconv.Atoi(cell(row, 0))
		if err != nil {
			return nil, fmt.Errorf("deck: %s row %d: invalid id %q", SheetCards, i+2, cell(row, 0))
		}
		g := models.Graph{
			ID:    id,
			Title: cell(row, 1),
			Practice: models.PracticeData{
				Question:    cell(row, 2),
				AnswerImage: cell(row, 3),
				Explanation: cell(row, 4),
			},
		}
		if base := cell(row, 5); base != "" {
			g.Study = &models.StudyData{BaseImage: base}
		}
		index[id] = len(graphs)
		graphs = append(graphs, g)
	}

	if rows, ok := optionalRows(f, SheetKeyElements); ok {
		for i, row := range dataRows(rows) {
			gi, err := owner(index, row, SheetKeyElements, i)
			if err != nil {
				return nil, err
			}
			graphs[gi].Practice.KeyElements = append(graphs[gi].Practice.KeyElements, models.KeyElement{
				Element:     cell(row, 1),
				Description: cell(row, 2),
			})
		}
	}

	if rows, ok := optionalRows(f, SheetSteps); ok {
		for i, row := range dataRows(rows) {
			gi, err := owner(index, row, SheetSteps, i)
			if err != nil {
				return nil, err
			}
			step, err := parseStep(row)
			if err != nil {
				return nil, fmt.Errorf("deck: %s row %d: %w", SheetSteps, i+2, err)
			}
			if graphs[gi].Study == nil {
				return nil, fmt.Errorf("deck: %s row %d: card %d has steps but no base_image", SheetSteps, i+2, graphs[gi].ID)
			}
			graphs[gi].Study.Steps = append(graphs[gi].Study.Steps, step)
		}
	}

	for _, g := range graphs {
		if g.Study != nil {
			sort.SliceStable(g.Study.Steps, func(a, b int) bool {
				return g.Study.Steps[a].Step < g.Study.Steps[b].Step
			})
		}
	}

	log.Debug("workbook parsed: %d graphs", len(graphs))
	return New(graphs)
}

func parseStep(row []string) (models.StepRecord, error) {
	s := models.StepRecord{
		Action:      models.StepAction(strings.ToLower(cell(row, 2))),
		Type:        models.Geometry(strings.ToLower(cell(row, 3))),
		Path:        cell(row, 4),
		Image:       cell(row, 5),
		StrokeColor: cell(row, 6),
		Label:       cell(row, 10),
		Explanation: cell(row, 11),
	}
	n, err := strconv.Atoi(cell(row, 1))
	if err != nil {
		return s, fmt.Errorf("invalid step %q", cell(row, 1))
	}
	s.Step = n
	if s.StrokeWidth, err = optionalFloat(cell(row, 7)); err != nil {
		return s, fmt.Errorf("invalid stroke_width: %w", err)
	}
	if s.X, err = optionalFloat(cell(row, 8)); err != nil {
		return s, fmt.Errorf("invalid x: %w", err)
	}
	if s.Y, err = optionalFloat(cell(row, 9)); err != nil {
		return s, fmt.Errorf("invalid y: %w", err)
	}
	return s, nil
}

func owner(index map[int]int, row []string, sheet string, i int) (int, error) {
	id, err := strconv.Atoi(cell(row, 0))
	if err != nil {
		return 0, fmt.Errorf("deck: %s row %d: invalid card_id %q", sheet, i+2, cell(row, 0))
	}
	gi, ok := index[id]
	if !ok {
		return 0, fmt.Errorf("deck: %s row %d: unknown card_id %d", sheet, i+2, id)
	}
	return gi, nil
}

func optionalRows(f *excelize.File, sheet string) ([][]string, bool) {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, false
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, false
	}
	return rows, true
}

// dataRows drops the header row and blank rows.
func dataRows(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	out := make([][]string, 0, len(rows)-1)
	for _, r := range rows[1:] {
		if cell(r, 0) == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// cell tolerates short rows; GetRows trims trailing empty cells.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func optionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
