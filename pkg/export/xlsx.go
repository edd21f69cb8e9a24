package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/procflow/procflow/pkg/discovery"
)

// WriteXLSX writes the discovery artifacts to an Excel workbook with
// Traces, Footprint and Transitions sheets.
func WriteXLSX(path string, res *discovery.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Traces"); err != nil {
		return err
	}
	if err := writeTraces(f, res); err != nil {
		return err
	}
	if err := writeFootprint(f, res.Footprint); err != nil {
		return err
	}
	if err := writeTransitions(f, res); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func writeTraces(f *excelize.File, res *discovery.Result) error {
	header := []interface{}{"Sequence", "Count", "Frequency"}
	if err := f.SetSheetRow("Traces", "A1", &header); err != nil {
		return err
	}
	for i, t := range res.Traces.Traces {
		row := []interface{}{strings.Join(t.Activities, " ; "), t.Count, t.Frequency}
		if err := f.SetSheetRow("Traces", fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func writeFootprint(f *excelize.File, m *discovery.FootprintMatrix) error {
	if _, err := f.NewSheet("Footprint"); err != nil {
		return err
	}
	header := make([]interface{}, 0, len(m.Activities)+1)
	header = append(header, "")
	for _, a := range m.Activities {
		header = append(header, a)
	}
	if err := f.SetSheetRow("Footprint", "A1", &header); err != nil {
		return err
	}
	for i, a := range m.Activities {
		row := make([]interface{}, 0, len(m.Activities)+1)
		row = append(row, a)
		for _, o := range m.Activities {
			row = append(row, m.Relation(a, o).String())
		}
		if err := f.SetSheetRow("Footprint", fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func writeTransitions(f *excelize.File, res *discovery.Result) error {
	if _, err := f.NewSheet("Transitions"); err != nil {
		return err
	}
	header := []interface{}{"Inputs", "Outputs", "Relation", "Maximal"}
	if err := f.SetSheetRow("Transitions", "A1", &header); err != nil {
		return err
	}

	maximal := make(map[string]bool, len(res.Maximal))
	key := func(t discovery.Transition) string {
		return strings.Join(t.Inputs, ",") + "|" + strings.Join(t.Outputs, ",") + "|" + t.Relation.String()
	}
	for _, t := range res.Maximal {
		maximal[key(t)] = true
	}

	for i, t := range res.Transitions {
		row := []interface{}{
			strings.Join(t.Inputs, " ; "),
			strings.Join(t.Outputs, " ; "),
			t.Relation.String(),
			maximal[key(t)],
		}
		if err := f.SetSheetRow("Transitions", fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}
