package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkozlov/sheetchart/internal/chart"
	"github.com/mkozlov/sheetchart/internal/sheet"
)

func asModel(t *testing.T, tm tea.Model) Model {
	t.Helper()
	m, ok := tm.(Model)
	if !ok {
		t.Fatalf("Update returned %T; want Model", tm)
	}
	return m
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func testDataset(fields ...string) sheet.Dataset {
	row := make(sheet.Row, len(fields))
	for i, f := range fields {
		row[f] = sheet.Number(float64(i + 1))
	}
	return sheet.Dataset{Fields: fields, Rows: []sheet.Row{row}}
}

// loaded drives a model through one successful load.
func loaded(t *testing.T, ds sheet.Dataset, name string) Model {
	t.Helper()
	m := InitialModel()
	m, _ = m.startLoad(name)
	tm, _ := m.Update(dataLoadedMsg{seq: m.loadSeq, name: name, dataset: ds})
	return asModel(t, tm)
}

func TestLoadInstallsDefaults(t *testing.T) {
	m := loaded(t, testDataset("Month", "Sales", "Region"), "report.csv")

	if m.state != stateBrowse {
		t.Fatalf("state = %v; want stateBrowse", m.state)
	}
	if m.fileName != "report.csv" {
		t.Errorf("fileName = %q; want report.csv", m.fileName)
	}
	if m.binding.X != "Month" || m.binding.Y != "Sales" {
		t.Errorf("binding = %+v; want x=Month y=Sales", m.binding)
	}
	if m.summary == nil {
		t.Error("summary = nil; want computed for the default y field")
	}
	if m.toast != toastLoaded {
		t.Errorf("toast = %q; want %q", m.toast, toastLoaded)
	}
}

func TestLoadSingleFieldLeavesYUnset(t *testing.T) {
	m := loaded(t, testDataset("Only"), "one.csv")

	if m.binding.X != "Only" || m.binding.Y != "" {
		t.Errorf("binding = %+v; want x=Only, y unset", m.binding)
	}
	if m.summary != nil {
		t.Error("summary computed with y unset; want suppressed")
	}
	if m.data.Points != nil || m.data.Slices != nil {
		t.Error("projection computed with y unset; want suppressed")
	}
}

func TestStaleDecodeRejection(t *testing.T) {
	m := InitialModel()
	m, _ = m.startLoad("a.csv") // seq 1
	m, _ = m.startLoad("b.csv") // seq 2, issued before a.csv resolved

	dsA := testDataset("FromA", "ValA")
	dsB := testDataset("FromB", "ValB")

	// b.csv resolves first.
	tm, _ := m.Update(dataLoadedMsg{seq: 2, name: "b.csv", dataset: dsB})
	m = asModel(t, tm)

	// a.csv resolves late and must be discarded.
	tm, _ = m.Update(dataLoadedMsg{seq: 1, name: "a.csv", dataset: dsA})
	m = asModel(t, tm)

	if m.fileName != "b.csv" {
		t.Errorf("fileName = %q; want b.csv (last issued load wins)", m.fileName)
	}
	if m.binding.X != "FromB" {
		t.Errorf("binding.X = %q; want FromB", m.binding.X)
	}
}

func TestStaleDecodeWhileLoading(t *testing.T) {
	m := InitialModel()
	m, _ = m.startLoad("a.csv") // seq 1
	m, _ = m.startLoad("b.csv") // seq 2

	// a.csv resolves while b.csv is still decoding; nothing may change.
	tm, _ := m.Update(dataLoadedMsg{seq: 1, name: "a.csv", dataset: testDataset("A", "B")})
	m = asModel(t, tm)

	if m.state != stateLoading {
		t.Errorf("state = %v; want still stateLoading", m.state)
	}
	if !m.dataset.Empty() {
		t.Error("stale decode installed rows")
	}
}

func TestParseFailureIsolation(t *testing.T) {
	m := loaded(t, testDataset("Month", "Sales"), "good.csv")

	m, _ = m.startLoad("bad.csv")
	tm, _ := m.Update(dataLoadedMsg{seq: m.loadSeq, name: "bad.csv", err: errors.New("boom")})
	m = asModel(t, tm)

	if m.state != stateBrowse {
		t.Errorf("state = %v; want stateBrowse with prior data", m.state)
	}
	if m.fileName != "good.csv" {
		t.Errorf("fileName = %q; want good.csv untouched", m.fileName)
	}
	if m.binding.X != "Month" || m.binding.Y != "Sales" {
		t.Errorf("binding = %+v; want untouched", m.binding)
	}
	if len(m.dataset.Rows) != 1 {
		t.Errorf("rows = %d; want prior rows untouched", len(m.dataset.Rows))
	}
	if m.toast != toastLoadFailed || !m.toastErr {
		t.Errorf("toast = %q (err=%v); want failure toast", m.toast, m.toastErr)
	}
}

func TestParseFailureWithoutPriorData(t *testing.T) {
	m := InitialModel()
	m, _ = m.startLoad("bad.csv")
	tm, _ := m.Update(dataLoadedMsg{seq: m.loadSeq, name: "bad.csv", err: errors.New("boom")})
	m = asModel(t, tm)

	if m.state != stateFilePicker {
		t.Errorf("state = %v; want back at the file picker", m.state)
	}
}

func TestEmptySourceIsNoOp(t *testing.T) {
	m := loaded(t, testDataset("Month", "Sales"), "good.csv")

	m, _ = m.startLoad("empty.csv")
	tm, _ := m.Update(dataLoadedMsg{seq: m.loadSeq, name: "empty.csv", dataset: sheet.Dataset{}})
	m = asModel(t, tm)

	if m.fileName != "good.csv" || len(m.dataset.Rows) != 1 {
		t.Error("empty decode replaced prior data; want no-op")
	}
	if m.toast != toastEmpty || m.toastErr {
		t.Errorf("toast = %q (err=%v); want neutral empty-file notice", m.toast, m.toastErr)
	}
}

func TestAxisCycling(t *testing.T) {
	m := loaded(t, testDataset("A", "B", "C"), "f.csv")

	tm, _ := m.Update(keyPress('x'))
	m = asModel(t, tm)
	if m.binding.X != "B" {
		t.Errorf("binding.X = %q after one cycle; want B", m.binding.X)
	}

	tm, _ = m.Update(keyPress('x'))
	m = asModel(t, tm)
	tm, _ = m.Update(keyPress('x'))
	m = asModel(t, tm)
	if m.binding.X != "A" {
		t.Errorf("binding.X = %q after full cycle; want wrap to A", m.binding.X)
	}

	tm, _ = m.Update(keyPress('y'))
	m = asModel(t, tm)
	if m.binding.Y != "C" {
		t.Errorf("binding.Y = %q; want C", m.binding.Y)
	}
}

func TestCycleYBindsUnsetAxis(t *testing.T) {
	m := loaded(t, testDataset("Only"), "one.csv")

	tm, _ := m.Update(keyPress('y'))
	m = asModel(t, tm)
	if m.binding.Y != "Only" {
		t.Errorf("binding.Y = %q; want Only", m.binding.Y)
	}
	if m.summary == nil {
		t.Error("summary still suppressed after binding y")
	}
}

func TestStyleCycleKeepsBinding(t *testing.T) {
	m := loaded(t, testDataset("A", "B"), "f.csv")
	before := m.binding

	tm, _ := m.Update(keyPress('s'))
	m = asModel(t, tm)

	if m.style != chart.StyleCategorical {
		t.Errorf("style = %v; want bar after one cycle", m.style)
	}
	if m.binding != before {
		t.Errorf("binding changed on style cycle: %+v -> %+v", before, m.binding)
	}
	if m.data.Style != chart.StyleCategorical {
		t.Errorf("projection style = %v; want recomputed", m.data.Style)
	}
}

func TestExportGuard(t *testing.T) {
	// No rows loaded: the export key must be a no-op.
	m := InitialModel()
	m.state = stateBrowse
	_, cmd := m.exportChart()
	if cmd != nil {
		t.Error("export issued with no rows loaded")
	}

	// Rows loaded but y unset: still a no-op.
	m = loaded(t, testDataset("Only"), "one.csv")
	_, cmd = m.exportChart()
	if cmd != nil {
		t.Error("export issued with y unset")
	}
}

func TestExportToasts(t *testing.T) {
	m := loaded(t, testDataset("A", "B"), "f.csv")

	tm, _ := m.Update(exportDoneMsg{})
	m = asModel(t, tm)
	if m.toast != toastExported || m.toastErr {
		t.Errorf("toast = %q (err=%v); want export success", m.toast, m.toastErr)
	}

	tm, _ = m.Update(exportDoneMsg{err: errors.New("disk full")})
	m = asModel(t, tm)
	if m.toast != toastExportFailed || !m.toastErr {
		t.Errorf("toast = %q (err=%v); want export failure", m.toast, m.toastErr)
	}
}

func TestStaleToastClearIgnored(t *testing.T) {
	m := loaded(t, testDataset("A", "B"), "f.csv")
	firstSeq := m.toastSeq

	var tm tea.Model
	tm, _ = m.Update(exportDoneMsg{})
	m = asModel(t, tm)

	// The clear timer from the load toast fires after a newer toast
	// was shown; it must not wipe it.
	tm, _ = m.Update(clearToastMsg{seq: firstSeq})
	m = asModel(t, tm)
	if m.toast != toastExported {
		t.Errorf("toast = %q; want newer toast preserved", m.toast)
	}

	tm, _ = m.Update(clearToastMsg{seq: m.toastSeq})
	m = asModel(t, tm)
	if m.toast != "" {
		t.Errorf("toast = %q; want cleared", m.toast)
	}
}

func TestCycleAxis(t *testing.T) {
	fields := []string{"A", "B", "C"}

	tests := []struct {
		name    string
		binding chart.Binding
		axis    chart.Axis
		want    chart.Binding
	}{
		{"Advance x", chart.Binding{X: "A", Y: "B"}, chart.AxisX, chart.Binding{X: "B", Y: "B"}},
		{"Wrap x", chart.Binding{X: "C", Y: "B"}, chart.AxisX, chart.Binding{X: "A", Y: "B"}},
		{"Advance y", chart.Binding{X: "A", Y: "B"}, chart.AxisY, chart.Binding{X: "A", Y: "C"}},
		{"Unset y starts at first", chart.Binding{X: "A"}, chart.AxisY, chart.Binding{X: "A", Y: "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cycleAxis(tt.binding, tt.axis, fields); got != tt.want {
				t.Errorf("cycleAxis() = %+v; want %+v", got, tt.want)
			}
		})
	}

	t.Run("No fields", func(t *testing.T) {
		b := chart.Binding{X: "A"}
		if got := cycleAxis(b, chart.AxisX, nil); got != b {
			t.Errorf("cycleAxis() = %+v; want unchanged", got)
		}
	})
}
