package workflow

import (
	"time"

	"github.com/yourusername/po-workflow/internal/domain/schema"
)

var fixedNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func testParser() DateParser {
	return DateParser{DayFirst: true, Location: time.UTC, Now: func() time.Time { return fixedNow }}
}

func makeRow(l schema.Layout, index int, values map[schema.Field]any) schema.Row {
	cells := make([]any, l.Width)
	for i := range cells {
		cells[i] = ""
	}
	for f, v := range values {
		off, ok := l.Offset(f)
		if !ok {
			panic("unknown field " + string(f))
		}
		cells[off] = v
	}
	return schema.Row{Index: index, Cells: cells}
}

func mustStage(id string) (StageDefinition, *StageDefinition, Definitions) {
	defs := DefaultDefinitions()
	st, ok := defs.Get(id)
	if !ok {
		panic("unknown stage " + id)
	}
	return st, defs.Upstream(st), defs
}
