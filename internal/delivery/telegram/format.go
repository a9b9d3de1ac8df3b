package telegram

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yourusername/po-workflow/internal/domain/constants"
	"github.com/yourusername/po-workflow/internal/domain/entity"
	"github.com/yourusername/po-workflow/internal/usecase"
	"github.com/yourusername/po-workflow/internal/workflow"
)

func formatStages(stages []workflow.StageDefinition) string {
	var b strings.Builder
	b.WriteString("Bosqichlar:\n")
	for i, st := range stages {
		fmt.Fprintf(&b, "%d. %s (%s) - %s", i+1, st.Name, st.ID, st.Sheet)
		if st.Kind == workflow.KindLift {
			b.WriteString(", /lift")
		}
		if len(st.Required) > 0 {
			names := make([]string, len(st.Required))
			for j, f := range st.Required {
				names[j] = string(f)
			}
			fmt.Fprintf(&b, "\n   majburiy: %s", strings.Join(names, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// formatStageView pending yoki completed ro'yxat, MaxListItems gacha
func formatStageView(view usecase.StageView, pending bool, dates workflow.DateParser) string {
	items, label := view.Completed, "completed"
	if pending {
		items, label = view.Pending, "pending"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s): %d %s\n", view.Stage.Name, view.Stage.ID, len(items), label)
	if len(items) == 0 {
		b.WriteString("Hech narsa yo'q.")
		return b.String()
	}
	for i, it := range items {
		if i == constants.MaxListItems {
			fmt.Fprintf(&b, "... va yana %d ta", len(items)-i)
			break
		}
		fmt.Fprintf(&b, "%d. %s", i+1, it.Key)
		for _, part := range []string{it.Product, it.Vendor, it.PONumber} {
			if part != "" {
				b.WriteString(" | " + part)
			}
		}
		fmt.Fprintf(&b, " | qty %s", workflow.FormatQty(it.Qty))
		if view.Stage.Remaining != "" {
			fmt.Fprintf(&b, " | qoldiq %s", workflow.FormatQty(it.Remaining))
		}
		if pending && it.Planned != nil {
			fmt.Fprintf(&b, " | planned %s", dates.Format(*it.Planned))
		}
		if !pending && it.Actual != nil {
			fmt.Fprintf(&b, " | done %s", dates.Format(*it.Actual))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func statusMark(s workflow.Status) string {
	switch s {
	case workflow.StatusCompleted:
		return "✅"
	case workflow.StatusPending:
		return "⏳"
	}
	return "·"
}

func formatReport(r usecase.IndentReport) string {
	var b strings.Builder
	in := r.Indent
	fmt.Fprintf(&b, "Indent %s: %s", in.IndentID, in.ProductName)
	if in.FirmName != "" {
		fmt.Fprintf(&b, " (%s)", in.FirmName)
	}
	fmt.Fprintf(&b, "\nApproved %s, lifted %s, qoldiq %s\n",
		workflow.FormatQty(in.EffectiveApprovedQty()), workflow.FormatQty(r.Lifted), workflow.FormatQty(r.Remaining))
	if q, ok := in.SelectedQuote(); ok {
		fmt.Fprintf(&b, "Vendor: %s", q.Name)
		if in.PO.Number != "" {
			fmt.Fprintf(&b, ", PO %s", in.PO.Number)
		}
		b.WriteString("\n")
	}
	for _, s := range r.Stages {
		fmt.Fprintf(&b, "%s %s\n", statusMark(s.Status), s.Name)
	}
	for _, l := range r.Lifts {
		fmt.Fprintf(&b, "Lift %s: %s", l.Lift.Key, workflow.FormatQty(l.Lift.LiftingQty))
		if l.Lift.Transporter != "" {
			fmt.Fprintf(&b, " via %s", l.Lift.Transporter)
		}
		for _, s := range l.Stages {
			fmt.Fprintf(&b, " %s %s", statusMark(s.Status), s.StageID)
		}
		b.WriteString("\n")
	}
	if cur := r.Current(); cur != "" {
		fmt.Fprintf(&b, "Joriy bosqich: %s", cur)
	} else {
		b.WriteString("Barcha bosqichlar yakunlangan.")
	}
	return b.String()
}

// formatBatch "stage: N of M succeeded" va xatolar
func formatBatch(res entity.BatchResult) string {
	var b strings.Builder
	mark := "✅"
	if !res.Complete() {
		mark = "⚠️"
	}
	fmt.Fprintf(&b, "%s %s: %s", mark, res.StageID, res.Summary())
	for _, o := range res.Failed() {
		fmt.Fprintf(&b, "\n❌ %s (%s row %d): %v", o.Key, o.Sheet, o.RowIndex, o.Err)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(&b, "\n⚠️ %s", w)
	}
	return b.String()
}

// formatDigest bosqichlar tartibida pending soni
func formatDigest(stages []workflow.StageDefinition, counts map[string]int) string {
	var b strings.Builder
	b.WriteString("Pending hisobot:\n")
	total := 0
	for _, st := range stages {
		n := counts[st.ID]
		total += n
		fmt.Fprintf(&b, "%s: %d\n", st.Name, n)
	}
	// ta'rifda bo'lmagan bosqichlar (bo'lmasligi kerak) alifbo tartibida
	var extra []string
	for id := range counts {
		found := false
		for _, st := range stages {
			if st.ID == id {
				found = true
				break
			}
		}
		if !found {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	for _, id := range extra {
		total += counts[id]
		fmt.Fprintf(&b, "%s: %d\n", id, counts[id])
	}
	fmt.Fprintf(&b, "Jami: %d", total)
	return b.String()
}

func formatJournal(entries []entity.JournalEntry, dates workflow.DateParser) string {
	if len(entries) == 0 {
		return "Jurnal bo'sh."
	}
	var b strings.Builder
	for _, e := range entries {
		mark := "✅"
		if !e.Success {
			mark = "❌"
		}
		fmt.Fprintf(&b, "%s %s %s %s %s row %d", mark, dates.Format(e.CreatedAt), e.StageID, e.Action, e.Key, e.RowIndex)
		if e.Actor != "" {
			fmt.Fprintf(&b, " by %s", e.Actor)
		}
		if e.Error != "" {
			fmt.Fprintf(&b, ": %s", e.Error)
		}
		b.WriteString("\n")
	}
	return b.String()
}
