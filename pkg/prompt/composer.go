package prompt

import (
	"fmt"
	"strings"
	"time"

	"fiberops-assistant-be/pkg/llm"
	"fiberops-assistant-be/pkg/project"
	"fiberops-assistant-be/pkg/projectdata"
)

const systemPreamble = `You are the operations assistant for a fiber construction team.
Answer from the procedures and rate card below and from the live project data section.
Quote footage, percentages and ticket numbers exactly as given. Keep answers short enough to be read aloud.`

const offlineNotice = `LIVE PROJECT DATA IS UNAVAILABLE (%s).
Do not state any project status, footage, supervisor or locate ticket facts. If the user asks
about a specific project, say that live data is currently offline and suggest retrying later.`

// Context is everything the composer needs for one turn.
type Context struct {
	KnowledgeBase string
	Status        projectdata.Status
	Focus         *project.Record
	Summaries     []projectdata.SupervisorSummary
	History       []llm.Message
	Question      string
}

type Composer struct {
	// MaxHistory bounds how many prior turns are replayed.
	MaxHistory int
}

func NewComposer() *Composer {
	return &Composer{MaxHistory: 10}
}

// Compose builds the message list for the LLM: one system message, recent history, the question.
func (c *Composer) Compose(pc Context) []llm.Message {
	var sb strings.Builder
	sb.WriteString(systemPreamble)
	if kb := strings.TrimSpace(pc.KnowledgeBase); kb != "" {
		sb.WriteString("\n\n## Procedures and rate card\n")
		sb.WriteString(kb)
	}

	sb.WriteString("\n\n## Live project data\n")
	if !pc.Status.Online() {
		fmt.Fprintf(&sb, offlineNotice, pc.Status.Error)
	} else {
		writeStatus(&sb, pc.Status)
		if pc.Focus != nil {
			sb.WriteString("\n### Referenced project\n")
			WriteProject(&sb, *pc.Focus)
		}
		if len(pc.Summaries) > 0 {
			sb.WriteString("\n### Supervisor rollup\n")
			WriteSummaries(&sb, pc.Summaries)
		}
	}

	msgs := []llm.Message{{Role: llm.RoleSystem, Content: sb.String()}}
	history := pc.History
	if c.MaxHistory > 0 && len(history) > c.MaxHistory {
		history = history[len(history)-c.MaxHistory:]
	}
	msgs = append(msgs, history...)
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: pc.Question})
}

func writeStatus(sb *strings.Builder, st projectdata.Status) {
	fmt.Fprintf(sb, "Data refreshed %s, %d projects loaded.", st.RefreshedAt.Format(time.RFC1123), st.ProjectCount)
	if st.Stale {
		fmt.Fprintf(sb, " The latest refresh failed (%s); figures may be out of date, say so when quoting them.", st.Error)
	}
	sb.WriteString("\n")
}

// WriteProject renders one record as the plain text block used in prompts and CLI output.
func WriteProject(sb *strings.Builder, rec project.Record) {
	fmt.Fprintf(sb, "Project %s (market %s, sheet %s)\n", rec.ID, rec.Market, rec.Sheet)
	fmt.Fprintf(sb, "- Supervisor: %s\n", rec.Supervisor)
	fmt.Fprintf(sb, "- Footage: %.0f total, %.0f remaining, %d%% complete\n", rec.FootageTotal, rec.FootageRemaining, rec.CompletionPercent)
	optional := []struct{ label, value string }{
		{"Status", rec.Status},
		{"Start date", rec.StartDate},
		{"Completion date", rec.CompletionDate},
		{"Cost", rec.Cost},
		{"Area", rec.Area},
		{"Households", rec.Households},
	}
	for _, o := range optional {
		if o.value != "" {
			fmt.Fprintf(sb, "- %s: %s\n", o.label, o.value)
		}
	}
	if len(rec.LocateTickets) == 0 {
		sb.WriteString("- Locate tickets: none on file\n")
		return
	}
	sb.WriteString("- Locate tickets:\n")
	for _, t := range rec.LocateTickets {
		fmt.Fprintf(sb, "  - %s", strings.Join(t.Numbers(), ", "))
		if len(t.Numbers()) == 0 {
			sb.WriteString("(no number)")
		}
		for _, f := range []struct{ label, value string }{
			{"status", t.Status},
			{"called", t.DateCalled},
			{"due", t.DueDate},
			{"expires", t.ExpireDate},
			{"escalated", t.EscalatedDate},
			{"completed", t.CompletedDate},
			{"company", t.Company},
			{"phone", t.Phone},
			{"notes", t.Notes},
		} {
			if f.value != "" {
				fmt.Fprintf(sb, "; %s %s", f.label, f.value)
			}
		}
		sb.WriteString("\n")
	}
}

func WriteSummaries(sb *strings.Builder, summaries []projectdata.SupervisorSummary) {
	for _, s := range summaries {
		fmt.Fprintf(sb, "- %s: %d projects, %.0f ft remaining, %d%% average completion\n",
			s.Supervisor, s.ProjectCount, s.FootageRemainingSum, s.AverageCompletionPct)
	}
}
