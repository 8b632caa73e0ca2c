package dto

import (
	"time"

	"fiberops-assistant-be/pkg/locate"
	"fiberops-assistant-be/pkg/project"
	"fiberops-assistant-be/pkg/projectdata"
)

type ProjectResponse struct {
	Id                string          `json:"id"`
	Market            string          `json:"market"`
	Supervisor        string          `json:"supervisor"`
	Sheet             string          `json:"sheet"`
	FootageTotal      float64         `json:"footage_total"`
	FootageRemaining  float64         `json:"footage_remaining"`
	CompletionPercent int             `json:"completion_percent"`
	Status            string          `json:"status,omitempty"`
	StartDate         string          `json:"start_date,omitempty"`
	CompletionDate    string          `json:"completion_date,omitempty"`
	Cost              string          `json:"cost,omitempty"`
	Area              string          `json:"area,omitempty"`
	Households        string          `json:"households,omitempty"`
	LocateTickets     []locate.Ticket `json:"locate_tickets"`
}

type GetAllProjectsResponse struct {
	Projects []*ProjectResponse `json:"projects"`
	Total    int                `json:"total"`
	Version  uint64             `json:"version"`
}

type LookupProjectResponse struct {
	Query   string           `json:"query"`
	Project *ProjectResponse `json:"project"`
}

type DataStatusResponse struct {
	State           string     `json:"state"`
	Version         uint64     `json:"version"`
	RefreshedAt     *time.Time `json:"refreshed_at"`
	ProjectCount    int        `json:"project_count"`
	TicketCount     int        `json:"ticket_count"`
	LocateAvailable bool       `json:"locate_available"`
	Stale           bool       `json:"stale"`
	Error           string     `json:"error,omitempty"`
	Warnings        []string   `json:"warnings,omitempty"`
}

type RefreshResponse struct {
	Status     *DataStatusResponse `json:"status"`
	DurationMs int64               `json:"duration_ms"`
}

type SupervisorSummaryResponse struct {
	Summaries []projectdata.SupervisorSummary `json:"summaries"`
}

func NewProjectResponse(rec project.Record) *ProjectResponse {
	tickets := rec.LocateTickets
	if tickets == nil {
		tickets = []locate.Ticket{}
	}
	return &ProjectResponse{
		Id:                rec.ID,
		Market:            rec.Market,
		Supervisor:        rec.Supervisor,
		Sheet:             rec.Sheet,
		FootageTotal:      rec.FootageTotal,
		FootageRemaining:  rec.FootageRemaining,
		CompletionPercent: rec.CompletionPercent,
		Status:            rec.Status,
		StartDate:         rec.StartDate,
		CompletionDate:    rec.CompletionDate,
		Cost:              rec.Cost,
		Area:              rec.Area,
		Households:        rec.Households,
		LocateTickets:     tickets,
	}
}

func NewDataStatusResponse(st projectdata.Status, snap *projectdata.Snapshot) *DataStatusResponse {
	res := &DataStatusResponse{
		State:        string(st.State),
		Version:      st.Version,
		ProjectCount: st.ProjectCount,
		Stale:        st.Stale,
		Error:        st.Error,
	}
	if !st.RefreshedAt.IsZero() {
		at := st.RefreshedAt
		res.RefreshedAt = &at
	}
	if snap != nil {
		res.TicketCount = snap.TicketCount()
		res.LocateAvailable = snap.LocateAvailable
		res.Warnings = snap.Warnings
	}
	return res
}
