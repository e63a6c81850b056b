package live

import (
	"time"

	"valet-board-backend/internal/model"
	"valet-board-backend/internal/sales"
	"valet-board-backend/internal/timing"
)

// TicketView is one ticket with its computed display values. Durations are
// classified unsnapped; only the display strings are snapped.
type TicketView struct {
	Ticket model.Ticket `json:"ticket"`

	MasterSeconds  float64         `json:"masterSeconds"`
	MasterDisplay  string          `json:"masterDisplay"`
	ValetSeconds   float64         `json:"valetSeconds"`
	ValetDisplay   string          `json:"valetDisplay"`
	HasValetCycle  bool            `json:"hasValetCycle"`
	Severity       timing.Severity `json:"-"`
	SeverityString string          `json:"severity"`
	StatusLabel    string          `json:"statusLabel"`
	WashLabel      string          `json:"washLabel"`
}

// BoardView is the categorized board handed to screens and render consumers.
type BoardView struct {
	GeneratedAt time.Time    `json:"generatedAt"`
	Staged      []TicketView `json:"staged"`
	Active      []TicketView `json:"active"`
	Waiting     []TicketView `json:"waiting"`
	Completed   []TicketView `json:"completed"`
}

// NewTicketView computes the derived values for a single ticket at now.
func NewTicketView(t model.Ticket, now time.Time) TicketView {
	master := timing.MasterDuration(&t, now)
	valet, hasValet := timing.ValetDuration(&t, now)

	v := TicketView{
		Ticket:        t,
		MasterSeconds: master.Seconds(),
		MasterDisplay: timing.FormatDuration(master),
		HasValetCycle: hasValet,
		StatusLabel:   t.Status.Human(),
		WashLabel:     t.WashStatus.Human(),
	}
	if hasValet {
		v.ValetSeconds = valet.Seconds()
		v.ValetDisplay = timing.FormatDuration(valet)
	}
	v.Severity = timing.Classify(master)
	v.SeverityString = v.Severity.String()
	return v
}

// BuildBoard categorizes a ticket snapshot into the four board columns.
// Tickets arrive newest-first from the store and keep that order within each
// column. completedCap limits how many finished tickets screens ever see;
// zero or negative means no cap.
func BuildBoard(tickets []model.Ticket, now time.Time, completedCap int) BoardView {
	view := BoardView{GeneratedAt: now}
	for _, t := range tickets {
		tv := NewTicketView(t, now)
		switch t.Status {
		case model.StatusStaged:
			view.Staged = append(view.Staged, tv)
		case model.StatusComplete:
			if completedCap <= 0 || len(view.Completed) < completedCap {
				view.Completed = append(view.Completed, tv)
			}
		case model.StatusWaitingForCustomer:
			view.Waiting = append(view.Waiting, tv)
		default:
			view.Active = append(view.Active, tv)
		}
	}
	return view
}

// ActiveSubset filters a snapshot down to tickets still in play. Staged cars
// have not arrived and completed cars are done; neither should cue anyone.
func ActiveSubset(tickets []model.Ticket) []model.Ticket {
	out := make([]model.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.Status == model.StatusStaged || t.Status == model.StatusComplete {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SalesView is one pickup request with computed display values.
type SalesView struct {
	Pickup model.SalesPickup `json:"pickup"`

	TotalSeconds  float64 `json:"totalSeconds"`
	TotalDisplay  string  `json:"totalDisplay"`
	DriverSeconds float64 `json:"driverSeconds"`
	DriverDisplay string  `json:"driverDisplay"`
	HasDriverLeg  bool    `json:"hasDriverLeg"`
	StatusLabel   string  `json:"statusLabel"`
}

// SalesBoardView is the sales queue split into open and finished requests.
type SalesBoardView struct {
	GeneratedAt time.Time   `json:"generatedAt"`
	Open        []SalesView `json:"open"`
	Closed      []SalesView `json:"closed"`
}

// NewSalesView computes the derived values for a single pickup at now.
func NewSalesView(p model.SalesPickup, now time.Time) SalesView {
	total := sales.Duration(&p, now)
	driver, hasDriver := sales.DriverDuration(&p, now)

	v := SalesView{
		Pickup:       p,
		TotalSeconds: total.Seconds(),
		TotalDisplay: timing.FormatDuration(total),
		HasDriverLeg: hasDriver,
		StatusLabel:  string(p.Status),
	}
	if hasDriver {
		v.DriverSeconds = driver.Seconds()
		v.DriverDisplay = timing.FormatDuration(driver)
	}
	return v
}

// BuildSalesBoard splits a pickup snapshot into open and closed requests,
// preserving the store's oldest-request-first order.
func BuildSalesBoard(pickups []model.SalesPickup, now time.Time) SalesBoardView {
	view := SalesBoardView{GeneratedAt: now}
	for _, p := range pickups {
		sv := NewSalesView(p, now)
		if p.Status.Terminal() {
			view.Closed = append(view.Closed, sv)
		} else {
			view.Open = append(view.Open, sv)
		}
	}
	return view
}
