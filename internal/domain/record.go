// Package domain provides the canonical data model shared by the connector
// pipeline, the REST surface, and the LLM tool-calling facade.
package domain

import (
	"fmt"
	"time"
)

// Kind discriminates the record variants. Collections are homogeneous: a
// backing resource only ever holds records of a single kind.
type Kind string

const (
	KindCustomer  Kind = "customer"
	KindTicket    Kind = "ticket"
	KindAnalytics Kind = "analytics_point"
)

// Record is the closed set of dataset variants. Only the three concrete types
// below implement it; nothing untyped enters the pipeline (uploads are
// normalized at ingestion).
type Record interface {
	// Kind identifies the variant.
	Kind() Kind
	// RecencyKey is the timestamp used for newest-first ordering.
	RecencyKey() time.Time
}

// Customer statuses.
const (
	CustomerStatusActive   = "active"
	CustomerStatusInactive = "inactive"
)

// Ticket statuses and priorities.
const (
	TicketStatusOpen   = "open"
	TicketStatusClosed = "closed"

	TicketPriorityLow    = "low"
	TicketPriorityMedium = "medium"
	TicketPriorityHigh   = "high"
)

// Customer is one CRM customer record.
type Customer struct {
	CustomerID int       `json:"customer_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
	Status     string    `json:"status"`
}

func (Customer) Kind() Kind { return KindCustomer }

func (c Customer) RecencyKey() time.Time { return c.CreatedAt }

// Ticket is one support ticket record.
type Ticket struct {
	TicketID   int       `json:"ticket_id"`
	CustomerID int       `json:"customer_id"`
	Subject    string    `json:"subject"`
	Priority   string    `json:"priority"`
	CreatedAt  time.Time `json:"created_at"`
	Status     string    `json:"status"`
}

func (Ticket) Kind() Kind { return KindTicket }

func (t Ticket) RecencyKey() time.Time { return t.CreatedAt }

// AnalyticsPoint is one time-series observation.
type AnalyticsPoint struct {
	Metric string `json:"metric"`
	Date   Date   `json:"date"`
	Value  int    `json:"value"`
}

func (AnalyticsPoint) Kind() Kind { return KindAnalytics }

func (p AnalyticsPoint) RecencyKey() time.Time { return p.Date.Time }

// Date is a calendar date without a time component. It marshals as
// "2006-01-02" instead of a full RFC 3339 timestamp.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("date must be a %q string", dateLayout)
	}
	t, err := time.Parse(dateLayout, s[1:len(s)-1])
	if err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}
	d.Time = t
	return nil
}

func (d Date) String() string { return d.Format(dateLayout) }
