// Command seed writes sample datasets into the data directory so the
// connector can be exercised without real uploads. The generator is seeded,
// so repeated runs produce the same files.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/voxdata/connector/internal/domain"
	"github.com/voxdata/connector/internal/store"
)

func main() {
	dir := flag.String("dir", "./data", "data directory to write into")
	customers := flag.Int("customers", 50, "number of CRM customers")
	tickets := flag.Int("tickets", 50, "number of support tickets")
	days := flag.Int("days", 30, "number of analytics days")
	flag.Parse()

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		log.Fatalf("creating data directory: %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	now := time.Now().UTC()

	writeJSON(*dir, store.SourceFiles["crm"], generateCustomers(rng, now, *customers))
	writeJSON(*dir, store.SourceFiles["support"], generateTickets(rng, now, *tickets, *customers))
	writeJSON(*dir, store.SourceFiles["analytics"], generateAnalytics(rng, now, *days))

	fmt.Printf("seeded %d customers, %d tickets, %d analytics days into %s\n",
		*customers, *tickets, *days, *dir)
}

func generateCustomers(rng *rand.Rand, now time.Time, count int) []domain.Customer {
	statuses := []string{domain.CustomerStatusActive, domain.CustomerStatusInactive}
	out := make([]domain.Customer, count)
	for i := range out {
		out[i] = domain.Customer{
			CustomerID: i + 1,
			Name:       fmt.Sprintf("Customer %d", i+1),
			Email:      fmt.Sprintf("user%d@example.com", i+1),
			CreatedAt:  now.AddDate(0, 0, -rng.Intn(365)),
			Status:     statuses[rng.Intn(len(statuses))],
		}
	}
	return out
}

func generateTickets(rng *rand.Rand, now time.Time, count, customerCount int) []domain.Ticket {
	priorities := []string{domain.TicketPriorityLow, domain.TicketPriorityMedium, domain.TicketPriorityHigh}
	statuses := []string{domain.TicketStatusOpen, domain.TicketStatusClosed}
	out := make([]domain.Ticket, count)
	for i := range out {
		out[i] = domain.Ticket{
			TicketID:   i + 1,
			CustomerID: rng.Intn(customerCount) + 1,
			Subject:    fmt.Sprintf("Issue %d", i+1),
			Priority:   priorities[rng.Intn(len(priorities))],
			CreatedAt:  now.AddDate(0, 0, -rng.Intn(30)),
			Status:     statuses[rng.Intn(len(statuses))],
		}
	}
	return out
}

func generateAnalytics(rng *rand.Rand, now time.Time, days int) []domain.AnalyticsPoint {
	out := make([]domain.AnalyticsPoint, days)
	for i := range out {
		day := now.AddDate(0, 0, -i)
		out[i] = domain.AnalyticsPoint{
			Metric: "daily_active_users",
			Date:   domain.NewDate(day.Year(), day.Month(), day.Day()),
			Value:  100 + rng.Intn(901),
		}
	}
	return out
}

func writeJSON(dir, name string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("encoding %s: %v", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		log.Fatalf("writing %s: %v", name, err)
	}
}
