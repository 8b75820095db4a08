// Package main provides a CLI for seeding a local development database
// with demo product and user events.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/fairyhunter13/event-reporting-service/internal/config"
	"github.com/fairyhunter13/event-reporting-service/internal/store"
)

func main() {
	cfg := config.Load()

	var (
		dsn      string
		users    int
		products int
		seedVal  uint64
	)
	flag.StringVar(&dsn, "dsn", cfg.DatabaseURL, "database connection string")
	flag.IntVar(&users, "users", 20, "number of users to generate")
	flag.IntVar(&products, "products", 50, "number of products to generate")
	flag.Uint64Var(&seedVal, "seed", 0, "random seed for reproducibility (0 = random)")
	flag.Parse()

	faker := gofakeit.New(seedVal)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	st, err := store.New(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.EnsureSchema(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	n, err := seed(ctx, st, faker, users, products)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Seeded %d events for %d users and %d products\n", n, users, products)
}

var platforms = []string{"web", "ios", "android", "kiosk"}

// seed writes a mix of borrow/return histories and payment-method
// events: some products stay borrowed long enough to count as lost,
// some payment methods expire soon, and a few metadata strings are
// deliberately malformed to exercise the fail-soft parsing path.
func seed(ctx context.Context, st *store.Store, faker *gofakeit.Faker, users, products int) (int, error) {
	now := time.Now().UTC()
	total := 0

	userIDs := make([]string, users)
	for i := range userIDs {
		userIDs[i] = fmt.Sprintf("U%04d", i+1)

		evtDate := now.AddDate(0, -faker.Number(0, 11), -faker.Number(0, 27))
		var meta string
		switch faker.Number(0, 9) {
		case 0:
			meta = `{"card_type": "` + faker.CreditCardType() + `"}`
		case 1:
			meta = `{"valid_until": "garbled"}`
		default:
			expiry := now.AddDate(0, faker.Number(-2, 18), 0)
			meta = fmt.Sprintf(`{"valid_until": "%s", "card_type": "%s"}`,
				expiry.Format("01/06"), faker.CreditCardType())
		}
		err := st.InsertUserEvent(ctx, "add-payment-method", userIDs[i], evtDate,
			faker.RandomString(platforms), meta)
		if err != nil {
			return total, err
		}
		total++
	}

	for i := 0; i < products; i++ {
		productID := fmt.Sprintf("P%04d", i+1)
		userID := faker.RandomString(userIDs)
		borrowed := now.AddDate(0, -faker.Number(0, 8), -faker.Number(0, 27))

		err := st.InsertProductEvent(ctx, "borrow", userID, productID,
			faker.UUID(), faker.City(), borrowed, faker.UUID(),
			faker.RandomString(platforms))
		if err != nil {
			return total, err
		}
		total++

		// Roughly half of the borrows get returned later.
		if faker.Bool() {
			returned := borrowed.AddDate(0, 0, faker.Number(1, 45))
			err := st.InsertProductEvent(ctx, "return", userID, productID,
				faker.UUID(), faker.City(), returned, faker.UUID(),
				faker.RandomString(platforms))
			if err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}
