package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/barbermirror/kiosk-backend/internal/db"
	"github.com/barbermirror/kiosk-backend/internal/schedule"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(context.Background(), pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedIdentities(context.Background(), pool, 12); err != nil {
		log.Fatalf("seed identities: %v", err)
	}
	if err := seedAppointments(context.Background(), pool, 7); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}
	if err := seedTransactions(context.Background(), pool, 40); err != nil {
		log.Fatalf("seed transactions: %v", err)
	}

	log.Println("seed complete")
}

func seedIdentities(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d identities", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		name := gofakeit.Name()
		visits := gofakeit.Number(0, 25)

		_, err := tx.Exec(ctx, `
			INSERT INTO identities (name, recognition_count)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, name, visits)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("identities seeded")
	return nil
}

// seedAppointments books a handful of slots per day over the next few days,
// picking distinct slots within each day so the scheduled-slot uniqueness
// constraint never trips.
func seedAppointments(ctx context.Context, pool *pgxpool.Pool, days int) error {
	log.Printf("seeding appointments for %d days", days)

	var serviceIDs []int64
	rows, err := pool.Query(ctx, `SELECT id FROM services WHERE is_active`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		serviceIDs = append(serviceIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if len(serviceIDs) == 0 {
		log.Println("no active services, skipping appointments")
		return nil
	}

	slots := schedule.Slots()
	barbers := []string{"Marco", "Luis", "Tony"}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for d := 0; d < days; d++ {
		date := time.Now().AddDate(0, 0, d).Format("2006-01-02")
		perDay := gofakeit.Number(2, 5)

		gofakeit.ShuffleAnySlice(slots)
		for i := 0; i < perDay && i < len(slots); i++ {
			slot := slots[i]
			serviceID := serviceIDs[gofakeit.Number(0, len(serviceIDs)-1)]
			barber := barbers[gofakeit.Number(0, len(barbers)-1)]

			_, err := tx.Exec(ctx, `
				INSERT INTO appointments
					(id, client_name, service_id, appointment_date, time_slot, start_time,
					 barber, booked_by, booked_via, status, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'api', 'scheduled', now(), now())
			`, uuid.New(), gofakeit.Name(), serviceID, date, slot.Code, slot.StartTime, barber, "seed")
			if err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("appointments seeded")
	return nil
}

func seedTransactions(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d transactions", count)

	serviceNames := []string{"Haircut", "Beard Trim", "Haircut + Beard", "Kids Cut", "Hot Towel Shave", "Sale"}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		amount := int64(gofakeit.Number(1500, 8500))
		desc := serviceNames[gofakeit.Number(0, len(serviceNames)-1)]
		daysAgo := gofakeit.Number(0, 28)
		at := time.Now().AddDate(0, 0, -daysAgo)

		_, err := tx.Exec(ctx, `
			INSERT INTO transactions (amount_cents, service_name, client_name, occurred_at)
			VALUES ($1, $2, $3, $4)
		`, amount, desc, gofakeit.Name(), at)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("transactions seeded")
	return nil
}
