package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"time"

	"bus-ticketing-platform/internal/config"
	"bus-ticketing-platform/internal/database"
)

type station struct {
	name         string
	abbreviation string
	city         string
	country      string
}

// The catalog mirrors the original airport-shuttle network: every station is
// connected to every other one, with the same six departures each day.
var stations = []station{
	{"Newark Liberty International Airport", "EWR", "Newark", "USA"},
	{"LaGuardia Airport", "LGA", "New York", "USA"},
	{"John F. Kennedy International Airport", "JFK", "New York", "USA"},
	{"Buffalo Niagara International Airport", "BUF", "Buffalo", "USA"},
	{"Boston Logan International Airport", "BOS", "Boston", "USA"},
	{"Philadelphia International Airport", "PHL", "Philadelphia", "USA"},
	{"Baltimore/Washington International Airport", "BWI", "Baltimore", "USA"},
	{"Ronald Reagan Washington National Airport", "DCA", "Arlington", "USA"},
	{"Washington Dulles International Airport", "IAD", "Dulles", "USA"},
}

var schedules = []struct {
	departure string
	arrival   string
}{
	{"06:00", "10:00"},
	{"08:30", "12:30"},
	{"11:00", "15:00"},
	{"14:00", "18:00"},
	{"17:30", "21:30"},
	{"20:00", "23:59"},
}

const tripCost = "49.99"

var seatRows = []string{"A", "B", "C", "D", "E", "F"}

const seatsPerRow = 4

func main() {
	days := flag.Int("days", 14, "Number of days of trips to seed, starting today")
	flag.Parse()

	fmt.Println("Seeding bus catalog...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.NewConnection(database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	var existing int
	if err := db.DB.QueryRow("SELECT COUNT(*) FROM locations").Scan(&existing); err != nil {
		log.Fatal("Failed to inspect catalog:", err)
	}
	if existing > 0 {
		log.Fatalf("Catalog already contains %d locations; refusing to seed twice", existing)
	}

	tx, err := db.DB.Begin()
	if err != nil {
		log.Fatal("Failed to begin transaction:", err)
	}
	defer tx.Rollback()

	locationIDs, err := seedLocations(tx)
	if err != nil {
		log.Fatal("Failed to seed locations:", err)
	}
	fmt.Printf("Inserted %d locations\n", len(locationIDs))

	routeIDs, err := seedRoutes(tx, locationIDs)
	if err != nil {
		log.Fatal("Failed to seed routes:", err)
	}
	fmt.Printf("Inserted %d routes\n", len(routeIDs))

	trips, err := seedTrips(tx, routeIDs, *days)
	if err != nil {
		log.Fatal("Failed to seed trips:", err)
	}
	fmt.Printf("Inserted %d trips\n", trips)

	seats, err := seedSeats(tx)
	if err != nil {
		log.Fatal("Failed to seed seats:", err)
	}
	fmt.Printf("Inserted %d seats\n", seats)

	if err := tx.Commit(); err != nil {
		log.Fatal("Failed to commit seed transaction:", err)
	}

	fmt.Println("Catalog seeded successfully!")
}

func seedLocations(tx *sql.Tx) ([]int, error) {
	ids := make([]int, 0, len(stations))
	for _, s := range stations {
		var id int
		err := tx.QueryRow(
			"INSERT INTO locations (name, abbreviation, city, country) VALUES ($1, $2, $3, $4) RETURNING id",
			s.name, s.abbreviation, s.city, s.country,
		).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to insert location %s: %w", s.abbreviation, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func seedRoutes(tx *sql.Tx, locationIDs []int) ([]int, error) {
	var ids []int
	for _, origin := range locationIDs {
		for _, destination := range locationIDs {
			if origin == destination {
				continue
			}
			var id int
			err := tx.QueryRow(
				"INSERT INTO routes (origin_location_id, destination_location_id) VALUES ($1, $2) RETURNING id",
				origin, destination,
			).Scan(&id)
			if err != nil {
				return nil, fmt.Errorf("failed to insert route %d->%d: %w", origin, destination, err)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func seedTrips(tx *sql.Tx, routeIDs []int, days int) (int, error) {
	count := 0
	start := time.Now()
	for day := 0; day < days; day++ {
		date := start.AddDate(0, 0, day).Format("2006-01-02")
		for _, routeID := range routeIDs {
			for _, s := range schedules {
				_, err := tx.Exec(
					"INSERT INTO trips (route_id, cost, date, departure_time, arrival_time) VALUES ($1, $2, $3, $4, $5)",
					routeID, tripCost, date, s.departure, s.arrival,
				)
				if err != nil {
					return 0, fmt.Errorf("failed to insert trip for route %d on %s: %w", routeID, date, err)
				}
				count++
			}
		}
	}
	return count, nil
}

func seedSeats(tx *sql.Tx) (int, error) {
	rows, err := tx.Query("SELECT id FROM trips ORDER BY id")
	if err != nil {
		return 0, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var tripIDs []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to scan trip id: %w", err)
		}
		tripIDs = append(tripIDs, id)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to iterate trips: %w", err)
	}

	count := 0
	for _, tripID := range tripIDs {
		for _, row := range seatRows {
			for n := 1; n <= seatsPerRow; n++ {
				_, err := tx.Exec(
					"INSERT INTO seats (trip_id, seat_number) VALUES ($1, $2)",
					tripID, fmt.Sprintf("%s%d", row, n),
				)
				if err != nil {
					return 0, fmt.Errorf("failed to insert seat for trip %d: %w", tripID, err)
				}
				count++
			}
		}
	}
	return count, nil
}
