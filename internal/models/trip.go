package models

import "github.com/shopspring/decimal"

// Location is a boarding point on the network.
type Location struct {
	ID           int    `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Abbreviation string `json:"abbreviation" db:"abbreviation"`
	City         string `json:"city" db:"city"`
	Country      string `json:"country" db:"country"`
}

// Route connects an origin location to a destination location.
type Route struct {
	ID                    int `json:"id" db:"id"`
	OriginLocationID      int `json:"origin_location_id" db:"origin_location_id"`
	DestinationLocationID int `json:"destination_location_id" db:"destination_location_id"`
}

// Trip is a scheduled departure on a route with a fixed per-seat cost and a
// fixed seat inventory. Trips are seeded by the catalog tooling and are
// read-only to the booking core.
type Trip struct {
	ID            int             `json:"id" db:"id"`
	RouteID       int             `json:"route_id" db:"route_id"`
	Cost          decimal.Decimal `json:"cost" db:"cost"`
	Date          string          `json:"date" db:"date"`
	DepartureTime string          `json:"departure_time" db:"departure_time"`
	ArrivalTime   string          `json:"arrival_time" db:"arrival_time"`
}

// Seat belongs to exactly one trip. A seat is available iff no booking_seats
// row references it.
type Seat struct {
	ID         int    `json:"id" db:"id"`
	TripID     int    `json:"trip_id" db:"trip_id"`
	SeatNumber string `json:"seat_number" db:"seat_number"`
}

// TripSummary carries the trip and route details shown on booking
// confirmations and e-tickets.
type TripSummary struct {
	ID                      int    `json:"id"`
	Date                    string `json:"date"`
	DepartureTime           string `json:"departure_time"`
	ArrivalTime             string `json:"arrival_time"`
	OriginName              string `json:"origin_name"`
	OriginAbbreviation      string `json:"origin_abbreviation"`
	DestinationName         string `json:"destination_name"`
	DestinationAbbreviation string `json:"destination_abbreviation"`
}
