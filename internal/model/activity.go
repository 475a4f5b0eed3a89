package model

import "time"

// Activity is a raw fitness feed record. The core never mutates the feed,
// it only aggregates it.
type Activity struct {
	ID         int64
	Name       string
	Type       string
	GearID     string
	StartedAt  time.Time
	Distance   float64
	Elevation  float64
	MovingTime int
	AvgSpeed   float64
	MaxSpeed   float64
	Calories   int
	Kudos      int
	Tags       []string
}

type Gear struct {
	ID   string
	Name string
}

type AthleteStats struct {
	TotalRides     int
	TotalDistance  float64
	TotalElevation float64
	YTDRides       int
	YTDDistance    float64
	YTDElevation   float64
	YTDTime        int
}

type Athlete struct {
	ID        int64
	FirstName string
	LastName  string
	Stats     *AthleteStats
	Gear      []Gear
}

type PeriodStats struct {
	Rides     int
	Distance  float64
	Elevation float64
	Time      int
}

type GearDistance struct {
	GearID   string
	GearName string
	Distance float64
	Rides    int
}

type ProductRecommendation struct {
	Category    string
	Subcategory string
	Reason      string
}
