package model

import "time"

// ClinicColors is the fixed ordered palette for clinic colors. A clinic is
// assigned ClinicColors[creationIndex % len(ClinicColors)] when it is created
// and keeps that color for life.
var ClinicColors = []string{
	"#E74C3C", "#3498DB", "#2ECC71", "#F39C12", "#9B59B6",
	"#1ABC9C", "#E67E22", "#34495E", "#16A085", "#C0392B",
	"#2980B9", "#27AE60", "#D35400", "#8E44AD", "#F1C40F",
}

// Clinic represents a location that can receive machine allocations.
type Clinic struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Contact   string    `json:"contact"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}
