package store

import "time"

// SensorRecord represents a row in the sensor_logs table.
type SensorRecord struct {
	ID        int64     `json:"id"`
	Topic     string    `json:"topic"`
	Payload   string    `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}
