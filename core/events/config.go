package events

// Config holds configuration for publishing inventory events to Kafka.
type Config struct {
	// Enabled turns event publishing on.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Brokers is a comma separated list of Kafka brokers.
	Brokers []string `mapstructure:"brokers" default:"localhost:9092"`
	// Topic receives every inventory event.
	Topic string `mapstructure:"topic" default:"inventory.events"`
}
