// internal/config/config.go
package config

type Config struct {
	Connection ConnectionConfig `yaml:"connection"`
	Watch      WatchConfig      `yaml:"watch"`
	Log        LogConfig        `yaml:"log"`
}

// ---- CONNECTION ----

type ConnectionConfig struct {
	Mode      string       `yaml:"mode"` // tcp | rtu
	Host      string       `yaml:"host"`
	Port      int          `yaml:"port"`
	UnitID    uint8        `yaml:"unit_id"`
	TimeoutMs int          `yaml:"timeout_ms"`
	Serial    SerialConfig `yaml:"serial"`
}

// ---- SERIAL (RTU) ----

type SerialConfig struct {
	Device   string `yaml:"device"`
	BaudRate int    `yaml:"baud_rate"`
	DataBits int    `yaml:"data_bits"`
	Parity   string `yaml:"parity"` // N | E | O
	StopBits int    `yaml:"stop_bits"`
}

// ---- WATCH ----

type WatchConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- LOG ----

type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}
