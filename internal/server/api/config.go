package api

import "time"

// ServerConfig represents the API server configuration.
type ServerConfig struct {
	Addr              string        `help:"API server listen address" default:":3242" env:"ROMY_API_ADDR"`
	Password          string        `help:"API password; when empty the password from the key file is used" env:"ROMY_API_PASSWORD"`
	NoAuth            bool          `help:"Serve the API without a password" default:"false" env:"ROMY_API_NO_AUTH"`
	ConnectionTimeout time.Duration `help:"Deadline for reading a request and writing its response" default:"30s" env:"ROMY_API_CONNECTION_TIMEOUT"`
	MaxRequestSize    int           `help:"Largest accepted request in bytes" default:"1048576" env:"ROMY_API_MAX_REQUEST_SIZE"`
}
