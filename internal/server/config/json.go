package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dkrasnovs/accounts-service/internal/flagx"
	"github.com/dkrasnovs/accounts-service/internal/timex"
)

// JsonConfig mirrors Config for JSON unmarshalling. Duration fields use
// timex.Duration so files may specify either "15m" strings or integer
// nanoseconds. After unmarshalling, values are copied into the runtime
// Config.
type JsonConfig struct {
	DatabaseDSN                string         `json:"database_dsn"`
	SecretKey                  string         `json:"secret_key"`
	AccessTokenValidity        timex.Duration `json:"access_token_validity"`
	RefreshTokenValidity       timex.Duration `json:"refresh_token_validity"`
	ActivationTokenValidity    timex.Duration `json:"activation_token_validity"`
	PasswordResetTokenValidity timex.Duration `json:"password_reset_token_validity"`
	TokenPurgeInterval         timex.Duration `json:"token_purge_interval"`
	AMQPURL                    string         `json:"amqp_url"`
	AMQPQueue                  string         `json:"amqp_queue"`
	S3RootUser                 string         `json:"s3_root_user"`
	S3RootPassword             string         `json:"s3_root_password"`
	S3Bucket                   string         `json:"s3_bucket"`
	S3Region                   string         `json:"s3_region"`
	S3BaseEndpoint             string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config. The file path comes from the -c or -config flags; when neither is
// set, no file is loaded. Unreadable or invalid files panic: a config file
// that was asked for but cannot be used is a startup error.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidity = time.Duration(c.AccessTokenValidity.Duration)
	config.RefreshTokenValidity = time.Duration(c.RefreshTokenValidity.Duration)
	config.ActivationTokenValidity = time.Duration(c.ActivationTokenValidity.Duration)
	config.PasswordResetTokenValidity = time.Duration(c.PasswordResetTokenValidity.Duration)
	config.TokenPurgeInterval = time.Duration(c.TokenPurgeInterval.Duration)
	config.AMQPURL = c.AMQPURL
	config.AMQPQueue = c.AMQPQueue
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
