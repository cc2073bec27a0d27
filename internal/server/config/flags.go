package config

import (
	"flag"
	"os"
	"time"

	"github.com/dkrasnovs/accounts-service/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, hours
//	-k int      activation token validity, hours
//	-w int      password reset token validity, minutes
//	-i int      expired-token purge interval, minutes
//	-m string   AMQP URL for the notifier
//	-q string   AMQP queue name
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration flags
// are accepted as integers and converted to time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s", "-t", "-r", "-k", "-w", "-i", "-m", "-q", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessValidity := fs.Int("t", int(config.AccessTokenValidity.Minutes()), "access token validity (in minutes)")
	refreshValidity := fs.Int("r", int(config.RefreshTokenValidity.Hours()), "refresh token validity (in hours)")
	activationValidity := fs.Int("k", int(config.ActivationTokenValidity.Hours()), "activation token validity (in hours)")
	resetValidity := fs.Int("w", int(config.PasswordResetTokenValidity.Minutes()), "password reset token validity (in minutes)")
	purgeInterval := fs.Int("i", int(config.TokenPurgeInterval.Minutes()), "expired token purge interval (in minutes)")

	fs.StringVar(&config.AMQPURL, "m", config.AMQPURL, "AMQP URL")
	fs.StringVar(&config.AMQPQueue, "q", config.AMQPQueue, "AMQP queue name")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidity = time.Duration(*accessValidity) * time.Minute
	config.RefreshTokenValidity = time.Duration(*refreshValidity) * time.Hour
	config.ActivationTokenValidity = time.Duration(*activationValidity) * time.Hour
	config.PasswordResetTokenValidity = time.Duration(*resetValidity) * time.Minute
	config.TokenPurgeInterval = time.Duration(*purgeInterval) * time.Minute
}
