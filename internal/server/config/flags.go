package config

import (
	"flag"
	"os"
	"time"

	"github.com/mkarpenko/taskdeck/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token lifetime, seconds
//	-r int      refresh token lifetime, days
//	-p int      password-reset token lifetime, minutes
//	-w int      expired-token sweep interval, minutes
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with the -c/-config flags handled by
// the JSON layer.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s", "-t", "-r", "-p", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenTTL := fs.Int("t", int(config.AccessTokenTTL.Seconds()), "access_token_ttl (in seconds)")
	refreshTokenTTL := fs.Int("r", int(config.RefreshTokenTTL.Hours()/24), "refresh_token_ttl (in days)")
	resetTokenTTL := fs.Int("p", int(config.ResetTokenTTL.Minutes()), "reset_token_ttl (in minutes)")
	sweepInterval := fs.Int("w", int(config.SweepInterval.Minutes()), "sweep_interval (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenTTL = time.Duration(*accessTokenTTL) * time.Second
	config.RefreshTokenTTL = time.Duration(*refreshTokenTTL) * 24 * time.Hour
	config.ResetTokenTTL = time.Duration(*resetTokenTTL) * time.Minute
	config.SweepInterval = time.Duration(*sweepInterval) * time.Minute
}
