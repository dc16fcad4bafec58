package config

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"
)

// optionalBool is a tri-state boolean flag: it stays nil unless the flag is
// present on the command line. It implements the flag.Value interface.
type optionalBool struct {
	value *bool
}

// optionalInt32 is an int32 flag that stays nil unless set.
// It implements the flag.Value interface.
type optionalInt32 struct {
	value *int32
}

// ParseFlags parses configuration flags from args and returns the
// populated config together with the remaining positional arguments.
//
// Flags:
//
//	-d database file path
//	-busy-timeout time to wait on a locked database (e.g. "5s")
//	-max-open-conns size of the connection pool
//	-bcrypt-cost bcrypt work factor
//	-min-password-length minimum accepted password length
//	-enforce-parties require both transfer parties to be registered users
//	-currency-exponent digits of minor units for typed amounts
//	-log-level minimum log level
//	-c/-config json file path with configs
func ParseFlags(args []string) (*StructuredConfig, []string, error) {
	var (
		dbPath            string
		busyTimeout       time.Duration
		maxOpenConns      int
		bcryptCost        int
		minPasswordLength int
		enforceParties    optionalBool
		currencyExponent  optionalInt32
		logLevel          string
		jsonConfigPath    string
	)

	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&dbPath, "d", "", "Database file path")
	fs.DurationVar(&busyTimeout, "busy-timeout", 0, "Time to wait on a locked database (e.g., 5s)")
	fs.IntVar(&maxOpenConns, "max-open-conns", 0, "Database connection pool size")
	fs.IntVar(&bcryptCost, "bcrypt-cost", 0, "Bcrypt work factor")
	fs.IntVar(&minPasswordLength, "min-password-length", 0, "Minimum password length")
	fs.Var(&enforceParties, "enforce-parties", "Require both transfer parties to be registered users")
	fs.Var(&currencyExponent, "currency-exponent", "Number of minor unit digits for typed amounts")
	fs.StringVar(&logLevel, "log-level", "", "Minimum log level")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("error parsing flags: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			BcryptCost:        bcryptCost,
			MinPasswordLength: minPasswordLength,
			EnforceParties:    enforceParties.value,
			CurrencyExponent:  currencyExponent.value,
			LogLevel:          logLevel,
		},
		Storage: Storage{
			DB: DB{
				Path:         dbPath,
				BusyTimeout:  busyTimeout,
				MaxOpenConns: maxOpenConns,
			},
		},
		JSONFilePath: jsonConfigPath,
	}

	return cfg, fs.Args(), nil
}

func (b *optionalBool) String() string {
	if b == nil || b.value == nil {
		return ""
	}
	return strconv.FormatBool(*b.value)
}

func (b *optionalBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	b.value = &v
	return nil
}

// IsBoolFlag lets "-enforce-parties" be given without a value.
func (b *optionalBool) IsBoolFlag() bool {
	return true
}

func (i *optionalInt32) String() string {
	if i == nil || i.value == nil {
		return ""
	}
	return strconv.FormatInt(int64(*i.value), 10)
}

func (i *optionalInt32) Set(s string) error {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return err
	}
	v32 := int32(v)
	i.value = &v32
	return nil
}
