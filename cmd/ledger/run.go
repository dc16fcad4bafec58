// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/MKhiriev/go-user-ledger/internal/app"
	"github.com/MKhiriev/go-user-ledger/internal/config"
	"github.com/MKhiriev/go-user-ledger/internal/logger"
	"github.com/MKhiriev/go-user-ledger/internal/service"
	"github.com/MKhiriev/go-user-ledger/internal/utils"
	"github.com/MKhiriev/go-user-ledger/models"
)

// Process exit codes.
const (
	exitOK       = 0
	exitFailure  = 1 // verify returned false, or an unexpected error
	exitUsage    = 2
	exitRejected = 3 // input rejected by a ledger rule
	exitStorage  = 4
)

const usage = `usage: ledger [flags] <command> [arguments]

commands:
  register <user> <password>
  verify   <user> <password>
  pay      <from> <to> <amount>
  history  [-limit n] [-since date] [-until date] [user]
  balance  <user>
  version

flags:
  -d path                 database file (env STORAGE_DB_PATH)
  -busy-timeout dur       wait for a locked database (env STORAGE_DB_BUSY_TIMEOUT)
  -max-open-conns n       connection pool size (env STORAGE_DB_MAX_OPEN_CONNS)
  -bcrypt-cost n          password hashing cost (env APP_BCRYPT_COST)
  -min-password-length n  (env APP_MIN_PASSWORD_LENGTH)
  -enforce-parties bool   require registered payer and payee (env APP_ENFORCE_PARTIES)
  -currency-exponent n    digits after the decimal point (env APP_CURRENCY_EXPONENT)
  -log-level level        (env APP_LOG_LEVEL)
  -c, -config path        JSON configuration file (env CONFIG)
`

var errUsage = errors.New("invalid usage")

// run executes one command and returns the process exit code. Results go to
// stdout; log entries and error messages go to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "version" {
		fmt.Fprint(stdout, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))
		return exitOK
	}

	cfg, rest, err := config.GetStructuredConfig(args)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n\n%s", err, usage)
		return exitUsage
	}
	if len(rest) == 0 {
		fmt.Fprint(stderr, usage)
		return exitUsage
	}

	log, err := logger.New(stderr, "ledger", cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return exitUsage
	}

	ctx = log.WithTraceID(ctx, utils.NewUUIDGenerator().Generate())
	logger.FromContext(ctx).Debug().Str("command", rest[0]).Msg("starting command")

	a, err := app.NewApp(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", app.Message(err))
		return exitCode(err)
	}
	defer a.Close()

	cli := &commands{
		services: a.Services,
		exponent: cfg.App.Exponent(),
		stdout:   stdout,
	}

	err = cli.dispatch(ctx, rest[0], rest[1:])
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "%v\n\n%s", err, usage)
		return exitUsage
	case errors.Is(err, errVerificationFailed):
		fmt.Fprintln(stderr, app.MsgCredentialsInvalid)
		return exitFailure
	default:
		fmt.Fprintf(stderr, "error: %s\n", app.Message(err))
		return exitCode(err)
	}
}

func exitCode(err error) int {
	switch service.KindOf(err) {
	case service.KindNone:
		return exitOK
	case service.KindDuplicateUser, service.KindInvalidCredential, service.KindInvalidAmount,
		service.KindSelfTransfer, service.KindUnknownUser:
		return exitRejected
	case service.KindStorageFailure, service.KindHashingFailure:
		return exitStorage
	default:
		return exitFailure
	}
}

var errVerificationFailed = errors.New("verification failed")

type commands struct {
	services *service.Services
	exponent int32
	stdout   io.Writer
}

func (c *commands) dispatch(ctx context.Context, name string, args []string) error {
	switch name {
	case "register":
		return c.register(ctx, args)
	case "verify":
		return c.verify(ctx, args)
	case "pay":
		return c.pay(ctx, args)
	case "history":
		return c.history(ctx, args)
	case "balance":
		return c.balance(ctx, args)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}
}

func (c *commands) register(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: register expects <user> <password>", errUsage)
	}

	if err := c.services.CredentialStore.Register(ctx, args[0], args[1]); err != nil {
		return err
	}

	fmt.Fprintln(c.stdout, app.MsgUserRegistered)
	return nil
}

func (c *commands) verify(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: verify expects <user> <password>", errUsage)
	}

	ok, err := c.services.CredentialStore.Verify(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if !ok {
		return errVerificationFailed
	}

	fmt.Fprintln(c.stdout, app.MsgCredentialsValid)
	return nil
}

func (c *commands) pay(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("%w: pay expects <from> <to> <amount>", errUsage)
	}

	amount, err := parseAmount(args[2], c.exponent)
	if err != nil {
		return err
	}

	transfer, err := c.services.LedgerStore.RecordTransfer(ctx, args[0], args[1], amount)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "transfer #%d recorded at %s: %s -> %s %s\n",
		transfer.ID,
		transfer.Timestamp.Format(models.TransferTimeLayout),
		transfer.From,
		transfer.To,
		formatAmount(transfer.Amount, c.exponent),
	)
	return nil
}

func (c *commands) history(ctx context.Context, args []string) error {
	var (
		filter       models.TransferFilter
		since, until string
	)

	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Uint64Var(&filter.Limit, "limit", 0, "maximum number of transfers")
	fs.StringVar(&since, "since", "", "earliest timestamp, inclusive")
	fs.StringVar(&until, "until", "", "latest timestamp, exclusive")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	switch fs.NArg() {
	case 0:
	case 1:
		filter.Username = fs.Arg(0)
	default:
		return fmt.Errorf("%w: history expects at most one user", errUsage)
	}

	var err error
	if filter.Since, err = parseTime(since); err != nil {
		return fmt.Errorf("%w: -since: %w", errUsage, err)
	}
	if filter.Until, err = parseTime(until); err != nil {
		return fmt.Errorf("%w: -until: %w", errUsage, err)
	}

	transfers, err := c.services.LedgerStore.ListTransfers(ctx, filter)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tFROM\tTO\tAMOUNT")
	for _, t := range transfers {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			t.ID,
			t.Timestamp.Format(models.TransferTimeLayout),
			t.From,
			t.To,
			formatAmount(t.Amount, c.exponent),
		)
	}

	return w.Flush()
}

func (c *commands) balance(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: balance expects <user>", errUsage)
	}

	balance, err := c.services.LedgerStore.Balance(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(c.stdout, "%s %s\n", args[0], formatAmount(balance, c.exponent))
	return nil
}

// parseTime accepts a date ("2026-10-19"), the ledger timestamp layout or
// RFC 3339. An empty value is the zero time.
func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}

	for _, layout := range []string{time.DateOnly, models.TransferTimeLayout} {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised time %q", value)
	}

	return t, nil
}
