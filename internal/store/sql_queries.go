package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-user-ledger/models"
)

const (
	createUser = `INSERT INTO users (u_name, p_word) VALUES (?, ?);`

	findUserByUsername = `SELECT u_name, p_word FROM users WHERE u_name = ?;`

	checkTransferParties = `SELECT
		EXISTS (SELECT 1 FROM users WHERE u_name = ?),
		EXISTS (SELECT 1 FROM users WHERE u_name = ?);`

	// createTransfer stamps the row with the database clock. The stamp never
	// goes below the latest stored one, so ledger order stays monotonic even
	// if the system clock is stepped back. In that case the stamp repeats the
	// latest stored time and can be later than the wall clock at the moment
	// of the call.
	createTransfer = `INSERT INTO transactions (u_from, u_to, t_date, t_amount)
		VALUES (
			?,
			?,
			max(datetime('now'), coalesce((SELECT max(t_date) FROM transactions), '')),
			?
		)
		RETURNING rowid, u_from, u_to, t_date, t_amount;`
)

var transferColumns = []string{"rowid", "u_from", "u_to", "t_date", "t_amount"}

// buildListTransfersQuery builds the SELECT for [TransferRepository.ListTransfers].
// Every non-zero field of filter adds one predicate; results are ordered by
// timestamp and rowid.
func buildListTransfersQuery(_ context.Context, filter models.TransferFilter) (string, []any, error) {
	builder := sq.Select(transferColumns...).
		From(models.Transfer{}.TableName()).
		PlaceholderFormat(sq.Question)

	if filter.Username != "" {
		builder = builder.Where(sq.Or{
			sq.Eq{"u_from": filter.Username},
			sq.Eq{"u_to": filter.Username},
		})
	}
	if filter.From != "" {
		builder = builder.Where(sq.Eq{"u_from": filter.From})
	}
	if filter.To != "" {
		builder = builder.Where(sq.Eq{"u_to": filter.To})
	}
	if !filter.Since.IsZero() {
		builder = builder.Where(sq.GtOrEq{"t_date": filter.Since.UTC().Format(models.TransferTimeLayout)})
	}
	if !filter.Until.IsZero() {
		builder = builder.Where(sq.Lt{"t_date": filter.Until.UTC().Format(models.TransferTimeLayout)})
	}

	builder = builder.OrderBy("t_date ASC", "rowid ASC")

	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildBalanceQuery builds a single-row SELECT returning incoming minus
// outgoing amounts of username.
func buildBalanceQuery(_ context.Context, username string) (string, []any, error) {
	query, args, err := sq.Select().
		Column(sq.Expr(
			"coalesce(sum(CASE WHEN u_to = ? THEN t_amount ELSE 0 END), 0) - coalesce(sum(CASE WHEN u_from = ? THEN t_amount ELSE 0 END), 0)",
			username, username,
		)).
		From(models.Transfer{}.TableName()).
		Where(sq.Or{
			sq.Eq{"u_from": username},
			sq.Eq{"u_to": username},
		}).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
