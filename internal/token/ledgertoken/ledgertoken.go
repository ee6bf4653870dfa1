package ledgertoken

import (
	"context"
	"strings"

	"github.com/AvantStark/avant-stark-contract/internal/clock"
	tokendomain "github.com/AvantStark/avant-stark-contract/internal/token/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger is a database-backed fungible-token ledger implementing the
// transfer capability for local deployments and integration tests. It
// follows transferFrom semantics: the move is funded by the sender's
// balance and spends the sender's allowance toward the configured spender.
type Ledger struct {
	spender string
	clock   clock.Clock
}

func New(spender string, clk clock.Clock) *Ledger {
	return &Ledger{spender: strings.TrimSpace(spender), clock: clk}
}

func (l *Ledger) TransferFrom(ctx context.Context, tx *gorm.DB, token, from, to string, amount decimal.Decimal) error {
	token = strings.TrimSpace(token)
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if tx == nil || token == "" || from == "" || to == "" || amount.Sign() <= 0 {
		return tokendomain.ErrInvalidTransfer
	}

	allowance, err := l.readAmount(ctx, tx,
		`SELECT amount FROM token_allowances WHERE token = ? AND owner = ? AND spender = ?`,
		token, from, l.spender)
	if err != nil {
		return err
	}
	if allowance.LessThan(amount) {
		return tokendomain.ErrInsufficientAllowance
	}

	balance, err := l.readAmount(ctx, tx,
		`SELECT amount FROM token_balances WHERE token = ? AND holder = ?`,
		token, from)
	if err != nil {
		return err
	}
	if balance.LessThan(amount) {
		return tokendomain.ErrInsufficientBalance
	}

	now := l.clock.Now()
	if err := tx.WithContext(ctx).Exec(
		`UPDATE token_allowances SET amount = ?, updated_at = ?
		 WHERE token = ? AND owner = ? AND spender = ?`,
		allowance.Sub(amount).String(), now, token, from, l.spender,
	).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Exec(
		`UPDATE token_balances SET amount = ?, updated_at = ?
		 WHERE token = ? AND holder = ?`,
		balance.Sub(amount).String(), now, token, from,
	).Error; err != nil {
		return err
	}
	return l.credit(ctx, tx, token, to, amount, now)
}

// Mint credits freshly issued units to a holder. Dev and test use only.
func (l *Ledger) Mint(ctx context.Context, db *gorm.DB, token, holder string, amount decimal.Decimal) error {
	token = strings.TrimSpace(token)
	holder = strings.TrimSpace(holder)
	if db == nil || token == "" || holder == "" || amount.Sign() <= 0 {
		return tokendomain.ErrInvalidTransfer
	}
	return l.credit(ctx, db, token, holder, amount, l.clock.Now())
}

// Approve sets the holder's allowance toward the configured spender.
func (l *Ledger) Approve(ctx context.Context, db *gorm.DB, token, owner string, amount decimal.Decimal) error {
	token = strings.TrimSpace(token)
	owner = strings.TrimSpace(owner)
	if db == nil || token == "" || owner == "" || amount.Sign() < 0 {
		return tokendomain.ErrInvalidTransfer
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO token_allowances (token, owner, spender, amount, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (token, owner, spender) DO UPDATE SET amount = excluded.amount, updated_at = excluded.updated_at`,
		token, owner, l.spender, amount.String(), l.clock.Now(),
	).Error
}

// BalanceOf reads a holder's balance.
func (l *Ledger) BalanceOf(ctx context.Context, db *gorm.DB, token, holder string) (decimal.Decimal, error) {
	return l.readAmount(ctx, db,
		`SELECT amount FROM token_balances WHERE token = ? AND holder = ?`,
		strings.TrimSpace(token), strings.TrimSpace(holder))
}

func (l *Ledger) credit(ctx context.Context, db *gorm.DB, token, holder string, amount decimal.Decimal, now any) error {
	balance, err := l.readAmount(ctx, db,
		`SELECT amount FROM token_balances WHERE token = ? AND holder = ?`,
		token, holder)
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO token_balances (token, holder, amount, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (token, holder) DO UPDATE SET amount = excluded.amount, updated_at = excluded.updated_at`,
		token, holder, balance.Add(amount).String(), now,
	).Error
}

func (l *Ledger) readAmount(ctx context.Context, db *gorm.DB, query string, args ...any) (decimal.Decimal, error) {
	var raw string
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&raw).Error; err != nil {
		return decimal.Zero, err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, tokendomain.ErrInvalidTransfer
	}
	return amount, nil
}
