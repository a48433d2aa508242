package settle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/radieske/sports-wager-engine/internal/wager-service/domain"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUserNotFound      = errors.New("user not found")
)

// Request é o bilhete já totalmente validado, pronto para efetivação.
type Request struct {
	UserID      string
	Category    domain.Category
	StakeCents  int64
	PayoutCents int64
	TotalPrice  decimal.Decimal
	Legs        []domain.WagerLeg // snapshots com odd autoritativa congelada
	Memo        string
}

// Result retorna o id da aposta criada e o saldo após o débito.
type Result struct {
	WagerID      string
	BalanceCents int64
}

// Committer efetiva um bilhete validado como UMA transação: débito
// condicional do saldo, incremento de contadores por categoria, inserção
// da aposta com snapshots das legs e trilha de auditoria de saldo.
// Tudo ou nada: efeito parcial nunca é observável.
type Committer struct {
	db *sql.DB
}

func NewCommitter(db *sql.DB) *Committer { return &Committer{db: db} }

// Commit executa a efetivação. A checagem de saldo feita nos estágios de
// validação é apenas consultiva: aqui o débito é reexpresso como UPDATE
// condicional (balance_cents >= stake) dentro da transação, que é o que
// serializa débitos concorrentes do mesmo usuário. Contas non-debiting
// criam a aposta sem tocar o saldo.
func (c *Committer) Commit(ctx context.Context, req Request) (Result, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("begin settlement tx: %w", err)
	}
	defer tx.Rollback()

	var balanceBefore int64
	var nonDebiting bool
	err = tx.QueryRowContext(ctx,
		`SELECT balance_cents, non_debiting FROM users WHERE id=$1 FOR UPDATE`,
		req.UserID).Scan(&balanceBefore, &nonDebiting)
	if err == sql.ErrNoRows {
		return Result{}, ErrUserNotFound
	} else if err != nil {
		return Result{}, fmt.Errorf("lock user row: %w", err)
	}

	balanceAfter := balanceBefore
	if !nonDebiting {
		res, err := tx.ExecContext(ctx,
			`UPDATE users SET balance_cents = balance_cents - $1 WHERE id=$2 AND balance_cents >= $1`,
			req.StakeCents, req.UserID)
		if err != nil {
			return Result{}, fmt.Errorf("debit balance: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return Result{}, fmt.Errorf("debit balance: %w", err)
		}
		if n == 0 {
			return Result{}, ErrInsufficientFunds
		}
		balanceAfter = balanceBefore - req.StakeCents
	}

	// Contadores por categoria consumidos por sistemas promocionais.
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO user_bet_counters (user_id, category, total_stake_cents, bet_count, last_bet_at)
		VALUES ($1, $2, $3, 1, NOW())
		ON CONFLICT (user_id, category) DO UPDATE SET
			total_stake_cents = user_bet_counters.total_stake_cents + EXCLUDED.total_stake_cents,
			bet_count = user_bet_counters.bet_count + 1,
			last_bet_at = NOW()`,
		req.UserID, req.Category, req.StakeCents); err != nil {
		return Result{}, fmt.Errorf("bump counters: %w", err)
	}

	wagerID := uuid.NewString()
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO wagers (id, user_id, category, stake_cents, payout_cents, total_price, status, leg_count, placed_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'open', $7, NOW())`,
		wagerID, req.UserID, req.Category, req.StakeCents, req.PayoutCents,
		req.TotalPrice.String(), len(req.Legs)); err != nil {
		return Result{}, fmt.Errorf("insert wager: %w", err)
	}

	for i, l := range req.Legs {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO wager_legs (wager_id, seq, sport, competition, home_team, away_team, kickoff_at, market, side, price)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			wagerID, i, l.Sport, l.Competition, l.HomeTeam, l.AwayTeam,
			l.KickoffAt, l.Market, l.Side, l.Price.String()); err != nil {
			return Result{}, fmt.Errorf("insert wager leg: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO balance_audit (id, user_id, amount_cents, balance_before, balance_after, memo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
		uuid.NewString(), req.UserID, balanceAfter-balanceBefore,
		balanceBefore, balanceAfter, "wager:"+wagerID+" "+req.Memo); err != nil {
		return Result{}, fmt.Errorf("insert audit row: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("commit settlement tx: %w", err)
	}

	return Result{WagerID: wagerID, BalanceCents: balanceAfter}, nil
}
