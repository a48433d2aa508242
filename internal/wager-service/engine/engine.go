package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/sports-wager-engine/internal/shared/metrics"
	"github.com/radieske/sports-wager-engine/internal/wager-service/domain"
	"github.com/radieske/sports-wager-engine/internal/wager-service/exposure"
	"github.com/radieske/sports-wager-engine/internal/wager-service/limits"
	"github.com/radieske/sports-wager-engine/internal/wager-service/odds"
	"github.com/radieske/sports-wager-engine/internal/wager-service/rules"
	"github.com/radieske/sports-wager-engine/internal/wager-service/settle"
	"github.com/radieske/sports-wager-engine/pkg/contracts/events"
)

// LegStore lê as legs autoritativas do mercado por id.
type LegStore interface {
	GetLegsByIDs(ctx context.Context, ids []string) (map[string]domain.Leg, error)
}

// UserStore lê o registro do apostador (saldo, tier, flags).
type UserStore interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// WagerStore lê as apostas abertas do usuário cujas legs caem nas classes
// de equivalência dadas.
type WagerStore interface {
	OpenWagersByAnchorKeys(ctx context.Context, userID string, keys []domain.AnchorKey) ([]domain.Wager, error)
}

// Committer efetiva o bilhete validado em uma transação.
type Committer interface {
	Commit(ctx context.Context, req settle.Request) (settle.Result, error)
}

// Publisher publica o evento pós-commit.
type Publisher interface {
	PublishWagerPlaced(ctx context.Context, e events.WagerPlaced) error
}

// Engine é o pipeline de aceitação: verificação de odds → matriz de
// combinações → limites → exposição → efetivação. Sem estado próprio
// entre requisições; tudo é buscado fresco por submissão.
type Engine struct {
	log      *zap.Logger
	legs     LegStore
	users    UserStore
	wagers   WagerStore
	commit   Committer
	pub      Publisher
	verifier *odds.Verifier
	matrix   *rules.Matrix
	policy   *limits.Evaluator
	guard    *exposure.Guard
	met      *metrics.Engine
}

func New(
	log *zap.Logger,
	legs LegStore,
	users UserStore,
	wagers WagerStore,
	commit Committer,
	pub Publisher,
	verifier *odds.Verifier,
	matrix *rules.Matrix,
	policy *limits.Evaluator,
	guard *exposure.Guard,
	met *metrics.Engine,
) *Engine {
	return &Engine{
		log:      log,
		legs:     legs,
		users:    users,
		wagers:   wagers,
		commit:   commit,
		pub:      pub,
		verifier: verifier,
		matrix:   matrix,
		policy:   policy,
		guard:    guard,
		met:      met,
	}
}

// Place valida e, se aprovado, efetiva o bilhete. Falhas de infraestrutura
// (store inacessível, timeout) retornam erro e NUNCA aceitação: o motor
// falha fechado — aposta só entra com odds e exposição recém verificadas.
// Rejeições de negócio são valores no Receipt, não erros.
func (e *Engine) Place(ctx context.Context, slip *domain.Slip) (*Receipt, error) {
	if err := slip.Validate(); err != nil {
		return nil, err
	}
	e.met.Submitted()

	user, err := e.users.GetUser(ctx, slip.UserID)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}

	authoritative, err := e.legs.GetLegsByIDs(ctx, slip.LegIDs())
	if err != nil {
		return nil, fmt.Errorf("fetch legs: %w", err)
	}

	// 1) Integridade de odds.
	res := e.verifier.Verify(slip, authoritative)
	switch res.Verdict {
	case odds.VerdictStale:
		e.met.Rejected(string(ReasonStaleOdds))
		return staleOdds(res.StaleLegs), nil
	case odds.VerdictTampered:
		e.log.Warn("tampered odds", zap.String("user", slip.UserID), zap.String("reason", res.Reason))
		e.met.Rejected(string(ReasonTamperedOdds))
		return rejected(ReasonTamperedOdds, res.Reason), nil
	}

	resolved := make([]domain.Leg, 0, len(slip.Legs))
	for _, sl := range slip.Legs {
		resolved = append(resolved, authoritative[sl.LegID])
	}

	// 2) Matriz de combinações.
	if v := e.matrix.Check(resolved); v != nil {
		e.met.Rejected(string(ReasonForbiddenCombination))
		return rejected(ReasonForbiddenCombination, v.Reason), nil
	}

	totalPrice := domain.RoundPrice(slip.TotalPrice)
	payoutCents := domain.PayoutCents(slip.StakeCents, totalPrice)

	// 3) Limites do tier e política global.
	if v := e.policy.Evaluate(len(slip.Legs), slip.Category, slip.StakeCents, payoutCents, totalPrice, user); v != nil {
		e.met.Rejected(string(ReasonLimitExceeded))
		return rejected(ReasonLimitExceeded, v.Message), nil
	}

	// Checagem consultiva de saldo: mensagem amigável antes do commit.
	// O débito real é revalidado atomicamente na transação.
	if !user.NonDebiting && user.BalanceCents < slip.StakeCents {
		e.met.Rejected(string(ReasonInsufficientBalance))
		return rejected(ReasonInsufficientBalance, "balance is insufficient for this stake"), nil
	}

	// 4) Exposição âncora agregada.
	keys := make([]domain.AnchorKey, 0, len(resolved))
	for _, l := range resolved {
		keys = append(keys, l.AnchorKey())
	}
	open, err := e.wagers.OpenWagersByAnchorKeys(ctx, slip.UserID, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch open wagers: %w", err)
	}
	bounds := e.groupBounds(user, slip.Category, len(slip.Legs))
	if v := e.guard.Check(resolved, slip.StakeCents, payoutCents, open, bounds); v != nil {
		e.met.Rejected(string(ReasonExposureExceeded))
		return rejected(ReasonExposureExceeded, v.Message), nil
	}

	// 5) Efetivação atômica.
	snapshots := make([]domain.WagerLeg, 0, len(resolved))
	for _, l := range resolved {
		snapshots = append(snapshots, domain.WagerLeg{
			Sport:       l.Sport,
			Competition: l.Competition,
			HomeTeam:    l.HomeTeam,
			AwayTeam:    l.AwayTeam,
			KickoffAt:   l.KickoffAt,
			Market:      l.Market,
			Side:        l.Side,
			Price:       l.Price,
		})
	}

	start := time.Now()
	result, err := e.commit.Commit(ctx, settle.Request{
		UserID:      slip.UserID,
		Category:    slip.Category,
		StakeCents:  slip.StakeCents,
		PayoutCents: payoutCents,
		TotalPrice:  totalPrice,
		Legs:        snapshots,
		Memo:        fmt.Sprintf("%s %d-leg @ %s", slip.Category, len(slip.Legs), totalPrice),
	})
	e.met.CommitObserved(time.Since(start))
	if err != nil {
		if errors.Is(err, settle.ErrInsufficientFunds) {
			e.met.Rejected(string(ReasonInsufficientBalance))
			return rejected(ReasonInsufficientBalance, "balance is insufficient for this stake"), nil
		}
		e.log.Error("settlement commit failed", zap.String("user", slip.UserID), zap.Error(err))
		e.met.Rejected(string(ReasonCommitFailed))
		return rejected(ReasonCommitFailed, "wager could not be committed, please resubmit"), nil
	}

	e.met.Committed()
	e.publish(ctx, slip, result, payoutCents, totalPrice.String())
	return committed(result.WagerID, payoutCents, result.BalanceCents), nil
}

// groupBounds escolhe a célula do tier usada nos tetos agregados conforme
// a forma do bilhete ATUAL (simples vs múltiplo), não a das apostas
// históricas do grupo.
func (e *Engine) groupBounds(user *domain.User, c domain.Category, legCount int) domain.Bounds {
	if legCount == 1 {
		b, _ := user.Tier.SingleBounds(c)
		return b
	}
	b, _ := user.Tier.MultiBounds(c)
	return b
}

// publish emite o evento pós-commit; melhor esforço, falha apenas logada.
func (e *Engine) publish(ctx context.Context, slip *domain.Slip, r settle.Result, payoutCents int64, totalPrice string) {
	if e.pub == nil {
		return
	}
	err := e.pub.PublishWagerPlaced(ctx, events.WagerPlaced{
		WagerID:     r.WagerID,
		UserID:      slip.UserID,
		Category:    string(slip.Category),
		StakeCents:  slip.StakeCents,
		PayoutCents: payoutCents,
		TotalPrice:  totalPrice,
		LegCount:    len(slip.Legs),
	})
	if err != nil {
		e.log.Warn("publish wager_placed", zap.String("wager", r.WagerID), zap.Error(err))
	}
}
