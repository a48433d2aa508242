package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/sports-wager-engine/internal/wager-service/domain"
	"github.com/radieske/sports-wager-engine/internal/wager-service/exposure"
	"github.com/radieske/sports-wager-engine/internal/wager-service/limits"
	"github.com/radieske/sports-wager-engine/internal/wager-service/odds"
	"github.com/radieske/sports-wager-engine/internal/wager-service/rules"
	"github.com/radieske/sports-wager-engine/internal/wager-service/settle"
	"github.com/radieske/sports-wager-engine/pkg/contracts/events"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

var kickoff = time.Date(2025, 11, 8, 15, 0, 0, 0, time.UTC)

func marketLeg(id, event, price string) domain.Leg {
	return domain.Leg{
		ID:          id,
		Sport:       domain.SportSoccer,
		Competition: event,
		HomeTeam:    event + "-home",
		AwayTeam:    event + "-away",
		KickoffAt:   kickoff,
		Market:      domain.MarketMatch,
		Side:        domain.SideHome,
		Price:       dec(price),
	}
}

// --- fakes ---

type fakeLegs struct{ legs map[string]domain.Leg }

func (f *fakeLegs) GetLegsByIDs(_ context.Context, ids []string) (map[string]domain.Leg, error) {
	out := map[string]domain.Leg{}
	for _, id := range ids {
		if l, ok := f.legs[id]; ok {
			out[id] = l
		}
	}
	return out, nil
}

type fakeUsers struct{ user *domain.User }

func (f *fakeUsers) GetUser(context.Context, string) (*domain.User, error) { return f.user, nil }

type fakeWagers struct{ open []domain.Wager }

func (f *fakeWagers) OpenWagersByAnchorKeys(context.Context, string, []domain.AnchorKey) ([]domain.Wager, error) {
	return f.open, nil
}

// fakeCommitter serializa débitos como o banco faria: o débito condicional
// decide dentro de uma seção crítica. Conta non-debiting registra a aposta
// sem tocar o saldo.
type fakeCommitter struct {
	mu          sync.Mutex
	balance     int64
	nonDebiting bool
	committed   int
}

func (c *fakeCommitter) Commit(_ context.Context, req settle.Request) (settle.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.nonDebiting {
		if c.balance < req.StakeCents {
			return settle.Result{}, settle.ErrInsufficientFunds
		}
		c.balance -= req.StakeCents
	}
	c.committed++
	return settle.Result{
		WagerID:      fmt.Sprintf("w%d", c.committed),
		BalanceCents: c.balance,
	}, nil
}

type fakePub struct {
	mu     sync.Mutex
	events []events.WagerPlaced
}

func (p *fakePub) PublishWagerPlaced(_ context.Context, e events.WagerPlaced) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func testUser(balance int64) *domain.User {
	bounds := domain.Bounds{
		MinStakeCents:       1000,
		MaxStakeCents:       10_000_000,
		MaxPayoutCents:      100_000_000,
		GroupMaxStakeCents:  100_000_000,
		GroupMaxPayoutCents: 1_000_000_000,
	}
	multi := bounds
	multi.MaxLegs = 10
	multi.MaxTotalPrice = dec("10.00")
	return &domain.User{
		ID:            "u1",
		BalanceCents:  balance,
		SingleBlocked: map[domain.Category]bool{},
		Tier: domain.TierLimits{
			Single: map[domain.Category]domain.Bounds{domain.CategoryCross: bounds},
			Multi:  map[domain.Category]domain.Bounds{domain.CategoryCross: multi},
		},
	}
}

func testEngine(user *domain.User, legs map[string]domain.Leg, commit Committer, pub Publisher) *Engine {
	return buildEngine(&fakeLegs{legs: legs}, &fakeUsers{user: user}, &fakeWagers{}, commit, pub)
}

func buildEngine(legs LegStore, users UserStore, wagers WagerStore, commit Committer, pub Publisher) *Engine {
	return New(
		zap.NewNop(),
		legs,
		users,
		wagers,
		commit,
		pub,
		odds.NewVerifier(nil),
		rules.NewMatrix(rules.DefaultTable(), rules.DefaultToggles()),
		limits.NewEvaluator(limits.GlobalPolicy{
			MaxLegs:       10,
			MaxTotalPrice: dec("100.00"),
			SingleEnabled: map[domain.Category]bool{domain.CategoryCross: true},
		}),
		exposure.NewGuard(5),
		nil,
	)
}

func twoLegSlip(stake int64, total string) *domain.Slip {
	return &domain.Slip{
		UserID:     "u1",
		Category:   domain.CategoryCross,
		StakeCents: stake,
		TotalPrice: dec(total),
		Legs: []domain.SlipLeg{
			{LegID: "l1", Price: dec("1.90")},
			{LegID: "l2", Price: dec("2.00")},
		},
	}
}

func marketLegs() map[string]domain.Leg {
	return map[string]domain.Leg{
		"l1": marketLeg("l1", "e1", "1.90"),
		"l2": marketLeg("l2", "e2", "2.00"),
	}
}

func TestPlaceCommitted(t *testing.T) {
	commit := &fakeCommitter{balance: 100_000}
	pub := &fakePub{}
	eng := testEngine(testUser(100_000), marketLegs(), commit, pub)

	r, err := eng.Place(context.Background(), twoLegSlip(50_000, "3.80"))
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if r.State != StateCommitted {
		t.Fatalf("state = %s (%s: %s), want committed", r.State, r.Code, r.Message)
	}
	if r.PayoutCents != 190_000 {
		t.Errorf("payout = %d, want 190000", r.PayoutCents)
	}
	if r.BalanceCents != 50_000 {
		t.Errorf("balance = %d, want 50000", r.BalanceCents)
	}
	if len(pub.events) != 1 || pub.events[0].WagerID != r.WagerID {
		t.Errorf("expected one wager_placed event for %s, got %+v", r.WagerID, pub.events)
	}
}

func TestPlaceStaleOddsLeavesBalanceUntouched(t *testing.T) {
	legs := marketLegs()
	legs["l2"] = marketLeg("l2", "e2", "2.10") // odd moveu após montagem
	commit := &fakeCommitter{balance: 100_000}
	eng := testEngine(testUser(100_000), legs, commit, &fakePub{})

	r, err := eng.Place(context.Background(), twoLegSlip(50_000, "3.80"))
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if r.State != StateStaleOdds {
		t.Fatalf("state = %s, want stale_odds", r.State)
	}
	if len(r.UpdatedLegs) != 1 || r.UpdatedLegs[0].ID != "l2" {
		t.Fatalf("updated legs = %+v, want exactly l2", r.UpdatedLegs)
	}
	if !r.UpdatedLegs[0].Price.Equal(dec("2.10")) {
		t.Errorf("updated price = %s, want 2.10", r.UpdatedLegs[0].Price)
	}
	if commit.balance != 100_000 || commit.committed != 0 {
		t.Errorf("stale odds reached the committer: balance=%d committed=%d", commit.balance, commit.committed)
	}
}

func TestPlaceTamperedTotal(t *testing.T) {
	commit := &fakeCommitter{balance: 100_000}
	eng := testEngine(testUser(100_000), marketLegs(), commit, &fakePub{})

	r, err := eng.Place(context.Background(), twoLegSlip(50_000, "4.20"))
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if r.State != StateRejected || r.Code != ReasonTamperedOdds {
		t.Fatalf("got %s/%s, want rejected/TAMPERED_ODDS", r.State, r.Code)
	}
	if commit.committed != 0 {
		t.Error("tampered slip was committed")
	}
}

func TestPlaceForbiddenCombination(t *testing.T) {
	legs := map[string]domain.Leg{
		"l1": marketLeg("l1", "e1", "1.90"),
		"l2": marketLeg("l2", "e1", "2.00"),
	}
	legs["l2"] = func(l domain.Leg) domain.Leg {
		l.Market = domain.MarketHandicap
		l.Side = domain.SideAway
		return l
	}(legs["l2"])

	eng := testEngine(testUser(100_000), legs, &fakeCommitter{balance: 100_000}, &fakePub{})
	r, err := eng.Place(context.Background(), twoLegSlip(50_000, "3.80"))
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if r.State != StateRejected || r.Code != ReasonForbiddenCombination {
		t.Fatalf("got %s/%s, want rejected/FORBIDDEN_COMBINATION", r.State, r.Code)
	}
}

func TestPlaceSingleBlockedUser(t *testing.T) {
	user := testUser(100_000)
	user.SingleBlocked[domain.CategoryCross] = true
	eng := testEngine(user, marketLegs(), &fakeCommitter{balance: 100_000}, &fakePub{})

	slip := &domain.Slip{
		UserID:     "u1",
		Category:   domain.CategoryCross,
		StakeCents: 50_000,
		TotalPrice: dec("1.90"),
		Legs:       []domain.SlipLeg{{LegID: "l1", Price: dec("1.90")}},
	}
	r, err := eng.Place(context.Background(), slip)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if r.State != StateRejected || r.Code != ReasonLimitExceeded {
		t.Fatalf("got %s/%s, want rejected/LIMIT_EXCEEDED", r.State, r.Code)
	}
}

func TestPlaceAdvisoryInsufficientBalance(t *testing.T) {
	eng := testEngine(testUser(10_000), marketLegs(), &fakeCommitter{balance: 10_000}, &fakePub{})

	r, err := eng.Place(context.Background(), twoLegSlip(50_000, "3.80"))
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if r.State != StateRejected || r.Code != ReasonInsufficientBalance {
		t.Fatalf("got %s/%s, want rejected/INSUFFICIENT_BALANCE", r.State, r.Code)
	}
}

// Conta demo (non-debiting) aposta com saldo zero: a checagem consultiva
// não barra, a aposta efetiva e o saldo fica intocado.
func TestPlaceNonDebitingUserCommitsWithoutDebit(t *testing.T) {
	user := testUser(0)
	user.NonDebiting = true
	commit := &fakeCommitter{balance: 0, nonDebiting: true}
	pub := &fakePub{}
	eng := testEngine(user, marketLegs(), commit, pub)

	r, err := eng.Place(context.Background(), twoLegSlip(50_000, "3.80"))
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if r.State != StateCommitted {
		t.Fatalf("state = %s (%s: %s), want committed", r.State, r.Code, r.Message)
	}
	if commit.committed != 1 {
		t.Errorf("committed = %d, want 1", commit.committed)
	}
	if commit.balance != 0 {
		t.Errorf("balance = %d, non-debiting account was debited", commit.balance)
	}
	if len(pub.events) != 1 {
		t.Errorf("expected one wager_placed event, got %d", len(pub.events))
	}
}

type faultLegs struct{}

func (faultLegs) GetLegsByIDs(context.Context, []string) (map[string]domain.Leg, error) {
	return nil, fmt.Errorf("leg store unavailable")
}

type faultUsers struct{}

func (faultUsers) GetUser(context.Context, string) (*domain.User, error) {
	return nil, fmt.Errorf("user store unavailable")
}

type faultWagers struct{}

func (faultWagers) OpenWagersByAnchorKeys(context.Context, string, []domain.AnchorKey) ([]domain.Wager, error) {
	return nil, fmt.Errorf("wager store unavailable")
}

// Store indisponível derruba a submissão como erro, nunca como aceitação:
// aposta só entra com odds e exposição recém lidas.
func TestPlaceStoreFailureFailsClosed(t *testing.T) {
	tests := []struct {
		name  string
		build func(commit Committer) *Engine
	}{
		{"user store", func(c Committer) *Engine {
			return buildEngine(&fakeLegs{legs: marketLegs()}, faultUsers{}, &fakeWagers{}, c, &fakePub{})
		}},
		{"leg store", func(c Committer) *Engine {
			return buildEngine(faultLegs{}, &fakeUsers{user: testUser(100_000)}, &fakeWagers{}, c, &fakePub{})
		}},
		{"open wager store", func(c Committer) *Engine {
			return buildEngine(&fakeLegs{legs: marketLegs()}, &fakeUsers{user: testUser(100_000)}, faultWagers{}, c, &fakePub{})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commit := &fakeCommitter{balance: 100_000}
			eng := tt.build(commit)

			r, err := eng.Place(context.Background(), twoLegSlip(50_000, "3.80"))
			if err == nil {
				t.Fatalf("expected error, got receipt %+v", r)
			}
			if r != nil {
				t.Errorf("receipt = %+v, want nil on infrastructure failure", r)
			}
			if commit.committed != 0 {
				t.Errorf("committed = %d, failed read reached the committer", commit.committed)
			}
		})
	}
}

// Duas submissões concorrentes do mesmo usuário, cada uma paga sozinha mas
// não as duas juntas: exatamente uma efetiva e uma rejeita, nunca as duas,
// nunca saldo corrompido.
func TestPlaceConcurrentSlipsSingleDebit(t *testing.T) {
	commit := &fakeCommitter{balance: 100_000}
	user := testUser(100_000)
	legs := marketLegs()

	var wg sync.WaitGroup
	receipts := make([]*Receipt, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			eng := testEngine(user, legs, commit, &fakePub{})
			r, err := eng.Place(context.Background(), twoLegSlip(60_000, "3.80"))
			if err != nil {
				t.Errorf("Place: %v", err)
				return
			}
			receipts[i] = r
		}(i)
	}
	wg.Wait()

	var committed, insufficient int
	for _, r := range receipts {
		if r == nil {
			t.Fatal("missing receipt")
		}
		switch {
		case r.State == StateCommitted:
			committed++
		case r.Code == ReasonInsufficientBalance:
			insufficient++
		default:
			t.Errorf("unexpected outcome %s/%s", r.State, r.Code)
		}
	}
	if committed != 1 || insufficient != 1 {
		t.Errorf("committed=%d insufficient=%d, want exactly 1 and 1", committed, insufficient)
	}
	if commit.balance != 40_000 {
		t.Errorf("final balance = %d, want 40000", commit.balance)
	}
}

func TestPlaceCommitFailureIsTerminal(t *testing.T) {
	eng := testEngine(testUser(100_000), marketLegs(), failingCommitter{}, &fakePub{})

	r, err := eng.Place(context.Background(), twoLegSlip(50_000, "3.80"))
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if r.State != StateRejected || r.Code != ReasonCommitFailed {
		t.Fatalf("got %s/%s, want rejected/COMMIT_FAILED", r.State, r.Code)
	}
}

type failingCommitter struct{}

func (failingCommitter) Commit(context.Context, settle.Request) (settle.Result, error) {
	return settle.Result{}, fmt.Errorf("store rejected the transaction")
}
