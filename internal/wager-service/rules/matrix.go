package rules

import (
	"fmt"

	"github.com/radieske/sports-wager-engine/internal/wager-service/domain"
)

// Violation descreve o primeiro par proibido encontrado no bilhete.
type Violation struct {
	LegA   string
	LegB   string
	Reason string
}

// PairKey indexa a tabela de pares proibidos: modalidade, os dois tipos de
// mercado (em ordem canônica) e se alguma das seleções envolve empate.
type PairKey struct {
	Sport   domain.Sport
	MarketA domain.MarketKind
	MarketB domain.MarketKind
	Tie     bool
}

// Matrix avalia combinações de legs do mesmo evento contra uma tabela de
// pares proibidos habilitados por toggles de configuração. Uma rotina
// genérica varre a tabela; adicionar uma modalidade é mudança de dado,
// não de código.
type Matrix struct {
	table   map[PairKey]string
	toggles map[string]bool
}

// NewMatrix monta a matriz com a tabela de pares dada e os toggles que
// habilitam cada regra. Toggle ausente = regra desabilitada.
func NewMatrix(table map[PairKey]string, toggles map[string]bool) *Matrix {
	return &Matrix{table: table, toggles: toggles}
}

// Check particiona as legs por evento subjacente e avalia cada par não
// ordenado dentro de cada grupo. Fail-fast: retorna a primeira violação;
// aceitação/rejeição não depende da ordem de varredura, apenas a mensagem.
func (m *Matrix) Check(legs []domain.Leg) *Violation {
	groups := make(map[domain.EventKey][]domain.Leg)
	order := make([]domain.EventKey, 0, len(legs))
	for _, l := range legs {
		k := l.EventKey()
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], l)
	}

	for _, k := range order {
		g := groups[k]
		for i := 0; i < len(g); i++ {
			for j := i + 1; j < len(g); j++ {
				if v := m.checkPair(g[i], g[j]); v != nil {
					return v
				}
			}
		}
	}
	return nil
}

// checkPair avalia um par de legs do mesmo evento.
func (m *Matrix) checkPair(a, b domain.Leg) *Violation {
	if !domain.KnownMarket(a.Market) {
		return &Violation{LegA: a.ID, LegB: b.ID, Reason: fmt.Sprintf("unknown market type %q on leg %s", a.Market, a.ID)}
	}
	if !domain.KnownMarket(b.Market) {
		return &Violation{LegA: a.ID, LegB: b.ID, Reason: fmt.Sprintf("unknown market type %q on leg %s", b.Market, b.ID)}
	}

	// Mesmo mercado no mesmo evento: duplicata, sempre proibido.
	if a.Market == b.Market {
		if a.Side == b.Side {
			return &Violation{LegA: a.ID, LegB: b.ID, Reason: pairMsg(a, b, "duplicate selection on the same market")}
		}
		return &Violation{LegA: a.ID, LegB: b.ID, Reason: pairMsg(a, b, "two selections on the same market of the same event")}
	}

	tie := a.Side == domain.SideTie || b.Side == domain.SideTie

	// Consulta primeiro a regra específica de empate; se a seleção envolve
	// empate, a regra geral (tie=false) do par também se aplica.
	if v := m.lookup(a, b, tie); v != nil {
		return v
	}
	if tie {
		if v := m.lookup(a, b, false); v != nil {
			return v
		}
	}
	return nil
}

func (m *Matrix) lookup(a, b domain.Leg, tie bool) *Violation {
	toggle, ok := m.table[pairKey(a.Sport, a.Market, b.Market, tie)]
	if !ok || !m.toggles[toggle] {
		return nil
	}
	return &Violation{
		LegA:   a.ID,
		LegB:   b.ID,
		Reason: pairMsg(a, b, "combination disallowed by rule "+toggle),
	}
}

// pairKey normaliza a ordem dos mercados, já que pares são não ordenados.
func pairKey(s domain.Sport, ma, mb domain.MarketKind, tie bool) PairKey {
	if mb < ma {
		ma, mb = mb, ma
	}
	return PairKey{Sport: s, MarketA: ma, MarketB: mb, Tie: tie}
}

func pairMsg(a, b domain.Leg, why string) string {
	return fmt.Sprintf("%s %s/%s + %s/%s: %s",
		a.Competition, a.Market, a.Side, b.Market, b.Side, why)
}
