package rules

import "github.com/radieske/sports-wager-engine/internal/wager-service/domain"

// Nomes dos toggles de regra. A configuração liga/desliga cada um por nome;
// o sufixo segue o padrão <modalidade>_<regra>.
const (
	ToggleSoccerMatchHandicap     = "soccer_match_handicap"
	ToggleSoccerTieHandicap       = "soccer_tie_handicap"
	ToggleSoccerTieMatchUnderOver = "soccer_tie_match_underover"
	ToggleSoccerHandicapUnderOver = "soccer_handicap_underover"
	ToggleSoccerSpecialCombo      = "soccer_special_combo"
	ToggleBasketMatchHandicap     = "basketball_match_handicap"
	ToggleBasketHandicapUnderOver = "basketball_handicap_underover"
	ToggleBasketSpecialCombo      = "basketball_special_combo"
	ToggleBaseballMatchHandicap   = "baseball_match_handicap"
	ToggleBaseballHandicapUO      = "baseball_handicap_underover"
	ToggleBaseballSpecialCombo    = "baseball_special_combo"
	ToggleVolleyMatchHandicap     = "volleyball_match_handicap"
	ToggleVolleyHandicapUnderOver = "volleyball_handicap_underover"
	ToggleVolleySpecialCombo      = "volleyball_special_combo"
	ToggleHockeyMatchHandicap     = "icehockey_match_handicap"
	ToggleHockeyTieHandicap       = "icehockey_tie_handicap"
	ToggleHockeyHandicapUnderOver = "icehockey_handicap_underover"
	ToggleHockeySpecialCombo      = "icehockey_special_combo"
)

// DefaultTable é a tabela de pares proibidos por modalidade.
//
// Leitura de uma entrada: no evento em que as duas legs coincidem, o par
// (MarketA, MarketB) — com Tie indicando se alguma seleção é empate — é
// proibido quando o toggle nomeado está habilitado.
func DefaultTable() map[PairKey]string {
	t := map[PairKey]string{}

	// Futebol e hóquei têm empate como seleção válida no mercado de
	// resultado, então carregam regras específicas de empate além das
	// gerais.
	addPair(t, domain.SportSoccer, domain.MarketMatch, domain.MarketHandicap, false, ToggleSoccerMatchHandicap)
	addPair(t, domain.SportSoccer, domain.MarketMatch, domain.MarketHandicap, true, ToggleSoccerTieHandicap)
	addPair(t, domain.SportSoccer, domain.MarketMatch, domain.MarketUnderOver, true, ToggleSoccerTieMatchUnderOver)
	addPair(t, domain.SportSoccer, domain.MarketHandicap, domain.MarketUnderOver, false, ToggleSoccerHandicapUnderOver)
	addPair(t, domain.SportSoccer, domain.MarketSpecial, domain.MarketMatch, false, ToggleSoccerSpecialCombo)
	addPair(t, domain.SportSoccer, domain.MarketSpecial, domain.MarketHandicap, false, ToggleSoccerSpecialCombo)
	addPair(t, domain.SportSoccer, domain.MarketSpecial, domain.MarketUnderOver, false, ToggleSoccerSpecialCombo)

	addPair(t, domain.SportIceHockey, domain.MarketMatch, domain.MarketHandicap, false, ToggleHockeyMatchHandicap)
	addPair(t, domain.SportIceHockey, domain.MarketMatch, domain.MarketHandicap, true, ToggleHockeyTieHandicap)
	addPair(t, domain.SportIceHockey, domain.MarketHandicap, domain.MarketUnderOver, false, ToggleHockeyHandicapUnderOver)
	addPair(t, domain.SportIceHockey, domain.MarketSpecial, domain.MarketMatch, false, ToggleHockeySpecialCombo)
	addPair(t, domain.SportIceHockey, domain.MarketSpecial, domain.MarketHandicap, false, ToggleHockeySpecialCombo)
	addPair(t, domain.SportIceHockey, domain.MarketSpecial, domain.MarketUnderOver, false, ToggleHockeySpecialCombo)

	// Modalidades sem empate: apenas as regras gerais.
	addPair(t, domain.SportBasketball, domain.MarketMatch, domain.MarketHandicap, false, ToggleBasketMatchHandicap)
	addPair(t, domain.SportBasketball, domain.MarketHandicap, domain.MarketUnderOver, false, ToggleBasketHandicapUnderOver)
	addPair(t, domain.SportBasketball, domain.MarketSpecial, domain.MarketMatch, false, ToggleBasketSpecialCombo)
	addPair(t, domain.SportBasketball, domain.MarketSpecial, domain.MarketHandicap, false, ToggleBasketSpecialCombo)
	addPair(t, domain.SportBasketball, domain.MarketSpecial, domain.MarketUnderOver, false, ToggleBasketSpecialCombo)

	addPair(t, domain.SportBaseball, domain.MarketMatch, domain.MarketHandicap, false, ToggleBaseballMatchHandicap)
	addPair(t, domain.SportBaseball, domain.MarketHandicap, domain.MarketUnderOver, false, ToggleBaseballHandicapUO)
	addPair(t, domain.SportBaseball, domain.MarketSpecial, domain.MarketMatch, false, ToggleBaseballSpecialCombo)
	addPair(t, domain.SportBaseball, domain.MarketSpecial, domain.MarketHandicap, false, ToggleBaseballSpecialCombo)
	addPair(t, domain.SportBaseball, domain.MarketSpecial, domain.MarketUnderOver, false, ToggleBaseballSpecialCombo)

	addPair(t, domain.SportVolleyball, domain.MarketMatch, domain.MarketHandicap, false, ToggleVolleyMatchHandicap)
	addPair(t, domain.SportVolleyball, domain.MarketHandicap, domain.MarketUnderOver, false, ToggleVolleyHandicapUnderOver)
	addPair(t, domain.SportVolleyball, domain.MarketSpecial, domain.MarketMatch, false, ToggleVolleySpecialCombo)
	addPair(t, domain.SportVolleyball, domain.MarketSpecial, domain.MarketHandicap, false, ToggleVolleySpecialCombo)
	addPair(t, domain.SportVolleyball, domain.MarketSpecial, domain.MarketUnderOver, false, ToggleVolleySpecialCombo)

	return t
}

// DefaultToggles habilita todas as regras da tabela padrão.
func DefaultToggles() map[string]bool {
	return map[string]bool{
		ToggleSoccerMatchHandicap:     true,
		ToggleSoccerTieHandicap:       true,
		ToggleSoccerTieMatchUnderOver: true,
		ToggleSoccerHandicapUnderOver: true,
		ToggleSoccerSpecialCombo:      true,
		ToggleBasketMatchHandicap:     true,
		ToggleBasketHandicapUnderOver: true,
		ToggleBasketSpecialCombo:      true,
		ToggleBaseballMatchHandicap:   true,
		ToggleBaseballHandicapUO:      true,
		ToggleBaseballSpecialCombo:    true,
		ToggleVolleyMatchHandicap:     true,
		ToggleVolleyHandicapUnderOver: true,
		ToggleVolleySpecialCombo:      true,
		ToggleHockeyMatchHandicap:     true,
		ToggleHockeyTieHandicap:       true,
		ToggleHockeyHandicapUnderOver: true,
		ToggleHockeySpecialCombo:      true,
	}
}

func addPair(t map[PairKey]string, s domain.Sport, a, b domain.MarketKind, tie bool, toggle string) {
	t[pairKey(s, a, b, tie)] = toggle
}
