package domain

import "github.com/shopspring/decimal"

// MinPrice é a menor odd aceitável para qualquer leg.
var MinPrice = decimal.NewFromInt(1)

// TotalPrice calcula o multiplicador do bilhete: produto das odds das legs
// vezes o bônus de parlay aplicável, arredondado a 2 casas com
// half-up (metade para cima).
func TotalPrice(prices []decimal.Decimal, bonus decimal.Decimal) decimal.Decimal {
	total := decimal.NewFromInt(1)
	for _, p := range prices {
		total = total.Mul(p)
	}
	if bonus.IsPositive() {
		total = total.Mul(bonus)
	}
	return RoundPrice(total)
}

// RoundPrice arredonda uma odd a 2 casas decimais, half-up.
// decimal.Round arredonda metade para longe do zero; para odds (sempre
// positivas) isso equivale a half-up.
func RoundPrice(p decimal.Decimal) decimal.Decimal {
	return p.Round(2)
}

// PayoutCents calcula o retorno potencial em centavos: stake × total,
// truncado para baixo no centavo.
func PayoutCents(stakeCents int64, totalPrice decimal.Decimal) int64 {
	return decimal.NewFromInt(stakeCents).Mul(totalPrice).Floor().IntPart()
}
