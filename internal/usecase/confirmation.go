package usecase

import (
	"errors"
	"strings"

	"github.com/orderlens/backend/internal/domain"
)

// Reply texts returned to the customer
const (
	confirmationSuffix    = " 주문받았습니다."
	notUnderstoodMessage  = "죄송합니다. 주문을 이해하지 못했습니다."
	stockExhaustedMessage = "의 재고가 부족합니다."
)

// BuildConfirmation enumerates every set slot of a resolved order, e.g.
// "아이스 아메리카노 벤티사이즈, 바닐라시럽 적게 추가, 1개 주문받았습니다."
func BuildConfirmation(order domain.OrderSlots) string {
	var b strings.Builder
	b.WriteString(order.Temperature)
	b.WriteString(" ")
	b.WriteString(order.Menu)
	b.WriteString(" ")
	b.WriteString(order.Size)
	b.WriteString("사이즈")

	add := func(parts ...string) {
		b.WriteString(",")
		for _, p := range parts {
			if p != "" {
				b.WriteString(" ")
				b.WriteString(p)
			}
		}
	}

	if order.CoffeeBean != "" {
		add(order.CoffeeBean, "원두 사용")
	}
	if order.CaffeineLevel != "" {
		add("카페인 함량", order.CaffeineLevel)
	}
	if order.DecafLevel != "" {
		add(order.DecafLevel)
	}
	if order.Syrup != "" {
		add(order.Syrup, order.SyrupAmount, "추가")
	}
	if order.Powder != "" {
		add(order.Powder, order.PowderAmount, "추가")
	}
	if order.Drizzle != "" {
		add(order.Drizzle, "추가")
	}
	if order.WhippingCream != "" {
		add(order.WhippingCream, order.WhippingCreamAmount, "추가")
	}
	if order.Milk != "" {
		add(order.Milk, order.MilkAmount, "추가")
	}
	if order.Topping != "" {
		add(order.Topping, "추가")
	}
	if order.Quantity != "" {
		add(order.Quantity)
	}

	b.WriteString(confirmationSuffix)
	return b.String()
}

// FailureMessage renders a turn error as a reply to the customer. It returns
// "" for errors that are not the customer's to fix.
func FailureMessage(err error) string {
	var stock *domain.StockExhaustedError
	switch {
	case errors.As(err, &stock):
		return stock.Keyword + stockExhaustedMessage
	case errors.Is(err, domain.ErrNotUnderstood):
		return notUnderstoodMessage
	}
	return ""
}
