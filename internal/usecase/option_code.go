package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/orderlens/backend/internal/domain"
)

// OptionCodeVersion identifies the field layout produced by EncodeOptionCode.
// Any change to field order, width or grouping must bump it.
const OptionCodeVersion = "v2"

// optionCodeSeparator joins the fields of an option code.
const optionCodeSeparator = "-"

// optionCodeLayout is the frozen v2 field layout. Each field concatenates
// the codes of its slots, so "syrup+syrupAmount" renders as e.g. "21".
var optionCodeLayout = [][]domain.Slot{
	{domain.SlotMenu},
	{domain.SlotTemperature},
	{domain.SlotSize},
	{domain.SlotCoffeeBean},
	{domain.SlotCaffeineLevel},
	{domain.SlotDecafLevel},
	{domain.SlotSyrup, domain.SlotSyrupAmount},
	{domain.SlotDrizzle},
	{domain.SlotPowder, domain.SlotPowderAmount},
	{domain.SlotWhippingCream, domain.SlotWhippingCreamAmount},
	{domain.SlotMilk, domain.SlotMilkAmount},
	{domain.SlotTopping},
	{domain.SlotQuantity},
}

// OptionCodeLayout describes the v2 layout, e.g. "menu-temperature-...".
func OptionCodeLayout() string {
	fields := make([]string, 0, len(optionCodeLayout))
	for _, group := range optionCodeLayout {
		names := make([]string, 0, len(group))
		for _, slot := range group {
			names = append(names, slot.String())
		}
		fields = append(fields, strings.Join(names, "+"))
	}
	return strings.Join(fields, optionCodeSeparator)
}

// EncodeOptionCode renders resolved slots as the point-of-sale option code.
// A slot encodes as its entry's code when one is set, otherwise as the
// 1-based position of its keyword in dictionary order; unset slots encode as
// 0. The menu position is zero-padded to three digits. Amounts encode as 0
// whenever their option is unset.
func EncodeOptionCode(order domain.OrderSlots, dict *domain.Dictionary) string {
	fields := make([]string, 0, len(optionCodeLayout))
	for _, group := range optionCodeLayout {
		var b strings.Builder
		for _, slot := range group {
			b.WriteString(slotCode(order, slot, dict))
		}
		fields = append(fields, b.String())
	}
	return strings.Join(fields, optionCodeSeparator)
}

func slotCode(order domain.OrderSlots, slot domain.Slot, dict *domain.Dictionary) string {
	if parent, ok := slot.Parent(); ok && !order.IsSet(parent) {
		return "0"
	}

	value := order.Get(slot)
	cd := dict.Category(slot.Category())
	if entry, ok := cd.Lookup(value); ok && entry.Code != "" {
		return entry.Code
	}

	position := cd.Position(value)
	if slot == domain.SlotMenu {
		return fmt.Sprintf("%03d", position)
	}
	return strconv.Itoa(position)
}
