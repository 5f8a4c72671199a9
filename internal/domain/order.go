package domain

import "fmt"

// Slot is one named field of an order.
type Slot int

const (
	SlotMenu Slot = iota
	SlotTemperature
	SlotSize
	SlotCoffeeBean
	SlotCaffeineLevel
	SlotDecafLevel
	SlotSyrup
	SlotSyrupAmount
	SlotPowder
	SlotPowderAmount
	SlotDrizzle
	SlotWhippingCream
	SlotWhippingCreamAmount
	SlotMilk
	SlotMilkAmount
	SlotTopping
	SlotQuantity

	slotCount
)

var slotNames = [slotCount]string{
	SlotMenu:                "menu",
	SlotTemperature:         "temperature",
	SlotSize:                "size",
	SlotCoffeeBean:          "coffeeBean",
	SlotCaffeineLevel:       "caffeineLevel",
	SlotDecafLevel:          "decafLevel",
	SlotSyrup:               "syrup",
	SlotSyrupAmount:         "syrupAmount",
	SlotPowder:              "powder",
	SlotPowderAmount:        "powderAmount",
	SlotDrizzle:             "drizzle",
	SlotWhippingCream:       "whippingCream",
	SlotWhippingCreamAmount: "whippingCreamAmount",
	SlotMilk:                "milk",
	SlotMilkAmount:          "milkAmount",
	SlotTopping:             "topping",
	SlotQuantity:            "quantity",
}

// AllSlots returns every slot in declaration order.
func AllSlots() []Slot {
	out := make([]Slot, 0, slotCount)
	for s := Slot(0); s < slotCount; s++ {
		out = append(out, s)
	}
	return out
}

func (s Slot) String() string {
	if s < 0 || s >= slotCount {
		return fmt.Sprintf("Slot(%d)", int(s))
	}
	return slotNames[s]
}

// ParseSlot resolves a slot name such as "whippingCream".
func ParseSlot(name string) (Slot, error) {
	for s := Slot(0); s < slotCount; s++ {
		if slotNames[s] == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown slot %q", name)
}

// Category returns the dictionary a slot draws its values from.
func (s Slot) Category() Category {
	switch s {
	case SlotMenu:
		return CategoryMenu
	case SlotTemperature:
		return CategoryTemperature
	case SlotSize:
		return CategorySize
	case SlotCoffeeBean:
		return CategoryCoffeeBean
	case SlotCaffeineLevel:
		return CategoryCaffeineLevel
	case SlotDecafLevel:
		return CategoryDecafLevel
	case SlotSyrup:
		return CategorySyrup
	case SlotPowder:
		return CategoryPowder
	case SlotDrizzle:
		return CategoryDrizzle
	case SlotWhippingCream:
		return CategoryWhippingCream
	case SlotMilk:
		return CategoryMilk
	case SlotTopping:
		return CategoryTopping
	case SlotQuantity:
		return CategoryQuantity
	default:
		return CategoryAmount
	}
}

// IsAmount reports whether s is an amount slot bound to a parent option.
func (s Slot) IsAmount() bool {
	_, ok := s.Parent()
	return ok
}

// Parent returns the option an amount slot belongs to.
func (s Slot) Parent() (Slot, bool) {
	switch s {
	case SlotSyrupAmount:
		return SlotSyrup, true
	case SlotPowderAmount:
		return SlotPowder, true
	case SlotWhippingCreamAmount:
		return SlotWhippingCream, true
	case SlotMilkAmount:
		return SlotMilk, true
	}
	return 0, false
}

// AmountSlot returns the amount slot bound to an option, if any.
func (s Slot) AmountSlot() (Slot, bool) {
	switch s {
	case SlotSyrup:
		return SlotSyrupAmount, true
	case SlotPowder:
		return SlotPowderAmount, true
	case SlotWhippingCream:
		return SlotWhippingCreamAmount, true
	case SlotMilk:
		return SlotMilkAmount, true
	}
	return 0, false
}

// OrderSlots is the accumulated order of one conversation. An empty string
// means the slot is unset.
type OrderSlots struct {
	Menu                string `json:"menu"`
	Temperature         string `json:"temperature"`
	Size                string `json:"size"`
	CoffeeBean          string `json:"coffeeBean"`
	CaffeineLevel       string `json:"caffeineLevel"`
	DecafLevel          string `json:"decafLevel"`
	Syrup               string `json:"syrup"`
	SyrupAmount         string `json:"syrupAmount"`
	Powder              string `json:"powder"`
	PowderAmount        string `json:"powderAmount"`
	Drizzle             string `json:"drizzle"`
	WhippingCream       string `json:"whippingCream"`
	WhippingCreamAmount string `json:"whippingCreamAmount"`
	Milk                string `json:"milk"`
	MilkAmount          string `json:"milkAmount"`
	Topping             string `json:"topping"`
	Quantity            string `json:"quantity"`
}

func (o *OrderSlots) field(s Slot) *string {
	switch s {
	case SlotMenu:
		return &o.Menu
	case SlotTemperature:
		return &o.Temperature
	case SlotSize:
		return &o.Size
	case SlotCoffeeBean:
		return &o.CoffeeBean
	case SlotCaffeineLevel:
		return &o.CaffeineLevel
	case SlotDecafLevel:
		return &o.DecafLevel
	case SlotSyrup:
		return &o.Syrup
	case SlotSyrupAmount:
		return &o.SyrupAmount
	case SlotPowder:
		return &o.Powder
	case SlotPowderAmount:
		return &o.PowderAmount
	case SlotDrizzle:
		return &o.Drizzle
	case SlotWhippingCream:
		return &o.WhippingCream
	case SlotWhippingCreamAmount:
		return &o.WhippingCreamAmount
	case SlotMilk:
		return &o.Milk
	case SlotMilkAmount:
		return &o.MilkAmount
	case SlotTopping:
		return &o.Topping
	case SlotQuantity:
		return &o.Quantity
	}
	panic(fmt.Sprintf("domain: unknown slot %d", int(s)))
}

// Get returns the value of slot s ("" when unset).
func (o OrderSlots) Get(s Slot) string {
	return *o.field(s)
}

// Set assigns slot s. An empty value unsets it.
func (o *OrderSlots) Set(s Slot, value string) {
	*o.field(s) = value
}

// Clear unsets slot s.
func (o *OrderSlots) Clear(s Slot) {
	*o.field(s) = ""
}

// IsSet reports whether slot s holds a value.
func (o OrderSlots) IsSet(s Slot) bool {
	return o.Get(s) != ""
}

// IsEmpty reports whether no slot is set.
func (o OrderSlots) IsEmpty() bool {
	return o == OrderSlots{}
}

// MatchResult is the outcome of matching one category against an utterance.
// Start and End are offsets into the decomposed (jamo) utterance.
type MatchResult struct {
	Category   Category `json:"-"`
	Field      string   `json:"categoryField"`
	Keyword    string   `json:"canonicalKeyword"`
	Similarity float64  `json:"similarity"`
	Start      int      `json:"-"`
	End        int      `json:"-"`
}

// Matched reports whether the result resolved to a keyword.
func (m MatchResult) Matched() bool {
	return m.Keyword != ""
}

// TurnResult is the successful outcome of one conversation turn.
type TurnResult struct {
	Confirmation      string        `json:"confirmation"`
	OptionCode        string        `json:"optionCode"`
	OptionCodeVersion string        `json:"optionCodeVersion"`
	Order             OrderSlots    `json:"order"`
	Matches           []MatchResult `json:"matches,omitempty"`
}
