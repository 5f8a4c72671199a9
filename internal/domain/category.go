package domain

import "fmt"

// Category identifies one keyword dictionary. Slot categories feed order slots,
// cancel categories hold phrases that clear a slot.
type Category int

const (
	CategoryMenu Category = iota
	CategoryTemperature
	CategorySize
	CategoryCoffeeBean
	CategoryCaffeineLevel
	CategoryDecafLevel
	CategorySyrup
	CategoryPowder
	CategoryDrizzle
	CategoryWhippingCream
	CategoryMilk
	CategoryTopping
	CategoryAmount
	CategoryQuantity

	CategoryCancelMenu
	CategoryCancelSyrup
	CategoryCancelPowder
	CategoryCancelDrizzle
	CategoryCancelWhippingCream
	CategoryCancelMilk
	CategoryCancelTopping

	categoryCount
)

// cancelPrefix is the naming convention for cancellation dictionaries.
const cancelPrefix = "cancel"

var categoryNames = [categoryCount]string{
	CategoryMenu:                "menu",
	CategoryTemperature:         "temperature",
	CategorySize:                "size",
	CategoryCoffeeBean:          "coffeeBean",
	CategoryCaffeineLevel:       "caffeineLevel",
	CategoryDecafLevel:          "decafLevel",
	CategorySyrup:               "syrup",
	CategoryPowder:              "powder",
	CategoryDrizzle:             "drizzle",
	CategoryWhippingCream:       "whippingCream",
	CategoryMilk:                "milk",
	CategoryTopping:             "topping",
	CategoryAmount:              "amount",
	CategoryQuantity:            "quantity",
	CategoryCancelMenu:          cancelPrefix + "Menu",
	CategoryCancelSyrup:         cancelPrefix + "Syrup",
	CategoryCancelPowder:        cancelPrefix + "Powder",
	CategoryCancelDrizzle:       cancelPrefix + "Drizzle",
	CategoryCancelWhippingCream: cancelPrefix + "WhippingCream",
	CategoryCancelMilk:          cancelPrefix + "Milk",
	CategoryCancelTopping:       cancelPrefix + "Topping",
}

// requiredCategories must be present in every loaded dictionary.
// Decaf level and the cancellation dictionaries are optional.
var requiredCategories = []Category{
	CategoryMenu,
	CategoryTemperature,
	CategorySize,
	CategoryCoffeeBean,
	CategoryCaffeineLevel,
	CategorySyrup,
	CategoryPowder,
	CategoryDrizzle,
	CategoryWhippingCream,
	CategoryMilk,
	CategoryTopping,
	CategoryAmount,
	CategoryQuantity,
}

// AllCategories returns every known category in declaration order.
func AllCategories() []Category {
	out := make([]Category, 0, categoryCount)
	for c := Category(0); c < categoryCount; c++ {
		out = append(out, c)
	}
	return out
}

// CancelCategories returns the cancellation categories in declaration order.
func CancelCategories() []Category {
	out := make([]Category, 0, 7)
	for c := CategoryCancelMenu; c < categoryCount; c++ {
		out = append(out, c)
	}
	return out
}

// String returns the dictionary name of the category (e.g. "coffeeBean").
func (c Category) String() string {
	if c < 0 || c >= categoryCount {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// IsCancel reports whether c is a cancellation dictionary.
func (c Category) IsCancel() bool {
	return c >= CategoryCancelMenu && c < categoryCount
}

// ParseCategory resolves a dictionary name to its category.
func ParseCategory(name string) (Category, error) {
	for c := Category(0); c < categoryCount; c++ {
		if categoryNames[c] == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// CancelTarget returns the slot a cancellation category clears, derived by
// stripping the cancel prefix from the category name.
func (c Category) CancelTarget() (Slot, bool) {
	if !c.IsCancel() {
		return 0, false
	}
	name := categoryNames[c][len(cancelPrefix):]
	// lower-case the first letter: "WhippingCream" -> "whippingCream"
	name = string(name[0]+('a'-'A')) + name[1:]
	slot, err := ParseSlot(name)
	return slot, err == nil
}
