package usecase

import (
	"context"
	"sort"

	"github.com/orderlens/backend/internal/domain"
	"go.uber.org/zap"
)

// Defaults fills slots the customer never mentioned.
type Defaults struct {
	Temperature   string
	Size          string
	CaffeineLevel string
	Quantity      string
	Amount        string
}

// DefaultDefaults are the house defaults: iced, largest size, normal amounts.
func DefaultDefaults() Defaults {
	return Defaults{
		Temperature:   "아이스",
		Size:          "벤티",
		CaffeineLevel: "15%",
		Quantity:      "1개",
		Amount:        "보통",
	}
}

// optionSlots are matched directly from their own category; amount slots
// are resolved relative to these.
var optionSlots = []domain.Slot{
	domain.SlotMenu,
	domain.SlotTemperature,
	domain.SlotSize,
	domain.SlotCoffeeBean,
	domain.SlotCaffeineLevel,
	domain.SlotDecafLevel,
	domain.SlotSyrup,
	domain.SlotPowder,
	domain.SlotDrizzle,
	domain.SlotWhippingCream,
	domain.SlotMilk,
	domain.SlotTopping,
	domain.SlotQuantity,
}

// TurnExtraction is what one utterance says, before it is merged.
type TurnExtraction struct {
	Order   domain.OrderSlots
	Matches []domain.MatchResult
	Cancels []domain.Slot
}

// AccumulatorConfig holds configuration for the order accumulator
type AccumulatorConfig struct {
	Defaults  Defaults
	Tokenized bool
}

// OrderAccumulator reduces (prior order, utterance) into the next order. It
// holds no per-conversation state; the caller owns the order.
type OrderAccumulator struct {
	matcher   *KeywordMatcher
	defaults  Defaults
	tokenized bool
	logger    *zap.Logger
}

// NewOrderAccumulator creates an accumulator on top of matcher
func NewOrderAccumulator(matcher *KeywordMatcher, config AccumulatorConfig, logger *zap.Logger) *OrderAccumulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := config.Defaults
	if defaults == (Defaults{}) {
		defaults = DefaultDefaults()
	}
	return &OrderAccumulator{
		matcher:   matcher,
		defaults:  defaults,
		tokenized: config.Tokenized,
		logger:    logger.Named("accumulator"),
	}
}

// ProcessTurn applies one cleaned utterance to prior.
//
// The returned order is the state to keep for the conversation. On
// ErrNotUnderstood it still carries the merged slots so later turns can name
// the menu; on a stock failure it is prior, unchanged.
func (a *OrderAccumulator) ProcessTurn(
	ctx context.Context,
	prior domain.OrderSlots,
	cleaned string,
	dict *domain.Dictionary,
) (domain.OrderSlots, *domain.TurnResult, error) {
	var (
		extraction *TurnExtraction
		err        error
	)
	if a.tokenized {
		extraction, err = a.ExtractTokenized(ctx, cleaned, dict)
	} else {
		extraction, err = a.Extract(ctx, Prepare(cleaned), dict)
	}
	if err != nil {
		return prior, nil, err
	}

	merged := Merge(prior, extraction)
	resolved := a.Resolve(merged)

	if err := CheckStock(resolved, dict); err != nil {
		a.logger.Info("stock exhausted", zap.Error(err))
		return prior, nil, err
	}

	if !resolved.IsSet(domain.SlotMenu) {
		return merged, nil, domain.ErrNotUnderstood
	}

	return merged, &domain.TurnResult{
		Confirmation:      BuildConfirmation(resolved),
		OptionCode:        EncodeOptionCode(resolved, dict),
		OptionCodeVersion: OptionCodeVersion,
		Order:             resolved,
		Matches:           extraction.Matches,
	}, nil
}

// Extract runs every slot and cancellation category over the whole utterance.
func (a *OrderAccumulator) Extract(ctx context.Context, u Utterance, dict *domain.Dictionary) (*TurnExtraction, error) {
	ext := &TurnExtraction{}

	var amountParents []domain.MatchResult
	for _, slot := range optionSlots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r := a.matcher.FindKeyword(u, dict.Category(slot.Category()))
		if !r.Matched() {
			continue
		}
		ext.Order.Set(slot, r.Keyword)
		ext.Matches = append(ext.Matches, r)
		if _, ok := slot.AmountSlot(); ok {
			amountParents = append(amountParents, r)
		}
	}

	// An amount word belongs to the option it follows: search the text
	// between the option and the next amount-bearing option.
	sort.SliceStable(amountParents, func(i, j int) bool { return amountParents[i].Start < amountParents[j].Start })
	amounts := dict.Category(domain.CategoryAmount)
	for i, parent := range amountParents {
		end := len(u.Jamo)
		if i+1 < len(amountParents) {
			end = amountParents[i+1].Start
		}
		r := a.matcher.FindKeywordBetween(u, parent.End, end, amounts)
		if !r.Matched() {
			continue
		}
		slot, _ := parentSlot(parent.Category).AmountSlot()
		ext.Order.Set(slot, r.Keyword)
		ext.Matches = append(ext.Matches, r)
	}

	var cancels []domain.MatchResult
	for _, c := range domain.CancelCategories() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if r := a.matcher.FindCancelKeyword(u, dict.Category(c)); r.Matched() {
			cancels = append(cancels, r)
		}
	}
	ext.addCancels(cancels)

	return ext, nil
}

// ExtractTokenized matches each whitespace-separated word on its own. An
// amount word binds to the most recent amount-bearing option, whether the
// amount is said before or after it.
func (a *OrderAccumulator) ExtractTokenized(ctx context.Context, cleaned string, dict *domain.Dictionary) (*TurnExtraction, error) {
	ext := &TurnExtraction{}
	amounts := dict.Category(domain.CategoryAmount)

	var (
		pendingAmount string
		pendingOption []domain.Slot
	)
	for _, word := range Words(cleaned) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if r := a.matcher.FindBestMatch(word, amounts); r.Matched() && pendingAmount == "" {
			pendingAmount = r.Keyword
			ext.Matches = append(ext.Matches, r)
		}

		for _, slot := range optionSlots {
			r := a.matcher.FindBestMatch(word, dict.Category(slot.Category()))
			if !r.Matched() {
				continue
			}
			ext.Order.Set(slot, r.Keyword)
			ext.Matches = append(ext.Matches, r)
			if _, ok := slot.AmountSlot(); ok {
				pendingOption = append(pendingOption, slot)
			}
		}

		if pendingAmount != "" && len(pendingOption) > 0 {
			amountSlot, _ := pendingOption[len(pendingOption)-1].AmountSlot()
			ext.Order.Set(amountSlot, pendingAmount)
			pendingAmount = ""
			pendingOption = pendingOption[:0]
		}

		var cancels []domain.MatchResult
		for _, c := range domain.CancelCategories() {
			if r := a.matcher.FindBestMatch(word, dict.Category(c)); r.Matched() {
				cancels = append(cancels, r)
			}
		}
		ext.addCancels(cancels)
	}

	return ext, nil
}

// addCancels records the cancellation phrases of one scan. Phrases found
// over overlapping text compete: only the most similar one cancels, so
// "휘핑 취소" does not also clear a topping through 토핑취소. Equal
// similarity keeps the earlier category.
func (ext *TurnExtraction) addCancels(found []domain.MatchResult) {
	ranked := make([]domain.MatchResult, len(found))
	copy(ranked, found)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Similarity > ranked[j].Similarity })

	var kept []domain.MatchResult
	for _, r := range ranked {
		if overlapsAny(r, kept) {
			continue
		}
		kept = append(kept, r)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Category < kept[j].Category })

	for _, r := range kept {
		if target, ok := r.Category.CancelTarget(); ok {
			ext.Cancels = append(ext.Cancels, target)
			ext.Matches = append(ext.Matches, r)
		}
	}
}

func overlapsAny(r domain.MatchResult, others []domain.MatchResult) bool {
	for _, o := range others {
		if r.Start < o.End && o.Start < r.End {
			return true
		}
	}
	return false
}

// Merge overwrites prior with every slot the turn set, then clears every
// cancelled slot. Cancellation runs last, so naming and cancelling an item
// in the same utterance nets to cancelled. Cancelling an option also clears
// its amount.
func Merge(prior domain.OrderSlots, ext *TurnExtraction) domain.OrderSlots {
	next := prior
	for _, slot := range domain.AllSlots() {
		if v := ext.Order.Get(slot); v != "" {
			next.Set(slot, v)
		}
	}
	for _, slot := range ext.Cancels {
		next.Clear(slot)
		if amount, ok := slot.AmountSlot(); ok {
			next.Clear(amount)
		}
	}
	return next
}

// Resolve applies defaults to a copy of order. Amounts default only when
// their option is present and are dropped when it is not.
func (a *OrderAccumulator) Resolve(order domain.OrderSlots) domain.OrderSlots {
	out := order
	setDefault := func(slot domain.Slot, value string) {
		if !out.IsSet(slot) {
			out.Set(slot, value)
		}
	}
	setDefault(domain.SlotTemperature, a.defaults.Temperature)
	setDefault(domain.SlotSize, a.defaults.Size)
	setDefault(domain.SlotCaffeineLevel, a.defaults.CaffeineLevel)
	setDefault(domain.SlotQuantity, a.defaults.Quantity)

	for _, slot := range domain.AllSlots() {
		parent, ok := slot.Parent()
		if !ok {
			continue
		}
		if !out.IsSet(parent) {
			out.Clear(slot)
			continue
		}
		setDefault(slot, a.defaults.Amount)
	}
	return out
}

// CheckStock fails on the first set slot, in slot order, whose dictionary
// entry is out of stock or off sale.
func CheckStock(order domain.OrderSlots, dict *domain.Dictionary) error {
	for _, slot := range domain.AllSlots() {
		value := order.Get(slot)
		if value == "" {
			continue
		}
		entry, ok := dict.Category(slot.Category()).Lookup(value)
		if !ok {
			continue
		}
		if reason := entry.Unavailable(); reason != "" {
			return &domain.StockExhaustedError{Slot: slot, Keyword: value, Reason: reason}
		}
	}
	return nil
}

func parentSlot(c domain.Category) domain.Slot {
	switch c {
	case domain.CategorySyrup:
		return domain.SlotSyrup
	case domain.CategoryPowder:
		return domain.SlotPowder
	case domain.CategoryWhippingCream:
		return domain.SlotWhippingCream
	default:
		return domain.SlotMilk
	}
}
