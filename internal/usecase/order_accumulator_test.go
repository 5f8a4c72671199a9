package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/orderlens/backend/internal/domain"
)

func TestProcessTurn_SingleUtterance(t *testing.T) {
	acc, dict := newTestAccumulator(t, false)

	tests := []struct {
		name             string
		utterance        string
		wantOrder        domain.OrderSlots
		wantCode         string
		wantConfirmation string
	}{
		{
			name:             "iced americano venti",
			utterance:        "아이스 아메리카노 벤티사이즈로 줘",
			wantOrder:        domain.OrderSlots{Menu: "아메리카노", Temperature: "아이스", Size: "벤티"},
			wantCode:         "004-1-2-0-1-0-00-0-00-00-00-0-1",
			wantConfirmation: "아이스 아메리카노 벤티사이즈, 카페인 함량 15%, 1개 주문받았습니다.",
		},
		{
			name:      "spaced variation resolves to the longer menu",
			utterance: "카페 라떼 주세요",
			wantOrder: domain.OrderSlots{Menu: "카페라떼"},
			wantCode:  "007-1-2-0-1-0-00-0-00-00-00-0-1",
		},
		{
			name:      "temperature size and quantity variations",
			utterance: "뜨거운 자몽허니블랙티 그란데 두잔",
			wantOrder: domain.OrderSlots{Menu: "자몽허니블랙티", Temperature: "핫", Size: "그란데", Quantity: "2개"},
			wantCode:  "003-2-1-0-1-0-00-0-00-00-00-0-2",
		},
		{
			name:      "amount binds to the option before it",
			utterance: "아이스 아메리카노 휘핑 듬뿍 쿠키 추가 세잔",
			wantOrder: domain.OrderSlots{
				Menu: "아메리카노", Temperature: "아이스", WhippingCream: "휘핑크림",
				WhippingCreamAmount: "많이", Topping: "쿠키", Quantity: "3개",
			},
			wantCode:         "004-1-2-0-1-0-00-0-00-11-00-2-3",
			wantConfirmation: "아이스 아메리카노 벤티사이즈, 카페인 함량 15%, 휘핑크림 많이 추가, 쿠키 추가, 3개 주문받았습니다.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, result, err := acc.ProcessTurn(context.Background(), domain.OrderSlots{}, tt.utterance, dict)
			if err != nil {
				t.Fatalf("ProcessTurn() error = %v", err)
			}
			if diff := cmp.Diff(tt.wantOrder, next); diff != "" {
				t.Errorf("stored order mismatch (-want +got):\n%s", diff)
			}
			if result.OptionCode != tt.wantCode {
				t.Errorf("OptionCode = %q, want %q", result.OptionCode, tt.wantCode)
			}
			if result.OptionCodeVersion != OptionCodeVersion {
				t.Errorf("OptionCodeVersion = %q, want %q", result.OptionCodeVersion, OptionCodeVersion)
			}
			if tt.wantConfirmation != "" && result.Confirmation != tt.wantConfirmation {
				t.Errorf("Confirmation = %q, want %q", result.Confirmation, tt.wantConfirmation)
			}
		})
	}
}

func TestProcessTurn_AccumulatesAcrossTurns(t *testing.T) {
	acc, dict := newTestAccumulator(t, false)
	ctx := context.Background()

	turns := []struct {
		utterance string
		wantOrder domain.OrderSlots
		wantCode  string
	}{
		{
			utterance: "따뜻한 카페라떼 톨 사이즈",
			wantOrder: domain.OrderSlots{Menu: "카페라떼", Temperature: "핫", Size: "톨"},
			wantCode:  "007-2-3-0-1-0-00-0-00-00-00-0-1",
		},
		{
			utterance: "바닐라 시럽 많이 추가하고 오트 우유로 바꿔줘",
			wantOrder: domain.OrderSlots{
				Menu: "카페라떼", Temperature: "핫", Size: "톨",
				Syrup: "바닐라시럽", SyrupAmount: "많이", Milk: "오트밀우유",
			},
			wantCode: "007-2-3-0-1-0-21-0-00-00-12-0-1",
		},
		{
			utterance: "시럽 취소해줘",
			wantOrder: domain.OrderSlots{Menu: "카페라떼", Temperature: "핫", Size: "톨", Milk: "오트밀우유"},
			wantCode:  "007-2-3-0-1-0-00-0-00-00-12-0-1",
		},
	}

	var state domain.OrderSlots
	for _, turn := range turns {
		next, result, err := acc.ProcessTurn(ctx, state, turn.utterance, dict)
		if err != nil {
			t.Fatalf("%q: error = %v", turn.utterance, err)
		}
		if diff := cmp.Diff(turn.wantOrder, next); diff != "" {
			t.Errorf("%q: stored order mismatch (-want +got):\n%s", turn.utterance, diff)
		}
		if result.OptionCode != turn.wantCode {
			t.Errorf("%q: OptionCode = %q, want %q", turn.utterance, result.OptionCode, turn.wantCode)
		}
		state = next
	}

	// Defaults live only in the resolved copy.
	if state.MilkAmount != "" || state.Quantity != "" {
		t.Errorf("defaults leaked into stored state: %+v", state)
	}
}

func TestProcessTurn_ResolvedOrderCarriesDefaults(t *testing.T) {
	acc, dict := newTestAccumulator(t, false)
	prior := domain.OrderSlots{Menu: "카페라떼", Milk: "오트밀우유"}

	_, result, err := acc.ProcessTurn(context.Background(), prior, "톨 사이즈로 해주세요", dict)
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}

	want := domain.OrderSlots{
		Menu: "카페라떼", Temperature: "아이스", Size: "톨", CaffeineLevel: "15%",
		Milk: "오트밀우유", MilkAmount: "보통", Quantity: "1개",
	}
	if diff := cmp.Diff(want, result.Order); diff != "" {
		t.Errorf("resolved order mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessTurn_CancelInSameTurn(t *testing.T) {
	acc, dict := newTestAccumulator(t, false)
	prior := domain.OrderSlots{Menu: "라떼"}

	next, result, err := acc.ProcessTurn(context.Background(), prior, "바닐라시럽추가 줘 시럽취소해줘", dict)
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}
	if next.Syrup != "" || next.SyrupAmount != "" {
		t.Errorf("syrup = %q/%q, want cancelled", next.Syrup, next.SyrupAmount)
	}
	if result.OptionCode != "008-1-2-0-1-0-00-0-00-00-00-0-1" {
		t.Errorf("OptionCode = %q", result.OptionCode)
	}
}

func TestProcessTurn_CancelMenu(t *testing.T) {
	acc, dict := newTestAccumulator(t, false)
	prior := domain.OrderSlots{Menu: "아메리카노"}

	next, _, err := acc.ProcessTurn(context.Background(), prior, "메뉴 취소할게요", dict)
	if !errors.Is(err, domain.ErrNotUnderstood) {
		t.Fatalf("error = %v, want ErrNotUnderstood", err)
	}
	if !next.IsEmpty() {
		t.Errorf("order = %+v, want empty", next)
	}
}

func TestProcessTurn_CancelWhippingKeepsTopping(t *testing.T) {
	acc, dict := newTestAccumulator(t, false)
	prior := domain.OrderSlots{Menu: "아메리카노", WhippingCream: "휘핑크림", WhippingCreamAmount: "많이", Topping: "쿠키"}

	next, result, err := acc.ProcessTurn(context.Background(), prior, "휘핑 취소해주세요", dict)
	if err != nil {
		t.Fatalf("ProcessTurn() error = %v", err)
	}

	want := domain.OrderSlots{Menu: "아메리카노", Topping: "쿠키"}
	if diff := cmp.Diff(want, next); diff != "" {
		t.Errorf("stored order mismatch (-want +got):\n%s", diff)
	}
	if result.OptionCode != "004-1-2-0-1-0-00-0-00-00-00-2-1" {
		t.Errorf("OptionCode = %q", result.OptionCode)
	}
}

func TestAddCancels(t *testing.T) {
	cancel := func(c domain.Category, sim float64, start, end int) domain.MatchResult {
		return domain.MatchResult{Category: c, Field: c.String(), Keyword: c.String(), Similarity: sim, Start: start, End: end}
	}

	tests := []struct {
		name  string
		found []domain.MatchResult
		want  []domain.Slot
	}{
		{
			name: "overlapping phrases keep the most similar",
			found: []domain.MatchResult{
				cancel(domain.CategoryCancelWhippingCream, 0.9, 11, 21),
				cancel(domain.CategoryCancelTopping, 0.7, 11, 21),
			},
			want: []domain.Slot{domain.SlotWhippingCream},
		},
		{
			name: "disjoint phrases both cancel",
			found: []domain.MatchResult{
				cancel(domain.CategoryCancelWhippingCream, 1.0, 0, 9),
				cancel(domain.CategoryCancelTopping, 1.0, 10, 19),
			},
			want: []domain.Slot{domain.SlotWhippingCream, domain.SlotTopping},
		},
		{
			name: "tie keeps the earlier category",
			found: []domain.MatchResult{
				cancel(domain.CategoryCancelSyrup, 0.8, 0, 10),
				cancel(domain.CategoryCancelMilk, 0.8, 2, 12),
			},
			want: []domain.Slot{domain.SlotSyrup},
		},
		{
			name:  "nothing found",
			found: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := &TurnExtraction{}
			ext.addCancels(tt.found)
			if diff := cmp.Diff(tt.want, ext.Cancels); diff != "" {
				t.Errorf("Cancels mismatch (-want +got):\n%s", diff)
			}
			if len(ext.Matches) != len(tt.want) {
				t.Errorf("recorded %d matches, want %d", len(ext.Matches), len(tt.want))
			}
		})
	}
}

func TestProcessTurn_NotUnderstoodKeepsPartialOrder(t *testing.T) {
	acc, dict := newTestAccumulator(t, false)
	ctx := context.Background()

	next, result, err := acc.ProcessTurn(ctx, domain.OrderSlots{}, "바닐라 시럽 추가", dict)
	if !errors.Is(err, domain.ErrNotUnderstood) {
		t.Fatalf("error = %v, want ErrNotUnderstood", err)
	}
	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}
	if next.Syrup != "바닐라시럽" {
		t.Errorf("Syrup = %q, want it kept for the next turn", next.Syrup)
	}

	_, result, err = acc.ProcessTurn(ctx, next, "아메리카노", dict)
	if err != nil {
		t.Fatalf("second turn error = %v", err)
	}
	if result.OptionCode != "004-1-2-0-1-0-22-0-00-00-00-0-1" {
		t.Errorf("OptionCode = %q", result.OptionCode)
	}
}

func TestProcessTurn_NothingRecognized(t *testing.T) {
	acc, dict := newTestAccumulator(t, false)

	next, _, err := acc.ProcessTurn(context.Background(), domain.OrderSlots{}, "음 잘 모르겠어요", dict)
	if !errors.Is(err, domain.ErrNotUnderstood) {
		t.Fatalf("error = %v, want ErrNotUnderstood", err)
	}
	if !next.IsEmpty() {
		t.Errorf("order = %+v, want empty", next)
	}
}

func TestProcessTurn_StockExhausted(t *testing.T) {
	acc, dict := newTestAccumulator(t, false)
	prior := domain.OrderSlots{Menu: "아메리카노", Size: "톨"}

	next, result, err := acc.ProcessTurn(context.Background(), prior, "품절스무디 주세요", dict)
	var stockErr *domain.StockExhaustedError
	if !errors.As(err, &stockErr) {
		t.Fatalf("error = %v, want StockExhaustedError", err)
	}
	if !errors.Is(err, domain.ErrStockExhausted) {
		t.Errorf("error does not match ErrStockExhausted")
	}
	if stockErr.Keyword != "품절스무디" || stockErr.Slot != domain.SlotMenu || stockErr.Reason != "out of stock" {
		t.Errorf("StockExhaustedError = %+v", stockErr)
	}
	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}
	if diff := cmp.Diff(prior, next); diff != "" {
		t.Errorf("prior state must be kept (-want +got):\n%s", diff)
	}
}

func TestProcessTurn_ContextCancelled(t *testing.T) {
	acc, dict := newTestAccumulator(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prior := domain.OrderSlots{Menu: "아메리카노"}
	next, _, err := acc.ProcessTurn(ctx, prior, "카페 라떼 주세요", dict)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if next != prior {
		t.Errorf("order = %+v, want prior", next)
	}
}

func TestProcessTurn_Tokenized(t *testing.T) {
	acc, dict := newTestAccumulator(t, true)

	tests := []struct {
		utterance string
		prior     domain.OrderSlots
		wantOrder domain.OrderSlots
		wantCode  string
	}{
		{
			utterance: "아이스 아메리카노 바닐라시럽 많이 두유 적게",
			wantOrder: domain.OrderSlots{
				Menu: "아메리카노", Temperature: "아이스",
				Syrup: "바닐라시럽", SyrupAmount: "많이", Milk: "두유", MilkAmount: "적게",
			},
			wantCode: "004-1-2-0-1-0-21-0-00-00-33-0-1",
		},
		{
			utterance: "많이 바닐라시럽 넣은 아메리카나",
			wantOrder: domain.OrderSlots{Menu: "아메리카노", Syrup: "바닐라시럽", SyrupAmount: "많이"},
			wantCode:  "004-1-2-0-1-0-21-0-00-00-00-0-1",
		},
		{
			utterance: "아메리카노 시럽취소",
			prior:     domain.OrderSlots{Syrup: "카라멜시럽", SyrupAmount: "적게"},
			wantOrder: domain.OrderSlots{Menu: "아메리카노"},
			wantCode:  "004-1-2-0-1-0-00-0-00-00-00-0-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			next, result, err := acc.ProcessTurn(context.Background(), tt.prior, tt.utterance, dict)
			if err != nil {
				t.Fatalf("ProcessTurn() error = %v", err)
			}
			if diff := cmp.Diff(tt.wantOrder, next); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
			if result.OptionCode != tt.wantCode {
				t.Errorf("OptionCode = %q, want %q", result.OptionCode, tt.wantCode)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	prior := domain.OrderSlots{Menu: "아메리카노", Syrup: "바닐라시럽", SyrupAmount: "많이", Size: "톨"}

	tests := []struct {
		name string
		ext  *TurnExtraction
		want domain.OrderSlots
	}{
		{
			name: "empty turn keeps everything",
			ext:  &TurnExtraction{},
			want: prior,
		},
		{
			name: "set slots overwrite",
			ext:  &TurnExtraction{Order: domain.OrderSlots{Menu: "라떼", Temperature: "핫"}},
			want: domain.OrderSlots{Menu: "라떼", Temperature: "핫", Syrup: "바닐라시럽", SyrupAmount: "많이", Size: "톨"},
		},
		{
			name: "cancel clears option and amount",
			ext:  &TurnExtraction{Cancels: []domain.Slot{domain.SlotSyrup}},
			want: domain.OrderSlots{Menu: "아메리카노", Size: "톨"},
		},
		{
			name: "cancel wins over a value set in the same turn",
			ext: &TurnExtraction{
				Order:   domain.OrderSlots{Syrup: "카라멜시럽"},
				Cancels: []domain.Slot{domain.SlotSyrup},
			},
			want: domain.OrderSlots{Menu: "아메리카노", Size: "톨"},
		},
		{
			name: "cancel menu leaves options",
			ext:  &TurnExtraction{Cancels: []domain.Slot{domain.SlotMenu}},
			want: domain.OrderSlots{Syrup: "바닐라시럽", SyrupAmount: "많이", Size: "톨"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(prior, tt.ext)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("house defaults", func(t *testing.T) {
		acc := NewOrderAccumulator(NewKeywordMatcher(MatchConfig{}, nil), AccumulatorConfig{}, nil)
		got := acc.Resolve(domain.OrderSlots{Menu: "라떼", Powder: "초코파우더", SyrupAmount: "많이"})
		want := domain.OrderSlots{
			Menu: "라떼", Temperature: "아이스", Size: "벤티", CaffeineLevel: "15%", Quantity: "1개",
			Powder: "초코파우더", PowderAmount: "보통",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("configured defaults", func(t *testing.T) {
		defaults := Defaults{Temperature: "핫", Size: "톨", CaffeineLevel: "10%", Quantity: "2개", Amount: "적게"}
		acc := NewOrderAccumulator(NewKeywordMatcher(MatchConfig{}, nil), AccumulatorConfig{Defaults: defaults}, nil)
		got := acc.Resolve(domain.OrderSlots{Menu: "라떼", Milk: "두유", Size: "벤티"})
		want := domain.OrderSlots{
			Menu: "라떼", Temperature: "핫", Size: "벤티", CaffeineLevel: "10%", Quantity: "2개",
			Milk: "두유", MilkAmount: "적게",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestCheckStock(t *testing.T) {
	dict := buildDictionary(t, map[domain.Category][]domain.KeywordEntry{
		domain.CategoryMenu: {
			{Name: "아메리카노"},
			{Name: "시즌메뉴", Stock: domain.LimitedStock(5), SaleStatus: "판매중지"},
		},
		domain.CategoryTopping: {
			{Name: "쿠키", Stock: domain.LimitedStock(0)},
			{Name: "오레오", Stock: domain.LimitedStock(2)},
		},
	})

	tests := []struct {
		name       string
		order      domain.OrderSlots
		wantSlot   domain.Slot
		wantReason string
	}{
		{"available", domain.OrderSlots{Menu: "아메리카노", Topping: "오레오"}, 0, ""},
		{"sale stopped", domain.OrderSlots{Menu: "시즌메뉴"}, domain.SlotMenu, "sale stopped"},
		{"option out of stock", domain.OrderSlots{Menu: "아메리카노", Topping: "쿠키"}, domain.SlotTopping, "out of stock"},
		{"first failing slot wins", domain.OrderSlots{Menu: "시즌메뉴", Topping: "쿠키"}, domain.SlotMenu, "sale stopped"},
		{"unknown value is ignored", domain.OrderSlots{Menu: "없는메뉴"}, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckStock(tt.order, dict)
			if tt.wantReason == "" {
				if err != nil {
					t.Errorf("CheckStock() error = %v, want nil", err)
				}
				return
			}
			var stockErr *domain.StockExhaustedError
			if !errors.As(err, &stockErr) {
				t.Fatalf("error = %v, want StockExhaustedError", err)
			}
			if stockErr.Slot != tt.wantSlot || stockErr.Reason != tt.wantReason {
				t.Errorf("got slot %v reason %q, want %v %q", stockErr.Slot, stockErr.Reason, tt.wantSlot, tt.wantReason)
			}
		})
	}
}

func BenchmarkProcessTurn_RepeatedPhrase(b *testing.B) {
	dict := loadDictionary(b)
	acc := NewOrderAccumulator(NewKeywordMatcher(MatchConfig{}, nil), AccumulatorConfig{}, nil)
	utterance := "아이스 " + strings.Repeat("바닐라 라떼 ", 30)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := acc.ProcessTurn(ctx, domain.OrderSlots{}, utterance, dict); err != nil {
			b.Fatal(err)
		}
	}
}
