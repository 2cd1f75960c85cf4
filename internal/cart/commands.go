package cart

import (
	"github.com/exactmatch/storefront/internal/catalog"
	"github.com/shopspring/decimal"
)

// Item is one line in the cart. Name, brand, price and the spec descriptor
// are snapshots taken when the line is created; re-adding the same product
// only moves quantity.
type Item struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Brand         string          `json:"brand"`
	UnitPrice     decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	Specs         string          `json:"specs"`
	Slug          string          `json:"slug,omitempty"`
	Image         string          `json:"image,omitempty"`
	StockQuantity int             `json:"stock_quantity"`
}

// State is the full cart contents in display order.
type State struct {
	Items []Item `json:"items"`
}

// Count sums line quantities. Always derived, never cached.
func (s State) Count() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// Total sums unit price times quantity across all lines.
func (s State) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (s State) find(id int) (int, bool) {
	for i, item := range s.Items {
		if item.ID == id {
			return i, true
		}
	}
	return -1, false
}

// The closed command set the store applies. Keeping transitions pure makes
// every reachable cart state testable without a store or storage backend.
type command interface {
	isCommand()
}

type addItem struct {
	Battery  catalog.Battery
	Quantity int
}

type removeItem struct {
	ID int
}

type setQuantity struct {
	ID       int
	Quantity int
}

type clearCart struct{}

type loadState struct {
	State State
}

func (addItem) isCommand()     {}
func (removeItem) isCommand()  {}
func (setQuantity) isCommand() {}
func (clearCart) isCommand()   {}
func (loadState) isCommand()   {}

// apply is the single transition function. It never mutates its input.
func apply(state State, cmd command) State {
	switch c := cmd.(type) {
	case addItem:
		if i, ok := state.find(c.Battery.ID); ok {
			items := cloneItems(state.Items)
			items[i].Quantity += c.Quantity
			return State{Items: items}
		}
		items := cloneItems(state.Items)
		items = append(items, Item{
			ID:            c.Battery.ID,
			Name:          c.Battery.Name,
			Brand:         c.Battery.Brand.Name,
			UnitPrice:     c.Battery.Price,
			Quantity:      c.Quantity,
			Specs:         c.Battery.Specs(),
			Slug:          c.Battery.Slug,
			Image:         c.Battery.PrimaryImage,
			StockQuantity: c.Battery.StockQuantity,
		})
		return State{Items: items}

	case removeItem:
		return State{Items: deleteItem(state.Items, c.ID)}

	case setQuantity:
		if c.Quantity <= 0 {
			return State{Items: deleteItem(state.Items, c.ID)}
		}
		if i, ok := state.find(c.ID); ok {
			items := cloneItems(state.Items)
			items[i].Quantity = c.Quantity
			return State{Items: items}
		}
		return state

	case clearCart:
		return State{Items: []Item{}}

	case loadState:
		items := c.State.Items
		if items == nil {
			items = []Item{}
		}
		return State{Items: cloneItems(items)}

	default:
		return state
	}
}

func cloneItems(items []Item) []Item {
	cloned := make([]Item, len(items))
	copy(cloned, items)
	return cloned
}

func deleteItem(items []Item, id int) []Item {
	remaining := make([]Item, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			remaining = append(remaining, item)
		}
	}
	return remaining
}
