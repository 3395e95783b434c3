package handler

import "github.com/splittab/splittab/internal/models"

// JSON view models. The services return domain records; these shapes are
// what goes on the wire.

type itemResp struct {
	ID         string   `json:"id"`
	MenuItemID string   `json:"menu_item_id"`
	Name       string   `json:"name"`
	Price      float64  `json:"price"`
	Quantity   int      `json:"quantity"`
	Amount     float64  `json:"amount"`
	AssignedTo []string `json:"assigned_to"`
	SplitType  string   `json:"split_type"`
}

type billResp struct {
	ID          string     `json:"id"`
	VendorID    string     `json:"vendor_id"`
	TableNumber string     `json:"table_number"`
	Contents    []itemResp `json:"contents"`
	Subtotal    float64    `json:"subtotal"`
	Status      string     `json:"status"`
	SessionCode string     `json:"session_code"`
	CreatedAt   int64      `json:"created_at"`
}

type groupResp struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	CreatorID    string   `json:"creator_id"`
	Members      []string `json:"members"`
	ActiveBillID string   `json:"active_bill_id,omitempty"`
	Code         string   `json:"code"`
	Active       bool     `json:"active"`
	CreatedAt    int64    `json:"created_at"`
}

type menuItemResp struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
	Available   bool    `json:"available"`
}

type cardResp struct {
	Token          string `json:"token"`
	Nickname       string `json:"nickname,omitempty"`
	LastFour       string `json:"last_four"`
	Expiry         string `json:"expiry"`
	CardholderName string `json:"cardholder_name"`
}

func toItemResp(item *models.OrderItem) itemResp {
	assigned := item.AssignedTo
	if assigned == nil {
		assigned = []string{}
	}
	return itemResp{
		ID:         item.ID,
		MenuItemID: item.MenuItemID,
		Name:       item.Name,
		Price:      item.Price,
		Quantity:   item.Quantity,
		Amount:     item.Amount(),
		AssignedTo: assigned,
		SplitType:  item.SplitType,
	}
}

func toBillResp(bill *models.Bill) billResp {
	contents := make([]itemResp, len(bill.Contents))
	for i := range bill.Contents {
		contents[i] = toItemResp(&bill.Contents[i])
	}
	return billResp{
		ID:          bill.ID,
		VendorID:    bill.VendorID,
		TableNumber: bill.TableNumber,
		Contents:    contents,
		Subtotal:    bill.Subtotal,
		Status:      bill.Status,
		SessionCode: bill.SessionCode,
		CreatedAt:   bill.CreatedAt,
	}
}

func toGroupResp(group *models.Group) groupResp {
	return groupResp{
		ID:           group.ID,
		Name:         group.Name,
		CreatorID:    group.CreatorID,
		Members:      group.Members,
		ActiveBillID: group.ActiveBillID,
		Code:         group.Code,
		Active:       group.Active,
		CreatedAt:    group.CreatedAt,
	}
}

func toMenuItemResp(item *models.MenuItem) menuItemResp {
	return menuItemResp{
		ID:          item.ID,
		Name:        item.Name,
		Price:       item.Price,
		Description: item.Description,
		Category:    item.Category,
		Available:   item.Available,
	}
}

func toCardResp(card *models.Card) cardResp {
	return cardResp{
		Token:          card.Token,
		Nickname:       card.Nickname,
		LastFour:       card.LastFour,
		Expiry:         card.Expiry,
		CardholderName: card.CardholderName,
	}
}
