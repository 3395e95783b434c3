package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/splittab/splittab/internal/middleware"
	"github.com/splittab/splittab/internal/payment"
	"github.com/splittab/splittab/internal/service"
)

// CustomerHandler bundles the customer-facing endpoints: groups, the
// join-by-code attach flow, bill display with shares, item splitting and
// saved cards.
type CustomerHandler struct {
	groups *service.GroupService
	bills  *service.BillService
	linker *service.Linker
	splits *service.SplitService
	cards  *payment.Provider
}

func NewCustomerHandler(
	groups *service.GroupService,
	bills *service.BillService,
	linker *service.Linker,
	splits *service.SplitService,
	cards *payment.Provider,
) *CustomerHandler {
	return &CustomerHandler{groups: groups, bills: bills, linker: linker, splits: splits, cards: cards}
}

// ----- groups -----

type createGroupReq struct {
	Name string `json:"name"`
}

func (h *CustomerHandler) CreateGroup(c echo.Context) error {
	var req createGroupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	group, err := h.groups.Create(c.Request().Context(), middleware.UserID(c), req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toGroupResp(group))
}

func (h *CustomerHandler) ListGroups(c echo.Context) error {
	groups, err := h.groups.ListUserGroups(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	resp := make([]groupResp, len(groups))
	for i, group := range groups {
		resp[i] = toGroupResp(group)
	}
	return c.JSON(http.StatusOK, echo.Map{"groups": resp})
}

type joinGroupReq struct {
	Code string `json:"code"`
}

func (h *CustomerHandler) JoinGroup(c echo.Context) error {
	var req joinGroupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	group, err := h.groups.Join(c.Request().Context(), req.Code, middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toGroupResp(group))
}

func (h *CustomerHandler) LeaveGroup(c echo.Context) error {
	group, deleted, err := h.groups.Leave(c.Request().Context(), c.Param("groupID"), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	if deleted {
		return c.JSON(http.StatusOK, echo.Map{"deleted": true})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": false, "group": toGroupResp(group)})
}

type memberResp struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// GroupDetail returns the group, its resolved member roster and the active
// bill if one is attached. Only members may look.
func (h *CustomerHandler) GroupDetail(c echo.Context) error {
	ctx := c.Request().Context()
	callerID := middleware.UserID(c)

	group, err := h.groups.Get(ctx, c.Param("groupID"))
	if err != nil {
		return fail(c, err)
	}
	if !group.HasMember(callerID) {
		return fail(c, service.ErrNotMember)
	}

	members, err := h.groups.Members(ctx, group)
	if err != nil {
		return fail(c, err)
	}
	memberViews := make([]memberResp, len(members))
	for i, m := range members {
		memberViews[i] = memberResp{ID: m.ID, Username: m.Username}
	}

	resp := echo.Map{
		"group":      toGroupResp(group),
		"members":    memberViews,
		"is_creator": callerID == group.CreatorID,
	}

	// A dangling pointer (bill deleted, detach pending) reads as no bill.
	bill, err := h.bills.ResolveActiveBill(ctx, group)
	if err != nil {
		return fail(c, err)
	}
	if bill != nil {
		resp["active_bill"] = toBillResp(bill)
	}
	return c.JSON(http.StatusOK, resp)
}

// ----- attach by code -----

type attachByCodeReq struct {
	SessionCode string `json:"session_code"`
}

func (h *CustomerHandler) AttachBill(c echo.Context) error {
	var req attachByCodeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	bill, group, err := h.linker.AttachByCode(ctx, req.SessionCode, c.Param("groupID"), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}

	// First customer interaction activates a pending bill; that policy
	// lives here, not in the splitting core.
	if err := h.bills.MarkActive(ctx, bill.ID); err != nil {
		return fail(c, err)
	}
	bill, err = h.bills.Get(ctx, bill.ID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"bill": toBillResp(bill), "group": toGroupResp(group)})
}

// ----- bill display & splitting -----

type shareResp struct {
	UserID string  `json:"user_id"`
	Total  float64 `json:"total"`
}

// GroupBill returns the group's active bill with per-member equal-split
// shares, the view the splitting screen renders.
func (h *CustomerHandler) GroupBill(c echo.Context) error {
	ctx := c.Request().Context()
	callerID := middleware.UserID(c)

	group, err := h.groups.Get(ctx, c.Param("groupID"))
	if err != nil {
		return fail(c, err)
	}
	if !group.HasMember(callerID) {
		return fail(c, service.ErrNotMember)
	}

	bill, err := h.bills.ResolveActiveBill(ctx, group)
	if err != nil {
		return fail(c, err)
	}
	if bill == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no active bill for this group"})
	}

	shares, unassigned := h.splits.Shares(bill)
	shareViews := make([]shareResp, 0, len(shares))
	for _, id := range group.Members {
		if share, ok := shares[id]; ok {
			shareViews = append(shareViews, shareResp{UserID: id, Total: share.Total})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"bill":       toBillResp(bill),
		"group":      toGroupResp(group),
		"shares":     shareViews,
		"unassigned": unassigned,
	})
}

// ShowSplit returns one item's assignees and the group roster.
func (h *CustomerHandler) ShowSplit(c echo.Context) error {
	group, err := h.groups.Get(c.Request().Context(), c.Param("groupID"))
	if err != nil {
		return fail(c, err)
	}

	view, err := h.splits.ShowSplit(c.Request().Context(),
		middleware.UserID(c), group.ID, group.ActiveBillID, c.Param("itemID"))
	if err != nil {
		return fail(c, err)
	}

	members := make([]memberResp, len(view.Members))
	for i, m := range view.Members {
		members[i] = memberResp{ID: m.ID, Username: m.Username}
	}
	assigned := make([]memberResp, len(view.Assigned))
	for i, m := range view.Assigned {
		assigned[i] = memberResp{ID: m.ID, Username: m.Username}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"item":     toItemResp(view.Item),
		"members":  members,
		"assigned": assigned,
	})
}

type assignReq struct {
	UserIDs []string `json:"user_ids"`
}

// AssignSplit replaces an item's assignee set with the submitted members.
func (h *CustomerHandler) AssignSplit(c echo.Context) error {
	var req assignReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	group, err := h.groups.Get(ctx, c.Param("groupID"))
	if err != nil {
		return fail(c, err)
	}

	bill, err := h.splits.Assign(ctx,
		middleware.UserID(c), group.ID, group.ActiveBillID, c.Param("itemID"), req.UserIDs)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toBillResp(bill))
}

// ----- saved cards -----

type registerCardReq struct {
	Number         string `json:"number"`
	CVC            string `json:"cvc"`
	Expiry         string `json:"expiry"`
	CardholderName string `json:"cardholder_name"`
	Nickname       string `json:"nickname"`
}

func (h *CustomerHandler) RegisterCard(c echo.Context) error {
	var req registerCardReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	card, err := h.cards.Register(c.Request().Context(), middleware.UserID(c), payment.CardInput{
		Number:         req.Number,
		CVC:            req.CVC,
		Expiry:         req.Expiry,
		CardholderName: req.CardholderName,
		Nickname:       req.Nickname,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toCardResp(card))
}

func (h *CustomerHandler) ListCards(c echo.Context) error {
	cards, err := h.cards.List(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	resp := make([]cardResp, len(cards))
	for i, card := range cards {
		resp[i] = toCardResp(card)
	}
	return c.JSON(http.StatusOK, echo.Map{"cards": resp})
}

func (h *CustomerHandler) RemoveCard(c echo.Context) error {
	if err := h.cards.Remove(c.Request().Context(), middleware.UserID(c), c.Param("token")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
