package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/splittab/splittab/internal/middleware"
	"github.com/splittab/splittab/internal/models"
	"github.com/splittab/splittab/internal/service"
)

// VendorHandler bundles the vendor-facing endpoints: menu management,
// bill lifecycle and the vendor-initiated linker operations.
type VendorHandler struct {
	menu   *service.MenuService
	bills  *service.BillService
	linker *service.Linker
}

func NewVendorHandler(menu *service.MenuService, bills *service.BillService, linker *service.Linker) *VendorHandler {
	return &VendorHandler{menu: menu, bills: bills, linker: linker}
}

// ----- menu -----

type menuItemReq struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Available   *bool   `json:"available"`
}

func (h *VendorHandler) CreateMenuItem(c echo.Context) error {
	var req menuItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	item, err := h.menu.Create(c.Request().Context(), middleware.UserID(c),
		req.Name, req.Price, req.Description, req.Category)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toMenuItemResp(item))
}

func (h *VendorHandler) ListMenu(c echo.Context) error {
	items, err := h.menu.List(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	resp := make([]menuItemResp, len(items))
	for i, item := range items {
		resp[i] = toMenuItemResp(item)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": resp})
}

func (h *VendorHandler) UpdateMenuItem(c echo.Context) error {
	var req menuItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	item := &models.MenuItem{
		ID:          c.Param("itemID"),
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		Available:   req.Available == nil || *req.Available,
	}
	updated, err := h.menu.Update(c.Request().Context(), middleware.UserID(c), item)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toMenuItemResp(updated))
}

func (h *VendorHandler) DeleteMenuItem(c echo.Context) error {
	if err := h.menu.Delete(c.Request().Context(), middleware.UserID(c), c.Param("itemID")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- bills -----

type createBillReq struct {
	TableNumber string `json:"table_number"`
}

func (h *VendorHandler) CreateBill(c echo.Context) error {
	var req createBillReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	bill, err := h.bills.Create(c.Request().Context(), middleware.UserID(c), req.TableNumber)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toBillResp(bill))
}

// ListBills returns the vendor's open bills plus the menu count, which is
// what the dashboard renders.
func (h *VendorHandler) ListBills(c echo.Context) error {
	ctx := c.Request().Context()
	vendorID := middleware.UserID(c)

	bills, err := h.bills.ListVendorBills(ctx, vendorID, models.BillPending, models.BillActive)
	if err != nil {
		return fail(c, err)
	}
	menuCount, err := h.menu.Count(ctx, vendorID)
	if err != nil {
		return fail(c, err)
	}

	resp := make([]billResp, len(bills))
	for i, bill := range bills {
		resp[i] = toBillResp(bill)
	}
	return c.JSON(http.StatusOK, echo.Map{"bills": resp, "menu_items_count": menuCount})
}

func (h *VendorHandler) GetBill(c echo.Context) error {
	bill, err := h.bills.Get(c.Request().Context(), c.Param("billID"))
	if err != nil {
		return fail(c, err)
	}
	if bill.VendorID != middleware.UserID(c) {
		return fail(c, service.ErrForbidden)
	}
	return c.JSON(http.StatusOK, toBillResp(bill))
}

type addItemReq struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

func (h *VendorHandler) AddBillItem(c echo.Context) error {
	var req addItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	bill, err := h.bills.AddItem(c.Request().Context(),
		c.Param("billID"), middleware.UserID(c), req.MenuItemID, req.Quantity)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toBillResp(bill))
}

func (h *VendorHandler) RemoveBillItem(c echo.Context) error {
	bill, err := h.bills.RemoveItem(c.Request().Context(),
		c.Param("billID"), middleware.UserID(c), c.Param("itemID"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toBillResp(bill))
}

func (h *VendorHandler) DeleteBill(c echo.Context) error {
	if err := h.bills.Delete(c.Request().Context(), c.Param("billID"), middleware.UserID(c)); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- linker -----

type attachReq struct {
	GroupID       string `json:"group_id"`
	AllowReattach *bool  `json:"allow_reattach"`
}

func (h *VendorHandler) AttachGroup(c echo.Context) error {
	var req attachReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	allowReattach := req.AllowReattach == nil || *req.AllowReattach
	bill, group, err := h.linker.Attach(c.Request().Context(),
		middleware.UserID(c), c.Param("billID"), req.GroupID, allowReattach)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bill": toBillResp(bill), "group": toGroupResp(group)})
}

type moveReq struct {
	GroupID  string `json:"group_id"`
	ToBillID string `json:"to_bill_id"`
}

func (h *VendorHandler) MoveGroup(c echo.Context) error {
	var req moveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	bill, group, err := h.linker.Move(c.Request().Context(),
		middleware.UserID(c), c.Param("billID"), req.ToBillID, req.GroupID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bill": toBillResp(bill), "group": toGroupResp(group)})
}

func (h *VendorHandler) DetachGroups(c echo.Context) error {
	n, err := h.linker.DetachAll(c.Request().Context(), middleware.UserID(c), c.Param("billID"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"detached": n})
}

func (h *VendorHandler) AttachedGroup(c echo.Context) error {
	bill, err := h.bills.Get(c.Request().Context(), c.Param("billID"))
	if err != nil {
		return fail(c, err)
	}
	if bill.VendorID != middleware.UserID(c) {
		return fail(c, service.ErrForbidden)
	}

	group, err := h.linker.AttachedGroup(c.Request().Context(), bill.ID)
	if err != nil {
		return fail(c, err)
	}
	if group == nil {
		return c.JSON(http.StatusOK, echo.Map{"group": nil})
	}
	return c.JSON(http.StatusOK, echo.Map{"group": toGroupResp(group)})
}

func (h *VendorHandler) ListGroups(c echo.Context) error {
	groups, err := h.linker.ListVendorGroups(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	resp := make([]groupResp, len(groups))
	for i, group := range groups {
		resp[i] = toGroupResp(group)
	}
	return c.JSON(http.StatusOK, echo.Map{"groups": resp})
}
