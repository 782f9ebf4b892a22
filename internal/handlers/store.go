package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/smartwave/internal/middleware"
	"github.com/example/smartwave/internal/models"
	"github.com/example/smartwave/internal/services"
	"github.com/example/smartwave/internal/store"
)

// StoreHandler manages the cart, wishlist and checkout endpoints. Cart,
// wishlist and order history live in one preferences row per user and
// are written column-at-a-time, last writer wins.
type StoreHandler struct {
	db     *gorm.DB
	notify *services.NotificationService
}

// NewStoreHandler constructs StoreHandler.
func NewStoreHandler(db *gorm.DB, notify *services.NotificationService) *StoreHandler {
	return &StoreHandler{db: db, notify: notify}
}

func (h *StoreHandler) loadPreferences(email string) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := h.db.Where("user_email = ?", email).First(&prefs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		prefs = models.UserPreferences{UserEmail: email}
		if err := h.db.Create(&prefs).Error; err != nil {
			return nil, err
		}
		return &prefs, nil
	}
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (h *StoreHandler) saveColumn(email, column string, value interface{}) error {
	return h.db.Model(&models.UserPreferences{}).
		Where("user_email = ?", email).
		Update(column, value).Error
}

// GetPreferences returns the user's wishlist, cart and order history.
func (h *StoreHandler) GetPreferences(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	prefs, err := h.loadPreferences(claims.Email)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"wishlist": prefs.Wishlist,
			"cart":     prefs.Cart,
			"orders":   prefs.Orders,
		},
	})
}

type cartItemRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Price     float64 `json:"price" validate:"required,gt=0"`
	Type      string  `json:"type"`
	Quantity  int     `json:"quantity"`
	Color     string  `json:"color"`
	Image     string  `json:"image"`
}

func (r cartItemRequest) item() models.CartItem {
	return models.CartItem{
		ProductID: r.ProductID,
		Name:      r.Name,
		Price:     r.Price,
		Type:      r.Type,
		Quantity:  r.Quantity,
		Color:     r.Color,
		Image:     r.Image,
	}
}

// AddToCart merges an item into the cart.
func (h *StoreHandler) AddToCart(c *fiber.Ctx) error {
	return h.addItem(c, "cart")
}

// AddToWishlist merges an item into the wishlist.
func (h *StoreHandler) AddToWishlist(c *fiber.Ctx) error {
	return h.addItem(c, "wishlist")
}

func (h *StoreHandler) addItem(c *fiber.Ctx, column string) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req cartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid item")
	}

	prefs, err := h.loadPreferences(claims.Email)
	if err != nil {
		return err
	}

	items := prefs.Cart
	if column == "wishlist" {
		items = prefs.Wishlist
	}
	next := store.AddItem(items, req.item())

	if err := h.saveColumn(claims.Email, column, next); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": next})
}

// RemoveFromCart drops a product from the cart. Absent products are not
// an error.
func (h *StoreHandler) RemoveFromCart(c *fiber.Ctx) error {
	return h.removeItem(c, "cart")
}

// RemoveFromWishlist drops a product from the wishlist.
func (h *StoreHandler) RemoveFromWishlist(c *fiber.Ctx) error {
	return h.removeItem(c, "wishlist")
}

func (h *StoreHandler) removeItem(c *fiber.Ctx, column string) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	productID := c.Params("productId")
	if productID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing product id")
	}

	prefs, err := h.loadPreferences(claims.Email)
	if err != nil {
		return err
	}

	items := prefs.Cart
	if column == "wishlist" {
		items = prefs.Wishlist
	}
	next := store.RemoveItem(items, productID)

	if err := h.saveColumn(claims.Email, column, next); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": next})
}

type updateQuantityRequest struct {
	Index    int `json:"index"`
	Quantity int `json:"quantity"`
}

// UpdateCartQuantity overwrites one line's quantity. Quantities below 1
// are ignored.
func (h *StoreHandler) UpdateCartQuantity(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	prefs, err := h.loadPreferences(claims.Email)
	if err != nil {
		return err
	}

	next := store.UpdateQuantity(prefs.Cart, req.Index, req.Quantity)

	if err := h.saveColumn(claims.Email, "cart", next); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": next})
}

// MoveToCart transfers a wishlist item into the cart. The cart write
// happens first; the wishlist entry is only removed once the cart
// update is persisted, so a failed cart write never loses the item.
func (h *StoreHandler) MoveToCart(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	productID := c.Params("productId")
	color := c.Query("color")

	prefs, err := h.loadPreferences(claims.Email)
	if err != nil {
		return err
	}

	var found *models.CartItem
	for i := range prefs.Wishlist {
		it := prefs.Wishlist[i]
		if it.ProductID == productID && (color == "" || it.Color == color) {
			found = &it
			break
		}
	}
	if found == nil {
		return fiber.NewError(fiber.StatusNotFound, "wishlist item not found")
	}

	newWishlist, newCart := store.MoveWishlistItemToCart(prefs.Wishlist, prefs.Cart, *found)

	if err := h.saveColumn(claims.Email, "cart", newCart); err != nil {
		return err
	}
	if err := h.saveColumn(claims.Email, "wishlist", newWishlist); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"cart":     newCart,
		"wishlist": newWishlist,
	}})
}

type checkoutRequest struct {
	ShippingAddress json.RawMessage `json:"shippingAddress"`
}

// Checkout turns the cart into a pending order. The order append and
// the cart clear go out as one UPDATE so the two cannot interleave with
// each other.
func (h *StoreHandler) Checkout(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentClaims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req checkoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}

	prefs, err := h.loadPreferences(claims.Email)
	if err != nil {
		return err
	}

	order, err := store.Checkout(prefs.Cart, req.ShippingAddress)
	if err != nil {
		if errors.Is(err, store.ErrEmptyCart) {
			return fiber.NewError(fiber.StatusBadRequest, "cart is empty")
		}
		return err
	}

	if err := h.db.Model(&models.UserPreferences{}).
		Where("user_email = ?", claims.Email).
		Updates(map[string]interface{}{
			"orders": append(prefs.Orders, order),
			"cart":   []models.CartItem{},
		}).Error; err != nil {
		return err
	}

	go h.notify.NotifyOrderPlaced(claims.Email, order)
	log.Printf("[Store] order %s placed by %s, total %.2f", order.ID, claims.Email, order.Total)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}
